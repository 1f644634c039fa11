// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fatal half of the error taxonomy. C1-C3
// surface these to the caller; C4-C5 never return them, they only
// collect warnings (see warnings.go).
var (
	// ErrNotArchive is returned when the end-of-central-directory
	// marker cannot be located, or a central-directory entry signature
	// is invalid.
	ErrNotArchive = errors.New("fig: not an archive, no end-of-central-directory marker found")

	// ErrMissingEntry is returned when a required archive entry
	// (canvas.fig) is absent.
	ErrMissingEntry = errors.New("fig: required archive entry missing")

	// ErrBadMagic is returned when the inner document is missing the
	// "fig-kiwi" header.
	ErrBadMagic = errors.New("fig: inner document missing fig-kiwi magic")

	// ErrUnsupportedCompression is returned when an entry or chunk
	// declares a compression method that is neither stored, deflate,
	// nor zstd.
	ErrUnsupportedCompression = errors.New("fig: unsupported compression method")

	// ErrSchemaMismatch is returned when the compiled schema has no
	// decoder for the claimed root message, or a field's declared type
	// index is out of range.
	ErrSchemaMismatch = errors.New("fig: schema mismatch")

	// ErrNotFound is returned by id, path, and image-hash lookups that
	// fail to resolve.
	ErrNotFound = errors.New("fig: not found")

	// ErrUnknownOption is returned when RenderOptions construction is
	// given a key it does not recognize; unlike the warnings collected
	// during rendering, this is treated as a programmer error.
	ErrUnknownOption = errors.New("fig: unknown render option")
)

// CorruptError reports a Corrupt condition (truncated input, cursor
// overrun, an impossible length prefix, or a numeric overflow in a
// declared size) together with the byte offset at which the cursor
// detected it, mirroring the offset-bearing errors the teacher's
// boundary checks produce (see helper.go's ErrOutsideBoundary call
// sites throughout the binary-cursor decoders).
type CorruptError struct {
	Offset int
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("fig: corrupt input at offset %d: %s", e.Offset, e.Reason)
}

// Is reports whether target is the generic corruption sentinel, so
// callers can do errors.Is(err, ErrCorrupt) without caring about the
// offset.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}

// ErrCorrupt is the generic sentinel matched by CorruptError.Is; it is
// never returned directly, only wrapped inside a *CorruptError.
var ErrCorrupt = errors.New("fig: corrupt")

func corruptf(offset int, format string, args ...any) error {
	return &CorruptError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
