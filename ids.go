// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import (
	"fmt"
	"strconv"
	"strings"
)

// Id is a node identifier, unique across the whole document. It keys
// every lookup (§3, §6).
type Id struct {
	Session uint32
	Local   uint32
}

// String renders the canonical "session:local" form.
func (id Id) String() string {
	return fmt.Sprintf("%d:%d", id.Session, id.Local)
}

// IsZero reports whether id is the zero value, used to detect an
// absent/unset id field in a decoded record.
func (id Id) IsZero() bool {
	return id.Session == 0 && id.Local == 0
}

// ParseId parses either the canonical "session:local" form or the
// alternate "session-local" form accepted on input (§3, §6).
func ParseId(s string) (Id, error) {
	sep := ":"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	parts := strings.SplitN(s, sep, 2)
	if len(parts) != 2 {
		return Id{}, fmt.Errorf("fig: malformed id %q", s)
	}
	session, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return Id{}, fmt.Errorf("fig: malformed id %q: %w", s, err)
	}
	local, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return Id{}, fmt.Errorf("fig: malformed id %q: %w", s, err)
	}
	return Id{Session: uint32(session), Local: uint32(local)}, nil
}
