// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

// Package assets holds the small embedded fallback asset the renderer
// reaches for when a document's own bytes aren't usable: a
// placeholder image for an IMAGE paint whose hash isn't present in
// the archive's image table. It is the only asset in the set. The
// CLI's "serve" command exposes it over HTTP. It follows the same hand-populated Asset/AssetInfo/AssetDir
// API github.com/elazarl/go-bindata-assetfs expects from generated
// bindata, but here it's authored directly rather than generated,
// since the asset set is fixed and small.
package assets

import (
	"fmt"
	"os"
	"sort"
	"time"
)

var files = map[string][]byte{
	"placeholder.png": placeholderPNG,
}

// placeholderPNG is a minimal valid 1x1 transparent PNG, used as the
// image-fill substitute when includeImages is set but the paint's
// hash isn't found in the archive's image table (§4.5's "Paint
// resolution" degrades a missing image to a neutral fill; this is the
// richer variant that also looks like an image rather than a flat
// gray rectangle).
var placeholderPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
	0x89, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9C, 0x63, 0x60, 0x00, 0x02, 0x00,
	0x00, 0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4,
	0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44,
	0xAE, 0x42, 0x60, 0x82,
}

// fileInfo is the minimal os.FileInfo AssetInfo needs to hand back;
// embedded assets are fixed at build time, so ModTime is a constant
// rather than the real file's mtime.
type fileInfo struct {
	name string
	size int64
}

func (f fileInfo) Name() string       { return f.name }
func (f fileInfo) Size() int64        { return f.size }
func (f fileInfo) Mode() os.FileMode  { return 0o444 }
func (f fileInfo) ModTime() time.Time { return time.Unix(0, 0) }
func (f fileInfo) IsDir() bool        { return false }
func (f fileInfo) Sys() any           { return nil }

// Asset returns the named embedded asset's bytes, satisfying the
// signature assetfs.AssetFS expects.
func Asset(name string) ([]byte, error) {
	b, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("assets: %q not found", name)
	}
	return b, nil
}

// AssetInfo returns a synthetic os.FileInfo for the named asset.
func AssetInfo(name string) (os.FileInfo, error) {
	b, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("assets: %q not found", name)
	}
	return fileInfo{name: name, size: int64(len(b))}, nil
}

// AssetNames returns every embedded asset's name, sorted.
func AssetNames() []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AssetDir lists the embedded assets directly under dir; this asset
// set is flat, so only "" (the root) resolves to anything.
func AssetDir(dir string) ([]string, error) {
	if dir != "" {
		return nil, fmt.Errorf("assets: no such directory %q", dir)
	}
	return AssetNames(), nil
}

// Placeholder returns the fallback image-fill PNG (§4.5).
func Placeholder() []byte {
	return placeholderPNG
}
