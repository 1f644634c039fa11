// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package assets

import (
	"net/http"

	assetfs "github.com/elazarl/go-bindata-assetfs"
)

// FileSystem exposes the embedded assets as an http.FileSystem, served
// by the "figdump serve" debug asset server. This is
// the one direct use of github.com/elazarl/go-bindata-assetfs: its
// AssetFS wraps any Asset/AssetInfo/AssetDir triple, generated or
// hand-authored, into http.FileSystem.
func FileSystem() http.FileSystem {
	return &assetfs.AssetFS{
		Asset:    Asset,
		AssetDir: AssetDir,
		AssetInfo: AssetInfo,
		Prefix:   "",
	}
}
