// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import (
	"encoding/binary"
	"testing"
)

// zipEntryInput is one file to pack into a hand-built, stored-only
// (uncompressed) zip container, the way archive_test builds fixtures
// without pulling in archive/zip.
type zipEntryInput struct {
	name string
	data []byte
}

func le16(v uint16) []byte { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); return b }
func le32(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }

// buildZip assembles a minimal, stored-method-only zip: a local header
// plus raw bytes per entry, followed by the central directory and an
// EoCD record. OpenBytes trusts only the central directory (§4.1),
// so the local headers here only need valid name/extra lengths.
func buildZip(entries []zipEntryInput) []byte {
	var body []byte
	localOffsets := make([]int, len(entries))

	for i, e := range entries {
		localOffsets[i] = len(body)
		body = append(body, le32(localHeaderSignature)...)
		body = append(body, le16(20)...) // version needed
		body = append(body, le16(0)...)  // flags
		body = append(body, le16(compressionStored)...)
		body = append(body, le16(0)...) // mod time
		body = append(body, le16(0)...) // mod date
		body = append(body, le32(0)...) // crc32
		body = append(body, le32(uint32(len(e.data)))...)
		body = append(body, le32(uint32(len(e.data)))...)
		body = append(body, le16(uint16(len(e.name)))...)
		body = append(body, le16(0)...) // extra len
		body = append(body, []byte(e.name)...)
		body = append(body, e.data...)
	}

	cdStart := len(body)
	var cd []byte
	for i, e := range entries {
		cd = append(cd, le32(centralDirSignature)...)
		cd = append(cd, le16(20)...) // version made by
		cd = append(cd, le16(20)...) // version needed
		cd = append(cd, le16(0)...)  // flags
		cd = append(cd, le16(compressionStored)...)
		cd = append(cd, le16(0)...) // mod time
		cd = append(cd, le16(0)...) // mod date
		cd = append(cd, le32(0)...) // crc32
		cd = append(cd, le32(uint32(len(e.data)))...)
		cd = append(cd, le32(uint32(len(e.data)))...)
		cd = append(cd, le16(uint16(len(e.name)))...)
		cd = append(cd, le16(0)...) // extra len
		cd = append(cd, le16(0)...) // comment len
		cd = append(cd, le16(0)...) // disk number start
		cd = append(cd, le16(0)...) // internal attrs
		cd = append(cd, le32(0)...) // external attrs
		cd = append(cd, le32(uint32(localOffsets[i]))...)
		cd = append(cd, []byte(e.name)...)
	}
	cdSize := len(cd)

	out := append(body, cd...)
	out = append(out, le32(eocdSignature)...)
	out = append(out, le16(0)...) // disk number
	out = append(out, le16(0)...) // disk with cd
	out = append(out, le16(uint16(len(entries)))...)
	out = append(out, le16(uint16(len(entries)))...)
	out = append(out, le32(uint32(cdSize))...)
	out = append(out, le32(uint32(cdStart))...)
	out = append(out, le16(0)...) // comment len
	return out
}

func TestOpenBytesRequiresCanvas(t *testing.T) {
	data := buildZip([]zipEntryInput{{name: "meta.json", data: []byte(`{}`)}})
	if _, err := OpenBytes(data); err != ErrMissingEntry {
		t.Fatalf("OpenBytes without canvas.fig: got %v, want ErrMissingEntry", err)
	}
}

func TestOpenBytesReadsCanvasImagesThumbnailMeta(t *testing.T) {
	canvas := []byte("fig-kiwi-bytes")
	imageHash := "abcdef0123456789abcdef0123456789abcdef01"
	image := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	thumb := []byte{0xFF, 0xD8, 0xFF, 1, 2}
	meta := []byte(`{"name":"My Design"}`)

	data := buildZip([]zipEntryInput{
		{name: requiredCanvasEntry, data: canvas},
		{name: "images/" + imageHash + ".png", data: image},
		{name: optionalThumbnailEntry, data: thumb},
		{name: optionalMetaEntry, data: meta},
	})

	arc, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	if string(arc.Canvas) != string(canvas) {
		t.Fatalf("Canvas = %q, want %q", arc.Canvas, canvas)
	}
	if string(arc.Thumbnail) != string(thumb) {
		t.Fatalf("Thumbnail = %q, want %q", arc.Thumbnail, thumb)
	}
	got, ok := arc.Images[imageHash]
	if !ok {
		t.Fatalf("Images missing key %q; have keys %v", imageHash, keysOf(arc.Images))
	}
	if string(got) != string(image) {
		t.Fatalf("Images[%q] = %v, want %v", imageHash, got, image)
	}
	if arc.Metadata["name"] != "My Design" {
		t.Fatalf("Metadata[name] = %v, want %q", arc.Metadata["name"], "My Design")
	}
}

func TestOpenBytesMalformedMetaJSONWarnsAndProceeds(t *testing.T) {
	data := buildZip([]zipEntryInput{
		{name: requiredCanvasEntry, data: []byte("c")},
		{name: optionalMetaEntry, data: []byte("not json")},
	})

	arc, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	if len(arc.Metadata) != 0 {
		t.Fatalf("Metadata = %v, want empty map on malformed meta.json", arc.Metadata)
	}
	if len(arc.Warnings) == 0 {
		t.Fatal("expected a warning recorded for malformed meta.json")
	}
}

func TestListContents(t *testing.T) {
	data := buildZip([]zipEntryInput{
		{name: requiredCanvasEntry, data: []byte("c")},
		{name: optionalMetaEntry, data: []byte(`{}`)},
	})
	names, err := ListContents(data)
	if err != nil {
		t.Fatalf("ListContents: %v", err)
	}
	if len(names) != 2 || names[0] != requiredCanvasEntry || names[1] != optionalMetaEntry {
		t.Fatalf("ListContents = %v, want [canvas.fig meta.json]", names)
	}
}

func TestOpenBytesNotAnArchive(t *testing.T) {
	if _, err := OpenBytes([]byte("too short")); err != ErrNotArchive {
		t.Fatalf("OpenBytes(garbage): got %v, want ErrNotArchive", err)
	}
}

func TestImageHashFromEntryName(t *testing.T) {
	cases := map[string]string{
		"images/ABCDEF.png":    "ABCDEF",
		"images/deadbeef":      "deadbeef",
		"images/a.b.c.jpg":     "a.b.c",
		"nested/images/x.webp": "x",
	}
	for in, want := range cases {
		if got := imageHashFromEntryName(in); got != want {
			t.Fatalf("imageHashFromEntryName(%q) = %q, want %q", in, got, want)
		}
	}
}

func keysOf(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// FuzzParseArchive exercises parseCentralDirectory (via OpenBytes)
// against arbitrary bytes, standing in for the teacher corpus's
// go-fuzz-based PE fuzzing now that the stdlib's testing.F covers the
// same role without an external fuzzing engine dependency. The
// property under test is narrow: the parser must never panic, only
// return an error or a valid Archive.
func FuzzParseArchive(f *testing.F) {
	f.Add(buildZip([]zipEntryInput{{name: requiredCanvasEntry, data: []byte("c")}}))
	f.Add([]byte("not a zip at all"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("OpenBytes panicked on fuzz input: %v", r)
			}
		}()
		_, _ = OpenBytes(data)
	})
}
