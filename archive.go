// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import (
	"encoding/binary"
	"os"
	"strings"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/rs/zerolog"
)

// Container layout constants (§4.1). The reader trusts only the
// central directory, never the per-entry local-header sizes, which
// the source tool may leave zeroed.
const (
	eocdSignature      = 0x06054b50
	centralDirSignature = 0x02014b50
	localHeaderSignature = 0x04034b50

	eocdMinSize     = 22
	maxCommentLen   = 65535
	compressionStored  = 0
	compressionDeflate = 8
)

// requiredCanvasEntry is the one entry whose absence is fatal.
const requiredCanvasEntry = "canvas.fig"
const optionalMetaEntry = "meta.json"
const optionalThumbnailEntry = "thumbnail.png"
const imagesPrefix = "images/"

// Archive is the decoded container (§3): the inner canvas payload
// bytes, an optional thumbnail, an image-hash-to-bytes map, and an
// optional metadata map.
type Archive struct {
	Canvas    []byte
	Thumbnail []byte
	Images    map[string][]byte
	Metadata  map[string]any

	// Warnings collected while opening the archive (malformed
	// meta.json, non-fatal directory entry table oddities).
	Warnings []Warning
}

// centralDirEntry is one parsed central-directory record (§4.1 step 3).
type centralDirEntry struct {
	name             string
	method           uint16
	compressedSize   uint32
	uncompressedSize uint32
	localHeaderOffset uint32
}

// Open reads and decodes the archive at path, memory-mapping the file
// the way the teacher's pe.New does, so a multi-hundred-megabyte
// design file with a large embedded raster doesn't have to be read
// fully into the heap before its directory is even located.
func Open(path string, logger ...zerolog.Logger) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	defer func() {
		_ = data.Unmap()
		_ = f.Close()
	}()
	return OpenBytes([]byte(data), logger...)
}

// OpenBytes decodes an archive already resident in memory.
func OpenBytes(data []byte, logger ...zerolog.Logger) (*Archive, error) {
	log := defaultLogger()
	if len(logger) > 0 {
		log = logger[0]
	}

	entries, err := parseCentralDirectory(data)
	if err != nil {
		return nil, err
	}

	arc := &Archive{Images: make(map[string][]byte)}

	var canvasEntry *centralDirEntry
	var metaEntry *centralDirEntry
	var thumbEntry *centralDirEntry
	imageEntries := map[string]centralDirEntry{}

	for _, e := range entries {
		if strings.HasSuffix(e.name, "/") {
			continue // directory entry
		}
		switch {
		case e.name == requiredCanvasEntry:
			ce := e
			canvasEntry = &ce
		case e.name == optionalMetaEntry:
			me := e
			metaEntry = &me
		case e.name == optionalThumbnailEntry:
			te := e
			thumbEntry = &te
		case strings.HasPrefix(e.name, imagesPrefix):
			key := strings.ToLower(imageHashFromEntryName(e.name))
			imageEntries[key] = e
		}
	}

	if canvasEntry == nil {
		return nil, ErrMissingEntry
	}

	arc.Canvas, err = extractEntry(data, *canvasEntry)
	if err != nil {
		return nil, err
	}

	if thumbEntry != nil {
		thumb, err := extractEntry(data, *thumbEntry)
		if err == nil {
			arc.Thumbnail = thumb
		} else {
			log.Debug().Err(err).Msg("thumbnail.png present but failed to decompress")
		}
	}

	for key, e := range imageEntries {
		raw, err := extractEntry(data, e)
		if err != nil {
			log.Warn().Str("entry", e.name).Err(err).Msg("image entry failed to decompress, skipping")
			arc.Warnings = append(arc.Warnings, warnf(WarnMalformedMetadata, "image entry %q: %v", e.name, err))
			continue
		}
		arc.Images[key] = raw
	}

	if metaEntry != nil {
		meta, werr := extractEntry(data, *metaEntry)
		if werr != nil {
			arc.Warnings = append(arc.Warnings, warnf(WarnMalformedMetadata, "meta.json failed to decompress: %v", werr))
			log.Warn().Err(werr).Msg("meta.json present but failed to decompress")
		} else {
			m, perr := parseMetaJSON(meta)
			if perr != nil {
				arc.Warnings = append(arc.Warnings, warnf(WarnMalformedMetadata, "meta.json malformed: %v", perr))
				log.Warn().Err(perr).Msg("meta.json malformed, proceeding with empty metadata")
				arc.Metadata = map[string]any{}
			} else {
				arc.Metadata = m
			}
		}
	} else {
		arc.Metadata = map[string]any{}
	}

	return arc, nil
}

// ListContents returns the central-directory filenames, in directory
// order, including directory entries. This backs §8 scenario 1.
func ListContents(data []byte) ([]string, error) {
	entries, err := parseCentralDirectory(data)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names, nil
}

func baseName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// imageHashFromEntryName strips the images/ directory and any file
// extension from a central-directory entry name, leaving the bare
// hex hash that Paint.ImageHash values are looked up by.
func imageHashFromEntryName(name string) string {
	base := baseName(name)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// parseCentralDirectory implements §4.1 steps 1-3: locate EoCD by
// scanning backward for its signature, bounded by the minimum EoCD
// size and the maximum comment length, then read the directory.
func parseCentralDirectory(data []byte) ([]centralDirEntry, error) {
	if len(data) < eocdMinSize {
		return nil, ErrNotArchive
	}

	searchFloor := len(data) - eocdMinSize - maxCommentLen
	if searchFloor < 0 {
		searchFloor = 0
	}

	eocdOffset := -1
	for i := len(data) - eocdMinSize; i >= searchFloor; i-- {
		if binary.LittleEndian.Uint32(data[i:i+4]) == eocdSignature {
			eocdOffset = i
			break
		}
	}
	if eocdOffset < 0 {
		return nil, ErrNotArchive
	}

	eocd := data[eocdOffset:]
	entryCount := binary.LittleEndian.Uint16(eocd[10:12])
	cdOffset := binary.LittleEndian.Uint32(eocd[16:20])

	if int(cdOffset) > len(data) {
		return nil, corruptf(eocdOffset, "central directory offset %d beyond file size %d", cdOffset, len(data))
	}

	entries := make([]centralDirEntry, 0, entryCount)
	cursor := int(cdOffset)
	for i := 0; i < int(entryCount); i++ {
		if cursor+46 > len(data) {
			return nil, corruptf(cursor, "central directory entry %d truncated", i)
		}
		sig := binary.LittleEndian.Uint32(data[cursor : cursor+4])
		if sig != centralDirSignature {
			return nil, ErrNotArchive
		}
		method := binary.LittleEndian.Uint16(data[cursor+10 : cursor+12])
		compSize := binary.LittleEndian.Uint32(data[cursor+20 : cursor+24])
		uncompSize := binary.LittleEndian.Uint32(data[cursor+24 : cursor+28])
		nameLen := int(binary.LittleEndian.Uint16(data[cursor+28 : cursor+30]))
		extraLen := int(binary.LittleEndian.Uint16(data[cursor+30 : cursor+32]))
		commentLen := int(binary.LittleEndian.Uint16(data[cursor+32 : cursor+34]))
		localOffset := binary.LittleEndian.Uint32(data[cursor+42 : cursor+46])

		nameStart := cursor + 46
		if nameStart+nameLen > len(data) {
			return nil, corruptf(nameStart, "central directory entry %d name truncated", i)
		}
		name := string(data[nameStart : nameStart+nameLen])

		entries = append(entries, centralDirEntry{
			name:             name,
			method:           method,
			compressedSize:   compSize,
			uncompressedSize: uncompSize,
			localHeaderOffset: localOffset,
		})

		cursor = nameStart + nameLen + extraLen + commentLen
	}

	return entries, nil
}

// extractEntry implements §4.1 step 3-4: at the local header, skip a
// variable-length extra field, extract compressedSize bytes, and
// decompress per method.
func extractEntry(data []byte, e centralDirEntry) ([]byte, error) {
	off := int(e.localHeaderOffset)
	if off+30 > len(data) {
		return nil, corruptf(off, "local header for %q truncated", e.name)
	}
	if binary.LittleEndian.Uint32(data[off:off+4]) != localHeaderSignature {
		return nil, ErrNotArchive
	}
	nameLen := int(binary.LittleEndian.Uint16(data[off+26 : off+28]))
	extraLen := int(binary.LittleEndian.Uint16(data[off+28 : off+30]))

	dataStart := off + 30 + nameLen + extraLen
	dataEnd := dataStart + int(e.compressedSize)
	if dataStart < 0 || dataEnd > len(data) || dataStart > dataEnd {
		return nil, corruptf(dataStart, "entry %q compressed data out of bounds", e.name)
	}

	raw := data[dataStart:dataEnd]
	return decompressEntry(e.method, raw, int(e.uncompressedSize))
}

func defaultLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
}
