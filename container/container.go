// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package container classifies a raw glTF asset as JSON text or a
// binary (GLB) container and, for the binary case, splits out the
// JSON chunk and the optional binary chunk. It operates entirely
// over in-memory byte slices: opening files and reading buffer URIs
// are external collaborators, not this package's concern.
package container

import (
	"encoding/binary"
	"errors"
)

// Kind identifies the container format of a glTF asset.
type Kind int

const (
	// Auto lets Split infer the format from the leading magic bytes.
	Auto Kind = iota
	JSON
	Binary
)

const (
	magic    = 0x46546c67 // "glTF"
	version2 = 2

	chunkJSON = 0x4e4f534a
	chunkBIN  = 0x004e4942

	headerSize = 12
	chunkHead  = 8
)

// Errors returned by Split.
var (
	// ErrDataTooShort is returned when the input is truncated
	// relative to a length the header or a chunk declares.
	ErrDataTooShort = errors.New("container: data shorter than declared length")
	// ErrUnknownFormat is returned on a bad magic, an unsupported
	// version, or a chunk of the wrong kind in the wrong slot.
	ErrUnknownFormat = errors.New("container: unrecognized container format")
)

// Split classifies data as JSON or Binary and, for Binary, returns
// the JSON chunk's bytes and the optional BIN chunk's bytes (nil if
// absent). For JSON, jsonBytes is data itself and binBytes is nil.
//
// hint forces the interpretation: Auto detects from the first four
// bytes, JSON always treats data as JSON text, Binary always parses
// the GLB framing (failing if the magic does not match).
func Split(data []byte, hint Kind) (kind Kind, jsonBytes, binBytes []byte, err error) {
	isGLB := len(data) >= 4 && binary.LittleEndian.Uint32(data[0:4]) == magic
	switch hint {
	case JSON:
		return JSON, data, nil, nil
	case Binary:
		if !isGLB {
			return 0, nil, nil, ErrUnknownFormat
		}
	case Auto:
		if !isGLB {
			return JSON, data, nil, nil
		}
	default:
		return 0, nil, nil, ErrUnknownFormat
	}

	if len(data) < headerSize {
		return 0, nil, nil, ErrDataTooShort
	}
	if binary.LittleEndian.Uint32(data[4:8]) != version2 {
		return 0, nil, nil, ErrUnknownFormat
	}
	total := binary.LittleEndian.Uint32(data[8:12])
	if uint64(total) > uint64(len(data)) {
		return 0, nil, nil, ErrDataTooShort
	}

	pos := headerSize
	if pos+chunkHead > int(total) {
		return 0, nil, nil, ErrDataTooShort
	}
	jsonLen := binary.LittleEndian.Uint32(data[pos : pos+4])
	jsonType := binary.LittleEndian.Uint32(data[pos+4 : pos+8])
	if jsonType != chunkJSON {
		return 0, nil, nil, ErrUnknownFormat
	}
	pos += chunkHead
	if uint64(pos)+uint64(jsonLen) > uint64(total) {
		return 0, nil, nil, ErrDataTooShort
	}
	jsonBytes = data[pos : pos+int(jsonLen)]
	pos += int(jsonLen)

	if pos+chunkHead <= int(total) {
		binLen := binary.LittleEndian.Uint32(data[pos : pos+4])
		binType := binary.LittleEndian.Uint32(data[pos+4 : pos+8])
		if binType != chunkBIN {
			return 0, nil, nil, ErrUnknownFormat
		}
		pos += chunkHead
		if uint64(pos)+uint64(binLen) > uint64(total) {
			return 0, nil, nil, ErrDataTooShort
		}
		binBytes = data[pos : pos+int(binLen)]
	}

	return Binary, jsonBytes, binBytes, nil
}
