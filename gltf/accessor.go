// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"encoding/binary"
	"math"
)

// componentMax is the magnitude used to normalize a component value
// into [0,1] (unsigned types) or [-1,1] (signed types), per the
// glTF normalized-integer convention.
func componentMax(ct ComponentType) float32 {
	switch ct {
	case ComponentI8:
		return 127
	case ComponentU8:
		return 255
	case ComponentI16:
		return 32767
	case ComponentU16:
		return 65535
	case ComponentU32:
		return 4294967295
	default:
		return 1
	}
}

// elementBase returns the byte offset of element index within the
// accessor's backing data (the slice covering the whole bufferView):
// the accessor's ByteOffset plus index times its Stride.
func elementBase(a *Accessor, index int) int64 {
	return a.ByteOffset + int64(index)*a.Stride
}

// readComponent decodes one scalar of type ct at byte position pos
// of data. Callers compute pos with componentOffset, which applies
// the mat2/mat3 row-padding layout.
func readComponent(data []byte, ct ComponentType, pos int64) (float32, bool) {
	cs := componentSize(ct)
	if pos+cs > int64(len(data)) || pos < 0 {
		return 0, false
	}
	switch ct {
	case ComponentI8:
		return float32(int8(data[pos])), true
	case ComponentU8:
		return float32(data[pos]), true
	case ComponentI16:
		return float32(int16(binary.LittleEndian.Uint16(data[pos:]))), true
	case ComponentU16:
		return float32(binary.LittleEndian.Uint16(data[pos:])), true
	case ComponentU32:
		return float32(binary.LittleEndian.Uint32(data[pos:])), true
	case ComponentF32:
		return math.Float32frombits(binary.LittleEndian.Uint32(data[pos:])), true
	default:
		return 0, false
	}
}

// componentOffset returns the byte offset of component c (0-based,
// row-major within the logical shape) relative to an element's base,
// honoring mat2/mat3 row padding for 1- and 2-byte components.
func componentOffset(ct ComponentType, t AccessorType, c int64) int64 {
	cs := componentSize(ct)
	switch t {
	case Mat2:
		if cs == 1 {
			row, col := c/2, c%2
			return row*align4(2*cs) + col*cs
		}
		return c * cs
	case Mat3:
		if cs == 1 || cs == 2 {
			row, col := c/3, c%3
			return row*align4(3*cs) + col*cs
		}
		return c * cs
	default:
		return c * cs
	}
}

// ReadFloat decodes the element at index into out, which must have
// capacity for the accessor's component count (see componentCount),
// applying normalization if the accessor is Normalized. It reports
// false if index or out is out of range, if the accessor has no
// resolved backing data, or if the accessor is sparse (sparse overlay
// resolution is outside this function's scope).
func (a *Accessor) ReadFloat(index int, out []float32) bool {
	if a.Sparse != nil {
		return false
	}
	if index < 0 || int64(index) >= a.Count {
		return false
	}
	n := componentCount(a.Type)
	if int64(len(out)) < n {
		return false
	}
	data := a.backing()
	if data == nil {
		return false
	}
	base := elementBase(a, index)
	max := componentMax(a.ComponentType)
	for c := int64(0); c < n; c++ {
		pos := base + componentOffset(a.ComponentType, a.Type, c)
		v, ok := readComponent(data, a.ComponentType, pos)
		if !ok {
			return false
		}
		if a.Normalized && a.ComponentType != ComponentF32 {
			v /= max
		}
		out[c] = v
	}
	return true
}

// ReadIndex decodes a single unsigned integer element, as used by
// primitive index buffers. It returns 0 if index is out of range.
func (a *Accessor) ReadIndex(index int) uint32 {
	if index < 0 || int64(index) >= a.Count || a.Type != Scalar {
		return 0
	}
	data := a.backing()
	if data == nil {
		return 0
	}
	base := elementBase(a, index)
	switch a.ComponentType {
	case ComponentU8:
		if base >= int64(len(data)) {
			return 0
		}
		return uint32(data[base])
	case ComponentU16:
		if base+2 > int64(len(data)) {
			return 0
		}
		return uint32(binary.LittleEndian.Uint16(data[base:]))
	case ComponentU32:
		if base+4 > int64(len(data)) {
			return 0
		}
		return binary.LittleEndian.Uint32(data[base:])
	default:
		return 0
	}
}

// backing returns the byte slice a resolved bufferView's Buffer.Data
// covers, sliced to the bufferView's own byteOffset/byteLength range,
// or nil if the buffer has not been loaded yet.
func (a *Accessor) backing() []byte {
	bv := a.BufferView.Get()
	if bv == nil {
		return nil
	}
	b := bv.Buffer.Get()
	if b == nil || b.Data == nil {
		return nil
	}
	end := bv.ByteOffset + bv.ByteLength
	if end > int64(len(b.Data)) {
		return nil
	}
	return b.Data[bv.ByteOffset:end]
}
