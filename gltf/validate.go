// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import "encoding/binary"

// Validate checks a fully resolved Document for the structural and
// range invariants the glTF 2.0 schema requires beyond what decoding
// and reference resolution already enforce. Call it after Parse (and,
// if accessor bounds must be checked against real data, after
// LoadBuffers).
func (d *Document) Validate() error {
	for i := range d.Accessors {
		if err := d.Accessors[i].check(d); err != nil {
			return err
		}
	}
	for i := range d.BufferViews {
		if err := d.BufferViews[i].check(d); err != nil {
			return err
		}
	}
	for i := range d.Buffers {
		if err := d.Buffers[i].check(); err != nil {
			return err
		}
	}
	for i := range d.Meshes {
		if err := d.Meshes[i].check(); err != nil {
			return err
		}
	}
	for i := range d.Nodes {
		if err := d.Nodes[i].check(d); err != nil {
			return err
		}
	}
	for i := range d.Skins {
		if err := d.Skins[i].check(); err != nil {
			return err
		}
	}
	for i := range d.Cameras {
		if err := d.Cameras[i].check(); err != nil {
			return err
		}
	}
	for i := range d.Animations {
		if err := d.Animations[i].check(); err != nil {
			return err
		}
	}
	return nil
}

func (a *Accessor) check(d *Document) error {
	if a.Count < 0 {
		return newError(ErrCodeInvalidGltf, "accessor: negative count")
	}
	n := componentCount(a.Type)
	if n == 0 {
		return newError(ErrCodeInvalidGltf, "accessor: invalid type")
	}
	if a.Max != nil && int64(len(a.Max)) != n {
		return newError(ErrCodeInvalidGltf, "accessor: max length does not match type")
	}
	if a.Min != nil && int64(len(a.Min)) != n {
		return newError(ErrCodeInvalidGltf, "accessor: min length does not match type")
	}
	if bv := a.BufferView.Get(); bv != nil {
		need := a.ByteOffset + a.Stride*(a.Count-1) + packedElementSize(a.ComponentType, a.Type)
		if a.Count > 0 && need > bv.ByteLength {
			return newError(ErrCodeInvalidGltf, "accessor: out of bufferView bounds")
		}
	}
	if s := a.Sparse; s != nil {
		if s.Count <= 0 || s.Count > a.Count {
			return newError(ErrCodeInvalidGltf, "accessor: invalid sparse count")
		}
		if !s.IndicesView.IsSet() || !s.ValuesView.IsSet() {
			return newError(ErrCodeInvalidGltf, "accessor: sparse missing bufferView")
		}
		switch s.IndicesComponentType {
		case ComponentU8, ComponentU16, ComponentU32:
		default:
			return newError(ErrCodeInvalidGltf, "accessor: invalid sparse indices componentType")
		}
		if iv := s.IndicesView.Get(); iv != nil {
			need := s.IndicesByteOffset + s.Count*componentSize(s.IndicesComponentType)
			if need > iv.ByteLength {
				return newError(ErrCodeInvalidGltf, "accessor: sparse indices range exceeds bufferView")
			}
		}
		if vv := s.ValuesView.Get(); vv != nil {
			need := s.ValuesByteOffset + s.Count*packedElementSize(a.ComponentType, a.Type)
			if need > vv.ByteLength {
				return newError(ErrCodeInvalidGltf, "accessor: sparse values range exceeds bufferView")
			}
		}
		if iv := s.IndicesView.Get(); iv != nil {
			if b := iv.Buffer.Get(); b != nil && b.Data != nil {
				for i := int64(0); i < s.Count; i++ {
					v, ok := readSparseIndex(iv, s.IndicesComponentType, s.IndicesByteOffset, i)
					if !ok {
						return newError(ErrCodeDataTooShort, "accessor: sparse indices data too short")
					}
					if int64(v) >= a.Count {
						return newError(ErrCodeDataTooShort, "accessor: sparse index out of accessor count range")
					}
				}
			}
		}
	}
	return nil
}

// readSparseIndex reads the i-th sparse index value (0-based) from
// bv's backing buffer data, starting at byteOffset within bv's own
// byte range. It reports false if the buffer data does not reach far
// enough to hold the value.
func readSparseIndex(bv *BufferView, ct ComponentType, byteOffset, i int64) (uint32, bool) {
	b := bv.Buffer.Get()
	if b == nil || b.Data == nil {
		return 0, false
	}
	end := bv.ByteOffset + bv.ByteLength
	if end > int64(len(b.Data)) {
		return 0, false
	}
	data := b.Data[bv.ByteOffset:end]
	pos := byteOffset + i*componentSize(ct)
	switch ct {
	case ComponentU8:
		if pos < 0 || pos >= int64(len(data)) {
			return 0, false
		}
		return uint32(data[pos]), true
	case ComponentU16:
		if pos < 0 || pos+2 > int64(len(data)) {
			return 0, false
		}
		return uint32(binary.LittleEndian.Uint16(data[pos:])), true
	case ComponentU32:
		if pos < 0 || pos+4 > int64(len(data)) {
			return 0, false
		}
		return binary.LittleEndian.Uint32(data[pos:]), true
	default:
		return 0, false
	}
}

func (bv *BufferView) check(d *Document) error {
	if bv.ByteLength <= 0 {
		return newError(ErrCodeInvalidGltf, "bufferView: non-positive byteLength")
	}
	if b := bv.Buffer.Get(); b != nil {
		if bv.ByteOffset+bv.ByteLength > b.ByteLength {
			return newError(ErrCodeInvalidGltf, "bufferView: out of buffer bounds")
		}
	}
	if bv.ByteStride != 0 && (bv.ByteStride < 4 || bv.ByteStride > 252) {
		return newError(ErrCodeInvalidGltf, "bufferView: byteStride out of range")
	}
	return nil
}

func (b *Buffer) check() error {
	if b.ByteLength <= 0 {
		return newError(ErrCodeInvalidGltf, "buffer: non-positive byteLength")
	}
	return nil
}

func (m *Mesh) check() error {
	if len(m.Primitives) == 0 {
		return newError(ErrCodeInvalidGltf, "mesh: no primitives")
	}
	for i := range m.Primitives {
		p := &m.Primitives[i]
		if len(p.Attributes) == 0 {
			return newError(ErrCodeInvalidGltf, "primitive: no attributes")
		}
		if idx := p.Indices.Get(); idx != nil {
			switch idx.ComponentType {
			case ComponentU8, ComponentU16, ComponentU32:
			default:
				return newError(ErrCodeInvalidGltf, "primitive: indices accessor must be unsigned")
			}
			if idx.backing() != nil {
				if vc := vertexCount(p.Attributes); vc >= 0 {
					for j := 0; j < int(idx.Count); j++ {
						if idx.ReadIndex(j) >= uint32(vc) {
							return newError(ErrCodeInvalidGltf, "primitive: index out of vertex count range")
						}
					}
				}
			}
		}
	}
	return nil
}

// vertexCount returns the POSITION accessor's element count, or -1
// if attrs carries no POSITION.
func vertexCount(attrs []Attribute) int {
	for i := range attrs {
		if attrs[i].Semantic == SemPosition {
			if a := attrs[i].Accessor.Get(); a != nil {
				return int(a.Count)
			}
		}
	}
	return -1
}

func (n *Node) check(d *Document) error {
	if mesh := n.Mesh.Get(); mesh != nil && len(n.Weights) > 0 {
		for i := range mesh.Primitives {
			nt := len(mesh.Primitives[i].Targets)
			if nt > 0 && nt != len(n.Weights) {
				return newError(ErrCodeInvalidGltf, "node: weights count does not match morph target count")
			}
		}
	}
	return nil
}

func (s *Skin) check() error {
	if len(s.Joints) == 0 {
		return newError(ErrCodeInvalidGltf, "skin: no joints")
	}
	if ibm := s.InverseBindMatrices.Get(); ibm != nil {
		if ibm.Count != int64(len(s.Joints)) {
			return newError(ErrCodeInvalidGltf, "skin: inverseBindMatrices count mismatch")
		}
		if ibm.Type != Mat4 {
			return newError(ErrCodeInvalidGltf, "skin: inverseBindMatrices must be MAT4")
		}
	}
	return nil
}

func (c *Camera) check() error {
	switch c.Kind {
	case CamPerspective:
		if c.Perspective == nil {
			return newError(ErrCodeInvalidGltf, "camera: missing perspective")
		}
		if c.Perspective.YFov <= 0 {
			return newError(ErrCodeInvalidGltf, "camera: non-positive yfov")
		}
		if c.Perspective.ZNear <= 0 {
			return newError(ErrCodeInvalidGltf, "camera: non-positive znear")
		}
	case CamOrthographic:
		if c.Orthographic == nil {
			return newError(ErrCodeInvalidGltf, "camera: missing orthographic")
		}
		if c.Orthographic.ZFar <= c.Orthographic.ZNear {
			return newError(ErrCodeInvalidGltf, "camera: zfar must exceed znear")
		}
	default:
		return newError(ErrCodeInvalidGltf, "camera: invalid type")
	}
	return nil
}

func (a *Animation) check() error {
	for i := range a.Channels {
		c := &a.Channels[i]
		if int(c.Sampler) < 0 || int(c.Sampler) >= len(a.Samplers) {
			return newError(ErrCodeInvalidGltf, "animation channel: sampler index out of range")
		}
		if n := c.TargetNode.Get(); n != nil && c.TargetPath == PathWeights && len(n.Weights) == 0 {
			if mesh := n.Mesh.Get(); mesh == nil {
				return newError(ErrCodeInvalidGltf, "animation channel: weights target has no mesh")
			}
		}
	}
	return nil
}
