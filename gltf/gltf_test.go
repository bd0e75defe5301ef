// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

const minimalAsset = `{
	"asset": {"version": "2.0"},
	"scenes": [{"nodes": [0]}],
	"scene": 0,
	"nodes": [{"name": "root"}]
}`

func TestParseMinimalAsset(t *testing.T) {
	doc, err := Parse(Options{}, []byte(minimalAsset))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Asset.Version != "2.0" {
		t.Fatalf("Asset.Version: have %q, want 2.0", doc.Asset.Version)
	}
	if len(doc.Nodes) != 1 || doc.Nodes[0].Name != "root" {
		t.Fatalf("Nodes: have %+v", doc.Nodes)
	}
	if !doc.Scene.IsSet() || doc.Scene.Get() != &doc.Scenes[0] {
		t.Fatalf("Scene: did not resolve to Scenes[0]")
	}
	if len(doc.Scenes[0].Nodes) != 1 || doc.Scenes[0].Nodes[0].Get() != &doc.Nodes[0] {
		t.Fatalf("Scenes[0].Nodes: did not resolve to Nodes[0]")
	}
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse(Options{}, []byte(`{"asset":`))
	if err == nil {
		t.Fatal("Parse: expected error on truncated JSON")
	}
	var ge *Error
	if !errors.As(err, &ge) {
		t.Fatalf("Parse error is not *gltf.Error: %v", err)
	}
}

// buildGLB assembles a minimal two-chunk GLB container around jsonText
// and an optional BIN payload, mirroring the chunk framing container.Split
// expects (12-byte header + 8-byte chunk headers, 4-byte aligned).
func buildGLB(t *testing.T, jsonText string, bin []byte) []byte {
	t.Helper()
	pad := func(b []byte, fill byte) []byte {
		for len(b)%4 != 0 {
			b = append(b, fill)
		}
		return b
	}
	jsonChunk := pad([]byte(jsonText), ' ')
	binChunk := pad(append([]byte(nil), bin...), 0)

	total := 12 + 8 + len(jsonChunk)
	if len(binChunk) > 0 {
		total += 8 + len(binChunk)
	}

	buf := make([]byte, 0, total)
	hdr := make([]byte, 12)
	binary.LittleEndian.PutUint32(hdr[0:], 0x46546c67)
	binary.LittleEndian.PutUint32(hdr[4:], 2)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(total))
	buf = append(buf, hdr...)

	ch := make([]byte, 8)
	binary.LittleEndian.PutUint32(ch[0:], uint32(len(jsonChunk)))
	binary.LittleEndian.PutUint32(ch[4:], 0x4e4f534a)
	buf = append(buf, ch...)
	buf = append(buf, jsonChunk...)

	if len(binChunk) > 0 {
		ch2 := make([]byte, 8)
		binary.LittleEndian.PutUint32(ch2[0:], uint32(len(binChunk)))
		binary.LittleEndian.PutUint32(ch2[4:], 0x004e4942)
		buf = append(buf, ch2...)
		buf = append(buf, binChunk...)
	}
	return buf
}

func TestParseGLBMagicDetection(t *testing.T) {
	glb := buildGLB(t, minimalAsset, []byte{1, 2, 3, 4})
	doc, err := Parse(Options{}, glb)
	if err != nil {
		t.Fatalf("Parse(GLB): %v", err)
	}
	if len(doc.BinChunk) < 4 {
		t.Fatalf("BinChunk: have %d bytes, want >= 4", len(doc.BinChunk))
	}
}

func TestDuplicateNodeParentRejected(t *testing.T) {
	const doc = `{
		"asset": {"version": "2.0"},
		"nodes": [
			{"children": [2]},
			{"children": [2]},
			{}
		]
	}`
	_, err := Parse(Options{}, []byte(doc))
	if err == nil {
		t.Fatal("Parse: expected error for node claimed by two parents")
	}
	var ge *Error
	if !errors.As(err, &ge) || ge.Code != ErrCodeInvalidGltf {
		t.Fatalf("Parse error: have %v, want ErrCodeInvalidGltf", err)
	}
}

func TestSceneRootAlsoChildRejected(t *testing.T) {
	const doc = `{
		"asset": {"version": "2.0"},
		"scenes": [{"nodes": [1]}],
		"nodes": [
			{"children": [1]},
			{}
		]
	}`
	_, err := Parse(Options{}, []byte(doc))
	if err == nil {
		t.Fatal("Parse: expected error for node that is both scene root and child")
	}
}

func TestAccessorReadFloatPackedMat3Int8(t *testing.T) {
	// One MAT3 element, BYTE (signed 8-bit) components: each 3-byte
	// row is padded to 4 bytes, for a packed element size of 12.
	data := []byte{
		1, 2, 3, 0, // row 0 + pad
		4, 5, 6, 0, // row 1 + pad
		7, 8, 9, 0, // row 2 + pad
	}
	doc := &Document{
		Buffers:     []Buffer{{ByteLength: int64(len(data)), Data: data}},
		BufferViews: []BufferView{{ByteLength: int64(len(data))}},
	}
	doc.BufferViews[0].Buffer = indexRef[Buffer](0)
	doc.BufferViews[0].Buffer.ptr = &doc.Buffers[0]

	a := Accessor{
		ComponentType: ComponentI8,
		Type:          Mat3,
		Count:         1,
	}
	a.BufferView = indexRef[BufferView](0)
	a.BufferView.ptr = &doc.BufferViews[0]
	a.Stride = packedElementSize(a.ComponentType, a.Type)

	out := make([]float32, 9)
	if !a.ReadFloat(0, out) {
		t.Fatal("ReadFloat: expected success")
	}
	want := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	assert.Equal(t, want, out)
}

func TestAccessorReadFloatNormalizedU16Vec3(t *testing.T) {
	data := make([]byte, 6)
	binary.LittleEndian.PutUint16(data[0:], 0)
	binary.LittleEndian.PutUint16(data[2:], 32767)
	binary.LittleEndian.PutUint16(data[4:], 65535)

	doc := &Document{
		Buffers:     []Buffer{{ByteLength: int64(len(data)), Data: data}},
		BufferViews: []BufferView{{ByteLength: int64(len(data))}},
	}
	doc.BufferViews[0].Buffer = indexRef[Buffer](0)
	doc.BufferViews[0].Buffer.ptr = &doc.Buffers[0]

	a := Accessor{
		ComponentType: ComponentU16,
		Type:          Vec3,
		Count:         1,
		Normalized:    true,
	}
	a.BufferView = indexRef[BufferView](0)
	a.BufferView.ptr = &doc.BufferViews[0]
	a.Stride = packedElementSize(a.ComponentType, a.Type)

	out := make([]float32, 3)
	if !a.ReadFloat(0, out) {
		t.Fatal("ReadFloat: expected success")
	}
	assert.InDelta(t, 0, out[0], 1e-6)
	assert.InDelta(t, 32767.0/65535.0, out[1], 1e-6)
	assert.InDelta(t, 1, out[2], 1e-6)
}

func TestValidateRejectsInvalidSparseCount(t *testing.T) {
	doc := &Document{
		Accessors: []Accessor{{
			Count: 4,
			Type:  Scalar,
			Sparse: &Sparse{
				Count:                0,
				IndicesComponentType: ComponentU16,
			},
		}},
	}
	if err := doc.Validate(); err == nil {
		t.Fatal("Validate: expected error for sparse.count <= 0")
	}
}

// buildSparseDoc assembles a Document with a single scalar F32
// accessor of count 10, overlaid by one sparse entry whose index
// value is idxValue, for exercising S6 (sparse accessor validation).
func buildSparseDoc(t *testing.T, idxValue uint16) *Document {
	t.Helper()
	idxData := make([]byte, 2)
	binary.LittleEndian.PutUint16(idxData, idxValue)
	valData := make([]byte, 4)

	doc := &Document{
		Buffers: []Buffer{
			{ByteLength: int64(len(idxData)), Data: idxData},
			{ByteLength: int64(len(valData)), Data: valData},
		},
		BufferViews: []BufferView{
			{ByteLength: int64(len(idxData))},
			{ByteLength: int64(len(valData))},
		},
	}
	doc.BufferViews[0].Buffer = indexRef[Buffer](0)
	doc.BufferViews[0].Buffer.ptr = &doc.Buffers[0]
	doc.BufferViews[1].Buffer = indexRef[Buffer](1)
	doc.BufferViews[1].Buffer.ptr = &doc.Buffers[1]

	a := Accessor{
		ComponentType: ComponentF32,
		Type:          Scalar,
		Count:         10,
		Sparse: &Sparse{
			Count:                1,
			IndicesComponentType: ComponentU16,
		},
	}
	a.Sparse.IndicesView = indexRef[BufferView](0)
	a.Sparse.IndicesView.ptr = &doc.BufferViews[0]
	a.Sparse.ValuesView = indexRef[BufferView](1)
	a.Sparse.ValuesView.ptr = &doc.BufferViews[1]
	doc.Accessors = []Accessor{a}
	return doc
}

func TestValidateSparseIndexOutOfRange(t *testing.T) {
	doc := buildSparseDoc(t, 10)
	err := doc.Validate()
	if err == nil {
		t.Fatal("Validate: expected error for sparse index 10 >= count 10")
	}
	var ge *Error
	if !errors.As(err, &ge) || ge.Code != ErrCodeDataTooShort {
		t.Fatalf("Validate error: have %v, want ErrCodeDataTooShort", err)
	}
}

func TestValidateSparseIndexInRange(t *testing.T) {
	doc := buildSparseDoc(t, 9)
	if err := doc.Validate(); err != nil {
		t.Fatalf("Validate: unexpected error for in-range sparse index: %v", err)
	}
}

func TestAccessorReadFloatRejectsSparse(t *testing.T) {
	doc := buildSparseDoc(t, 9)
	out := make([]float32, 1)
	if doc.Accessors[0].ReadFloat(0, out) {
		t.Fatal("ReadFloat: expected false for sparse accessor")
	}
}

func TestLoadBuffersRejectsURLScheme(t *testing.T) {
	doc := &Document{Buffers: []Buffer{{URI: "http://host/buf.bin", ByteLength: 4}}}
	err := doc.LoadBuffers(Options{}, "model.gltf")
	if err == nil {
		t.Fatal("LoadBuffers: expected error for http:// buffer uri")
	}
	var ge *Error
	if !errors.As(err, &ge) || ge.Code != ErrCodeUnknownFormat {
		t.Fatalf("LoadBuffers error: have %v, want ErrCodeUnknownFormat", err)
	}
}

func TestLoadBufferBase64(t *testing.T) {
	payload := []byte{10, 20, 30, 40}
	text := base64.StdEncoding.EncodeToString(payload)
	data, err := LoadBufferBase64(len(payload), text)
	if err != nil {
		t.Fatalf("LoadBufferBase64: %v", err)
	}
	assert.Equal(t, payload, data)
}

func TestLoadBuffersDataURI(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(payload)
	doc := &Document{Buffers: []Buffer{{URI: uri, ByteLength: int64(len(payload))}}}
	if err := doc.LoadBuffers(Options{}, "model.gltf"); err != nil {
		t.Fatalf("LoadBuffers: %v", err)
	}
	assert.Equal(t, payload, doc.Buffers[0].Data)
}

func TestNodeTransformCompose(t *testing.T) {
	parent := &Node{}
	parent.Rotation.I()
	parent.Scale = [3]float32{1, 1, 1}
	parent.Translation = [3]float32{1, 0, 0}

	child := &Node{Parent: parent}
	child.Rotation.I()
	child.Scale = [3]float32{2, 2, 2}
	child.Translation = [3]float32{0, 1, 0}

	world := child.TransformWorld()
	// parent translates by (1,0,0); child scales by 2 then
	// translates by (0,1,0) in its own (unrotated) local frame, so
	// the world-space translation column should land at (1,1,0).
	assert.InDelta(t, 1, world[3][0], 1e-6)
	assert.InDelta(t, 1, world[3][1], 1e-6)
	assert.InDelta(t, 0, world[3][2], 1e-6)
	assert.InDelta(t, 2, world[0][0], 1e-6) // scale baked into the linear part
}
