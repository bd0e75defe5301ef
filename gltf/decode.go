// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"os"
	"strconv"

	"github.com/gviegas/gltfdoc/container"
	"github.com/gviegas/gltfdoc/linear"
	"github.com/gviegas/gltfdoc/token"
)

// Parse parses a glTF asset (JSON text or GLB binary container,
// auto-detected unless opts.FileKind forces one) from data, decodes
// its schema, and resolves every cross-entity reference. It does not
// load buffer payloads — call Document.LoadBuffers for that.
func Parse(opts Options, data []byte) (*Document, error) {
	kind, jsonBytes, binBytes, err := container.Split(data, opts.FileKind)
	if err != nil {
		return nil, mapContainerErr(err)
	}

	toks, err := tokenize(opts, jsonBytes)
	if err != nil {
		return nil, err
	}

	doc := &Document{JSON: jsonBytes}
	if kind == container.Binary {
		doc.BinChunk = binBytes
	}

	d := &decoder{data: jsonBytes, toks: toks}
	if err := d.document(doc); err != nil {
		return nil, err
	}
	if err := resolveDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFile reads path and calls Parse on its contents, retaining
// the raw bytes in Document.FileData. Relative buffer URIs are
// resolved later by passing path to LoadBuffers.
func ParseFile(opts Options, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wrapError(ErrCodeFileNotFound, "open "+path, err)
		}
		return nil, wrapError(ErrCodeIOError, "read "+path, err)
	}
	doc, err := Parse(opts, data)
	if err != nil {
		return nil, err
	}
	doc.FileData = data
	return doc, nil
}

func mapContainerErr(err error) error {
	switch err {
	case container.ErrDataTooShort:
		return newError(ErrCodeDataTooShort, "container: "+err.Error())
	case container.ErrUnknownFormat:
		return newError(ErrCodeUnknownFormat, "container: "+err.Error())
	default:
		return newError(ErrCodeUnknownFormat, err.Error())
	}
}

func mapTokenErr(err error) error {
	switch err {
	case token.ErrNoMem:
		return newError(ErrCodeOutOfMemory, "token: "+err.Error())
	case token.ErrInvalid, token.ErrPartial:
		return newError(ErrCodeInvalidJSON, "token: "+err.Error())
	default:
		return newError(ErrCodeInvalidJSON, err.Error())
	}
}

func tokenize(opts Options, data []byte) ([]token.Token, error) {
	var s token.Scanner
	if opts.TokenCountHint > 0 && opts.NewTokenBuffer == nil {
		toks := make([]token.Token, opts.TokenCountHint)
		n, err := s.Scan(data, toks)
		if err == nil {
			return toks[:n], nil
		}
		if err != token.ErrNoMem {
			return nil, mapTokenErr(err)
		}
	}
	n, err := s.Scan(data, nil)
	if err != nil {
		return nil, mapTokenErr(err)
	}

	var toks []token.Token
	if opts.NewTokenBuffer != nil {
		toks = opts.NewTokenBuffer(n)
	} else {
		hint := n
		if opts.TokenCountHint > hint {
			hint = opts.TokenCountHint
		}
		toks = make([]token.Token, hint)
	}
	if len(toks) < n {
		return nil, newError(ErrCodeOutOfMemory, "token buffer too small")
	}
	toks = toks[:n]

	var s2 token.Scanner
	if _, err := s2.Scan(data, toks); err != nil {
		return nil, mapTokenErr(err)
	}
	return toks, nil
}

// decoder walks the flat token array produced by the tokenizer,
// maintaining a single cursor. Every parsing method consumes exactly
// the subtree of the token it started on, leaving pos at the first
// token past it — the same discipline jsmn-style consumers rely on
// to avoid tracking an explicit parse stack of their own.
type decoder struct {
	data []byte
	toks []token.Token
	pos  int
}

func (d *decoder) tok() token.Token { return d.toks[d.pos] }

func (d *decoder) text(t token.Token) string { return string(d.data[t.Start:t.End]) }

// skip advances pos past the entire value rooted at the current
// token, regardless of its kind.
func (d *decoder) skip() {
	t := d.toks[d.pos]
	d.pos++
	switch t.Kind {
	case token.Object:
		for i := 0; i < t.Size; i++ {
			d.skip() // key
			d.skip() // value
		}
	case token.Array:
		for i := 0; i < t.Size; i++ {
			d.skip()
		}
	}
}

// object requires the current token to be a JSON object and calls fn
// once per key, after advancing past the key token; fn must consume
// exactly the value that follows (by dispatching, or by calling skip
// for an unrecognized key).
func (d *decoder) object(fn func(key string) error) error {
	t := d.tok()
	if t.Kind != token.Object {
		return newError(ErrCodeInvalidJSON, "expected object")
	}
	d.pos++
	for i := 0; i < t.Size; i++ {
		kt := d.tok()
		if kt.Kind != token.String {
			return newError(ErrCodeInvalidJSON, "expected object key")
		}
		key := d.text(kt)
		d.pos++
		if err := fn(key); err != nil {
			return err
		}
	}
	return nil
}

// array requires the current token to be a JSON array and calls fn
// once per element; fn must consume exactly one element.
func (d *decoder) array(fn func(i int) error) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "expected array")
	}
	d.pos++
	for i := 0; i < t.Size; i++ {
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) string() (string, error) {
	t := d.tok()
	if t.Kind != token.String {
		return "", newError(ErrCodeInvalidJSON, "expected string")
	}
	d.pos++
	return d.text(t), nil
}

func (d *decoder) int() (int64, error) {
	t := d.tok()
	if t.Kind != token.Primitive {
		return 0, newError(ErrCodeInvalidJSON, "expected number")
	}
	d.pos++
	v, err := strconv.ParseInt(d.text(t), 10, 64)
	if err != nil {
		return 0, newError(ErrCodeInvalidJSON, "invalid integer")
	}
	return v, nil
}

func (d *decoder) float() (float32, error) {
	t := d.tok()
	if t.Kind != token.Primitive {
		return 0, newError(ErrCodeInvalidJSON, "expected number")
	}
	d.pos++
	v, err := strconv.ParseFloat(d.text(t), 32)
	if err != nil {
		return 0, newError(ErrCodeInvalidJSON, "invalid number")
	}
	return float32(v), nil
}

func (d *decoder) bool() (bool, error) {
	t := d.tok()
	if t.Kind != token.Primitive {
		return false, newError(ErrCodeInvalidJSON, "expected bool")
	}
	s := d.text(t)
	d.pos++
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, newError(ErrCodeInvalidJSON, "invalid bool")
	}
}

func (d *decoder) extras() Extras {
	t := d.tok()
	e := Extras{Start: t.Start, End: t.End}
	d.skip()
	return e
}

// floatN parses a JSON array required to have exactly n elements.
func (d *decoder) floatN(n int) ([]float32, error) {
	t := d.tok()
	if t.Kind != token.Array || t.Size != n {
		return nil, newError(ErrCodeInvalidGltf, "array has wrong length")
	}
	out := make([]float32, n)
	i := 0
	err := d.array(func(_ int) error {
		v, err := d.float()
		if err != nil {
			return err
		}
		out[i] = v
		i++
		return nil
	})
	return out, err
}

// floatSlice parses a variable-length float array.
func (d *decoder) floatSlice() ([]float32, error) {
	t := d.tok()
	if t.Kind != token.Array {
		return nil, newError(ErrCodeInvalidJSON, "expected array")
	}
	out := make([]float32, 0, t.Size)
	err := d.array(func(_ int) error {
		v, err := d.float()
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// boundedFloatSlice parses a variable-length float array capped at
// max elements (used for accessor.min/max, capped at 16 per the
// glTF schema — recovered from cgltf's MAT4-sized scratch, rejected
// rather than silently truncated; see DESIGN.md).
func (d *decoder) boundedFloatSlice(max int) ([]float32, error) {
	t := d.tok()
	if t.Kind != token.Array {
		return nil, newError(ErrCodeInvalidJSON, "expected array")
	}
	if t.Size > max {
		return nil, newError(ErrCodeInvalidGltf, "array exceeds maximum length")
	}
	return d.floatSlice()
}

func (d *decoder) stringArray() ([]string, error) {
	t := d.tok()
	if t.Kind != token.Array {
		return nil, newError(ErrCodeInvalidJSON, "expected array")
	}
	out := make([]string, 0, t.Size)
	err := d.array(func(_ int) error {
		v, err := d.string()
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func parseSemantic(name string) (Semantic, int) {
	prefix := name
	setIdx := 0
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '_' {
			if n, err := strconv.Atoi(name[i+1:]); err == nil {
				prefix = name[:i]
				setIdx = n
			}
			break
		}
	}
	switch prefix {
	case "POSITION":
		return SemPosition, setIdx
	case "NORMAL":
		return SemNormal, setIdx
	case "TANGENT":
		return SemTangent, setIdx
	case "TEXCOORD":
		return SemTexcoord, setIdx
	case "COLOR":
		return SemColor, setIdx
	case "JOINTS":
		return SemJoints, setIdx
	case "WEIGHTS":
		return SemWeights, setIdx
	default:
		return SemUnknown, 0
	}
}

func (d *decoder) attributes() ([]Attribute, error) {
	t := d.tok()
	if t.Kind != token.Object {
		return nil, newError(ErrCodeInvalidJSON, "attributes: expected object")
	}
	attrs := make([]Attribute, 0, t.Size)
	err := d.object(func(key string) error {
		v, err := d.int()
		if err != nil {
			return err
		}
		sem, setIdx := parseSemantic(key)
		attrs = append(attrs, Attribute{
			Name:     key,
			Semantic: sem,
			SetIndex: setIdx,
			Accessor: indexRef[Accessor](v),
		})
		return nil
	})
	return attrs, err
}

func (d *decoder) morphTargets() ([]MorphTarget, error) {
	t := d.tok()
	if t.Kind != token.Array {
		return nil, newError(ErrCodeInvalidJSON, "targets: expected array")
	}
	out := make([]MorphTarget, t.Size)
	i := 0
	err := d.array(func(_ int) error {
		attrs, err := d.attributes()
		if err != nil {
			return err
		}
		out[i].Attributes = attrs
		i++
		return nil
	})
	return out, err
}

func decodeTopology(v int64) (Topology, bool) {
	if v < int64(Points) || v > int64(TriangleFan) {
		return 0, false
	}
	return Topology(v), true
}

func (d *decoder) primitive(p *Primitive) error {
	p.Topology = Triangles
	return d.object(func(key string) error {
		switch key {
		case "attributes":
			a, err := d.attributes()
			p.Attributes = a
			return err
		case "indices":
			v, err := d.int()
			if err != nil {
				return err
			}
			p.Indices = indexRef[Accessor](v)
			return nil
		case "material":
			v, err := d.int()
			if err != nil {
				return err
			}
			p.Material = indexRef[Material](v)
			return nil
		case "mode":
			v, err := d.int()
			if err != nil {
				return err
			}
			top, ok := decodeTopology(v)
			if !ok {
				return newError(ErrCodeInvalidGltf, "invalid primitive mode")
			}
			p.Topology = top
			return nil
		case "targets":
			tg, err := d.morphTargets()
			p.Targets = tg
			return err
		case "extras":
			p.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) mesh(m *Mesh) error {
	return d.object(func(key string) error {
		switch key {
		case "primitives":
			t := d.tok()
			if t.Kind != token.Array {
				return newError(ErrCodeInvalidJSON, "primitives: expected array")
			}
			m.Primitives = make([]Primitive, t.Size)
			i := 0
			return d.array(func(_ int) error {
				err := d.primitive(&m.Primitives[i])
				i++
				return err
			})
		case "weights":
			w, err := d.floatSlice()
			m.Weights = w
			return err
		case "name":
			v, err := d.string()
			m.Name = v
			return err
		case "extras":
			m.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) meshArray(doc *Document) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "meshes: expected array")
	}
	doc.Meshes = make([]Mesh, t.Size)
	i := 0
	return d.array(func(_ int) error {
		err := d.mesh(&doc.Meshes[i])
		i++
		return err
	})
}

func decodeComponentType(v int64) (ComponentType, bool) {
	switch v {
	case 5120:
		return ComponentI8, true
	case 5121:
		return ComponentU8, true
	case 5122:
		return ComponentI16, true
	case 5123:
		return ComponentU16, true
	case 5125:
		return ComponentU32, true
	case 5126:
		return ComponentF32, true
	default:
		return 0, false
	}
}

func decodeAccessorType(s string) (AccessorType, bool) {
	switch s {
	case "SCALAR":
		return Scalar, true
	case "VEC2":
		return Vec2, true
	case "VEC3":
		return Vec3, true
	case "VEC4":
		return Vec4, true
	case "MAT2":
		return Mat2, true
	case "MAT3":
		return Mat3, true
	case "MAT4":
		return Mat4, true
	default:
		return 0, false
	}
}

func (d *decoder) sparse(s *Sparse) error {
	return d.object(func(key string) error {
		switch key {
		case "count":
			v, err := d.int()
			s.Count = v
			return err
		case "indices":
			return d.object(func(key string) error {
				switch key {
				case "bufferView":
					v, err := d.int()
					if err != nil {
						return err
					}
					s.IndicesView = indexRef[BufferView](v)
					return nil
				case "byteOffset":
					v, err := d.int()
					s.IndicesByteOffset = v
					return err
				case "componentType":
					v, err := d.int()
					if err != nil {
						return err
					}
					ct, ok := decodeComponentType(v)
					if !ok {
						return newError(ErrCodeInvalidGltf, "invalid sparse.indices.componentType")
					}
					s.IndicesComponentType = ct
					return nil
				default:
					d.skip()
					return nil
				}
			})
		case "values":
			return d.object(func(key string) error {
				switch key {
				case "bufferView":
					v, err := d.int()
					if err != nil {
						return err
					}
					s.ValuesView = indexRef[BufferView](v)
					return nil
				case "byteOffset":
					v, err := d.int()
					s.ValuesByteOffset = v
					return err
				default:
					d.skip()
					return nil
				}
			})
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) accessor(a *Accessor) error {
	return d.object(func(key string) error {
		switch key {
		case "bufferView":
			v, err := d.int()
			if err != nil {
				return err
			}
			a.BufferView = indexRef[BufferView](v)
			return nil
		case "byteOffset":
			v, err := d.int()
			a.ByteOffset = v
			return err
		case "componentType":
			v, err := d.int()
			if err != nil {
				return err
			}
			ct, ok := decodeComponentType(v)
			if !ok {
				return newError(ErrCodeInvalidGltf, "invalid accessor.componentType")
			}
			a.ComponentType = ct
			return nil
		case "normalized":
			v, err := d.bool()
			a.Normalized = v
			return err
		case "count":
			v, err := d.int()
			a.Count = v
			return err
		case "type":
			v, err := d.string()
			if err != nil {
				return err
			}
			at, ok := decodeAccessorType(v)
			if !ok {
				return newError(ErrCodeInvalidGltf, "invalid accessor.type")
			}
			a.Type = at
			return nil
		case "max":
			m, err := d.boundedFloatSlice(16)
			a.Max = m
			return err
		case "min":
			m, err := d.boundedFloatSlice(16)
			a.Min = m
			return err
		case "sparse":
			s := &Sparse{}
			if err := d.sparse(s); err != nil {
				return err
			}
			a.Sparse = s
			return nil
		case "name":
			v, err := d.string()
			a.Name = v
			return err
		case "extras":
			a.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) accessorArray(doc *Document) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "accessors: expected array")
	}
	doc.Accessors = make([]Accessor, t.Size)
	i := 0
	return d.array(func(_ int) error {
		err := d.accessor(&doc.Accessors[i])
		i++
		return err
	})
}

func (d *decoder) buffer(b *Buffer) error {
	return d.object(func(key string) error {
		switch key {
		case "uri":
			v, err := d.string()
			b.URI = v
			return err
		case "byteLength":
			v, err := d.int()
			b.ByteLength = v
			return err
		case "name":
			v, err := d.string()
			b.Name = v
			return err
		case "extras":
			b.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) bufferArray(doc *Document) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "buffers: expected array")
	}
	doc.Buffers = make([]Buffer, t.Size)
	i := 0
	return d.array(func(_ int) error {
		err := d.buffer(&doc.Buffers[i])
		i++
		return err
	})
}

func (d *decoder) bufferView(bv *BufferView) error {
	return d.object(func(key string) error {
		switch key {
		case "buffer":
			v, err := d.int()
			if err != nil {
				return err
			}
			bv.Buffer = indexRef[Buffer](v)
			return nil
		case "byteOffset":
			v, err := d.int()
			bv.ByteOffset = v
			return err
		case "byteLength":
			v, err := d.int()
			bv.ByteLength = v
			return err
		case "byteStride":
			v, err := d.int()
			bv.ByteStride = v
			return err
		case "target":
			v, err := d.int()
			if err != nil {
				return err
			}
			switch v {
			case 34962:
				bv.Target = TargetVertices
			case 34963:
				bv.Target = TargetIndices
			default:
				return newError(ErrCodeInvalidGltf, "invalid bufferView.target")
			}
			return nil
		case "name":
			v, err := d.string()
			bv.Name = v
			return err
		case "extras":
			bv.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) bufferViewArray(doc *Document) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "bufferViews: expected array")
	}
	doc.BufferViews = make([]BufferView, t.Size)
	i := 0
	return d.array(func(_ int) error {
		err := d.bufferView(&doc.BufferViews[i])
		i++
		return err
	})
}

func (d *decoder) textureTransform(tt *TextureTransform) error {
	return d.object(func(key string) error {
		switch key {
		case "offset":
			a, err := d.floatN(2)
			if err != nil {
				return err
			}
			copy(tt.Offset[:], a)
			return nil
		case "rotation":
			v, err := d.float()
			tt.Rotation = v
			return err
		case "scale":
			a, err := d.floatN(2)
			if err != nil {
				return err
			}
			copy(tt.Scale[:], a)
			return nil
		case "texCoord":
			v, err := d.int()
			tt.TexCoord = v
			tt.HasTexCoord = true
			return err
		default:
			d.skip()
			return nil
		}
	})
}

// textureView parses a textureInfo-shaped object. scaleDefault
// covers both normalTextureInfo.scale and occlusionTextureInfo.strength,
// which share the same default of 1 and are stored in the same
// Scale field, read from the "scale" or "strength" key.
func (d *decoder) textureView(scaleDefault float32) (*TextureView, error) {
	tv := &TextureView{Scale: scaleDefault}
	err := d.object(func(key string) error {
		switch key {
		case "index":
			v, err := d.int()
			if err != nil {
				return err
			}
			tv.Texture = indexRef[Texture](v)
			return nil
		case "texCoord":
			v, err := d.int()
			tv.TexCoord = v
			return err
		case "scale", "strength":
			v, err := d.float()
			tv.Scale = v
			return err
		case "extensions":
			return d.object(func(key string) error {
				switch key {
				case "KHR_texture_transform":
					tt := &TextureTransform{Scale: [2]float32{1, 1}}
					if err := d.textureTransform(tt); err != nil {
						return err
					}
					tv.Transform = tt
					return nil
				default:
					d.skip()
					return nil
				}
			})
		case "extras":
			tv.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
	return tv, err
}

func (d *decoder) pbrMetallicRoughness(p *PBRMetallicRoughness) error {
	return d.object(func(key string) error {
		switch key {
		case "baseColorFactor":
			a, err := d.floatN(4)
			if err != nil {
				return err
			}
			copy(p.BaseColorFactor[:], a)
			return nil
		case "baseColorTexture":
			tv, err := d.textureView(1)
			p.BaseColorTexture = tv
			return err
		case "metallicFactor":
			v, err := d.float()
			p.MetallicFactor = v
			return err
		case "roughnessFactor":
			v, err := d.float()
			p.RoughnessFactor = v
			return err
		case "metallicRoughnessTexture":
			tv, err := d.textureView(1)
			p.MetallicRoughnessTexture = tv
			return err
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) pbrSpecularGlossiness(s *PBRSpecularGlossiness) error {
	return d.object(func(key string) error {
		switch key {
		case "diffuseFactor":
			a, err := d.floatN(4)
			if err != nil {
				return err
			}
			copy(s.DiffuseFactor[:], a)
			return nil
		case "diffuseTexture":
			tv, err := d.textureView(1)
			s.DiffuseTexture = tv
			return err
		case "specularFactor":
			a, err := d.floatN(3)
			if err != nil {
				return err
			}
			copy(s.SpecularFactor[:], a)
			return nil
		case "glossinessFactor":
			v, err := d.float()
			s.GlossinessFactor = v
			return err
		case "specularGlossinessTexture":
			tv, err := d.textureView(1)
			s.SpecularGlossinessTexture = tv
			return err
		default:
			d.skip()
			return nil
		}
	})
}

func decodeAlphaMode(s string) (AlphaMode, bool) {
	switch s {
	case "OPAQUE":
		return Opaque, true
	case "MASK":
		return Mask, true
	case "BLEND":
		return Blend, true
	default:
		return 0, false
	}
}

func (d *decoder) materialExtensions(m *Material) error {
	return d.object(func(key string) error {
		switch key {
		case "KHR_materials_pbrSpecularGlossiness":
			sg := &PBRSpecularGlossiness{
				DiffuseFactor:    [4]float32{1, 1, 1, 1},
				SpecularFactor:   [3]float32{1, 1, 1},
				GlossinessFactor: 1,
			}
			if err := d.pbrSpecularGlossiness(sg); err != nil {
				return err
			}
			m.HasPBRSpecularGlossiness = true
			m.PBRSpecularGlossiness = sg
			return nil
		case "KHR_materials_unlit":
			m.Unlit = true
			d.skip()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) material(m *Material) error {
	m.AlphaMode = Opaque
	m.AlphaCutoff = 0.5
	return d.object(func(key string) error {
		switch key {
		case "pbrMetallicRoughness":
			pbr := &PBRMetallicRoughness{
				BaseColorFactor: [4]float32{1, 1, 1, 1},
				MetallicFactor:  1,
				RoughnessFactor: 1,
			}
			if err := d.pbrMetallicRoughness(pbr); err != nil {
				return err
			}
			m.PBRMetallicRoughness = pbr
			return nil
		case "normalTexture":
			tv, err := d.textureView(1)
			m.NormalTexture = tv
			return err
		case "occlusionTexture":
			tv, err := d.textureView(1)
			m.OcclusionTexture = tv
			return err
		case "emissiveTexture":
			tv, err := d.textureView(1)
			m.EmissiveTexture = tv
			return err
		case "emissiveFactor":
			a, err := d.floatN(3)
			if err != nil {
				return err
			}
			copy(m.EmissiveFactor[:], a)
			return nil
		case "alphaMode":
			s, err := d.string()
			if err != nil {
				return err
			}
			am, ok := decodeAlphaMode(s)
			if !ok {
				return newError(ErrCodeInvalidGltf, "invalid material.alphaMode")
			}
			m.AlphaMode = am
			return nil
		case "alphaCutoff":
			v, err := d.float()
			m.AlphaCutoff = v
			return err
		case "doubleSided":
			v, err := d.bool()
			m.DoubleSided = v
			return err
		case "name":
			v, err := d.string()
			m.Name = v
			return err
		case "extensions":
			return d.materialExtensions(m)
		case "extras":
			m.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) materialArray(doc *Document) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "materials: expected array")
	}
	doc.Materials = make([]Material, t.Size)
	i := 0
	return d.array(func(_ int) error {
		err := d.material(&doc.Materials[i])
		i++
		return err
	})
}

func (d *decoder) texture(tex *Texture) error {
	return d.object(func(key string) error {
		switch key {
		case "sampler":
			v, err := d.int()
			if err != nil {
				return err
			}
			tex.Sampler = indexRef[Sampler](v)
			return nil
		case "source":
			v, err := d.int()
			if err != nil {
				return err
			}
			tex.Image = indexRef[Image](v)
			return nil
		case "name":
			v, err := d.string()
			tex.Name = v
			return err
		case "extras":
			tex.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) textureArray(doc *Document) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "textures: expected array")
	}
	doc.Textures = make([]Texture, t.Size)
	i := 0
	return d.array(func(_ int) error {
		err := d.texture(&doc.Textures[i])
		i++
		return err
	})
}

func (d *decoder) sampler(s *Sampler) error {
	s.WrapS = 10497
	s.WrapT = 10497
	return d.object(func(key string) error {
		switch key {
		case "magFilter":
			v, err := d.int()
			s.MagFilter = int32(v)
			return err
		case "minFilter":
			v, err := d.int()
			s.MinFilter = int32(v)
			return err
		case "wrapS":
			v, err := d.int()
			s.WrapS = int32(v)
			return err
		case "wrapT":
			v, err := d.int()
			s.WrapT = int32(v)
			return err
		case "name":
			v, err := d.string()
			s.Name = v
			return err
		case "extras":
			s.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) samplerArray(doc *Document) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "samplers: expected array")
	}
	doc.Samplers = make([]Sampler, t.Size)
	i := 0
	return d.array(func(_ int) error {
		err := d.sampler(&doc.Samplers[i])
		i++
		return err
	})
}

func (d *decoder) image(img *Image) error {
	return d.object(func(key string) error {
		switch key {
		case "uri":
			v, err := d.string()
			img.URI = v
			return err
		case "mimeType":
			v, err := d.string()
			img.MimeType = v
			return err
		case "bufferView":
			v, err := d.int()
			if err != nil {
				return err
			}
			img.BufferView = indexRef[BufferView](v)
			return nil
		case "name":
			v, err := d.string()
			img.Name = v
			return err
		case "extras":
			img.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) imageArray(doc *Document) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "images: expected array")
	}
	doc.Images = make([]Image, t.Size)
	i := 0
	return d.array(func(_ int) error {
		err := d.image(&doc.Images[i])
		i++
		return err
	})
}

func (d *decoder) skin(s *Skin) error {
	return d.object(func(key string) error {
		switch key {
		case "inverseBindMatrices":
			v, err := d.int()
			if err != nil {
				return err
			}
			s.InverseBindMatrices = indexRef[Accessor](v)
			return nil
		case "skeleton":
			v, err := d.int()
			if err != nil {
				return err
			}
			s.Skeleton = indexRef[Node](v)
			return nil
		case "joints":
			t := d.tok()
			if t.Kind != token.Array {
				return newError(ErrCodeInvalidJSON, "joints: expected array")
			}
			s.Joints = make([]Ref[Node], 0, t.Size)
			return d.array(func(_ int) error {
				v, err := d.int()
				if err != nil {
					return err
				}
				s.Joints = append(s.Joints, indexRef[Node](v))
				return nil
			})
		case "name":
			v, err := d.string()
			s.Name = v
			return err
		case "extras":
			s.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) skinArray(doc *Document) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "skins: expected array")
	}
	doc.Skins = make([]Skin, t.Size)
	i := 0
	return d.array(func(_ int) error {
		err := d.skin(&doc.Skins[i])
		i++
		return err
	})
}

func (d *decoder) perspective(p *Perspective) error {
	return d.object(func(key string) error {
		switch key {
		case "aspectRatio":
			v, err := d.float()
			p.AspectRatio = v
			p.HasAspectRatio = true
			return err
		case "yfov":
			v, err := d.float()
			p.YFov = v
			return err
		case "zfar":
			v, err := d.float()
			p.ZFar = v
			p.HasZFar = true
			return err
		case "znear":
			v, err := d.float()
			p.ZNear = v
			return err
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) orthographic(o *Orthographic) error {
	return d.object(func(key string) error {
		switch key {
		case "xmag":
			v, err := d.float()
			o.XMag = v
			return err
		case "ymag":
			v, err := d.float()
			o.YMag = v
			return err
		case "zfar":
			v, err := d.float()
			o.ZFar = v
			return err
		case "znear":
			v, err := d.float()
			o.ZNear = v
			return err
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) camera(c *Camera) error {
	return d.object(func(key string) error {
		switch key {
		case "type":
			v, err := d.string()
			if err != nil {
				return err
			}
			switch v {
			case "perspective":
				c.Kind = CamPerspective
			case "orthographic":
				c.Kind = CamOrthographic
			default:
				return newError(ErrCodeInvalidGltf, "invalid camera.type")
			}
			return nil
		case "perspective":
			p := &Perspective{}
			if err := d.perspective(p); err != nil {
				return err
			}
			c.Perspective = p
			return nil
		case "orthographic":
			o := &Orthographic{}
			if err := d.orthographic(o); err != nil {
				return err
			}
			c.Orthographic = o
			return nil
		case "name":
			v, err := d.string()
			c.Name = v
			return err
		case "extras":
			c.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) cameraArray(doc *Document) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "cameras: expected array")
	}
	doc.Cameras = make([]Camera, t.Size)
	i := 0
	return d.array(func(_ int) error {
		err := d.camera(&doc.Cameras[i])
		i++
		return err
	})
}

func (d *decoder) light(l *Light) error {
	l.Color = [3]float32{1, 1, 1}
	l.Intensity = 1
	l.OuterConeAngle = 0.7853981633974483
	return d.object(func(key string) error {
		switch key {
		case "color":
			a, err := d.floatN(3)
			if err != nil {
				return err
			}
			copy(l.Color[:], a)
			return nil
		case "intensity":
			v, err := d.float()
			l.Intensity = v
			return err
		case "type":
			v, err := d.string()
			if err != nil {
				return err
			}
			switch v {
			case "directional":
				l.Kind = LightDirectional
			case "point":
				l.Kind = LightPoint
			case "spot":
				l.Kind = LightSpot
			default:
				return newError(ErrCodeInvalidGltf, "invalid light.type")
			}
			return nil
		case "range":
			v, err := d.float()
			l.Range = v
			return err
		case "spot":
			return d.object(func(key string) error {
				switch key {
				case "innerConeAngle":
					v, err := d.float()
					l.InnerConeAngle = v
					return err
				case "outerConeAngle":
					v, err := d.float()
					l.OuterConeAngle = v
					return err
				default:
					d.skip()
					return nil
				}
			})
		case "name":
			v, err := d.string()
			l.Name = v
			return err
		case "extras":
			l.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) lightArray(doc *Document) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "lights: expected array")
	}
	doc.Lights = make([]Light, t.Size)
	i := 0
	return d.array(func(_ int) error {
		err := d.light(&doc.Lights[i])
		i++
		return err
	})
}

func (d *decoder) nodeExtensions(n *Node) error {
	return d.object(func(key string) error {
		switch key {
		case "KHR_lights_punctual":
			return d.object(func(key string) error {
				if key == "light" {
					v, err := d.int()
					if err != nil {
						return err
					}
					n.Light = indexRef[Light](v)
					return nil
				}
				d.skip()
				return nil
			})
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) node(n *Node) error {
	n.Rotation.I()
	n.Scale = linear.V3{1, 1, 1}
	return d.object(func(key string) error {
		switch key {
		case "camera":
			v, err := d.int()
			if err != nil {
				return err
			}
			n.Camera = indexRef[Camera](v)
			return nil
		case "children":
			t := d.tok()
			if t.Kind != token.Array {
				return newError(ErrCodeInvalidJSON, "children: expected array")
			}
			n.Children = make([]Ref[Node], 0, t.Size)
			return d.array(func(_ int) error {
				v, err := d.int()
				if err != nil {
					return err
				}
				n.Children = append(n.Children, indexRef[Node](v))
				return nil
			})
		case "skin":
			v, err := d.int()
			if err != nil {
				return err
			}
			n.Skin = indexRef[Skin](v)
			return nil
		case "matrix":
			a, err := d.floatN(16)
			if err != nil {
				return err
			}
			var m linear.M4
			for c := 0; c < 4; c++ {
				for r := 0; r < 4; r++ {
					m[c][r] = a[c*4+r]
				}
			}
			n.Matrix = m
			n.HasMatrix = true
			return nil
		case "mesh":
			v, err := d.int()
			if err != nil {
				return err
			}
			n.Mesh = indexRef[Mesh](v)
			return nil
		case "rotation":
			a, err := d.floatN(4)
			if err != nil {
				return err
			}
			n.Rotation = linear.Q{V: linear.V3{a[0], a[1], a[2]}, R: a[3]}
			return nil
		case "scale":
			a, err := d.floatN(3)
			if err != nil {
				return err
			}
			n.Scale = linear.V3{a[0], a[1], a[2]}
			return nil
		case "translation":
			a, err := d.floatN(3)
			if err != nil {
				return err
			}
			n.Translation = linear.V3{a[0], a[1], a[2]}
			return nil
		case "weights":
			w, err := d.floatSlice()
			n.Weights = w
			return err
		case "name":
			v, err := d.string()
			n.Name = v
			return err
		case "extensions":
			return d.nodeExtensions(n)
		case "extras":
			n.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) nodeArray(doc *Document) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "nodes: expected array")
	}
	doc.Nodes = make([]Node, t.Size)
	i := 0
	return d.array(func(_ int) error {
		err := d.node(&doc.Nodes[i])
		i++
		return err
	})
}

func (d *decoder) scene(s *Scene) error {
	return d.object(func(key string) error {
		switch key {
		case "nodes":
			t := d.tok()
			if t.Kind != token.Array {
				return newError(ErrCodeInvalidJSON, "nodes: expected array")
			}
			s.Nodes = make([]Ref[Node], 0, t.Size)
			return d.array(func(_ int) error {
				v, err := d.int()
				if err != nil {
					return err
				}
				s.Nodes = append(s.Nodes, indexRef[Node](v))
				return nil
			})
		case "name":
			v, err := d.string()
			s.Name = v
			return err
		case "extras":
			s.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) sceneArray(doc *Document) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "scenes: expected array")
	}
	doc.Scenes = make([]Scene, t.Size)
	i := 0
	return d.array(func(_ int) error {
		err := d.scene(&doc.Scenes[i])
		i++
		return err
	})
}

func decodeInterpolation(s string) (Interpolation, bool) {
	switch s {
	case "LINEAR":
		return Linear, true
	case "STEP":
		return Step, true
	case "CUBICSPLINE":
		return CubicSpline, true
	default:
		return 0, false
	}
}

func decodeAnimationPath(s string) (AnimationPath, bool) {
	switch s {
	case "translation":
		return PathTranslation, true
	case "rotation":
		return PathRotation, true
	case "scale":
		return PathScale, true
	case "weights":
		return PathWeights, true
	default:
		return 0, false
	}
}

func (d *decoder) animationSampler(s *AnimationSampler) error {
	s.Interpolation = Linear
	return d.object(func(key string) error {
		switch key {
		case "input":
			v, err := d.int()
			if err != nil {
				return err
			}
			s.Input = indexRef[Accessor](v)
			return nil
		case "interpolation":
			v, err := d.string()
			if err != nil {
				return err
			}
			it, ok := decodeInterpolation(v)
			if !ok {
				return newError(ErrCodeInvalidGltf, "invalid sampler.interpolation")
			}
			s.Interpolation = it
			return nil
		case "output":
			v, err := d.int()
			if err != nil {
				return err
			}
			s.Output = indexRef[Accessor](v)
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) animationChannel(c *AnimationChannel) error {
	return d.object(func(key string) error {
		switch key {
		case "sampler":
			v, err := d.int()
			c.Sampler = int32(v)
			return err
		case "target":
			return d.object(func(key string) error {
				switch key {
				case "node":
					v, err := d.int()
					if err != nil {
						return err
					}
					c.TargetNode = indexRef[Node](v)
					return nil
				case "path":
					v, err := d.string()
					if err != nil {
						return err
					}
					p, ok := decodeAnimationPath(v)
					if !ok {
						return newError(ErrCodeInvalidGltf, "invalid target.path")
					}
					c.TargetPath = p
					return nil
				default:
					d.skip()
					return nil
				}
			})
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) animation(a *Animation) error {
	return d.object(func(key string) error {
		switch key {
		case "channels":
			t := d.tok()
			if t.Kind != token.Array {
				return newError(ErrCodeInvalidJSON, "channels: expected array")
			}
			a.Channels = make([]AnimationChannel, t.Size)
			i := 0
			return d.array(func(_ int) error {
				err := d.animationChannel(&a.Channels[i])
				i++
				return err
			})
		case "samplers":
			t := d.tok()
			if t.Kind != token.Array {
				return newError(ErrCodeInvalidJSON, "samplers: expected array")
			}
			a.Samplers = make([]AnimationSampler, t.Size)
			i := 0
			return d.array(func(_ int) error {
				err := d.animationSampler(&a.Samplers[i])
				i++
				return err
			})
		case "name":
			v, err := d.string()
			a.Name = v
			return err
		case "extras":
			a.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) animationArray(doc *Document) error {
	t := d.tok()
	if t.Kind != token.Array {
		return newError(ErrCodeInvalidJSON, "animations: expected array")
	}
	doc.Animations = make([]Animation, t.Size)
	i := 0
	return d.array(func(_ int) error {
		err := d.animation(&doc.Animations[i])
		i++
		return err
	})
}

func (d *decoder) asset(a *Asset) error {
	return d.object(func(key string) error {
		switch key {
		case "copyright":
			v, err := d.string()
			a.Copyright = v
			return err
		case "generator":
			v, err := d.string()
			a.Generator = v
			return err
		case "version":
			v, err := d.string()
			a.Version = v
			return err
		case "minVersion":
			v, err := d.string()
			a.MinVersion = v
			return err
		case "extras":
			a.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) documentExtensions(doc *Document) error {
	return d.object(func(key string) error {
		switch key {
		case "KHR_lights_punctual":
			return d.object(func(key string) error {
				if key == "lights" {
					return d.lightArray(doc)
				}
				d.skip()
				return nil
			})
		default:
			d.skip()
			return nil
		}
	})
}

func (d *decoder) document(doc *Document) error {
	return d.object(func(key string) error {
		switch key {
		case "asset":
			return d.asset(&doc.Asset)
		case "extensionsUsed":
			s, err := d.stringArray()
			doc.ExtensionsUsed = dedupeStrings(s)
			return err
		case "extensionsRequired":
			s, err := d.stringArray()
			doc.ExtensionsRequired = dedupeStrings(s)
			return err
		case "buffers":
			return d.bufferArray(doc)
		case "bufferViews":
			return d.bufferViewArray(doc)
		case "accessors":
			return d.accessorArray(doc)
		case "meshes":
			return d.meshArray(doc)
		case "materials":
			return d.materialArray(doc)
		case "textures":
			return d.textureArray(doc)
		case "samplers":
			return d.samplerArray(doc)
		case "images":
			return d.imageArray(doc)
		case "skins":
			return d.skinArray(doc)
		case "cameras":
			return d.cameraArray(doc)
		case "nodes":
			return d.nodeArray(doc)
		case "scenes":
			return d.sceneArray(doc)
		case "animations":
			return d.animationArray(doc)
		case "scene":
			v, err := d.int()
			if err != nil {
				return err
			}
			doc.Scene = indexRef[Scene](v)
			return nil
		case "extensions":
			return d.documentExtensions(doc)
		case "extras":
			doc.Extras = d.extras()
			return nil
		default:
			d.skip()
			return nil
		}
	})
}
