// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package gltf implements parsing, validation, accessor readout and
// node-transform computation for glTF 2.0 assets (.gltf JSON text
// and .glb binary containers). Decoding, reference resolution and
// validation are pure functions over caller-owned byte slices; the
// only I/O lives in the ParseFile/LoadBuffers collaborators.
package gltf

import "github.com/gviegas/gltfdoc/linear"

// Ref is a reference to an entity of type T owned by some Document
// table. During decoding it holds a 0-based table index (the
// index-first encoding of spec §4.3); Resolve rewrites it into a
// direct pointer into the owning table. An unset Ref (the zero
// value) has no index and no pointer.
type Ref[T any] struct {
	index int32
	set   bool
	ptr   *T
}

// unsetRef is the zero value spelled out for clarity at call sites.
func unsetRef[T any]() Ref[T] { return Ref[T]{} }

// indexRef builds a Ref carrying the raw JSON index, not yet resolved.
func indexRef[T any](i int64) Ref[T] {
	if i < 0 {
		return Ref[T]{}
	}
	return Ref[T]{index: int32(i), set: true}
}

// IsSet reports whether the reference was present in the source
// document (resolved or not).
func (r Ref[T]) IsSet() bool { return r.set }

// Get returns the resolved entity, or nil if unset or not yet
// resolved.
func (r Ref[T]) Get() *T { return r.ptr }

// resolve rewrites the stored index into a direct pointer into
// table. It is a no-op on an unset Ref.
func (r *Ref[T]) resolve(table []T) error {
	if !r.set {
		return nil
	}
	if int(r.index) >= len(table) {
		return newError(ErrCodeInvalidGltf, "reference index out of range")
	}
	r.ptr = &table[r.index]
	return nil
}

// Extras records the byte range of a JSON value attached under an
// "extras" member, to be retrieved later via Document.CopyExtras.
type Extras struct {
	Start, End int
}

type ComponentType int32

const (
	ComponentI8 ComponentType = iota
	ComponentU8
	ComponentI16
	ComponentU16
	ComponentU32
	ComponentF32
)

// AccessorType is the logical shape of one accessor element.
type AccessorType int32

const (
	Scalar AccessorType = iota
	Vec2
	Vec3
	Vec4
	Mat2
	Mat3
	Mat4
)

type BufferViewTarget int32

const (
	TargetUnknown BufferViewTarget = iota
	TargetVertices
	TargetIndices
)

type Topology int32

const (
	Points Topology = iota
	Lines
	LineLoop
	LineStrip
	Triangles
	TriangleStrip
	TriangleFan
)

type Interpolation int32

const (
	Linear Interpolation = iota
	Step
	CubicSpline
)

type AnimationPath int32

const (
	PathTranslation AnimationPath = iota
	PathRotation
	PathScale
	PathWeights
)

// Semantic classifies an attribute's name prefix (the part before an
// optional "_N" set-index suffix).
type Semantic int32

const (
	SemUnknown Semantic = iota
	SemPosition
	SemNormal
	SemTangent
	SemTexcoord
	SemColor
	SemJoints
	SemWeights
)

type AlphaMode int32

const (
	Opaque AlphaMode = iota
	Mask
	Blend
)

type CameraKind int32

const (
	CamPerspective CameraKind = iota
	CamOrthographic
)

type LightKind int32

const (
	LightDirectional LightKind = iota
	LightPoint
	LightSpot
)

type Buffer struct {
	ByteLength int64
	URI        string
	Data       []byte
	Name       string
	Extras     Extras
}

type BufferView struct {
	Buffer     Ref[Buffer]
	ByteOffset int64
	ByteLength int64
	ByteStride int64
	Target     BufferViewTarget
	Name       string
	Extras     Extras
}

// Sparse overlays a small indexed update onto an accessor's base
// range (or onto zeros, if the accessor has no BufferView).
type Sparse struct {
	Count                 int64
	IndicesView           Ref[BufferView]
	IndicesByteOffset     int64
	IndicesComponentType  ComponentType
	ValuesView            Ref[BufferView]
	ValuesByteOffset      int64
}

type Accessor struct {
	BufferView    Ref[BufferView]
	ByteOffset    int64
	ComponentType ComponentType
	Normalized    bool
	Count         int64
	Type          AccessorType
	Max           []float32
	Min           []float32
	Sparse        *Sparse
	// Stride is resolved after decoding: BufferView.ByteStride if
	// nonzero, else the packed element size (§4.6).
	Stride int64
	Name   string
	Extras Extras
}

type Attribute struct {
	Name     string // raw JSON key, e.g. "TEXCOORD_1"
	Semantic Semantic
	SetIndex int
	Accessor Ref[Accessor]
}

type MorphTarget struct {
	Attributes []Attribute
}

type Primitive struct {
	Topology   Topology
	Indices    Ref[Accessor]
	Material   Ref[Material]
	Attributes []Attribute
	Targets    []MorphTarget
	Extras     Extras
}

type Mesh struct {
	Primitives []Primitive
	Weights    []float32
	Name       string
	Extras     Extras
}

type Image struct {
	URI        string
	MimeType   string
	BufferView Ref[BufferView]
	Name       string
	Extras     Extras
}

type Sampler struct {
	MagFilter int32
	MinFilter int32
	WrapS     int32
	WrapT     int32
	Name      string
	Extras    Extras
}

type Texture struct {
	Image   Ref[Image]
	Sampler Ref[Sampler]
	Name    string
	Extras  Extras
}

// TextureTransform is the KHR_texture_transform extension payload.
type TextureTransform struct {
	Offset      [2]float32
	Rotation    float32
	Scale       [2]float32
	TexCoord    int64
	HasTexCoord bool
}

type TextureView struct {
	Texture Ref[Texture]
	TexCoord int64
	// Scale doubles as occlusionTexture.strength; both default to 1.
	Scale     float32
	Transform *TextureTransform
	Extras    Extras
}

type PBRMetallicRoughness struct {
	BaseColorFactor          [4]float32
	BaseColorTexture         *TextureView
	MetallicFactor           float32
	RoughnessFactor          float32
	MetallicRoughnessTexture *TextureView
}

// PBRSpecularGlossiness is the KHR_materials_pbrSpecularGlossiness
// extension payload.
type PBRSpecularGlossiness struct {
	DiffuseFactor             [4]float32
	DiffuseTexture            *TextureView
	SpecularFactor            [3]float32
	GlossinessFactor          float32
	SpecularGlossinessTexture *TextureView
}

type Material struct {
	PBRMetallicRoughness *PBRMetallicRoughness

	// HasPBRSpecularGlossiness mirrors the KHR_materials_pbrSpecularGlossiness presence flag.
	HasPBRSpecularGlossiness bool
	PBRSpecularGlossiness    *PBRSpecularGlossiness

	NormalTexture    *TextureView
	OcclusionTexture *TextureView
	EmissiveTexture  *TextureView
	EmissiveFactor   [3]float32
	AlphaMode        AlphaMode
	AlphaCutoff      float32
	DoubleSided      bool

	// Unlit mirrors the KHR_materials_unlit presence flag.
	Unlit bool

	Name   string
	Extras Extras
}

type Skin struct {
	InverseBindMatrices Ref[Accessor]
	Skeleton            Ref[Node]
	Joints              []Ref[Node]
	Name                string
	Extras              Extras
}

type Perspective struct {
	AspectRatio    float32
	HasAspectRatio bool
	YFov           float32
	ZFar           float32
	HasZFar        bool
	ZNear          float32
}

type Orthographic struct {
	XMag, YMag, ZFar, ZNear float32
}

type Camera struct {
	Kind         CameraKind
	Perspective  *Perspective
	Orthographic *Orthographic
	Name         string
	Extras       Extras
}

// Light is the KHR_lights_punctual extension's light definition.
type Light struct {
	Color          [3]float32
	Intensity      float32
	Kind           LightKind
	Range          float32
	InnerConeAngle float32
	OuterConeAngle float32
	Name           string
	Extras         Extras
}

type Node struct {
	Camera      Ref[Camera]
	Children    []Ref[Node]
	Skin        Ref[Skin]
	HasMatrix   bool
	Matrix      linear.M4
	Mesh        Ref[Mesh]
	Rotation    linear.Q
	Scale       linear.V3
	Translation linear.V3
	Weights     []float32
	Light       Ref[Light]

	// Parent is the owning back-link set by the resolver; nil for a
	// scene root. It runs opposite to table ownership (Document owns
	// the Nodes table; Parent merely borrows from it).
	Parent *Node

	Name   string
	Extras Extras
}

type Scene struct {
	Nodes  []Ref[Node]
	Name   string
	Extras Extras
}

type AnimationSampler struct {
	Input         Ref[Accessor]
	Interpolation Interpolation
	Output        Ref[Accessor]
}

type AnimationChannel struct {
	// Sampler indexes Animation.Samplers, a table-local index rather
	// than a Document-wide Ref since animation samplers are not a
	// Document table of their own.
	Sampler    int32
	TargetNode Ref[Node]
	TargetPath AnimationPath
}

type Animation struct {
	Samplers []AnimationSampler
	Channels []AnimationChannel
	Name     string
	Extras   Extras
}

type Asset struct {
	Copyright  string
	Generator  string
	Version    string
	MinVersion string
	Extras     Extras
}

// Document is the root of a parsed glTF asset. It owns every entity
// table; cross-entity references are Refs resolved to direct
// pointers into these tables, valid for the Document's lifetime.
// There is no Free operation: dropping every reference to a Document
// is sufficient, since Go's garbage collector reclaims it and its
// tables together (see DESIGN.md).
type Document struct {
	Asset Asset

	Buffers     []Buffer
	BufferViews []BufferView
	Accessors   []Accessor
	Meshes      []Mesh
	Materials   []Material
	Textures    []Texture
	Samplers    []Sampler
	Images      []Image
	Skins       []Skin
	Cameras     []Camera
	Lights      []Light
	Nodes       []Node
	Scenes      []Scene
	Animations  []Animation

	Scene Ref[Scene]

	ExtensionsUsed     []string
	ExtensionsRequired []string

	// JSON is the retained JSON chunk bytes, kept for Extras
	// retrieval (Start/End offsets are relative to this slice).
	JSON []byte
	// BinChunk is the retained GLB BIN chunk, if any; buffer 0
	// without a URI and without loaded Data is backed by this slice.
	BinChunk []byte
	// FileData is the raw bytes read by ParseFile. LoadBuffers does
	// not use it; it takes the asset's path as its own argument.
	FileData []byte

	Extras Extras
}

// RequiresExtension reports whether name appears in
// Document.ExtensionsRequired.
func (d *Document) RequiresExtension(name string) bool {
	for _, n := range d.ExtensionsRequired {
		if n == name {
			return true
		}
	}
	return false
}

func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
