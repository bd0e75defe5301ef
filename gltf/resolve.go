// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import "github.com/gviegas/gltfdoc/internal/bitvec"

// componentSize returns the size in bytes of one scalar component.
func componentSize(ct ComponentType) int64 {
	switch ct {
	case ComponentI8, ComponentU8:
		return 1
	case ComponentI16, ComponentU16:
		return 2
	case ComponentU32, ComponentF32:
		return 4
	default:
		return 0
	}
}

// componentCount returns the number of scalar components making up
// one element of the given accessor type.
func componentCount(t AccessorType) int64 {
	switch t {
	case Scalar:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4, Mat2:
		return 4
	case Mat3:
		return 9
	case Mat4:
		return 16
	default:
		return 0
	}
}

// packedElementSize returns the tightly-packed byte size of one
// accessor element, honoring the glTF alignment rule that requires
// each row of a mat2/mat3 accessor to be padded up to a multiple of
// 4 bytes when the component size is 1 or 2.
func packedElementSize(ct ComponentType, t AccessorType) int64 {
	cs := componentSize(ct)
	switch t {
	case Mat2:
		if cs == 1 {
			rowBytes := align4(2 * cs)
			return rowBytes * 2
		}
		return cs * 4
	case Mat3:
		if cs == 1 || cs == 2 {
			rowBytes := align4(3 * cs)
			return rowBytes * 3
		}
		return cs * 9
	default:
		return cs * componentCount(t)
	}
}

func align4(n int64) int64 { return (n + 3) &^ 3 }

// resolveDocument rewrites every Ref in doc into a direct pointer,
// links Node.Parent back-references (rejecting a node claimed by more
// than one parent or listed as both a scene root and a child), and
// defaults each Accessor's Stride.
func resolveDocument(doc *Document) error {
	for i := range doc.BufferViews {
		if err := doc.BufferViews[i].Buffer.resolve(doc.Buffers); err != nil {
			return err
		}
	}

	for i := range doc.Accessors {
		a := &doc.Accessors[i]
		if err := a.BufferView.resolve(doc.BufferViews); err != nil {
			return err
		}
		if a.Sparse != nil {
			if err := a.Sparse.IndicesView.resolve(doc.BufferViews); err != nil {
				return err
			}
			if err := a.Sparse.ValuesView.resolve(doc.BufferViews); err != nil {
				return err
			}
		}
		if bv := a.BufferView.Get(); bv != nil && bv.ByteStride != 0 {
			a.Stride = bv.ByteStride
		} else {
			a.Stride = packedElementSize(a.ComponentType, a.Type)
		}
	}

	for i := range doc.Images {
		if err := doc.Images[i].BufferView.resolve(doc.BufferViews); err != nil {
			return err
		}
	}

	for i := range doc.Textures {
		if err := doc.Textures[i].Image.resolve(doc.Images); err != nil {
			return err
		}
		if err := doc.Textures[i].Sampler.resolve(doc.Samplers); err != nil {
			return err
		}
	}

	for i := range doc.Materials {
		if err := resolveMaterial(doc, &doc.Materials[i]); err != nil {
			return err
		}
	}

	for i := range doc.Meshes {
		for j := range doc.Meshes[i].Primitives {
			p := &doc.Meshes[i].Primitives[j]
			if err := p.Indices.resolve(doc.Accessors); err != nil {
				return err
			}
			if err := p.Material.resolve(doc.Materials); err != nil {
				return err
			}
			if err := resolveAttributes(doc, p.Attributes); err != nil {
				return err
			}
			for k := range p.Targets {
				if err := resolveAttributes(doc, p.Targets[k].Attributes); err != nil {
					return err
				}
			}
		}
	}

	for i := range doc.Skins {
		s := &doc.Skins[i]
		if err := s.InverseBindMatrices.resolve(doc.Accessors); err != nil {
			return err
		}
		if err := s.Skeleton.resolve(doc.Nodes); err != nil {
			return err
		}
		for j := range s.Joints {
			if err := s.Joints[j].resolve(doc.Nodes); err != nil {
				return err
			}
		}
	}

	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		if err := n.Camera.resolve(doc.Cameras); err != nil {
			return err
		}
		if err := n.Skin.resolve(doc.Skins); err != nil {
			return err
		}
		if err := n.Mesh.resolve(doc.Meshes); err != nil {
			return err
		}
		if err := n.Light.resolve(doc.Lights); err != nil {
			return err
		}
		for j := range n.Children {
			if err := n.Children[j].resolve(doc.Nodes); err != nil {
				return err
			}
		}
	}

	if err := linkNodeParents(doc); err != nil {
		return err
	}

	for i := range doc.Scenes {
		for j := range doc.Scenes[i].Nodes {
			if err := doc.Scenes[i].Nodes[j].resolve(doc.Nodes); err != nil {
				return err
			}
		}
	}
	if err := doc.Scene.resolve(doc.Scenes); err != nil {
		return err
	}

	for i := range doc.Animations {
		an := &doc.Animations[i]
		for j := range an.Samplers {
			if err := an.Samplers[j].Input.resolve(doc.Accessors); err != nil {
				return err
			}
			if err := an.Samplers[j].Output.resolve(doc.Accessors); err != nil {
				return err
			}
		}
		for j := range an.Channels {
			c := &an.Channels[j]
			if err := c.TargetNode.resolve(doc.Nodes); err != nil {
				return err
			}
			if int(c.Sampler) < 0 || int(c.Sampler) >= len(an.Samplers) {
				return newError(ErrCodeInvalidGltf, "animation channel: sampler index out of range")
			}
		}
	}

	return nil
}

func resolveMaterial(doc *Document, m *Material) error {
	resolveTextureView := func(tv *TextureView) error {
		if tv == nil {
			return nil
		}
		return tv.Texture.resolve(doc.Textures)
	}
	if m.PBRMetallicRoughness != nil {
		if err := resolveTextureView(m.PBRMetallicRoughness.BaseColorTexture); err != nil {
			return err
		}
		if err := resolveTextureView(m.PBRMetallicRoughness.MetallicRoughnessTexture); err != nil {
			return err
		}
	}
	if m.HasPBRSpecularGlossiness && m.PBRSpecularGlossiness != nil {
		if err := resolveTextureView(m.PBRSpecularGlossiness.DiffuseTexture); err != nil {
			return err
		}
		if err := resolveTextureView(m.PBRSpecularGlossiness.SpecularGlossinessTexture); err != nil {
			return err
		}
	}
	if err := resolveTextureView(m.NormalTexture); err != nil {
		return err
	}
	if err := resolveTextureView(m.OcclusionTexture); err != nil {
		return err
	}
	return resolveTextureView(m.EmissiveTexture)
}

func resolveAttributes(doc *Document, attrs []Attribute) error {
	for i := range attrs {
		if err := attrs[i].Accessor.resolve(doc.Accessors); err != nil {
			return err
		}
	}
	return nil
}

// linkNodeParents sets Node.Parent from every Children list, using a
// bit per node to reject a node listed as the child of more than one
// parent, then rejects any Scene.Nodes root that is also some node's
// child.
func linkNodeParents(doc *Document) error {
	var claimed bitvec.V
	claimed.Grow(len(doc.Nodes))

	claim := func(childIdx int32, parent *Node) error {
		if already := claimed.Set(int(childIdx)); already {
			return newError(ErrCodeInvalidGltf, "node has more than one parent")
		}
		doc.Nodes[childIdx].Parent = parent
		return nil
	}

	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		for _, c := range n.Children {
			if !c.IsSet() {
				continue
			}
			if err := claim(c.index, n); err != nil {
				return err
			}
		}
	}

	for i := range doc.Scenes {
		for _, r := range doc.Scenes[i].Nodes {
			if !r.IsSet() {
				continue
			}
			if claimed.IsSet(int(r.index)) {
				return newError(ErrCodeInvalidGltf, "scene root is also a child node")
			}
		}
	}

	return nil
}
