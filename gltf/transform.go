// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import "github.com/gviegas/gltfdoc/linear"

// TransformLocal returns n's local transform matrix: Matrix directly,
// if present, or the TRS composition T * R * S otherwise.
func (n *Node) TransformLocal() linear.M4 {
	if n.HasMatrix {
		return n.Matrix
	}
	var r, s, t, m linear.M4
	n.Rotation.Mat4(&r)
	s.Scaling(&n.Scale)
	t.Translation(&n.Translation)
	m.Mul(&t, &r)
	m.Mul(&m, &s)
	return m
}

// TransformWorld returns n's transform composed with every ancestor's
// local transform, root-to-leaf.
func (n *Node) TransformWorld() linear.M4 {
	m := n.TransformLocal()
	for p := n.Parent; p != nil; p = p.Parent {
		pm := p.TransformLocal()
		m.Mul(&pm, &m)
	}
	return m
}
