// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// Q is a quaternion of float32.
type Q struct {
	V V3
	R float32
}

// Mul sets q to contain l ⋅ r.
func (q *Q) Mul(l, r *Q) {
	var v, w V3
	v.Scale(r.R, &l.V)
	w.Scale(l.R, &r.V)
	v.Add(&v, &w)
	w.Cross(&l.V, &r.V)
	d := l.V.Dot(&r.V)
	q.V.Add(&v, &w)
	q.R = l.R*r.R - d
}

// I makes q the identity quaternion (no rotation).
func (q *Q) I() { *q = Q{R: 1} }

// Mat4 sets m to the column-major rotation matrix represented by q.
// q is assumed to be a unit quaternion (x, y, z, w) with w stored in
// q.R, as glTF node.rotation encodes it.
func (q *Q) Mat4(m *M4) {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.R
	x2, y2, z2 := x+x, y+y, z+z
	xx, xy, xz := x*x2, x*y2, x*z2
	yy, yz, zz := y*y2, y*z2, z*z2
	wx, wy, wz := w*x2, w*y2, w*z2
	*m = M4{
		{1 - (yy + zz), xy + wz, xz - wy, 0},
		{xy - wz, 1 - (xx + zz), yz + wx, 0},
		{xz + wy, yz - wx, 1 - (xx + yy), 0},
		{0, 0, 0, 1},
	}
}
