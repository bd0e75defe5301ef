// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
	"testing"
)

func TestV3(t *testing.T) {
	v := V3{1, 2, 4}
	w := V3{0, -1, 2}

	var u V3
	u.Add(&v, &w)
	if u != (V3{1, 1, 6}) {
		t.Fatalf("V3.Add\nhave %v\nwant [1 1 6]", u)
	}
	u.Sub(&v, &w)
	if u != (V3{1, 3, 2}) {
		t.Fatalf("V3.Sub\nhave %v\nwant [1 3 2]", u)
	}
	u.Scale(-1, &v)
	if u != (V3{-1, -2, -4}) {
		t.Fatalf("V3.Scale\nhave %v\nwant [-1 -2 -4]", u)
	}
	if d := v.Dot(&w); d != 6 {
		t.Fatalf("V3.Dot\nhave %v\nwant 6", d)
	}
	if l := v.Len(); l != float32(math.Sqrt(21)) {
		t.Fatalf("V3.Len\nhave %v\nwant %v", l, math.Sqrt(21))
	}

	n := V3{0, 0, -2}
	u.Norm(&n)
	if u != (V3{0, 0, -1}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 0 -1]", u)
	}

	l := V3{0, 0, -1}
	r := V3{0, 1, 0}
	u.Cross(&l, &r)
	if u != (V3{1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [1 0 0]", u)
	}
}

func TestM4Identity(t *testing.T) {
	var m M4
	m.I()
	v := V4{1, 2, 3, 1}
	var u V4
	u.Mul(&m, &v)
	if u != v {
		t.Fatalf("M4.I then Mul\nhave %v\nwant %v", u, v)
	}
}

func TestM4ScalingTranslation(t *testing.T) {
	var s M4
	s.Scaling(&V3{2, 3, 4})
	v := V4{1, 1, 1, 1}
	var u V4
	u.Mul(&s, &v)
	if u != (V4{2, 3, 4, 1}) {
		t.Fatalf("M4.Scaling then Mul\nhave %v\nwant [2 3 4 1]", u)
	}

	var tr M4
	tr.Translation(&V3{1, 2, 3})
	u.Mul(&tr, &V4{0, 0, 0, 1})
	if u != (V4{1, 2, 3, 1}) {
		t.Fatalf("M4.Translation then Mul\nhave %v\nwant [1 2 3 1]", u)
	}
}

func TestQIdentityMat4(t *testing.T) {
	var q Q
	q.I()
	var m M4
	q.Mat4(&m)
	var id M4
	id.I()
	if m != id {
		t.Fatalf("Q.I then Mat4\nhave %v\nwant identity %v", m, id)
	}
}
