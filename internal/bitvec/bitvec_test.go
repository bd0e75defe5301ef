// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package bitvec

import "testing"

func TestSetIsSet(t *testing.T) {
	var v V
	v.Grow(130)
	if v.Len() < 130 {
		t.Fatalf("Grow(130): Len\nhave %d\nwant >= 130", v.Len())
	}
	for _, i := range []int{0, 1, 63, 64, 65, 127, 128, 129} {
		if v.IsSet(i) {
			t.Fatalf("IsSet(%d): have true, want false", i)
		}
	}
	if already := v.Set(64); already {
		t.Fatal("Set(64): have true, want false")
	}
	if !v.IsSet(64) {
		t.Fatal("IsSet(64): have false, want true")
	}
	if already := v.Set(64); !already {
		t.Fatal("Set(64) again: have false, want true")
	}
	if v.IsSet(65) {
		t.Fatal("IsSet(65): have true, want false")
	}
}

func TestGrowPreservesBits(t *testing.T) {
	var v V
	v.Grow(8)
	v.Set(3)
	v.Grow(200)
	if !v.IsSet(3) {
		t.Fatal("IsSet(3) after Grow: have false, want true")
	}
	if v.IsSet(150) {
		t.Fatal("IsSet(150): have true, want false")
	}
}
