// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

// ExtrasLen reports the dst capacity CopyExtras needs to receive the
// raw JSON value recorded by e without truncation — the value's byte
// length plus one for the trailing NUL. It is 0 for the zero Extras
// value (no "extras" member was present), replacing the C idiom of
// querying the size via a nil destination pointer (see DESIGN.md).
func (d *Document) ExtrasLen(e Extras) int {
	if e.End <= e.Start {
		return 0
	}
	return e.End - e.Start + 1
}

// CopyExtras copies the raw JSON bytes of e into dst as a
// NUL-terminated string, writing at most len(dst)-1 value bytes plus
// the terminator, and returns the number of value bytes written
// (excluding the terminator). Callers that need the value
// untruncated should size dst using ExtrasLen first.
func (d *Document) CopyExtras(e Extras, dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if e.End <= e.Start {
		dst[0] = 0
		return 0, nil
	}
	if e.Start < 0 || e.End > len(d.JSON) {
		return 0, newError(ErrCodeInvalidOptions, "extras: range out of bounds")
	}
	n := copy(dst[:len(dst)-1], d.JSON[e.Start:e.End])
	dst[n] = 0
	return n, nil
}
