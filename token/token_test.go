package token

import "testing"

func scanAll(t *testing.T, data string) []Token {
	t.Helper()
	var s Scanner
	n, err := s.Scan([]byte(data), nil)
	if err != nil {
		t.Fatalf("Scan(nil) prepass: %v", err)
	}
	toks := make([]Token, n)
	n2, err := s.Scan([]byte(data), toks)
	if err != nil {
		t.Fatalf("Scan(toks): %v", err)
	}
	if n2 != n {
		t.Fatalf("Scan(toks) count\nhave %d\nwant %d (prepass)", n2, n)
	}
	return toks
}

func TestMinimalObject(t *testing.T) {
	toks := scanAll(t, `{"asset":{"version":"2.0"}}`)
	if len(toks) != 5 {
		t.Fatalf("token count\nhave %d\nwant 5", len(toks))
	}
	if toks[0].Kind != Object || toks[0].Size != 1 || toks[0].Parent != -1 {
		t.Fatalf("toks[0]\nhave %+v\nwant Object size=1 parent=-1", toks[0])
	}
	if toks[1].Kind != String || toks[1].Parent != 0 {
		t.Fatalf("toks[1]\nhave %+v\nwant String parent=0", toks[1])
	}
	if toks[2].Kind != Object || toks[2].Size != 1 || toks[2].Parent != 0 {
		t.Fatalf("toks[2]\nhave %+v\nwant Object size=1 parent=0", toks[2])
	}
	if toks[3].Kind != String || toks[3].Parent != 2 {
		t.Fatalf("toks[3]\nhave %+v\nwant String parent=2", toks[3])
	}
	if toks[4].Kind != String || toks[4].Parent != 2 {
		t.Fatalf("toks[4]\nhave %+v\nwant String parent=2", toks[4])
	}
}

func TestArraySize(t *testing.T) {
	toks := scanAll(t, `[1,2,3]`)
	if toks[0].Kind != Array || toks[0].Size != 3 {
		t.Fatalf("toks[0]\nhave %+v\nwant Array size=3", toks[0])
	}
	for i := 1; i <= 3; i++ {
		if toks[i].Kind != Primitive || toks[i].Parent != 0 {
			t.Fatalf("toks[%d]\nhave %+v\nwant Primitive parent=0", i, toks[i])
		}
	}
}

func TestNestedArrayOfObjects(t *testing.T) {
	toks := scanAll(t, `{"nodes":[{"children":[1,2]},{},{}]}`)
	// 0 root object (size 1)
	// 1 "nodes" key
	// 2 array (size 3)
	// 3 object {"children":[1,2]} (size 1)
	// 4 "children" key
	// 5 array [1,2] (size 2)
	// 6,7 primitives
	// 8 object {}
	// 9 object {}
	if len(toks) != 10 {
		t.Fatalf("token count\nhave %d\nwant 10", len(toks))
	}
	if toks[0].Size != 1 {
		t.Fatalf("root size\nhave %d\nwant 1", toks[0].Size)
	}
	if toks[2].Kind != Array || toks[2].Size != 3 {
		t.Fatalf("nodes array\nhave %+v\nwant Array size=3", toks[2])
	}
	if toks[3].Kind != Object || toks[3].Size != 1 || toks[3].Parent != 2 {
		t.Fatalf("nodes[0]\nhave %+v", toks[3])
	}
	if toks[5].Kind != Array || toks[5].Size != 2 || toks[5].Parent != 3 {
		t.Fatalf("children array\nhave %+v", toks[5])
	}
	if toks[8].Parent != 2 || toks[9].Parent != 2 {
		t.Fatalf("nodes[1]/[2] parent\nhave %+v %+v\nwant parent=2", toks[8], toks[9])
	}
}

func TestStringExcludesQuotes(t *testing.T) {
	toks := scanAll(t, `"hi"`)
	if toks[0].Kind != String || toks[0].Start != 1 || toks[0].End != 3 {
		t.Fatalf("string span\nhave %+v\nwant start=1 end=3", toks[0])
	}
}

func TestEscapedUnicode(t *testing.T) {
	toks := scanAll(t, "\"a\\u00e9b\"")
	if toks[0].Kind != String {
		t.Fatalf("kind\nhave %v\nwant String", toks[0].Kind)
	}
}

func TestPrimitiveLiterals(t *testing.T) {
	toks := scanAll(t, `[true,false,null,-1.5e10]`)
	if len(toks) != 5 {
		t.Fatalf("token count\nhave %d\nwant 5", len(toks))
	}
	for i := 1; i <= 4; i++ {
		if toks[i].Kind != Primitive {
			t.Fatalf("toks[%d].Kind\nhave %v\nwant Primitive", i, toks[i].Kind)
		}
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
		want error
	}{
		{"unmatched open", `{"a":1`, ErrPartial},
		{"stray close", `}`, ErrInvalid},
		{"bad bracket kind", `{"a":1]`, ErrInvalid},
		{"truncated string", `"abc`, ErrPartial},
		{"bad escape", `"a\qb"`, ErrInvalid},
		{"bad unicode escape", `"a\u12"`, ErrInvalid},
		{"control char in primitive", "\x01", ErrInvalid},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var s Scanner
			_, err := s.Scan([]byte(c.data), nil)
			if err != c.want {
				t.Fatalf("Scan(%q)\nhave %v\nwant %v", c.data, err, c.want)
			}
		})
	}
}

func TestPrepassMatchesFillCount(t *testing.T) {
	for _, data := range []string{
		`{"asset":{"version":"2.0"}}`,
		`[1,2,3]`,
		`{"nodes":[{"children":[1,2]},{},{}]}`,
		`{"a":"b","c":[1,{"d":null}]}`,
	} {
		var s Scanner
		n, err := s.Scan([]byte(data), nil)
		if err != nil {
			t.Fatalf("Scan(nil) on %q: %v", data, err)
		}
		toks := make([]Token, n)
		n2, err := s.Scan([]byte(data), toks)
		if err != nil {
			t.Fatalf("Scan(toks) on %q: %v", data, err)
		}
		if n != n2 {
			t.Fatalf("counts differ on %q\nhave %d\nwant %d", data, n2, n)
		}
	}
}

func TestNoMemWhenTokenArrayTooSmall(t *testing.T) {
	var s Scanner
	toks := make([]Token, 1)
	_, err := s.Scan([]byte(`{"a":1}`), toks)
	if err != ErrNoMem {
		t.Fatalf("Scan with undersized buffer\nhave %v\nwant %v", err, ErrNoMem)
	}
}
