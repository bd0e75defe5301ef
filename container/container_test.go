// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package container

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func packGLB(t *testing.T, json, bin []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	totalLen := uint32(headerSize + chunkHead + len(json))
	if bin != nil {
		totalLen += uint32(chunkHead + len(bin))
	}
	write := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf.Write(b[:])
	}
	write(magic)
	write(version2)
	write(totalLen)
	write(uint32(len(json)))
	write(chunkJSON)
	buf.Write(json)
	if bin != nil {
		write(uint32(len(bin)))
		write(chunkBIN)
		buf.Write(bin)
	}
	return buf.Bytes()
}

func TestSplitJSON(t *testing.T) {
	data := []byte(`{"asset":{"version":"2.0"}}`)
	kind, j, b, err := Split(data, Auto)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if kind != JSON {
		t.Fatalf("kind\nhave %v\nwant JSON", kind)
	}
	if !bytes.Equal(j, data) {
		t.Fatalf("jsonBytes mismatch")
	}
	if b != nil {
		t.Fatalf("binBytes\nhave %v\nwant nil", b)
	}
}

func TestSplitGLBNoBin(t *testing.T) {
	json := []byte(`{"asset":{"version":"2.0"}}`)
	data := packGLB(t, json, nil)
	kind, j, b, err := Split(data, Auto)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if kind != Binary {
		t.Fatalf("kind\nhave %v\nwant Binary", kind)
	}
	if !bytes.Equal(j, json) {
		t.Fatalf("jsonBytes\nhave %q\nwant %q", j, json)
	}
	if len(b) != 0 {
		t.Fatalf("binBytes\nhave %v\nwant empty", b)
	}
}

func TestSplitGLBWithBin(t *testing.T) {
	json := []byte(`{"asset":{"version":"2.0"}}`)
	bin := []byte{1, 2, 3, 4}
	data := packGLB(t, json, bin)
	kind, j, b, err := Split(data, Auto)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if kind != Binary {
		t.Fatalf("kind\nhave %v\nwant Binary", kind)
	}
	if !bytes.Equal(j, json) {
		t.Fatalf("jsonBytes mismatch")
	}
	if !bytes.Equal(b, bin) {
		t.Fatalf("binBytes\nhave %v\nwant %v", b, bin)
	}
}

func TestSplitBadMagic(t *testing.T) {
	data := []byte{0, 0, 0, 0, 1, 2, 3, 4}
	kind, j, _, err := Split(data, Auto)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if kind != JSON {
		t.Fatalf("kind\nhave %v\nwant JSON (fallback)", kind)
	}
	if !bytes.Equal(j, data) {
		t.Fatalf("jsonBytes mismatch")
	}
}

func TestSplitForcedBinaryBadMagic(t *testing.T) {
	_, _, _, err := Split([]byte("not a glb"), Binary)
	if err != ErrUnknownFormat {
		t.Fatalf("Split forced Binary\nhave %v\nwant %v", err, ErrUnknownFormat)
	}
}

func TestSplitTruncatedHeader(t *testing.T) {
	data := []byte{0x67, 0x6c, 0x54, 0x46, 2, 0, 0, 0}
	_, _, _, err := Split(data, Auto)
	if err != ErrDataTooShort {
		t.Fatalf("Split truncated header\nhave %v\nwant %v", err, ErrDataTooShort)
	}
}

func TestSplitDeclaredLengthExceedsInput(t *testing.T) {
	json := []byte(`{"asset":{"version":"2.0"}}`)
	data := packGLB(t, json, nil)
	// Truncate the buffer after the header claimed a larger total length.
	data = data[:len(data)-4]
	_, _, _, err := Split(data, Auto)
	if err != ErrDataTooShort {
		t.Fatalf("Split truncated chunk\nhave %v\nwant %v", err, ErrDataTooShort)
	}
}

func TestSplitWrongVersion(t *testing.T) {
	json := []byte(`{}`)
	data := packGLB(t, json, nil)
	binary.LittleEndian.PutUint32(data[4:8], 1)
	_, _, _, err := Split(data, Auto)
	if err != ErrUnknownFormat {
		t.Fatalf("Split wrong version\nhave %v\nwant %v", err, ErrUnknownFormat)
	}
}
