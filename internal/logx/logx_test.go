// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package logx

import (
	"bytes"
	"strings"
	"testing"
)

func TestDisabledByDefault(t *testing.T) {
	var buf bytes.Buffer
	l := New("test")
	l.out = &buf // still disabled: enabled flag only flips via SetOutput
	l.Error("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("disabled logger wrote: %q", buf.String())
	}
}

func TestSetOutputEnables(t *testing.T) {
	var buf bytes.Buffer
	l := New("test")
	l.SetOutput(&buf)
	l.SetLevel(INFO)
	l.Info("hello %d", 42)
	if !strings.Contains(buf.String(), "hello 42") {
		t.Fatalf("output\nhave %q\nwant substring %q", buf.String(), "hello 42")
	}
	if !strings.Contains(buf.String(), "test") {
		t.Fatalf("output missing prefix: %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New("test")
	l.SetOutput(&buf)
	l.SetLevel(ERROR)
	l.Warn("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected WARN to be filtered at ERROR level, got %q", buf.String())
	}
	l.Error("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("expected ERROR to pass, got %q", buf.String())
	}
}

func TestLevelByName(t *testing.T) {
	lv, err := LevelByName("warn")
	if err != nil || lv != WARN {
		t.Fatalf("LevelByName(warn)\nhave %d, %v\nwant %d, nil", lv, err, WARN)
	}
	if _, err := LevelByName("bogus"); err == nil {
		t.Fatalf("LevelByName(bogus): expected error")
	}
}

func TestSetOutputNilDisables(t *testing.T) {
	var buf bytes.Buffer
	l := New("test")
	l.SetOutput(&buf)
	l.SetOutput(nil)
	l.SetLevel(DEBUG)
	l.Error("should be dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected no output after disabling, got %q", buf.String())
	}
}
