// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"github.com/gviegas/gltfdoc/container"
	"github.com/gviegas/gltfdoc/token"
)

// Options configures Parse and ParseFile.
//
// FileKind forces container interpretation instead of sniffing the
// leading magic bytes (container.Auto detects; container.JSON and
// container.Binary force one interpretation).
//
// TokenCountHint, when nonzero, is used as a capacity hint for the
// initial token buffer allocation; it is advisory only — Parse still
// runs the tokenizer's counting pre-pass if the hint turns out to be
// insufficient.
//
// NewTokenBuffer, when set, replaces the default make([]token.Token,
// n) allocation. This is the one allocation spec-level callers care
// about pooling across repeated Parse calls; Go's garbage collector
// removes the need for anything resembling a free-function pair
// (there is no Options.Free — see DESIGN.md).
type Options struct {
	FileKind       container.Kind
	TokenCountHint int
	NewTokenBuffer func(n int) []token.Token
}
