// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/gviegas/gltfdoc/internal/logx"
)

const dataURIPrefix = "data:"

// LoadBuffers fills in Buffer.Data for every buffer in d that has not
// been loaded yet. Buffer 0 of a GLB asset with no URI is satisfied
// from the retained BIN chunk; data URIs are decoded in place;
// relative file URIs are resolved against gltfPath's directory and
// read from disk.
func (d *Document) LoadBuffers(opts Options, gltfPath string) error {
	dir := filepath.Dir(gltfPath)
	for i := range d.Buffers {
		b := &d.Buffers[i]
		if b.Data != nil {
			continue
		}
		if b.URI == "" {
			if i == 0 && d.BinChunk != nil {
				if int64(len(d.BinChunk)) < b.ByteLength {
					return newError(ErrCodeInvalidGltf, "GLB BIN chunk shorter than buffer.byteLength")
				}
				b.Data = d.BinChunk[:b.ByteLength]
				continue
			}
			return newError(ErrCodeInvalidGltf, "buffer without uri has no BIN chunk")
		}
		if strings.HasPrefix(b.URI, dataURIPrefix) {
			data, err := decodeDataURI(b.URI)
			if err != nil {
				return wrapError(ErrCodeInvalidGltf, "buffer: invalid data URI", err)
			}
			if int64(len(data)) < b.ByteLength {
				return newError(ErrCodeInvalidGltf, "data URI shorter than buffer.byteLength")
			}
			b.Data = data[:b.ByteLength]
			continue
		}
		if err := validateBufferURI(b.URI); err != nil {
			return err
		}
		path := filepath.Join(dir, b.URI)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return wrapError(ErrCodeFileNotFound, "buffer: open "+path, err)
			}
			return wrapError(ErrCodeIOError, "buffer: read "+path, err)
		}
		if int64(len(data)) < b.ByteLength {
			return newError(ErrCodeInvalidGltf, "buffer file shorter than byteLength")
		}
		b.Data = data[:b.ByteLength]
		logx.Debug("loaded buffer %d from %s (%d bytes)", i, path, len(data))
	}
	return nil
}

// LoadBufferBase64 decodes the base64 payload of a data URI (the part
// after the comma) into a freshly allocated slice of size bytes.
func LoadBufferBase64(size int, text string) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(out, []byte(text))
	if err != nil {
		return nil, wrapError(ErrCodeInvalidGltf, "invalid base64 payload", err)
	}
	if n < size {
		return nil, newError(ErrCodeInvalidGltf, "base64 payload shorter than expected size")
	}
	return out[:size], nil
}

// decodeDataURI decodes a "data:<mime>;base64,<payload>" URI. It
// rejects any encoding other than base64, matching the subset of RFC
// 2397 that glTF buffer/image URIs actually use.
func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, newError(ErrCodeInvalidGltf, "data URI missing comma")
	}
	meta := uri[len(dataURIPrefix):comma]
	if !strings.Contains(meta, ";base64") {
		return nil, newError(ErrCodeInvalidGltf, "data URI is not base64-encoded")
	}
	payload := uri[comma+1:]
	out := make([]byte, base64.StdEncoding.DecodedLen(len(payload)))
	n, err := base64.StdEncoding.Decode(out, []byte(payload))
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// validateBufferURI rejects path-escaping or absolute URIs, which
// glTF buffer/image references have no legitimate reason to carry. A
// URI naming a scheme (e.g. "http://") is not a relative file path,
// which is all this collaborator can read, so it is reported as
// ErrUnknownFormat rather than ErrInvalidGltf.
func validateBufferURI(uri string) error {
	if strings.Contains(uri, "://") {
		return newError(ErrCodeUnknownFormat, "buffer uri names an unsupported scheme")
	}
	if uri == "" || strings.Contains(uri, "..") || strings.HasPrefix(uri, "/") || strings.HasPrefix(uri, "\\") {
		return newError(ErrCodeInvalidGltf, "invalid buffer uri")
	}
	return nil
}
