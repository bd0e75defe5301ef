// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

// ErrorCode classifies the reason a gltf operation failed, per the
// taxonomy every public entry point reports through.
type ErrorCode int

const (
	ErrCodeDataTooShort ErrorCode = iota
	ErrCodeUnknownFormat
	ErrCodeInvalidJSON
	ErrCodeInvalidGltf
	ErrCodeInvalidOptions
	ErrCodeFileNotFound
	ErrCodeIOError
	ErrCodeOutOfMemory
)

var codeNames = [...]string{
	ErrCodeDataTooShort:  "data too short",
	ErrCodeUnknownFormat: "unknown format",
	ErrCodeInvalidJSON:   "invalid JSON",
	ErrCodeInvalidGltf:   "invalid glTF",
	ErrCodeInvalidOptions: "invalid options",
	ErrCodeFileNotFound:  "file not found",
	ErrCodeIOError:       "I/O error",
	ErrCodeOutOfMemory:   "out of memory",
}

func (c ErrorCode) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "unknown error code"
}

// Error is the concrete error type every public gltf operation
// returns on failure. Code discriminates the failure class per
// spec; Reason adds detail; Err, when set, is the underlying cause
// (e.g. an *os.PathError from the file-loading collaborators).
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return "gltf: " + e.Code.String()
	}
	return "gltf: " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error with the same Code, so that
// errors.Is(err, gltf.ErrInvalidGltf) works regardless of Reason/Err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// Sentinel errors, one per taxonomy code, for use with errors.Is.
var (
	ErrDataTooShort   = &Error{Code: ErrCodeDataTooShort}
	ErrUnknownFormat  = &Error{Code: ErrCodeUnknownFormat}
	ErrInvalidJSON    = &Error{Code: ErrCodeInvalidJSON}
	ErrInvalidGltf    = &Error{Code: ErrCodeInvalidGltf}
	ErrInvalidOptions = &Error{Code: ErrCodeInvalidOptions}
	ErrFileNotFound   = &Error{Code: ErrCodeFileNotFound}
	ErrIOError        = &Error{Code: ErrCodeIOError}
	ErrOutOfMemory    = &Error{Code: ErrCodeOutOfMemory}
)

func newError(code ErrorCode, reason string) error {
	return &Error{Code: code, Reason: reason}
}

func wrapError(code ErrorCode, reason string, err error) error {
	return &Error{Code: code, Reason: reason, Err: err}
}
