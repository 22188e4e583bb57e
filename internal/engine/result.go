package engine

import "fmt"

// Result is a numeric engine status code. Failures are returned as error
// values whose concrete type is Result, so callers can recover the code
// with errors.As.
type Result uint32

// ResultSuccess is the zero status. It is never returned as an error value.
const ResultSuccess Result = 0

// errorStart is the first failure code.
const errorStart Result = 0x00010000

// Failure codes.
const (
	ErrOutOfMemory Result = errorStart + iota
	ErrInvalidValue
	ErrInvalidState
	ErrInvalidHandle
	ErrImageTooLarge
	ErrNoStatesToRestore
	ErrNoMatchingVertex
	ErrInvalidGeometry
	ErrFileOpen
	ErrFileRead
	ErrInvalidSignature
	ErrInvalidData
	ErrFontNotInitialized
	ErrGlyphNotSupported
)

var resultText = map[Result]string{
	ResultSuccess:         "success",
	ErrOutOfMemory:        "out of memory",
	ErrInvalidValue:       "invalid value",
	ErrInvalidState:       "invalid state",
	ErrInvalidHandle:      "invalid handle",
	ErrImageTooLarge:      "image too large",
	ErrNoStatesToRestore:  "no states to restore",
	ErrNoMatchingVertex:   "no matching vertex",
	ErrInvalidGeometry:    "invalid geometry",
	ErrFileOpen:           "file open failed",
	ErrFileRead:           "file read failed",
	ErrInvalidSignature:   "invalid signature",
	ErrInvalidData:        "invalid data",
	ErrFontNotInitialized: "font not initialized",
	ErrGlyphNotSupported:  "glyph not supported",
}

// Error implements the error interface.
func (r Result) Error() string {
	if s, ok := resultText[r]; ok {
		return "engine: " + s
	}
	return fmt.Sprintf("engine: unknown result 0x%08X", uint32(r))
}

// Code returns the raw numeric value.
func (r Result) Code() uint32 {
	return uint32(r)
}
