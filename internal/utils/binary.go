package utils

import (
	"bytes"
	"unicode/utf8"
)

// sniffLength defines the maximum number of bytes inspected for NUL bytes and MIME detection.
const sniffLength = 8000

// IsBinary reports whether the provided byte slice cannot be treated as text:
// it is not valid UTF-8 or carries a NUL byte within the first sniffLength bytes.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	inspected := data
	if len(inspected) > sniffLength {
		inspected = inspected[:sniffLength]
	}
	return bytes.IndexByte(inspected, 0) >= 0
}
