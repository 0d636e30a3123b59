package utils

import "net/http"

// DetectMimeTypeBytes sniffs the MIME type of already loaded content.
func DetectMimeTypeBytes(data []byte) string {
	if len(data) > sniffLength {
		data = data[:sniffLength]
	}
	return http.DetectContentType(data)
}
