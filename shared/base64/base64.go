package base64

import "strings"

// GetContentType extracts the content type from a base64 data URI.
// Returns an empty string when the ";base64," marker is missing.
func GetContentType(file string) string {
	start := len("data:")
	end := strings.Index(file, ";base64,")

	if end == -1 || end < start {
		return ""
	}

	return file[start:end]
}
