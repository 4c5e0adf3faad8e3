package utils

import "github.com/microcosm-cc/bluemonday"

var (
	contentPolicy = bluemonday.UGCPolicy()
	strictPolicy  = bluemonday.StrictPolicy()
)

// Sanitize cleans user-generated HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return contentPolicy.Sanitize(input)
}

// SanitizeStrict strips all markup; used for plain-text fields like comment author names.
func SanitizeStrict(input string) string {
	return strictPolicy.Sanitize(input)
}
