package utils

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy   = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans user-generated HTML content to prevent XSS, keeping a safe
// markup subset.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// SanitizePlain strips all markup; used for fields rendered as plain text
// (names, locations, contact strings).
func SanitizePlain(input string) string {
	return plainPolicy.Sanitize(input)
}
