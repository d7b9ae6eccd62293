// Package slug derives stable identifiers from display names.
package slug

import (
	"regexp"
	"strings"
)

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases s, collapses every run of characters outside [a-z0-9]
// into a single hyphen and trims hyphens from both ends. Identical input
// always yields an identical slug; input with no usable characters
// yields "".
func Make(s string) string {
	s = strings.ToLower(s)
	s = slugRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
