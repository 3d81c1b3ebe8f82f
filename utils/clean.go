package utils

import (
	"regexp"
	"strings"
)

var unsafeNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

// CleanFileName makes a title safe to use as a file or directory name.
// Reserved characters become underscores; surrounding whitespace is dropped.
func CleanFileName(input string) string {
	cleaned := unsafeNameChars.ReplaceAllString(input, "_")
	return strings.TrimSpace(cleaned)
}
