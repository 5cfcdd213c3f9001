package utils

import (
	"path"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

func CleanDirName(input string) string {
	cleaned := unsafeChars.ReplaceAllString(input, "_")

	cleaned = strings.TrimSpace(cleaned)

	return cleaned
}

// BaseName returns the last element of a container path, cleaned for use
// as an output file name.
func BaseName(p string) string {
	return CleanDirName(path.Base(p))
}

// Ext returns the extension of a container path without the leading dot.
func Ext(p string) string {
	return strings.TrimPrefix(path.Ext(p), ".")
}
