package content

import "strings"

const fontPrefix = "../fonts/"

// RewriteStylesheet points font references at the flat resources
// directory the fonts are copied to.
func RewriteStylesheet(css string) string {
	return strings.ReplaceAll(css, fontPrefix, "")
}
