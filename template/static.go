package template

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed static/sw.js static/app.js
var static embed.FS

// WriteStatic copies the reader assets into resources/static and puts the
// service worker at the bundle root so its scope covers every page.
func WriteStatic(outputRoot string) error {
	dir := filepath.Join(outputRoot, "resources", "static")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create static directory: %w", err)
	}
	for _, name := range []string{"sw.js", "app.js"} {
		data, err := static.ReadFile("static/" + name)
		if err != nil {
			return fmt.Errorf("failed to read embedded %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		if name == "sw.js" {
			if err := os.WriteFile(filepath.Join(outputRoot, name), data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", name, err)
			}
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "reader.css"), []byte(ReaderCSS), 0644); err != nil {
		return fmt.Errorf("failed to write reader.css: %w", err)
	}
	return nil
}
