package template

import (
	"context"
	"fmt"
	"strings"

	"epub2pwa/model"

	"github.com/a-h/templ"
)

const (
	PageTemplate     = "page.html"
	IndexTemplate    = "index.html"
	ManifestTemplate = "manifest.webmanifest"
)

// Renderer renders views by template name. String values in a view are
// HTML escaped; View.Content is written verbatim.
type Renderer struct {
	components map[string]func(model.View) templ.Component
}

func New() *Renderer {
	return &Renderer{
		components: map[string]func(model.View) templ.Component{
			PageTemplate:     Page,
			IndexTemplate:    Index,
			ManifestTemplate: Manifest,
		},
	}
}

func (r *Renderer) Render(ctx context.Context, name string, v model.View) (string, error) {
	component, ok := r.components[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}
	b := &strings.Builder{}
	if err := component(v).Render(ctx, b); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return b.String(), nil
}
