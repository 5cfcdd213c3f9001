package template

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"epub2pwa/model"

	"github.com/a-h/templ"
)

type webManifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description,omitempty"`
	StartURL        string         `json:"start_url"`
	Scope           string         `json:"scope,omitempty"`
	Display         string         `json:"display"`
	BackgroundColor string         `json:"background_color"`
	ThemeColor      string         `json:"theme_color"`
	Icons           []manifestIcon `json:"icons,omitempty"`
}

type manifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// Manifest renders the web app manifest.
func Manifest(v model.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		wm := webManifest{
			Name:            v.Meta.Title,
			ShortName:       v.Meta.Title,
			Description:     v.Meta.Description,
			StartURL:        "index.html",
			Scope:           v.Meta.BaseURL,
			Display:         "standalone",
			BackgroundColor: "#ffffff",
			ThemeColor:      "#2c3e50",
		}
		if v.Icon != "" {
			wm.Icons = []manifestIcon{{Src: v.Icon, Sizes: fmt.Sprintf("%dx%d", v.IconSize, v.IconSize), Type: "image/png"}}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(wm)
	})
}
