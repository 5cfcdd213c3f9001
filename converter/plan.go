package converter

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"epub2pwa/model"
	"epub2pwa/utils"
)

// Files the converter writes at the bundle root besides the book's pages.
var reservedPaths = []string{
	"index.html",
	"cover.html",
	"toc.html",
	"sw.js",
	"manifest.webmanifest",
	coverFile,
	iconFile,
	"images",
	"resources",
	"resources/static",
}

// Output is a resource together with where it lands in the bundle.
type Output struct {
	model.Resource
	Kind Kind
	// Target is slash separated and relative to the bundle root.
	Target string
}

// Plan assigns every resource of a book a unique output path.
type Plan struct {
	outputs []Output
	byID    map[string]int
	byPath  map[string]int
}

// NewPlan assigns output paths. A resource that would land on one of the
// bundle's own files is renamed with a numeric suffix; any other collision
// fails with ErrOutputConflict.
func NewPlan(resources []model.Resource) (*Plan, error) {
	p := &Plan{
		byID:   make(map[string]int, len(resources)),
		byPath: make(map[string]int, len(resources)),
	}
	owners := make(map[string]string, len(resources)+len(reservedPaths))
	for _, r := range reservedPaths {
		owners[r] = "the bundle itself"
	}
	var displaced []int
	for _, res := range resources {
		if _, dup := p.byID[res.ID]; dup {
			return nil, fmt.Errorf("resource id %q is declared twice: %w", res.ID, ErrOutputConflict)
		}
		out := Output{Resource: res, Kind: Classify(res.MediaType)}
		out.Target = outputPath(out)

		key := strings.ToLower(out.Target)
		if slices.Contains(reservedPaths, key) {
			displaced = append(displaced, len(p.outputs))
		} else if owner, taken := owners[key]; taken {
			return nil, fmt.Errorf("resource %q and %s both write %s: %w", res.ID, owner, out.Target, ErrOutputConflict)
		} else {
			owners[key] = fmt.Sprintf("resource %q", res.ID)
		}

		p.byID[res.ID] = len(p.outputs)
		p.byPath[res.Path] = len(p.outputs)
		p.outputs = append(p.outputs, out)
	}

	// Renamed last so a suffixed name never takes the path of a later resource.
	for _, i := range displaced {
		out := &p.outputs[i]
		out.Target = freeName(out.Target, owners)
		owners[strings.ToLower(out.Target)] = fmt.Sprintf("resource %q", out.ID)
	}
	return p, nil
}

// freeName appends -1, -2, ... to the stem of target until the result is
// not owned by anything.
func freeName(target string, owners map[string]string) string {
	ext := path.Ext(target)
	stem := strings.TrimSuffix(target, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, n, ext)
		if _, taken := owners[strings.ToLower(candidate)]; !taken {
			return candidate
		}
	}
}

func outputPath(out Output) string {
	switch out.Kind {
	case KindImage:
		name := utils.CleanDirName(out.ID)
		if ext := utils.Ext(out.Path); ext != "" {
			name += "." + ext
		}
		return "images/" + name
	case KindPage:
		return utils.BaseName(out.Path)
	}
	return "resources/" + utils.BaseName(out.Path)
}

func (p *Plan) Outputs() []Output {
	return p.outputs
}

// Resolve maps a container path to its output path.
func (p *Plan) Resolve(containerPath string) (string, bool) {
	i, ok := p.byPath[containerPath]
	if !ok {
		return "", false
	}
	return p.outputs[i].Target, true
}

// Filenames maps resource ids to output paths.
func (p *Plan) Filenames() map[string]string {
	names := make(map[string]string, len(p.outputs))
	for _, out := range p.outputs {
		names[out.ID] = out.Target
	}
	return names
}

func (p *Plan) Stylesheets() []string {
	var css []string
	for _, out := range p.outputs {
		if out.Kind == KindStylesheet {
			css = append(css, out.Target)
		}
	}
	return css
}
