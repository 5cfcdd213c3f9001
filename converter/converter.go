// Package converter turns one ePub into a static web bundle.
package converter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"epub2pwa/content"
	"epub2pwa/epub"
	"epub2pwa/images"
	"epub2pwa/model"
	"epub2pwa/spine"
	"epub2pwa/template"
)

type Renderer interface {
	Render(ctx context.Context, name string, v model.View) (string, error)
}

type Options struct {
	MaxImageWidth int
	Cover         images.CoverOptions
	StagingDir    string
	Debug         bool
}

type Converter struct {
	renderer Renderer
	opts     Options
	staging  *staging
	open     func(name string) (model.Container, error)
}

func New(renderer Renderer, opts Options) (*Converter, error) {
	st, err := newStaging(opts.StagingDir)
	if err != nil {
		return nil, err
	}
	return &Converter{
		renderer: renderer,
		opts:     opts,
		staging:  st,
		open: func(name string) (model.Container, error) {
			return epub.Open(name)
		},
	}, nil
}

// Close removes the staging directory.
func (c *Converter) Close() error {
	return c.staging.remove()
}

// bookRun is the state of converting a single book.
type bookRun struct {
	*Converter
	ctx       context.Context
	container model.Container
	plan      *Plan
	linker    *spine.Linker
	toc       spine.TOCSelector
	tocPage   *content.Page
	meta      model.Metadata
	root      string
	cover     string
	icon      string
}

// Convert writes the bundle of book into its output folder. Failures that
// only concern this book are returned as *BookError.
func (c *Converter) Convert(ctx context.Context, book *model.Book) error {
	container, err := c.open(book.SourcePath)
	if err != nil {
		return bookError(fmt.Errorf("failed to open epub: %w", err))
	}
	defer container.Close()

	plan, err := NewPlan(container.Resources())
	if err != nil {
		return bookError(err)
	}

	run := &bookRun{
		Converter: c,
		ctx:       ctx,
		container: container,
		plan:      plan,
		linker:    spine.NewLinker(container.Spine(), plan.Filenames()),
		meta:      model.NewMetadata(container, book),
		root:      book.OutputFolder,
	}
	return run.convert()
}

func (r *bookRun) convert() error {
	for _, dir := range []string{r.root, filepath.Join(r.root, "images"), filepath.Join(r.root, "resources")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	log.Printf("Book: %s - %s (%s)", r.meta.Title, r.meta.Author, r.meta.Date)

	if err := template.WriteStatic(r.root); err != nil {
		return err
	}
	outputs := r.plan.Outputs()
	log.Printf("Total resources listed in epub: %d", len(outputs))

	if err := r.composeCover(); err != nil {
		return err
	}
	for _, out := range outputs {
		if r.opts.Debug {
			log.Printf("%s %s -> %s", out.Kind, out.ID, out.Target)
		}
		if err := r.process(out); err != nil {
			return err
		}
	}
	return r.buildManifest()
}

func (r *bookRun) process(out Output) error {
	switch out.Kind {
	case KindImage:
		return r.processImage(out)
	case KindPage:
		return r.processPage(out)
	case KindStylesheet:
		return r.processStylesheet(out)
	}
	return r.copyRaw(out)
}

func (r *bookRun) processImage(out Output) error {
	data, ok := r.resourceBytes(out)
	if !ok {
		return nil
	}
	staged, err := r.staging.roundTrip(out.Target, data)
	if err != nil {
		return err
	}
	result, resized, err := images.Transform(staged, r.opts.MaxImageWidth)
	if err != nil {
		log.Printf("Copying %s unchanged: %v", out.ID, err)
	} else if resized && r.opts.Debug {
		log.Printf("Resized %s", out.ID)
	}
	return r.write(out.Target, result)
}

func (r *bookRun) processPage(out Output) error {
	text, err := r.container.ResourceText(out.ID)
	if err != nil {
		log.Printf("Skipping page %s: %v", out.ID, err)
		return nil
	}
	page, err := content.RewritePage(text, out.Path, r.plan.Resolve)
	if err != nil {
		log.Printf("Skipping page %s: %v", out.ID, err)
		return nil
	}

	before, _ := r.toc.Selected()
	r.toc.Observe(out.ID, page.Links)
	if after, ok := r.toc.Selected(); ok && after != before {
		r.tocPage = page
	}

	chapter := r.linker.Chapter(out.ID, r.chapterTitle(out.ID, page))
	rendered, err := r.render(template.PageTemplate, chapter, page.Body)
	if err != nil {
		return err
	}
	return r.write(out.Target, []byte(rendered))
}

func (r *bookRun) chapterTitle(id string, page *content.Page) string {
	if titler, ok := r.container.(model.ChapterTitler); ok {
		if title := titler.ChapterTitle(id); title != "" {
			return title
		}
	}
	return page.Title
}

func (r *bookRun) processStylesheet(out Output) error {
	text, err := r.container.ResourceText(out.ID)
	if err != nil {
		log.Printf("Skipping stylesheet %s: %v", out.ID, err)
		return nil
	}
	return r.write(out.Target, []byte(content.RewriteStylesheet(text)))
}

func (r *bookRun) copyRaw(out Output) error {
	data, ok := r.resourceBytes(out)
	if !ok {
		return nil
	}
	return r.write(out.Target, data)
}

// resourceBytes reports false for entries the manifest lists but the
// archive lacks; those are logged and left out of the bundle.
func (r *bookRun) resourceBytes(out Output) ([]byte, bool) {
	data, err := r.container.ResourceBytes(out.ID)
	if err != nil {
		log.Printf("Skipping %s %s: %v", out.Kind, out.ID, err)
		return nil, false
	}
	return data, true
}

func (r *bookRun) view(chapter model.Chapter, body string) model.View {
	return model.View{
		Meta:        r.meta,
		Chapter:     chapter,
		Content:     body,
		Stylesheets: r.plan.Stylesheets(),
		Cover:       r.cover,
		Icon:        r.icon,
		IconSize:    r.opts.Cover.IconSize,
	}
}

func (r *bookRun) render(name string, chapter model.Chapter, body string) (string, error) {
	out, err := r.renderer.Render(r.ctx, name, r.view(chapter, body))
	if err != nil {
		return "", fmt.Errorf("failed to render %s for %s: %w", name, chapter.Filename, err)
	}
	return out, nil
}

func (r *bookRun) write(rel string, data []byte) error {
	p := filepath.Join(r.root, filepath.FromSlash(rel))
	if err := os.WriteFile(p, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	return nil
}

func (r *bookRun) copyFile(from, to string) error {
	data, err := os.ReadFile(filepath.Join(r.root, from))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", from, err)
	}
	return r.write(to, data)
}

// IsBookError reports whether err only concerns the book being converted.
func IsBookError(err error) bool {
	var be *BookError
	return errors.As(err, &be)
}
