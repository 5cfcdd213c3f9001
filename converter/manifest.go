package converter

import (
	"epub2pwa/model"
	"epub2pwa/template"
)

const tocTitle = "Table of Contents"

// buildManifest writes the landing page, its cover copy, the table of
// contents and the web app manifest.
func (r *bookRun) buildManifest() error {
	landing := model.Chapter{
		Filename: "index.html",
		Next:     r.linker.CoverNext(),
	}
	index, err := r.render(template.IndexTemplate, landing, "")
	if err != nil {
		return err
	}
	if err := r.write("index.html", []byte(index)); err != nil {
		return err
	}
	if err := r.copyFile("index.html", "cover.html"); err != nil {
		return err
	}

	if err := r.writeTOC(); err != nil {
		return err
	}

	manifest, err := r.render(template.ManifestTemplate, landing, "")
	if err != nil {
		return err
	}
	return r.write("manifest.webmanifest", []byte(manifest))
}

// writeTOC renders the page with the most links as toc.html. When no page
// has links the landing page stands in for it.
func (r *bookRun) writeTOC() error {
	if _, ok := r.toc.Selected(); !ok || r.tocPage == nil {
		return r.copyFile("index.html", "toc.html")
	}
	toc := model.Chapter{
		Title:    tocTitle,
		Filename: "toc.html",
	}
	rendered, err := r.render(template.PageTemplate, toc, r.tocPage.Body)
	if err != nil {
		return err
	}
	return r.write("toc.html", []byte(rendered))
}
