package converter

import (
	"log"

	"epub2pwa/images"
)

const (
	coverFile = "cover.jpg"
	iconFile  = "icon.png"
)

// composeCover writes the presentation cover and the icon. Books without a
// usable cover get the text-only landing page instead.
func (r *bookRun) composeCover() error {
	data, ok := r.container.Cover()
	if !ok {
		log.Println("No cover declared, using a text cover")
		return nil
	}
	log.Println("Compressing cover...")
	staged, err := r.staging.roundTrip("cover", data)
	if err != nil {
		return err
	}
	cover, err := images.ComposeCover(staged, r.opts.Cover)
	if err != nil {
		log.Printf("Using a text cover: %v", err)
		return nil
	}
	if err := r.write(coverFile, cover.Image); err != nil {
		return err
	}
	if err := r.write(iconFile, cover.Icon); err != nil {
		return err
	}
	r.cover = coverFile
	r.icon = iconFile
	return nil
}
