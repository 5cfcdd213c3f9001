package converter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// staging is the scratch directory of one run. It is shared by every book
// of the run and removed when the run ends.
type staging struct {
	dir string
}

func newStaging(base string) (*staging, error) {
	dir := filepath.Join(base, uuid.New().String())
	if err := os.MkdirAll(filepath.Join(dir, "images"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &staging{dir: dir}, nil
}

// roundTrip stores data under name and reads it back from disk.
func (s *staging) roundTrip(name string, data []byte) ([]byte, error) {
	p := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.WriteFile(p, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to stage %s: %w", name, err)
	}
	staged, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read staged %s: %w", name, err)
	}
	return staged, nil
}

func (s *staging) remove() error {
	return os.RemoveAll(s.dir)
}
