package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"epub2pwa/model"
)

// FileStore keeps a batch job document on disk. Saves replace the file
// atomically so a crash leaves either the old or the new document.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (*model.BatchJob, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch job %s: %w", s.path, err)
	}
	job := &model.BatchJob{}
	if err := json.Unmarshal(data, job); err != nil {
		return nil, fmt.Errorf("failed to parse batch job %s: %w", s.path, err)
	}
	for i, book := range job.Books {
		if book == nil {
			return nil, fmt.Errorf("batch job %s: book %d is null", s.path, i)
		}
	}
	return job, nil
}

// Save encodes job into a temp file beside the document and renames it over
// the document once the bytes are on disk.
func (s *FileStore) Save(job *model.BatchJob) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create batch directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp batch file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(job); err != nil {
		return fmt.Errorf("failed to encode batch job: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set batch file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to flush batch job: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp batch file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
