package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradeview/pkg/domain/interfaces"
	"github.com/secmon-lab/gradeview/pkg/domain/model"
)

// JSONFile stores records as a pretty-printed JSON array in a single file
type JSONFile struct {
	path string
}

// NewJSONFile creates a repository backed by the JSON file at path
func NewJSONFile(path string) interfaces.Repository {
	return &JSONFile{path: path}
}

// Path returns the file location
func (f *JSONFile) Path() string {
	return f.path
}

// PutRecords overwrites the file with records. Nothing is written when
// encoding fails.
func (f *JSONFile) PutRecords(ctx context.Context, records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return goerr.Wrap(err, "failed to encode records", goerr.V("path", f.path))
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return goerr.Wrap(err, "failed to create output directory",
				goerr.V("dir", dir),
				goerr.T(model.ErrTagFileAccess))
		}
	}

	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write JSON file",
			goerr.V("path", f.path),
			goerr.T(model.ErrTagFileAccess))
	}

	return nil
}

// ListRecords reads and decodes the whole file
func (f *JSONFile) ListRecords(ctx context.Context) ([]model.Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "dataset file not found",
				goerr.V("path", f.path),
				goerr.T(model.ErrTagDatasetLoad))
		}
		return nil, goerr.Wrap(err, "failed to read dataset file",
			goerr.V("path", f.path),
			goerr.T(model.ErrTagDatasetLoad))
	}

	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, goerr.Wrap(err, "failed to parse dataset file",
			goerr.V("path", f.path),
			goerr.T(model.ErrTagDatasetLoad))
	}
	if records == nil {
		records = []model.Record{}
	}

	return records, nil
}

// Name returns the store name
func (f *JSONFile) Name() string {
	return "file:" + f.path
}

// Close closes the repository (no-op)
func (f *JSONFile) Close() error {
	return nil
}
