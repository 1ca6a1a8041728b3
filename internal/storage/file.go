// Package storage provides adapters for the transcript collection's
// persistence port: a JSON file (the default), a Postgres document row, and
// an in-memory fake for tests. Every adapter reads and writes the whole
// collection in one operation.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"counsel/internal/transcripts"
)

// File persists the collection as a single JSON document on disk.
type File struct {
	path string
}

// NewFile creates a file adapter rooted at path. The file is created on the
// first write.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Read(_ context.Context) ([]transcripts.Transcript, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, transcripts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	var collection []transcripts.Transcript
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return collection, nil
}

func (f *File) Write(_ context.Context, collection []transcripts.Transcript) error {
	if collection == nil {
		collection = []transcripts.Transcript{}
	}
	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}
