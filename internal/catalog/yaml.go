package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileSource reads entity rows from YAML files in a directory, one file per
// entity (zones.yaml, experiences.yaml, ...). Each file holds a plain list
// of mappings: looseness is expected and handled downstream.
type FileSource struct {
	dir string
}

// NewFileSource creates a source over the given data directory.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Rows loads the rows for one entity. A missing file is an empty entity,
// not an error.
func (f *FileSource) Rows(ctx context.Context, entity string) ([]map[string]any, error) {
	path := filepath.Join(f.dir, entity+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var rows []map[string]any
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rows, nil
}

// StaticSource serves preloaded rows; tests and the demo dataset use it.
type StaticSource map[string][]map[string]any

// Rows returns the preloaded rows for the entity.
func (s StaticSource) Rows(ctx context.Context, entity string) ([]map[string]any, error) {
	return s[entity], nil
}
