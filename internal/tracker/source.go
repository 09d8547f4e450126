// Package tracker is the boundary to the list-tracking service. The engine
// consumes a normalized record stream and never performs network I/O
// itself; implementations of Source hide where the records come from.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"mls-go/internal/model"
)

// Source yields one normalized MediaRecord per tracked item.
type Source interface {
	Records(ctx context.Context) ([]*model.MediaRecord, error)
}

// FileSource reads records from a JSON export file: a top-level array of
// MediaRecord objects. It lets a sync run entirely offline.
type FileSource struct {
	path string
}

// NewFileSource creates a Source over the given export file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Records parses the export file.
func (f *FileSource) Records(_ context.Context) ([]*model.MediaRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading export file: %w", err)
	}

	var records []*model.MediaRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing export file %s: %w", f.path, err)
	}
	return records, nil
}

// Compile-time check that FileSource implements Source
var _ Source = (*FileSource)(nil)
