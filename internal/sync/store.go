package sync

import (
	"context"
	"errors"

	"mls-go/internal/model"
)

// ErrNotFound is returned when a document does not exist at a path.
var ErrNotFound = errors.New("document not found")

// ErrExists is returned by Create when the target path is already taken.
var ErrExists = errors.New("document already exists")

// DocumentStore is the engine's only contact with document storage.
// The store is the durable state: the sync identifier and last-synced
// timestamp live inside each document's front matter, never in a side file.
type DocumentStore interface {
	// Read returns the document at path, or ErrNotFound.
	Read(ctx context.Context, path string) (*model.Document, error)

	// Create writes a new document. It fails with ErrExists if the path is
	// already taken; it never overwrites.
	Create(ctx context.Context, path string, frontmatter model.Properties, body string) error

	// MutateFrontmatter merges props into the document's front matter as a
	// single atomic mutation. Keys not present in props and the body text
	// are preserved verbatim.
	MutateFrontmatter(ctx context.Context, path string, props model.Properties) error

	// QueryFolder returns front matter metadata for every document directly
	// inside folder.
	QueryFolder(ctx context.Context, folder string) ([]model.DocumentInfo, error)
}
