package store

import (
	"context"
	"fmt"
	"path"
	stdsync "sync"

	"mls-go/internal/model"
	"mls-go/internal/sync"
)

// MemoryStore is an in-memory implementation of the document store,
// useful for testing. It is safe for concurrent use.
type MemoryStore struct {
	mu   stdsync.RWMutex
	docs map[string]*memoryDoc // store path -> document
}

type memoryDoc struct {
	props model.Properties
	body  string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*memoryDoc)}
}

// Read returns the document at path, or sync.ErrNotFound.
func (m *MemoryStore) Read(_ context.Context, docPath string) (*model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[docPath]
	if !ok {
		return nil, fmt.Errorf("%s: %w", docPath, sync.ErrNotFound)
	}
	return &model.Document{
		Path:        docPath,
		Frontmatter: append(model.Properties{}, doc.props...),
		Body:        doc.body,
	}, nil
}

// Create stores a new document, failing with sync.ErrExists on collision.
func (m *MemoryStore) Create(_ context.Context, docPath string, frontmatter model.Properties, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[docPath]; ok {
		return fmt.Errorf("%s: %w", docPath, sync.ErrExists)
	}
	m.docs[docPath] = &memoryDoc{
		props: append(model.Properties{}, frontmatter...),
		body:  body,
	}
	return nil
}

// MutateFrontmatter merges props into the stored front matter; the body is
// untouched.
func (m *MemoryStore) MutateFrontmatter(_ context.Context, docPath string, props model.Properties) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[docPath]
	if !ok {
		return fmt.Errorf("%s: %w", docPath, sync.ErrNotFound)
	}
	doc.props = doc.props.Merge(props)
	return nil
}

// QueryFolder returns metadata for every document directly inside folder.
func (m *MemoryStore) QueryFolder(_ context.Context, folder string) ([]model.DocumentInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cleaned := path.Clean(folder)
	var infos []model.DocumentInfo
	for docPath, doc := range m.docs {
		if path.Dir(docPath) != cleaned {
			continue
		}
		infos = append(infos, model.DocumentInfo{
			Path:  docPath,
			Title: docTitle(docPath),
			Props: propsToMap(doc.props),
		})
	}
	return infos, nil
}

// Len returns the number of stored documents.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Compile-time check that MemoryStore implements sync.DocumentStore
var _ sync.DocumentStore = (*MemoryStore)(nil)
