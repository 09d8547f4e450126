package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"mls-go/internal/model"
	"mls-go/internal/sync"
)

// FileSystemStore keeps documents as markdown files with YAML front matter
// under a root directory. Store paths are slash-separated and relative to
// the root ("Anime/Attack on Titan.md").
//
// Folder index queries are served through an mtime-validated cache so large
// folders are not re-parsed on every batch.
type FileSystemStore struct {
	root  string
	cache *gocache.Cache
}

// cachedInfo is one index cache entry, valid while the file's mtime holds.
type cachedInfo struct {
	modTime time.Time
	props   map[string]any
}

// NewFileSystemStore creates a store rooted at the given directory,
// creating it if needed.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating store root: %w", err)
	}
	return &FileSystemStore{
		root:  root,
		cache: gocache.New(30*time.Minute, 10*time.Minute),
	}, nil
}

// Read returns the document at path, or sync.ErrNotFound.
func (s *FileSystemStore) Read(_ context.Context, path string) (*model.Document, error) {
	content, err := os.ReadFile(s.abs(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, sync.ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	props, body, err := parseDocument(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &model.Document{Path: path, Frontmatter: props, Body: body}, nil
}

// Create writes a new document, failing with sync.ErrExists if the path is
// already taken.
func (s *FileSystemStore) Create(_ context.Context, path string, frontmatter model.Properties, body string) error {
	absPath := s.abs(path)
	if _, err := os.Stat(absPath); err == nil {
		return fmt.Errorf("%s: %w", path, sync.ErrExists)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return fmt.Errorf("creating folder for %s: %w", path, err)
	}

	content, err := renderDocument(frontmatter, body)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	if err := s.writeAtomic(absPath, content); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	s.cache.Delete(path)
	return nil
}

// MutateFrontmatter merges props into the document's front matter. The
// mutation is atomic (temp file + rename) and preserves the body verbatim.
func (s *FileSystemStore) MutateFrontmatter(ctx context.Context, path string, props model.Properties) error {
	doc, err := s.Read(ctx, path)
	if err != nil {
		return err
	}
	merged := doc.Frontmatter.Merge(props)
	content, err := renderDocument(merged, doc.Body)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	if err := s.writeAtomic(s.abs(path), content); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	s.cache.Delete(path)
	return nil
}

// QueryFolder returns front matter metadata for every markdown file
// directly inside folder.
func (s *FileSystemStore) QueryFolder(_ context.Context, folder string) ([]model.DocumentInfo, error) {
	entries, err := os.ReadDir(s.abs(folder))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing folder %q: %w", folder, err)
	}

	var infos []model.DocumentInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		docPath := joinStorePath(folder, entry.Name())
		props, err := s.indexProps(docPath)
		if err != nil {
			return nil, err
		}
		infos = append(infos, model.DocumentInfo{
			Path:  docPath,
			Title: docTitle(docPath),
			Props: props,
		})
	}
	return infos, nil
}

// indexProps reads a document's front matter map, reusing the cached copy
// while the file's mtime is unchanged.
func (s *FileSystemStore) indexProps(docPath string) (map[string]any, error) {
	info, err := os.Stat(s.abs(docPath))
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", docPath, err)
	}

	if v, ok := s.cache.Get(docPath); ok {
		if c := v.(cachedInfo); c.modTime.Equal(info.ModTime()) {
			return c.props, nil
		}
	}

	content, err := os.ReadFile(s.abs(docPath))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", docPath, err)
	}
	props, _, err := parseDocument(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", docPath, err)
	}
	m := propsToMap(props)
	s.cache.SetDefault(docPath, cachedInfo{modTime: info.ModTime(), props: m})
	return m, nil
}

// writeAtomic writes content via a temp file in the target directory
// followed by a rename, so readers never observe a partial document.
func (s *FileSystemStore) writeAtomic(absPath string, content []byte) error {
	dir := filepath.Dir(absPath)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, absPath); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}

func (s *FileSystemStore) abs(storePath string) string {
	return filepath.Join(s.root, filepath.FromSlash(storePath))
}

func joinStorePath(folder, name string) string {
	if folder == "" {
		return name
	}
	return strings.TrimSuffix(folder, "/") + "/" + name
}

// Compile-time check that FileSystemStore implements sync.DocumentStore
var _ sync.DocumentStore = (*FileSystemStore)(nil)
