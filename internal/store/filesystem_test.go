package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mls-go/internal/model"
	"mls-go/internal/store"
	"mls-go/internal/sync"
)

func newFSStore(t *testing.T) (*store.FileSystemStore, string) {
	t.Helper()
	root := t.TempDir()
	s, err := store.NewFileSystemStore(root)
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	return s, root
}

func TestFileSystemStore_CreateAndRead(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips a document", func(t *testing.T) {
		s, _ := newFSStore(t)
		props := model.Properties{
			{Key: "sync-key", Value: "mal:anime:1"},
			{Key: "genres", Value: []string{"Action"}},
		}

		if err := s.Create(ctx, "Media/Cowboy Bebop.md", props, "body\n"); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		doc, err := s.Read(ctx, "Media/Cowboy Bebop.md")
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if got := doc.Frontmatter.GetString("sync-key"); got != "mal:anime:1" {
			t.Errorf("sync-key = %q", got)
		}
		if doc.Body != "body\n" {
			t.Errorf("body = %q", doc.Body)
		}
	})

	t.Run("create never overwrites", func(t *testing.T) {
		s, _ := newFSStore(t)
		if err := s.Create(ctx, "Media/a.md", nil, "first"); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		err := s.Create(ctx, "Media/a.md", nil, "second")
		if !errors.Is(err, sync.ErrExists) {
			t.Errorf("Create() error = %v, want ErrExists", err)
		}
	})

	t.Run("read of a missing document returns ErrNotFound", func(t *testing.T) {
		s, _ := newFSStore(t)
		_, err := s.Read(ctx, "Media/nope.md")
		if !errors.Is(err, sync.ErrNotFound) {
			t.Errorf("Read() error = %v, want ErrNotFound", err)
		}
	})
}

func TestFileSystemStore_MutateFrontmatter(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves body and unmanaged keys", func(t *testing.T) {
		s, root := newFSStore(t)

		// A document the user has edited by hand: extra keys and a body.
		raw := "---\nsync-key: mal:anime:1\nmy-rating: excellent\n---\nMy personal notes.\n"
		path := filepath.Join(root, "Media", "Bebop.md")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
			t.Fatal(err)
		}

		err := s.MutateFrontmatter(ctx, "Media/Bebop.md", model.Properties{
			{Key: "last-synced", Value: "2024-06-01T00:00:00Z"},
			{Key: "sync-key", Value: "mal:anime:1"},
		})
		if err != nil {
			t.Fatalf("MutateFrontmatter() error = %v", err)
		}

		doc, err := s.Read(ctx, "Media/Bebop.md")
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if doc.Body != "My personal notes.\n" {
			t.Errorf("body = %q, user body must be untouched", doc.Body)
		}
		if got := doc.Frontmatter.GetString("my-rating"); got != "excellent" {
			t.Errorf("my-rating = %q, unmanaged key must survive", got)
		}
		if got := doc.Frontmatter.GetString("last-synced"); got != "2024-06-01T00:00:00Z" {
			t.Errorf("last-synced = %q", got)
		}
		// Existing keys keep their position; new keys append.
		if doc.Frontmatter[0].Key != "sync-key" || doc.Frontmatter[1].Key != "my-rating" {
			t.Errorf("key order changed: %v", doc.Frontmatter)
		}
	})

	t.Run("missing document returns ErrNotFound", func(t *testing.T) {
		s, _ := newFSStore(t)
		err := s.MutateFrontmatter(ctx, "Media/nope.md", model.Properties{{Key: "k", Value: "v"}})
		if !errors.Is(err, sync.ErrNotFound) {
			t.Errorf("MutateFrontmatter() error = %v, want ErrNotFound", err)
		}
	})
}

func TestFileSystemStore_QueryFolder(t *testing.T) {
	ctx := context.Background()

	t.Run("lists markdown files with their front matter", func(t *testing.T) {
		s, root := newFSStore(t)
		mustCreate(t, s, "Media/a.md", model.Properties{{Key: "sync-key", Value: "mal:anime:1"}})
		mustCreate(t, s, "Media/b.md", model.Properties{{Key: "sync-key", Value: "mal:anime:2"}})
		mustCreate(t, s, "Media/sub/nested.md", nil) // not directly inside

		// Non-markdown files are ignored.
		if err := os.WriteFile(filepath.Join(root, "Media", "cover.png"), []byte{1}, 0644); err != nil {
			t.Fatal(err)
		}

		infos, err := s.QueryFolder(ctx, "Media")
		if err != nil {
			t.Fatalf("QueryFolder() error = %v", err)
		}
		if len(infos) != 2 {
			t.Fatalf("QueryFolder() = %d entries, want 2", len(infos))
		}
		for _, info := range infos {
			if info.Props["sync-key"] == nil {
				t.Errorf("info %q has no sync-key prop", info.Path)
			}
		}
	})

	t.Run("missing folder is empty, not an error", func(t *testing.T) {
		s, _ := newFSStore(t)
		infos, err := s.QueryFolder(ctx, "Nope")
		if err != nil {
			t.Fatalf("QueryFolder() error = %v", err)
		}
		if len(infos) != 0 {
			t.Errorf("QueryFolder() = %d entries, want 0", len(infos))
		}
	})

	t.Run("index cache sees external edits", func(t *testing.T) {
		s, root := newFSStore(t)
		mustCreate(t, s, "Media/a.md", model.Properties{{Key: "sync-key", Value: "old"}})

		if _, err := s.QueryFolder(ctx, "Media"); err != nil {
			t.Fatalf("QueryFolder() error = %v", err)
		}

		// Rewrite the file behind the store's back with a fresh mtime.
		path := filepath.Join(root, "Media", "a.md")
		if err := os.WriteFile(path, []byte("---\nsync-key: new\n---\n"), 0644); err != nil {
			t.Fatal(err)
		}
		future := time.Now().Add(time.Second)
		if err := os.Chtimes(path, future, future); err != nil {
			t.Fatal(err)
		}

		infos, err := s.QueryFolder(ctx, "Media")
		if err != nil {
			t.Fatalf("QueryFolder() error = %v", err)
		}
		if got := infos[0].Props["sync-key"]; got != "new" {
			t.Errorf("sync-key = %v, want the rewritten value", got)
		}
	})
}

func mustCreate(t *testing.T, s *store.FileSystemStore, path string, props model.Properties) {
	t.Helper()
	if err := s.Create(context.Background(), path, props, ""); err != nil {
		t.Fatalf("Create(%s) error = %v", path, err)
	}
}
