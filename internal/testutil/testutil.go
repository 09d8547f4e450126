// Package testutil provides shared fakes and builders for tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	stdsync "sync"
	"testing"
	"time"

	"mls-go/internal/model"
	"mls-go/internal/store"
	"mls-go/internal/sync"
)

// FixedClock is a Clock whose time only moves when the test advances it.
type FixedClock struct {
	mu stdsync.Mutex
	t  time.Time
}

// NewFixedClock creates a clock pinned at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// SequenceIDGenerator produces deterministic IDs: id-1, id-2, ...
type SequenceIDGenerator struct {
	mu stdsync.Mutex
	n  int
}

func (g *SequenceIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// CaptureLogger records log messages for assertions.
type CaptureLogger struct {
	mu       stdsync.Mutex
	Messages []string // "LEVEL message"
}

func (l *CaptureLogger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, level+" "+msg)
}

func (l *CaptureLogger) Debug(msg string, _ ...any) { l.log("DEBUG", msg) }
func (l *CaptureLogger) Info(msg string, _ ...any)  { l.log("INFO", msg) }
func (l *CaptureLogger) Warn(msg string, _ ...any)  { l.log("WARN", msg) }
func (l *CaptureLogger) Error(msg string, _ ...any) { l.log("ERROR", msg) }

// Contains reports whether any recorded message contains substr.
func (l *CaptureLogger) Contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

// NewTestTemplate returns a small template configuration targeting the
// "Media" folder, with the permanent items plus a few typed properties.
func NewTestTemplate() *model.TemplateConfig {
	return &model.TemplateConfig{
		Folder:          "Media",
		FileNamePattern: "{{title}}",
		ContentTemplate: "# {{title}}\n",
		Properties: []model.PropertyItem{
			{ID: model.PropSyncKey, CustomName: "sync-key", Order: 0},
			{ID: model.PropLastSynced, CustomName: "last-synced", Order: 1},
			{ID: "aliases", Template: "{{aliases}}", Order: 2, Type: model.TypeMultitext},
			{ID: "genres", Template: "{{genres}}", Order: 3, Type: model.TypeMultitext},
			{ID: "status", Template: "{{listStatus}}", Order: 4},
			{ID: "score", Template: "{{score}}", Order: 5, Type: model.TypeNumber},
		},
	}
}

// NewAnimeRecord builds a minimal valid anime record.
func NewAnimeRecord(externalID, title, updatedAt string) *model.MediaRecord {
	return &model.MediaRecord{
		Provider:   "mal",
		Category:   model.CategoryAnime,
		ExternalID: externalID,
		Title:      title,
		UpdatedAt:  updatedAt,
	}
}

// SeedDocument creates a synced document directly in the store, bypassing
// the engine, with the given sync key and last-synced timestamp.
func SeedDocument(t *testing.T, s *store.MemoryStore, cfg *model.TemplateConfig, docPath, syncID, lastSynced string) {
	t.Helper()
	props := model.Properties{
		{Key: cfg.SyncKeyName(), Value: syncID},
		{Key: cfg.LastSyncedName(), Value: lastSynced},
	}
	if err := s.Create(context.Background(), docPath, props, ""); err != nil {
		t.Fatalf("seeding %s: %v", docPath, err)
	}
}

// SeedLegacyDocument creates a document without a sync key, as a vault
// predating the sync-key convention would hold.
func SeedLegacyDocument(t *testing.T, s *store.MemoryStore, docPath string, props model.Properties) {
	t.Helper()
	if err := s.Create(context.Background(), docPath, props, "old body"); err != nil {
		t.Fatalf("seeding %s: %v", docPath, err)
	}
}

// NewTestService builds a Service over a fresh MemoryStore with quiet
// logging and default locking.
func NewTestService() (*sync.Service, *store.MemoryStore) {
	s := store.NewMemoryStore()
	svc := sync.NewService(s, nil, sync.NewNopLogger())
	return svc, s
}
