package sync

import (
	"context"
	"fmt"
	"strings"

	"mls-go/internal/model"
)

// MatchKind classifies what the store holds for one sync identifier.
type MatchKind int

const (
	// MatchNone: no document is linked to the identifier.
	MatchNone MatchKind = iota
	// MatchExact: exactly one document carries the identifier.
	MatchExact
	// MatchDuplicates: more than one document carries the identifier — a
	// data-integrity anomaly that must never silently lose data.
	MatchDuplicates
	// MatchLegacy: no document carries the identifier, but title heuristics
	// found pre-migration candidates lacking the sync-key property.
	MatchLegacy
)

// MatchResult is the matcher's classification plus the documents behind it.
// Docs is empty for MatchNone and sorted canonically otherwise.
type MatchResult struct {
	Kind MatchKind
	Docs []model.DocumentInfo
}

// Paths returns the candidate paths in canonical order.
func (m *MatchResult) Paths() []string {
	paths := make([]string, len(m.Docs))
	for i := range m.Docs {
		paths[i] = m.Docs[i].Path
	}
	return SortCanonical(paths)
}

// Matcher locates the document(s) for a sync identifier within a folder.
type Matcher struct {
	store DocumentStore
}

// NewMatcher creates a Matcher over the given store.
func NewMatcher(store DocumentStore) *Matcher {
	return &Matcher{store: store}
}

// Match searches the target folder for documents belonging to syncID.
//
// Sync-key matching runs first and is authoritative: it survives renames
// and must take precedence over title-based guessing, which exists only as
// a one-time migration aid for documents predating the sync-key convention.
func (m *Matcher) Match(ctx context.Context, cfg *model.TemplateConfig, syncID string, rec *model.MediaRecord) (*MatchResult, error) {
	infos, err := m.store.QueryFolder(ctx, cfg.Folder)
	if err != nil {
		return nil, fmt.Errorf("querying folder %q: %w", cfg.Folder, err)
	}

	keyName := cfg.SyncKeyName()

	var keyed []model.DocumentInfo
	for _, info := range infos {
		if propString(info.Props, keyName) == syncID {
			keyed = append(keyed, info)
		}
	}
	switch len(keyed) {
	case 0:
		// fall through to legacy detection
	case 1:
		return &MatchResult{Kind: MatchExact, Docs: keyed}, nil
	default:
		return &MatchResult{Kind: MatchDuplicates, Docs: keyed}, nil
	}

	var legacy []model.DocumentInfo
	wanted := legacyTitleSet(rec)
	for _, info := range infos {
		if _, has := info.Props[keyName]; has {
			continue
		}
		if wanted[normalizeTitle(info.Title)] {
			legacy = append(legacy, info)
		}
	}
	if len(legacy) > 0 {
		return &MatchResult{Kind: MatchLegacy, Docs: legacy}, nil
	}

	return &MatchResult{Kind: MatchNone}, nil
}

// legacyTitleSet builds the normalized titles a pre-migration document may
// have been named after: the main title, every alias, and their sanitized
// file-name forms.
func legacyTitleSet(rec *model.MediaRecord) map[string]bool {
	set := make(map[string]bool)
	add := func(t string) {
		if t == "" {
			return
		}
		set[normalizeTitle(t)] = true
		set[normalizeTitle(sanitizeFileName(t))] = true
	}
	add(rec.Title)
	for _, a := range rec.Aliases() {
		add(a)
	}
	delete(set, "")
	return set
}

func normalizeTitle(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// propString reads a front matter property as a string. Numeric values
// stored by other tools still compare correctly via their string form.
func propString(props map[string]any, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
