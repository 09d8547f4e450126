package sync

import (
	"context"
	"fmt"
	"time"

	"mls-go/internal/model"
)

// Service is the synchronization engine: it reconciles media records
// against the document store, one document per sync identifier.
type Service struct {
	store   DocumentStore
	matcher *Matcher
	locks   *LockRegistry
	logger  Logger
}

// NewService creates a Service with the provided dependencies.
// locks may be shared between services that point at the same store;
// a nil logger discards output.
func NewService(store DocumentStore, locks *LockRegistry, logger Logger) *Service {
	if logger == nil {
		logger = NewNopLogger()
	}
	if locks == nil {
		locks = NewLockRegistry(0, nil, logger)
	}
	return &Service{
		store:   store,
		matcher: NewMatcher(store),
		locks:   locks,
		logger:  logger,
	}
}

// SaveOne reconciles a single record. The whole pass — matching, the skip
// check and the write — runs under the identifier's lock, so concurrent
// calls for the same identifier never interleave their store mutations.
func (s *Service) SaveOne(ctx context.Context, rec *model.MediaRecord, cfg *model.TemplateConfig) (*Result, error) {
	syncID, err := DeriveIdentifier(rec)
	if err != nil {
		return nil, err
	}

	var res *Result
	err = s.locks.WithLock(ctx, syncID, func() error {
		match, err := s.matcher.Match(ctx, cfg, syncID, rec)
		if err != nil {
			return err
		}
		res, err = s.applyMatch(ctx, rec, cfg, syncID, match, false)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("saving %s: %w", syncID, err)
	}
	return res, nil
}

// applyMatch turns a classification into a store mutation (or a skip).
// Callers must hold the identifier's lock.
func (s *Service) applyMatch(ctx context.Context, rec *model.MediaRecord, cfg *model.TemplateConfig, syncID string, match *MatchResult, force bool) (*Result, error) {
	switch match.Kind {
	case MatchNone:
		return s.createDocument(ctx, rec, cfg, syncID)

	case MatchExact:
		doc := match.Docs[0]
		if !force && timestampsEqual(propString(doc.Props, cfg.LastSyncedName()), rec.UpdatedAt) {
			s.logger.Debug("record unchanged, skipping", "syncId", syncID, "path", doc.Path)
			return &Result{
				Action:     ActionSkipped,
				TargetPath: doc.Path,
				SyncID:     syncID,
				Message:    "remote timestamp unchanged",
			}, nil
		}
		return s.updateDocument(ctx, rec, cfg, syncID, doc.Path, ActionUpdated, nil)

	case MatchDuplicates:
		paths := match.Paths()
		target := SelectCanonical(paths)
		return s.updateDocument(ctx, rec, cfg, syncID, target, ActionDuplicates, paths)

	case MatchLegacy:
		target := SelectCanonical(match.Paths())
		return s.updateDocument(ctx, rec, cfg, syncID, target, ActionLinkedLegacy, nil)

	default:
		return nil, fmt.Errorf("unknown match classification %d for %s", match.Kind, syncID)
	}
}

// instantLayouts are the accepted timestamp forms, remote and local alike.
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseInstant(s string) (time.Time, bool) {
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// timestampsEqual implements the skip rule: both sides present, both
// parseable, and numerically the same instant. Any other combination —
// missing value, parse failure, mismatch — means "process".
func timestampsEqual(local, remote string) bool {
	if local == "" || remote == "" {
		return false
	}
	lt, ok := parseInstant(local)
	if !ok {
		return false
	}
	rt, ok := parseInstant(remote)
	if !ok {
		return false
	}
	return lt.Equal(rt)
}
