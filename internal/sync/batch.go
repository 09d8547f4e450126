package sync

import (
	"context"

	"mls-go/internal/model"
)

// yieldEvery is the cadence (in processed items) at which the batch
// coordinator calls the caller's yield hook.
const yieldEvery = 10

// ProgressEvent reports one completed batch item. Events are sent with
// non-blocking semantics: a consumer that falls behind loses events, the
// batch never stalls on it.
type ProgressEvent struct {
	Done   int // items finished so far, including skips and failures
	Total  int
	SyncID string
	Action Action // empty when the item failed
	Err    error
}

// BatchOptions tunes one SaveMany call.
type BatchOptions struct {
	// Force disables the timestamp skip optimization: every record is
	// processed even if the remote timestamp is unchanged.
	Force bool

	// Progress, if non-nil, receives one event per finished item.
	Progress chan<- ProgressEvent

	// Yield, if non-nil, is called every few processed items so the caller
	// can hand control back to its scheduler or rendering loop. A non-nil
	// return stops scheduling further items.
	Yield func(context.Context) error
}

// batchItem is the transient per-record state of one batch pass.
type batchItem struct {
	rec     *model.MediaRecord
	syncID  string
	match   *MatchResult
	localTS string
	skip    bool
	err     error
}

// SaveMany reconciles a list of records in two phases.
//
// The prepare phase derives every identifier, runs the matcher once per
// record and decides skip-or-process purely in memory, so unchanged items
// cost no further store I/O. The execute phase drives the remaining items
// through the write pipeline one at a time, under the per-identifier lock.
//
// Results preserve input order. A failure on one item is logged, reported
// in the error slice and excluded from results; it never aborts the batch.
func (s *Service) SaveMany(ctx context.Context, records []*model.MediaRecord, cfg *model.TemplateConfig, opts BatchOptions) ([]Result, []ItemError) {
	items := s.prepareBatch(ctx, records, cfg, opts.Force)

	results := make([]Result, 0, len(items))
	var failures []ItemError
	total := len(items)
	processed := 0

	for i, item := range items {
		if item.err != nil {
			s.logger.Error("batch item failed", "index", i, "title", item.rec.Title, "error", item.err)
			failures = append(failures, ItemError{Index: i, SyncID: item.syncID, Title: item.rec.Title, Err: item.err})
			emitProgress(opts.Progress, ProgressEvent{Done: i + 1, Total: total, SyncID: item.syncID, Err: item.err})
			continue
		}

		if item.skip {
			// Precomputed from cached state: zero further I/O.
			res := Result{
				Action:     ActionSkipped,
				TargetPath: item.match.Docs[0].Path,
				SyncID:     item.syncID,
				Message:    "remote timestamp unchanged",
			}
			results = append(results, res)
			emitProgress(opts.Progress, ProgressEvent{Done: i + 1, Total: total, SyncID: item.syncID, Action: ActionSkipped})
			continue
		}

		if ctx.Err() != nil {
			// The caller stopped the batch between items; in-flight items
			// are never cancelled, unscheduled ones are simply not started.
			s.logger.Warn("batch stopped early", "done", i, "total", total, "error", ctx.Err())
			break
		}

		var res *Result
		err := s.locks.WithLock(ctx, item.syncID, func() error {
			var err error
			res, err = s.applyMatch(ctx, item.rec, cfg, item.syncID, item.match, opts.Force)
			return err
		})
		if err != nil {
			s.logger.Error("batch item failed", "index", i, "syncId", item.syncID, "error", err)
			failures = append(failures, ItemError{Index: i, SyncID: item.syncID, Title: item.rec.Title, Err: err})
			emitProgress(opts.Progress, ProgressEvent{Done: i + 1, Total: total, SyncID: item.syncID, Err: err})
		} else {
			results = append(results, *res)
			emitProgress(opts.Progress, ProgressEvent{Done: i + 1, Total: total, SyncID: item.syncID, Action: res.Action})
		}

		processed++
		if opts.Yield != nil && processed%yieldEvery == 0 {
			if err := opts.Yield(ctx); err != nil {
				s.logger.Warn("batch yield requested stop", "done", i+1, "total", total, "error", err)
				break
			}
		}
	}

	return results, failures
}

// prepareBatch is the single-pass prepare phase: derive, match once, read
// the cached local timestamp, and decide skip-or-process in memory.
func (s *Service) prepareBatch(ctx context.Context, records []*model.MediaRecord, cfg *model.TemplateConfig, force bool) []batchItem {
	items := make([]batchItem, len(records))
	for i, rec := range records {
		items[i].rec = rec

		syncID, err := DeriveIdentifier(rec)
		if err != nil {
			items[i].err = err
			continue
		}
		items[i].syncID = syncID

		match, err := s.matcher.Match(ctx, cfg, syncID, rec)
		if err != nil {
			items[i].err = err
			continue
		}
		items[i].match = match

		if match.Kind == MatchExact {
			items[i].localTS = propString(match.Docs[0].Props, cfg.LastSyncedName())
			items[i].skip = !force && timestampsEqual(items[i].localTS, rec.UpdatedAt)
		}
	}
	return items
}

func emitProgress(ch chan<- ProgressEvent, ev ProgressEvent) {
	if ch == nil {
		return
	}
	select {
	case ch <- ev:
	default:
	}
}
