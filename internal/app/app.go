// Package app wires configuration, store, history and the sync engine
// together for the mls CLI.
package app

import (
	"context"
	"fmt"
	"os"

	"mls-go/internal/config"
	"mls-go/internal/history"
	"mls-go/internal/model"
	"mls-go/internal/store"
	"mls-go/internal/sync"
	"mls-go/internal/template"
	"mls-go/internal/tracker"
)

// SyncApp holds the assembled application state for one CLI invocation.
type SyncApp struct {
	Config   *config.Config
	Template *model.TemplateConfig
	Store    sync.DocumentStore
	Service  *sync.Service
	Recorder history.Recorder
	Logger   sync.Logger

	logFile *os.File
}

// NewSyncApp assembles the application from a loaded config. operation
// names the CLI command, used as the log correlation ID and the recorded
// run operation.
func NewSyncApp(ctx context.Context, cfg *config.Config, operation string) (*SyncApp, error) {
	idgen := sync.UUIDGenerator{}
	runID := idgen.New()

	slogger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	docStore, err := store.NewStoreFromConfig(ctx, cfg.Store)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating document store: %w", err)
	}

	tmpl, err := config.ReadTemplate(cfg.TemplatePath)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("loading template config: %w", err)
	}

	recorder, err := history.NewRecorderFromConfig(cfg.History, sync.RealClock{}, idgen)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating history recorder: %w", err)
	}

	locks := sync.NewLockRegistry(0, sync.RealClock{}, logger)
	service := sync.NewService(docStore, locks, logger)

	logger.Debug("application initialized", "operation", operation, "store", cfg.Store.Type, "history", cfg.History.Type)

	return &SyncApp{
		Config:   cfg,
		Template: tmpl,
		Store:    docStore,
		Service:  service,
		Recorder: recorder,
		Logger:   logger,
		logFile:  logFile,
	}, nil
}

// SyncFromFile runs a full batch sync from a JSON export file, recording
// the run and every item outcome to history. Per-item failures do not
// fail the call; they are returned alongside the successful results.
func (a *SyncApp) SyncFromFile(ctx context.Context, exportPath string, force bool, progress chan<- sync.ProgressEvent) ([]sync.Result, []sync.ItemError, error) {
	src := tracker.NewFileSource(exportPath)
	records, err := src.Records(ctx)
	if err != nil {
		return nil, nil, err
	}

	runID, err := a.Recorder.StartRun("sync")
	if err != nil {
		return nil, nil, fmt.Errorf("starting history run: %w", err)
	}

	a.Logger.Info("sync started", "records", len(records), "force", force, "source", exportPath)

	results, failures := a.Service.SaveMany(ctx, records, a.Template, sync.BatchOptions{
		Force:    force,
		Progress: progress,
	})

	for _, res := range results {
		if err := a.Recorder.RecordItem(runID, res.SyncID, string(res.Action), res.TargetPath, res.Message); err != nil {
			a.Logger.Warn("recording item outcome failed", "syncId", res.SyncID, "error", err)
		}
	}
	for _, fail := range failures {
		if err := a.Recorder.RecordItem(runID, fail.SyncID, "failed", "", fail.Err.Error()); err != nil {
			a.Logger.Warn("recording item failure failed", "syncId", fail.SyncID, "error", err)
		}
	}

	status := "ok"
	if len(failures) > 0 {
		status = "partial"
	}
	if err := a.Recorder.FinishRun(runID, status); err != nil {
		a.Logger.Warn("finishing history run failed", "runId", runID, "error", err)
	}

	a.Logger.Info("sync finished", "results", len(results), "failures", len(failures), "status", status)
	return results, failures, nil
}

// CheckTemplate validates the loaded template configuration and returns a
// list of human-readable problems. An empty slice means the config is clean.
func (a *SyncApp) CheckTemplate() []string {
	var problems []string

	report := func(where, tmpl string) {
		vars, filters := template.Check(tmpl)
		for _, v := range vars {
			problems = append(problems, fmt.Sprintf("%s: unknown variable %q", where, v))
		}
		for _, f := range filters {
			problems = append(problems, fmt.Sprintf("%s: unknown filter %q", where, f))
		}
	}

	report("file_name_pattern", a.Template.FileNamePattern)
	report("content_template", a.Template.ContentTemplate)
	for _, item := range a.Template.Properties {
		if item.Permanent() {
			continue
		}
		report(fmt.Sprintf("property %q", item.Key()), item.Template)
	}
	return problems
}

// Close releases the application's resources.
func (a *SyncApp) Close() error {
	var firstErr error
	if err := a.Recorder.Close(); err != nil {
		firstErr = err
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
