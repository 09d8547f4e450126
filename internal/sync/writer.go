package sync

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"mls-go/internal/model"
	"mls-go/internal/template"
)

// maxCreateAttempts bounds the collision retry loop when creating a
// document: the plain name plus four disambiguated variants.
const maxCreateAttempts = 5

// createDocument writes a brand new document for the record.
//
// The body template is resolved once, here, and never re-applied on update:
// user edits to the body must never be clobbered by a later sync.
func (s *Service) createDocument(ctx context.Context, rec *model.MediaRecord, cfg *model.TemplateConfig, syncID string) (*Result, error) {
	name := s.resolveFileName(rec, cfg)
	props := template.BuildFrontmatter(rec, cfg, syncID)
	body := template.Resolve(cfg.ContentTemplate, rec).String()

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		candidate := name
		if attempt > 0 {
			candidate = fmt.Sprintf("%s (%d)", name, attempt)
		}
		docPath := path.Join(cfg.Folder, candidate+".md")

		err := s.store.Create(ctx, docPath, props, body)
		if err == nil {
			s.logger.Info("document created", "path", docPath, "syncId", syncID)
			return &Result{
				Action:     ActionCreated,
				TargetPath: docPath,
				SyncID:     syncID,
				Message:    fmt.Sprintf("created %s", docPath),
			}, nil
		}
		if !errors.Is(err, ErrExists) {
			return nil, fmt.Errorf("creating %s: %w", docPath, err)
		}
		s.logger.Debug("file name taken, retrying", "path", docPath, "attempt", attempt+1)
	}

	return nil, fmt.Errorf("creating document for %s: no free file name after %d attempts", syncID, maxCreateAttempts)
}

// updateDocument merges the built front matter into an existing document.
func (s *Service) updateDocument(ctx context.Context, rec *model.MediaRecord, cfg *model.TemplateConfig, syncID, docPath string, action Action, duplicates []string) (*Result, error) {
	props := template.BuildFrontmatter(rec, cfg, syncID)
	if err := s.store.MutateFrontmatter(ctx, docPath, props); err != nil {
		return nil, fmt.Errorf("updating %s: %w", docPath, err)
	}

	res := &Result{
		Action:         action,
		TargetPath:     docPath,
		SyncID:         syncID,
		DuplicatePaths: duplicates,
	}
	switch action {
	case ActionDuplicates:
		s.logger.Warn("duplicate documents for identifier", "syncId", syncID, "paths", strings.Join(duplicates, ", "))
		res.Message = fmt.Sprintf("%d documents carry %s; updated %s only", len(duplicates), syncID, docPath)
	case ActionLinkedLegacy:
		s.logger.Info("legacy document linked", "path", docPath, "syncId", syncID)
		res.Message = fmt.Sprintf("linked legacy document %s", docPath)
	default:
		s.logger.Info("document updated", "path", docPath, "syncId", syncID)
		res.Message = fmt.Sprintf("updated %s", docPath)
	}
	return res, nil
}

// resolveFileName derives the new document's base name (no folder, no
// extension) from the configured pattern, falling back to the record title.
func (s *Service) resolveFileName(rec *model.MediaRecord, cfg *model.TemplateConfig) string {
	name := template.Resolve(cfg.FileNamePattern, rec).String()
	if strings.TrimSpace(name) == "" {
		name = rec.Title
	}
	name = sanitizeFileName(name)
	if name == "" {
		name = "untitled"
	}
	return name
}

// fileNameSanitizer strips characters that are path separators or reserved
// by common filesystems and host link syntax.
var fileNameSanitizer = strings.NewReplacer(
	"\\", "", "/", "", ":", "", "*", "", "?", "",
	"\"", "", "<", "", ">", "", "|", "", "#", "",
	"^", "", "[", "", "]", "",
)

func sanitizeFileName(name string) string {
	name = fileNameSanitizer.Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	return strings.Trim(name, ". ")
}
