package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"mls-go/internal/model"
)

// templateFile is the on-disk shape of the user's template configuration.
type templateFile struct {
	Template model.TemplateConfig `toml:"template"`
}

// DefaultTemplate returns a usable starting template configuration for the
// given folder: the two permanent properties plus a small conventional set.
func DefaultTemplate(folder string) *model.TemplateConfig {
	return &model.TemplateConfig{
		Folder:          folder,
		FileNamePattern: "{{title}}",
		ContentTemplate: "# {{title}}\n\n{{description}}\n",
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

// ReadTemplate loads and validates the user's TemplateConfig.
// The returned config always carries the two permanent property items and
// has its items ordered; the core treats it as a read-only snapshot.
func ReadTemplate(path string) (*model.TemplateConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template config: %w", err)
	}
	defer f.Close()

	var tf templateFile
	if _, err := toml.NewDecoder(f).Decode(&tf); err != nil {
		return nil, fmt.Errorf("failed to decode template config: %w", err)
	}

	cfg := tf.Template
	if cfg.Folder == "" {
		return nil, fmt.Errorf("template config %s: folder is required", path)
	}
	ensurePermanent(&cfg)
	sort.SliceStable(cfg.Properties, func(i, j int) bool {
		return cfg.Properties[i].Order < cfg.Properties[j].Order
	})
	return &cfg, nil
}

// WriteTemplate writes a TemplateConfig file, refusing to overwrite.
func WriteTemplate(path string, cfg *model.TemplateConfig) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("template config already exists at %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create template config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(&templateFile{Template: *cfg}); err != nil {
		return fmt.Errorf("writing template config to %s: %w", path, err)
	}
	return nil
}

// ensurePermanent re-adds the sync-key and last-synced items if the file
// lost them; the user cannot remove them.
func ensurePermanent(cfg *model.TemplateConfig) {
	has := map[string]bool{}
	for i := range cfg.Properties {
		has[cfg.Properties[i].ID] = true
	}
	if !has[model.PropSyncKey] {
		cfg.Properties = append([]model.PropertyItem{
			{ID: model.PropSyncKey, CustomName: "sync-key", Order: -2},
		}, cfg.Properties...)
	}
	if !has[model.PropLastSynced] {
		cfg.Properties = append([]model.PropertyItem{
			{ID: model.PropLastSynced, CustomName: "last-synced", Order: -1},
		}, cfg.Properties...)
	}
}
