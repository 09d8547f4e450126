package history

import (
	"fmt"
	"os"
	"path/filepath"

	"mls-go/internal/config"
	"mls-go/internal/sync"
)

// NewRecorderFromConfig creates a Recorder implementation based on the history config type.
func NewRecorderFromConfig(cfg config.HistoryConfig, clock sync.Clock, idgen sync.IDGenerator) (Recorder, error) {
	switch cfg.Type {
	case "", "none":
		return NopRecorder{}, nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("sqlite history requires data_dir to be set")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating history data directory: %w", err)
		}
		return Open(filepath.Join(cfg.DataDir, "mls.db"), clock, idgen)
	default:
		return nil, fmt.Errorf("unknown history type: %s", cfg.Type)
	}
}
