package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mls-go/internal/app"
	"mls-go/internal/config"
	"mls-go/internal/sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a SyncApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Sync", "Check").
func newApp(cmd *cobra.Command, operation string) (*app.SyncApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewSyncApp(cmd.Context(), cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "mls",
	Short: "Media list sync for markdown vaults",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init VAULT_ROOT",
	Short: "Initialize configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		vaultRoot, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving vault root: %w", err)
		}

		// Create config with defaults
		cfg := config.NewConfig(defaults["base_dir"], vaultRoot)

		// Initialize config file
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		// Write a starting template config next to the data
		tmpl := config.DefaultTemplate("Media")
		if err := config.WriteTemplate(cfg.TemplatePath, tmpl); err != nil {
			return fmt.Errorf("failed to write template config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Vault Root: %s\n", vaultRoot)
		fmt.Printf("Template:   %s\n", cfg.TemplatePath)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Read config
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		// Display config
		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Template:  %s\n", cfg.TemplatePath)
		fmt.Printf("Store:     %s\n", cfg.Store.Type)
		switch cfg.Store.Type {
		case "filesystem":
			fmt.Printf("Root:      %s\n", cfg.Store.Root)
		case "s3":
			fmt.Printf("Bucket:    %s\n", cfg.Store.S3Bucket)
			fmt.Printf("Prefix:    %s\n", cfg.Store.S3Prefix)
		}
		fmt.Printf("History:   %s\n", cfg.History.Type)
		return nil
	},
}

// sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync a media list export into the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		force, _ := cmd.Flags().GetBool("force")

		if from == "" {
			return fmt.Errorf("--from FILE is required")
		}

		a, err := newApp(cmd, "Sync")
		if err != nil {
			return err
		}
		defer a.Close()

		// Live progress only on a real terminal; redirected output gets
		// the summary alone.
		var progress chan sync.ProgressEvent
		done := make(chan struct{})
		if term.IsTerminal(int(os.Stdout.Fd())) {
			progress = make(chan sync.ProgressEvent, 64)
			go func() {
				defer close(done)
				for ev := range progress {
					if ev.Err != nil {
						fmt.Printf("\r[%d/%d] %s: %v\n", ev.Done, ev.Total, ev.SyncID, ev.Err)
						continue
					}
					fmt.Printf("\r[%d/%d] %-20s %s", ev.Done, ev.Total, ev.Action, ev.SyncID)
				}
				fmt.Println()
			}()
		} else {
			close(done)
		}

		results, failures, err := a.SyncFromFile(cmd.Context(), from, force, progress)
		if progress != nil {
			close(progress)
		}
		<-done
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		counts := map[sync.Action]int{}
		for _, res := range results {
			counts[res.Action]++
			if res.Action == sync.ActionDuplicates {
				fmt.Printf("duplicates for %s, updated %s (of %d)\n", res.SyncID, res.TargetPath, len(res.DuplicatePaths))
			}
		}

		fmt.Printf("Synced %d item(s): %d created, %d updated, %d linked, %d skipped\n",
			len(results),
			counts[sync.ActionCreated],
			counts[sync.ActionUpdated]+counts[sync.ActionDuplicates],
			counts[sync.ActionLinkedLegacy],
			counts[sync.ActionSkipped],
		)

		if len(failures) > 0 {
			fmt.Printf("%d item(s) failed:\n", len(failures))
			for _, f := range failures {
				name := f.SyncID
				if name == "" {
					name = f.Title
				}
				fmt.Printf("  %s: %v\n", name, f.Err)
			}
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View sync run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, "GetHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.Recorder.ListRuns(limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No sync runs recorded.")
			return nil
		}

		for _, run := range runs {
			duration := ""
			if run.FinishedAt != nil {
				d := run.FinishedAt.Sub(run.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("%s  %-10s  %s  %-8s  %d item(s)  %s\n",
				run.ID[:8],
				run.Operation,
				run.StartedAt.Format("2006-01-02 15:04:05"),
				run.Status,
				run.Items,
				duration,
			)
		}
		return nil
	},
}

// check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate store and template configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Check")
		if err != nil {
			return err
		}
		defer a.Close()

		// The store must at least answer a folder listing.
		if _, err := a.Store.QueryFolder(cmd.Context(), a.Template.Folder); err != nil {
			return fmt.Errorf("store check failed: %w", err)
		}

		problems := a.CheckTemplate()
		if len(problems) > 0 {
			for _, p := range problems {
				fmt.Println(p)
			}
			return fmt.Errorf("template config has %d problem(s)", len(problems))
		}

		fmt.Println("Configuration OK.")
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().String("from", "", "Path to the JSON list export")
	syncCmd.Flags().BoolP("force", "f", false, "Process every record even if unchanged")
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")
	rootCmd.AddCommand(checkCmd)
}
