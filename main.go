package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kastheco/dotsmith/app"
	"github.com/kastheco/dotsmith/catalog"
	"github.com/kastheco/dotsmith/config"
	"github.com/kastheco/dotsmith/config/history"
	"github.com/kastheco/dotsmith/installer"
	sentrypkg "github.com/kastheco/dotsmith/internal/sentry"
	"github.com/kastheco/dotsmith/log"
)

const historyFileName = "history.db"

var (
	version    = "0.1.0"
	sourceFlag string
	cliFlag    string

	rootCmd = &cobra.Command{
		Use:   "dotsmith",
		Short: "dotsmith - Sync agents, hooks, MCP servers, and plugins into Claude Code or Codex.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg := config.LoadConfig()
			if err := sentrypkg.Init(version, cfg.IsTelemetryEnabled()); err != nil {
				// Non-fatal: sentry failure should not prevent startup
				_ = err
			}
			defer sentrypkg.Flush()
			defer sentrypkg.RecoverPanic()

			log.Initialize(cfg.IsTelemetryEnabled())
			defer log.Close()

			if sourceFlag != "" {
				cfg.SourceDir = sourceFlag
			}
			if cliFlag != "" {
				cfg.DefaultCli = cliFlag
			}
			if cfg.SourceDir == "" {
				cwd, err := filepath.Abs(".")
				if err != nil {
					return fmt.Errorf("failed to get current directory: %w", err)
				}
				cfg.SourceDir = cwd
			}

			hist, err := openHistory(cfg)
			if err != nil {
				log.WarningLog.Printf("history disabled: %v", err)
				hist = history.NopLogger()
			}
			defer hist.Close()

			sentrypkg.SetContext(cfg.DefaultCli, "user", filepath.Base(cfg.SourceDir))

			return app.Run(ctx, cfg, hist)
		},
	}

	historyLimitFlag int
	historyItemFlag  string
	historyCmd       = &cobra.Command{
		Use:   "history",
		Short: "Show recent install and remove operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			cfg := config.LoadConfig()
			hist, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer hist.Close()

			events, err := hist.Query(history.QueryFilter{
				Cli:   cliFlag,
				Item:  historyItemFlag,
				Limit: historyLimitFlag,
			})
			if err != nil {
				return fmt.Errorf("failed to query history: %w", err)
			}
			if len(events) == 0 {
				fmt.Println("no history recorded")
				return nil
			}
			for _, e := range events {
				line := fmt.Sprintf("%s  %-18s %-7s %s",
					e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Kind, e.Cli, e.Item)
				if e.Detail != "" {
					line += "  (" + e.Detail + ")"
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Remove managed settings sections and clear the install history",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			cfg := config.LoadConfig()

			cliName := cliFlag
			if cliName == "" {
				cliName = cfg.DefaultCli
			}
			if cliName == "" {
				cliName = "claude"
			}
			cli, err := catalog.ParseTargetCli(cliName)
			if err != nil {
				return err
			}
			configDir, err := cli.ConfigDir()
			if err != nil {
				return err
			}

			settingsPath := filepath.Join(configDir, "settings.json")
			if err := installer.RemoveManagedSections(settingsPath); err != nil {
				return fmt.Errorf("failed to reset managed settings: %w", err)
			}
			fmt.Printf("Managed sections removed from %s\n", settingsPath)

			hist, err := openSQLiteHistory()
			if err != nil {
				return err
			}
			defer hist.Close()
			if err := hist.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			hist.Emit(history.NewEvent(history.EventSettingsReset, cli.String(), "", "", settingsPath))
			fmt.Println("Install history has been cleared")

			return nil
		},
	}

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Print debug information like config paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			cfg := config.LoadConfig()

			configDir, err := config.GetConfigDir()
			if err != nil {
				return fmt.Errorf("failed to get config directory: %w", err)
			}
			configJson, _ := json.MarshalIndent(cfg, "", "  ")

			fmt.Printf("Config: %s\n%s\n", filepath.Join(configDir, config.ConfigFileName), configJson)
			fmt.Printf("History: %s\n", filepath.Join(configDir, historyFileName))

			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dotsmith",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dotsmith version %s\n", version)
			fmt.Printf("https://github.com/kastheco/dotsmith/releases/tag/v%s\n", version)
		},
	}
)

// openHistory returns the configured history logger: sqlite when enabled, a
// no-op otherwise.
func openHistory(cfg *config.Config) (history.Logger, error) {
	if !cfg.IsHistoryEnabled() {
		return history.NopLogger(), nil
	}
	return openSQLiteHistory()
}

func openSQLiteHistory() (*history.SQLiteLogger, error) {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return history.NewSQLiteLogger(filepath.Join(configDir, historyFileName))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cliFlag, "cli", "c", "",
		"Target CLI (claude or codex); overrides the configured default")
	rootCmd.Flags().StringVarP(&sourceFlag, "source", "s", "",
		"Catalog directory to install from (defaults to the configured source or cwd)")

	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "l", 50, "Maximum number of events to show")
	historyCmd.Flags().StringVar(&historyItemFlag, "item", "", "Filter by component, server, or plugin name")

	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
