// Package cli wires the sjf command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/config"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/logging"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/workload"
)

var (
	flagDir       string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string
)

// NewRootCmd creates the root cobra command for the sjf CLI. Without a
// subcommand it launches the terminal UI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sjf",
		Short: "sjf — step through non-preemptive Shortest-Job-First scheduling",
		Long: `sjf schedules a set of processes with non-preemptive Shortest Job First
and replays every scheduling decision, either interactively in the terminal,
as printed output, or over HTTP.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagDir, "dir", "", "Project directory holding .sjf (default: current directory)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json); overrides config")

	tui := newTUICmd()
	root.RunE = tui.RunE
	root.Flags().AddFlagSet(tui.Flags())

	root.AddCommand(
		tui,
		newRunCmd(),
		newServeCmd(),
		newInitCmd(),
	)
	return root
}

func projectDir() (string, error) {
	if dir := strings.TrimSpace(flagDir); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}

func loadConfig() (*config.Config, error) {
	dir, err := projectDir()
	if err != nil {
		return nil, err
	}
	return config.NewConfig(dir)
}

// logSettings merges the config's logging section with command-line flags.
func logSettings(cfg *config.Config) (slog.Level, string) {
	level := cfg.Project.Logging.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if flagDebug {
		level = "debug"
	}
	format := cfg.Project.Logging.Format
	if flagLogFormat != "" {
		format = flagLogFormat
	}
	return logging.ParseLevel(level), format
}

func stderrLogger(cfg *config.Config) *slog.Logger {
	level, format := logSettings(cfg)
	return logging.NewLogger(level, format)
}

// resolveWorkload treats ref as a file path when it exists on disk and as a
// workload ID otherwise. An empty ref selects the configured default.
func resolveWorkload(cfg *config.Config, ref string) (workload.Workload, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return workload.Find(cfg.WorkloadsDir(), cfg.DefaultWorkload())
	}
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		file, err := workload.LoadFile(ref)
		if err != nil {
			return workload.Workload{}, err
		}
		return file.Workload, nil
	}
	return workload.Find(cfg.WorkloadsDir(), ref)
}
