package cli

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/logbook"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/logging"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/tui"
)

const journalName = "journey.log"

func newTUICmd() *cobra.Command {
	var workloadRef string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Edit a process set and animate its schedule in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			level, format := logSettings(cfg)
			logger, closer, err := logging.OpenFile(cfg.LogsDir(), level, format)
			if err != nil {
				return err
			}
			defer closer.Close()

			journal, err := logbook.New(filepath.Join(cfg.LogsDir(), journalName))
			if err != nil {
				return err
			}

			opts := []tui.AppOption{
				tui.WithLogger(logger),
				tui.WithLogbook(journal),
				tui.WithInterval(interval),
			}
			if workloadRef != "" {
				w, err := resolveWorkload(cfg, workloadRef)
				if err != nil {
					return err
				}
				opts = append(opts, tui.WithWorkload(w))
			}
			app, err := tui.NewApp(cfg, opts...)
			if err != nil {
				return err
			}

			logger.Info("tui started", "dir", cfg.ProjectDir)
			// The alternate screen keeps the user's scrollback intact.
			p := tea.NewProgram(app, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run tui: %w", err)
			}
			logger.Info("tui exited")
			return nil
		},
	}

	cmd.Flags().StringVarP(&workloadRef, "workload", "w", "", "Workload file or ID (default: configured default)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Auto-advance period (default: playback.interval from config)")
	return cmd
}
