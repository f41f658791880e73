package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/config"
	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/workload"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create .sjf with a default config and the sample workload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}
			if err := config.InitDir(dir); err != nil {
				return err
			}
			cfg, err := config.NewConfig(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config:    %s\n", cfg.ConfigPath())

			builtin := workload.Builtin()
			sample := filepath.Join(cfg.WorkloadsDir(), builtin.ID+".yaml")
			if _, err := os.Stat(sample); err == nil {
				fmt.Fprintf(out, "Workload:  %s (kept)\n", sample)
				return nil
			} else if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("stat %s: %w", sample, err)
			}
			path, err := workload.WriteFile(cfg.WorkloadsDir(), builtin)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Workload:  %s\n", path)
			return nil
		},
	}
}
