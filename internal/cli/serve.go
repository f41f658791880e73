package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/api"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve schedules and timelines as JSON over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := stderrLogger(cfg)

			settings := api.SettingsFromConfig(cfg)
			if cmd.Flags().Changed("host") {
				settings.Host = host
			}
			if cmd.Flags().Changed("port") {
				settings.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := api.NewServer(settings, api.WithLogger(logger))
			if err := srv.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s (Ctrl+C to stop)\n", srv.BaseURL())

			<-ctx.Done()
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&host, "host", api.DefaultHost, "Listen host (default: server.host from config)")
	cmd.Flags().IntVar(&port, "port", api.DefaultPort, "Listen port (default: server.port from config)")
	return cmd
}
