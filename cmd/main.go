package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/shoresquad/internal/config"
	"github.com/okian/shoresquad/pkg/logger"
	"github.com/okian/shoresquad/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func main() {
	// Default Go collectors are not exported; system gauges come from our own registry.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newRootCommand builds the CLI. Without a subcommand it serves the page.
func newRootCommand() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:          "shoresquad",
		Short:        "ShoreSquad beach-cleanup community page",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := logger.SetLevelString(loaded.LogLevel); err != nil {
				logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
					logger.String("log_level", loaded.LogLevel), logger.Error(err))
				_ = logger.SetLevelString("info")
			}
			metrics.Configure(metricsOptions(loaded)...)
			cfg = loaded
			return nil
		},
	}

	current := func() *config.Config { return cfg }
	serve := newServeCommand(current)
	root.RunE = serve.RunE
	root.AddCommand(serve, newWeatherCommand(current), newSmokeCommand())
	return root
}
