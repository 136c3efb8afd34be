// Command sync regenerates the bundled catalog file from the configured
// source (Google Sheets or a CSV export). It exits non-zero on any failure
// and never writes a catalog when the source is unreachable or empty.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/okian/moviesongs/internal/adapters/repository"
	"github.com/okian/moviesongs/internal/adapters/source"
	"github.com/okian/moviesongs/internal/config"
	"github.com/okian/moviesongs/internal/domain/ingest"
	"github.com/okian/moviesongs/pkg/logger"
	"github.com/okian/moviesongs/pkg/metrics"
)

const pushJobName = "moviesongs_sync"

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("sync")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	metrics.Configure(cfg.MetricsOptions()...)

	_, runErr := run(ctx, cfg, log)
	if err := pushMetrics(cfg.MetricsPushURL); err != nil {
		log.Warn(ctx, "failed to push metrics", logger.String("url", cfg.MetricsPushURL), logger.Error(err))
	}
	if runErr != nil {
		log.Error(ctx, "sync failed", logger.Error(runErr))
		stop()
		os.Exit(1)
	}
}

// run validates cfg and performs a single sync.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) (ingest.Report, error) {
	if err := cfg.ValidateSync(); err != nil {
		return ingest.Report{}, err
	}

	src, err := source.New(cfg)
	if err != nil {
		return ingest.Report{}, err
	}

	p := ingest.New(
		ingest.WithSource(src),
		ingest.WithStore(repository.NewCatalogStore(cfg.CatalogPath)),
		ingest.WithLogger(log),
		ingest.WithRetry(cfg.FetchAttempts, cfg.FetchBackoff()),
	)
	return p.Run(ctx)
}

// pushMetrics sends the sync counters to a Pushgateway when url is set.
func pushMetrics(url string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, pushJobName).Gatherer(metrics.GetRegistry()).Push(); err != nil {
		return fmt.Errorf("push to %s: %w", url, err)
	}
	return nil
}
