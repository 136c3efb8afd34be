package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/moviesongs/internal/domain/model"
	"github.com/okian/moviesongs/pkg/logger"
	"github.com/okian/moviesongs/pkg/metrics"
)

// Source yields catalog rows with the header already excluded.
type Source interface {
	Fetch(ctx context.Context) ([]Row, error)
	Name() string
}

// Store persists a full catalog, replacing any previous one.
type Store interface {
	Save(ctx context.Context, songs []model.Song) error
	Path() string
}

// Report describes a successful sync run.
type Report struct {
	Source   string
	Path     string
	Attempts int
	GroupStats
}

// Pipeline fetches rows from a Source, groups them into songs and writes
// the result to a Store.
type Pipeline struct {
	source   Source
	store    Store
	attempts int
	backoff  time.Duration
	logger   logger.Logger
}

// New constructs a Pipeline. Source and store must be provided via options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		attempts: 3,
		backoff:  400 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run performs one sync. Nothing is written when the source fails or
// returns no rows.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	if p.source == nil {
		return Report{}, ErrNoSource
	}
	if p.store == nil {
		return Report{}, ErrNoStore
	}
	if p.logger == nil {
		p.logger = logger.Get()
	}

	report := Report{Source: p.source.Name(), Path: p.store.Path()}
	p.logger.Info(ctx, "fetching rows", logger.String("source", report.Source))

	rows, attempts, err := p.fetch(ctx)
	report.Attempts = attempts
	if err != nil {
		metrics.RecordSyncRun("source_unavailable")
		return report, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, report.Source, err)
	}
	if len(rows) == 0 {
		metrics.RecordSyncRun("empty")
		p.logger.Warn(ctx, "no data found; keeping existing catalog", logger.String("path", report.Path))
		return report, ErrEmptySource
	}

	songs, stats := Group(rows)
	report.GroupStats = stats
	metrics.RecordSyncRows("kept", stats.Rows-stats.Dropped)
	metrics.RecordSyncRows("dropped", stats.Dropped)
	if stats.Dropped > 0 {
		p.logger.Info(ctx, "dropped rows without title or artist", logger.Int("dropped", stats.Dropped))
	}

	if err := p.store.Save(ctx, songs); err != nil {
		metrics.RecordSyncRun("write_failed")
		return report, fmt.Errorf("write catalog %s: %w", report.Path, err)
	}

	metrics.RecordSyncRun("ok")
	p.logger.Info(ctx, fmt.Sprintf("wrote %d songs to %s", stats.Songs, report.Path),
		logger.Int("rows", stats.Rows),
		logger.Int("movies", stats.Movies),
		logger.Int("attempts", attempts),
	)
	return report, nil
}

// fetch calls the source until it succeeds, attempts run out or ctx ends.
func (p *Pipeline) fetch(ctx context.Context) ([]Row, int, error) {
	var err error
	for i := 1; i <= p.attempts; i++ {
		metrics.RecordSyncFetchAttempt()
		var rows []Row
		rows, err = p.source.Fetch(ctx)
		if err == nil {
			return rows, i, nil
		}
		if i == p.attempts {
			return nil, i, err
		}
		p.logger.Warn(ctx, "fetch failed; retrying",
			logger.Int("attempt", i),
			logger.Int("max_attempts", p.attempts),
			logger.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, i, ctx.Err()
		case <-time.After(time.Duration(i) * p.backoff):
		}
	}
	return nil, p.attempts, err
}
