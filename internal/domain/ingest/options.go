package ingest

import (
	"time"

	"github.com/okian/moviesongs/pkg/logger"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithSource sets where rows are fetched from.
func WithSource(src Source) Option {
	return func(p *Pipeline) {
		p.source = src
	}
}

// WithStore sets where the grouped catalog is written.
func WithStore(store Store) Option {
	return func(p *Pipeline) {
		p.store = store
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRetry bounds fetch attempts and sets the base backoff. Attempt i waits
// i*backoff before the next try.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(p *Pipeline) {
		if attempts > 0 {
			p.attempts = attempts
		}
		if backoff >= 0 {
			p.backoff = backoff
		}
	}
}
