package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/moviesongs/internal/quizload"
	"github.com/okian/moviesongs/pkg/logger"
)

// Default configuration constants.
const (
	defaultSessions    = 1000
	defaultRounds      = 5
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		sessions = flag.Int("sessions", defaultSessions, "Number of quiz sessions to play")
		rounds   = flag.Int("rounds", defaultRounds, "Questions answered per session")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose  = flag.Bool("verbose", false, "Log every failed session")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	cfg := &quizload.Config{
		BaseURL:  *baseURL,
		Sessions: *sessions,
		Rounds:   max(*rounds, 1),
		Workers:  max(*workers, 1),
		Timeout:  *timeout,
		Verbose:  *verbose,
	}

	if _, err := quizload.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "load run failed", logger.Error(err))
		cancel()
		os.Exit(1)
	}
}
