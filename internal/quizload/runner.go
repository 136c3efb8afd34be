package quizload

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/moviesongs/pkg/logger"
)

// counters are shared by all workers.
type counters struct {
	started     atomic.Int64
	unavailable atomic.Int64
	questions   atomic.Int64
	answers     atomic.Int64
	correct     atomic.Int64
	failed      atomic.Int64
	violations  atomic.Int64
}

// Run plays cfg.Sessions quiz sessions with cfg.Workers workers and returns
// the collected statistics. It returns ErrViolations if any response broke
// a quiz rule.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Named("quizload")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting quiz load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("sessions", cfg.Sessions),
		logger.Int("rounds", cfg.Rounds),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	var c counters
	jobs := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(workerID)))
			for range jobs {
				if ctx.Err() != nil {
					return
				}
				if err := playSession(ctx, client, cfg.Rounds, rng, &c); err != nil {
					c.failed.Add(1)
					if cfg.Verbose {
						log.Warn(ctx, "session failed", logger.Int("worker", workerID), logger.Error(err))
					}
				}
			}
		}(i)
	}

	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Sessions; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	stats.SessionsStarted = int(c.started.Load())
	stats.Unavailable = int(c.unavailable.Load())
	stats.Questions = int(c.questions.Load())
	stats.Answers = int(c.answers.Load())
	stats.Correct = int(c.correct.Load())
	stats.Failed = int(c.failed.Load())
	stats.Violations = int(c.violations.Load())
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, log, stats)

	if stats.Violations > 0 {
		return stats, fmt.Errorf("%w: %d", ErrViolations, stats.Violations)
	}
	return stats, ctx.Err()
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *httpClient) error {
	status, err := client.do(ctx, http.MethodGet, "/healthz", nil, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("health check returned status %d", status)
	}
	return nil
}

// playSession starts a quiz and plays rounds questions, picking options at
// random. Rule violations are counted and reported as errors.
func playSession(ctx context.Context, client *httpClient, rounds int, rng *rand.Rand, c *counters) error {
	var cur quizResponse
	status, err := client.do(ctx, http.MethodPost, "/quiz", nil, &cur)
	if err != nil {
		return err
	}
	if cur.Phase == phaseUnavailable {
		c.unavailable.Add(1)
		return nil
	}
	if status != http.StatusCreated {
		return fmt.Errorf("create quiz: status %d", status)
	}
	c.started.Add(1)

	violation := func(err error) error {
		c.violations.Add(1)
		return err
	}

	path := "/quiz/" + cur.ID
	for round := 1; round <= rounds; round++ {
		c.questions.Add(1)
		if err := verifyQuestion(cur, round); err != nil {
			return violation(fmt.Errorf("question %d: %w", round, err))
		}

		opts := cur.Question.Options
		selected := opts[rng.IntN(len(opts))]
		var revealed quizResponse
		if _, err := client.do(ctx, http.MethodPost, path+"/answer", map[string]string{"option": selected}, &revealed); err != nil {
			return err
		}
		c.answers.Add(1)
		if err := verifyReveal(cur, revealed, selected); err != nil {
			return violation(fmt.Errorf("answer %d: %w", round, err))
		}
		if revealed.Answer.Correct {
			c.correct.Add(1)
		}

		// A second pick for the same question must not change anything.
		var again quizResponse
		if _, err := client.do(ctx, http.MethodPost, path+"/answer", map[string]string{"option": opts[rng.IntN(len(opts))]}, &again); err != nil {
			return err
		}
		if err := verifyIdempotent(revealed, again); err != nil {
			return violation(fmt.Errorf("answer %d: %w", round, err))
		}

		if round == rounds {
			break
		}
		var next quizResponse
		status, err := client.do(ctx, http.MethodPost, path+"/next", nil, &next)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("next question: status %d", status)
		}
		if next.Score != revealed.Score || next.Answered != revealed.Answered {
			return violation(fmt.Errorf("next %d: score changed", round))
		}
		cur = next
	}
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var accuracy, sessionsPerSecond float64
	if stats.Answers > 0 {
		accuracy = float64(stats.Correct) / float64(stats.Answers) * 100
	}
	if stats.Duration > 0 {
		sessionsPerSecond = float64(stats.SessionsStarted) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("sessionsStarted", stats.SessionsStarted),
		logger.Int("unavailable", stats.Unavailable),
		logger.Int("questions", stats.Questions),
		logger.Int("answers", stats.Answers),
		logger.Int("correct", stats.Correct),
		logger.Int("failed", stats.Failed),
		logger.Int("violations", stats.Violations),
		logger.Duration("duration", stats.Duration),
		logger.Float64("accuracyPercent", accuracy),
		logger.Float64("sessionsPerSecond", sessionsPerSecond),
	)
}
