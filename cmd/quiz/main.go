// Command quiz is a terminal client for the bundled catalog: search songs by
// title or artist, inspect their movie appearances and play the movie quiz.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/okian/moviesongs/internal/adapters/repository"
	"github.com/okian/moviesongs/internal/config"
	"github.com/okian/moviesongs/internal/domain/model"
	"github.com/okian/moviesongs/internal/domain/quiz"
	"github.com/okian/moviesongs/internal/domain/search"
	"github.com/okian/moviesongs/pkg/logger"
)

const (
	actionSearch = "search"
	actionQuiz   = "quiz"
	actionQuit   = "quit"
	actionNext   = "next"
	actionBack   = "back"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	correctStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	wrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

type client struct {
	catalog *model.Catalog
	engine  *search.Engine
	seed    uint64
}

func main() {
	// Keep the terminal for the forms; only warnings go to stderr.
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString("warn")
	log := logger.Named("quiz")
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal(ctx, "failed to load config", logger.Error(err))
	}
	cat, err := repository.NewCatalogStore(cfg.CatalogPath).Load(ctx)
	if err != nil {
		log.Fatal(ctx, "failed to load catalog", logger.String("path", cfg.CatalogPath), logger.Error(err))
	}

	c := &client{catalog: cat, engine: search.NewEngine(cat), seed: cfg.QuizSeed}
	if err := c.run(); err != nil && !errors.Is(err, huh.ErrUserAborted) {
		log.Fatal(ctx, "terminal client failed", logger.Error(err))
	}
}

func (c *client) run() error {
	for {
		var action string
		err := huh.NewSelect[string]().
			Title("Movie Songs").
			Description(fmt.Sprintf("%d songs in the catalog", c.catalog.Len())).
			Options(
				huh.NewOption("Search songs", actionSearch),
				huh.NewOption("Movie quiz", actionQuiz),
				huh.NewOption("Quit", actionQuit),
			).
			Value(&action).
			Run()
		if err != nil {
			return err
		}

		switch action {
		case actionSearch:
			err = c.searchLoop()
		case actionQuiz:
			err = c.quizLoop()
		default:
			return nil
		}
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
	}
}

func (c *client) searchLoop() error {
	var query string
	err := huh.NewInput().
		Title("Search by song title or artist").
		Value(&query).
		Run()
	if err != nil {
		return err
	}

	results := c.engine.Search(query)
	if len(results) == 0 {
		fmt.Println(mutedStyle.Render(fmt.Sprintf("No songs found for %q.", query)))
		return nil
	}

	for {
		options := make([]huh.Option[int], 0, len(results)+1)
		for i, s := range results {
			options = append(options, huh.NewOption(songLabel(s), i))
		}
		options = append(options, huh.NewOption("Back", -1))

		idx := -1
		err := huh.NewSelect[int]().
			Title(fmt.Sprintf("%d result(s) for %q", len(results), query)).
			Options(options...).
			Value(&idx).
			Run()
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(results) {
			return nil
		}
		fmt.Println(formatSong(results[idx]))
	}
}

func (c *client) quizLoop() error {
	sess := quiz.NewSession(c.catalog, quiz.WithRand(quiz.NewRand(c.seed)))
	st, err := sess.Start()
	if errors.Is(err, quiz.ErrNoEligibleQuestions) {
		fmt.Println(mutedStyle.Render("No quiz questions available: no song has a movie appearance."))
		return nil
	}
	if err != nil {
		return err
	}

	for {
		var choice string
		err := huh.NewSelect[string]().
			Title(formatQuestion(st)).
			Description(formatScore(st)).
			Options(huh.NewOptions(st.Question.Options...)...).
			Value(&choice).
			Run()
		if err != nil {
			return err
		}
		if _, err := sess.Submit(choice); err != nil {
			return err
		}
		st = sess.State()
		fmt.Println(formatFeedback(st))

		var action string
		err = huh.NewSelect[string]().
			Title(formatScore(st)).
			Options(
				huh.NewOption("Next question", actionNext),
				huh.NewOption("Back to menu", actionBack),
			).
			Value(&action).
			Run()
		if err != nil {
			return err
		}
		if action != actionNext {
			return nil
		}
		if st, err = sess.Next(); err != nil {
			return err
		}
	}
}

func songLabel(s model.Song) string {
	return fmt.Sprintf("%s - %s", s.Title, s.Artist)
}

// formatSong renders a song with every movie appearance; missing scene or
// timestamp data is left out.
func formatSong(s model.Song) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(songLabel(s)))
	if !s.HasMovies() {
		b.WriteString("\n  " + mutedStyle.Render("No movie appearances recorded."))
		return b.String()
	}
	for _, m := range s.Movies {
		b.WriteString("\n  " + m.Name)
		var details []string
		if m.Scene != "" {
			details = append(details, m.Scene)
		}
		if m.Timestamp != "" {
			details = append(details, "at "+m.Timestamp)
		}
		if len(details) > 0 {
			b.WriteString(" " + mutedStyle.Render("("+strings.Join(details, ", ")+")"))
		}
	}
	return b.String()
}

func formatQuestion(st quiz.State) string {
	if st.Question == nil {
		return ""
	}
	return fmt.Sprintf("Question #%d: which movie features %q by %s?",
		st.QuestionNumber, st.Question.Song.Title, st.Question.Song.Artist)
}

func formatScore(st quiz.State) string {
	return fmt.Sprintf("Score: %d / %d", st.Score, st.Answered)
}

// formatFeedback describes the revealed answer, or nothing before reveal.
func formatFeedback(st quiz.State) string {
	if st.Answer == nil || st.Question == nil {
		return ""
	}
	if st.Answer.Correct {
		return correctStyle.Render("Correct! " + st.Question.CorrectAnswer)
	}
	return wrongStyle.Render("Wrong: "+st.Answer.Selected) +
		"\nThe answer was " + correctStyle.Render(st.Question.CorrectAnswer)
}
