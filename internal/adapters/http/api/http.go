// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/moviesongs/internal/domain/model"
	"github.com/okian/moviesongs/internal/domain/quiz"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Search(ctx context.Context, query string) ([]model.Song, error)
	Song(ctx context.Context, title, artist string) (model.Song, error)

	// NewQuiz returns an empty id with an unavailable state when no song
	// can produce a question.
	NewQuiz(ctx context.Context) (string, quiz.State, error)
	Quiz(ctx context.Context, id string) (quiz.State, error)
	Answer(ctx context.Context, id, option string) (quiz.State, error)
	Next(ctx context.Context, id string) (quiz.State, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	searchHandler *SearchHandler
	quizHandler   *QuizHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		searchHandler: NewSearchHandler(deps),
		quizHandler:   NewQuizHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /search", MetricsMiddleware(s.searchHandler.HandleSearch, "search"))
	mux.HandleFunc("GET /songs", MetricsMiddleware(s.searchHandler.HandleSong, "songs"))
	mux.HandleFunc("POST /quiz", MetricsMiddleware(s.quizHandler.HandleCreate, "quiz_create"))
	mux.HandleFunc("GET /quiz/{id}", MetricsMiddleware(s.quizHandler.HandleGet, "quiz_get"))
	mux.HandleFunc("POST /quiz/{id}/answer", MetricsMiddleware(s.quizHandler.HandleAnswer, "quiz_answer"))
	mux.HandleFunc("POST /quiz/{id}/next", MetricsMiddleware(s.quizHandler.HandleNext, "quiz_next"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
