// Package quizload plays many quiz sessions concurrently against a running
// API server and checks every response against the quiz rules.
package quizload

import (
	"errors"
	"time"
)

// ErrViolations is returned by Run when any response broke a quiz rule.
var ErrViolations = errors.New("quiz rule violations detected")

// Config holds configuration for a load run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Sessions int           // Number of quiz sessions to play
	Rounds   int           // Questions answered per session
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool          // Log every violation
}

// Stats holds run statistics.
type Stats struct {
	SessionsStarted int
	Unavailable     int
	Questions       int
	Answers         int
	Correct         int
	Failed          int
	Violations      int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// quizResponse mirrors the API's quiz body.
type quizResponse struct {
	ID             string `json:"id"`
	Phase          string `json:"phase"`
	QuestionNumber int    `json:"question_number"`
	Score          int    `json:"score"`
	Answered       int    `json:"answered"`
	Question       *struct {
		Title   string   `json:"title"`
		Artist  string   `json:"artist"`
		Options []string `json:"options"`
	} `json:"question"`
	Answer *struct {
		Selected      string `json:"selected"`
		Correct       bool   `json:"correct"`
		CorrectAnswer string `json:"correct_answer"`
	} `json:"answer"`
}

const (
	phaseActive      = "question_active"
	phaseRevealed    = "answer_revealed"
	phaseUnavailable = "unavailable"
	maxOptions       = 4
)
