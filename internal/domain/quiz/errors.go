package quiz

import "errors"

// Sentinel kinds for quiz errors.
var (
	ErrNoEligibleQuestions = errors.New("no song has a movie appearance")
	ErrNoActiveQuestion    = errors.New("no active question")
	ErrAnswerPending       = errors.New("current question has not been answered")
	ErrUnknownOption       = errors.New("option is not offered by the current question")
)
