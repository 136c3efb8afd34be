package quizload

import (
	"fmt"
)

// verifyQuestion checks a freshly generated question.
func verifyQuestion(q quizResponse, wantNumber int) error {
	if q.Phase != phaseActive {
		return fmt.Errorf("phase %q, want %q", q.Phase, phaseActive)
	}
	if q.QuestionNumber != wantNumber {
		return fmt.Errorf("question number %d, want %d", q.QuestionNumber, wantNumber)
	}
	if q.Question == nil {
		return fmt.Errorf("active phase without a question")
	}
	if q.Answer != nil {
		return fmt.Errorf("answer exposed before reveal")
	}
	opts := q.Question.Options
	if len(opts) < 1 || len(opts) > maxOptions {
		return fmt.Errorf("%d options, want 1..%d", len(opts), maxOptions)
	}
	seen := make(map[string]struct{}, len(opts))
	for _, o := range opts {
		if _, dup := seen[o]; dup {
			return fmt.Errorf("duplicate option %q", o)
		}
		seen[o] = struct{}{}
	}
	return nil
}

// verifyReveal checks the state after submitting selected to before.
func verifyReveal(before, after quizResponse, selected string) error {
	if after.Phase != phaseRevealed {
		return fmt.Errorf("phase %q, want %q", after.Phase, phaseRevealed)
	}
	if after.Answer == nil || after.Question == nil {
		return fmt.Errorf("revealed state without answer")
	}
	a := after.Answer
	if a.Selected != selected {
		return fmt.Errorf("selected %q, want %q", a.Selected, selected)
	}
	if a.Correct != (selected == a.CorrectAnswer) {
		return fmt.Errorf("correct=%v for %q against %q", a.Correct, selected, a.CorrectAnswer)
	}

	found := 0
	for _, o := range before.Question.Options {
		if o == a.CorrectAnswer {
			found++
		}
	}
	if found != 1 {
		return fmt.Errorf("correct answer %q appears %d times in options", a.CorrectAnswer, found)
	}

	wantScore := before.Score
	if a.Correct {
		wantScore++
	}
	if after.Score != wantScore || after.Answered != before.Answered+1 {
		return fmt.Errorf("score %d/%d, want %d/%d", after.Score, after.Answered, wantScore, before.Answered+1)
	}
	return nil
}

// verifyIdempotent checks that a repeated submission changed nothing.
func verifyIdempotent(first, again quizResponse) error {
	if again.Phase != first.Phase || again.Score != first.Score || again.Answered != first.Answered {
		return fmt.Errorf("repeated submission changed state")
	}
	if again.Answer == nil || first.Answer == nil || *again.Answer != *first.Answer {
		return fmt.Errorf("repeated submission changed the recorded answer")
	}
	return nil
}
