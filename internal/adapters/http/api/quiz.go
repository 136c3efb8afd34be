package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/moviesongs/internal/domain/quiz"
)

// QuizHandler serves quiz sessions.
type QuizHandler struct {
	deps Dependencies
}

// NewQuizHandler creates a new quiz handler.
func NewQuizHandler(deps Dependencies) *QuizHandler {
	return &QuizHandler{deps: deps}
}

type questionView struct {
	Title   string   `json:"title"`
	Artist  string   `json:"artist"`
	Options []string `json:"options"`
}

type answerView struct {
	Selected      string `json:"selected"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

type quizResponse struct {
	ID             string        `json:"id,omitempty"`
	Phase          quiz.Phase    `json:"phase"`
	QuestionNumber int           `json:"question_number"`
	Score          int           `json:"score"`
	Answered       int           `json:"answered"`
	Question       *questionView `json:"question,omitempty"`
	Answer         *answerView   `json:"answer,omitempty"`
}

// answerRequest keeps Option a pointer so an empty movie name is a valid
// choice and only a missing field is rejected.
type answerRequest struct {
	Option *string `json:"option"`
}

// newQuizResponse renders st without the correct answer until it has been
// revealed. The song's movies are never included.
func newQuizResponse(id string, st quiz.State) quizResponse {
	resp := quizResponse{
		ID:             id,
		Phase:          st.Phase,
		QuestionNumber: st.QuestionNumber,
		Score:          st.Score,
		Answered:       st.Answered,
	}
	if st.Question != nil {
		resp.Question = &questionView{
			Title:   st.Question.Song.Title,
			Artist:  st.Question.Song.Artist,
			Options: st.Question.Options,
		}
		if st.Answer != nil {
			resp.Answer = &answerView{
				Selected:      st.Answer.Selected,
				Correct:       st.Answer.Correct,
				CorrectAnswer: st.Question.CorrectAnswer,
			}
		}
	}
	return resp
}

// HandleCreate handles POST /quiz requests.
func (h *QuizHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, st, err := h.deps.NewQuiz(r.Context())
	if err != nil {
		writeError(w, Wrap("quiz.create", err))
		return
	}
	status := http.StatusCreated
	if id == "" {
		status = http.StatusOK
	}
	writeJSON(w, status, newQuizResponse(id, st))
}

// HandleGet handles GET /quiz/{id} requests.
func (h *QuizHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st, err := h.deps.Quiz(r.Context(), id)
	if err != nil {
		writeError(w, Wrap("quiz.get", err))
		return
	}
	writeJSON(w, http.StatusOK, newQuizResponse(id, st))
}

// HandleAnswer handles POST /quiz/{id}/answer requests.
func (h *QuizHandler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, WrapKind("quiz.answer", ErrBadRequest, err))
		return
	}
	if req.Option == nil {
		writeError(w, NewKind("quiz.answer: option is required", ErrBadRequest))
		return
	}

	st, err := h.deps.Answer(r.Context(), id, *req.Option)
	if err != nil {
		writeError(w, Wrap("quiz.answer", err))
		return
	}
	writeJSON(w, http.StatusOK, newQuizResponse(id, st))
}

// HandleNext handles POST /quiz/{id}/next requests.
func (h *QuizHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st, err := h.deps.Next(r.Context(), id)
	if err != nil {
		writeError(w, Wrap("quiz.next", err))
		return
	}
	writeJSON(w, http.StatusOK, newQuizResponse(id, st))
}
