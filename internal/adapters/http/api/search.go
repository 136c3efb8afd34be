package api

import (
	"net/http"

	"github.com/okian/moviesongs/internal/domain/model"
)

// SearchHandler serves catalog search and song detail.
type SearchHandler struct {
	deps Dependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps Dependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

type searchResponse struct {
	Query string       `json:"query"`
	Count int          `json:"count"`
	Songs []model.Song `json:"songs"`
}

// HandleSearch handles GET /search?q= requests. A missing or empty query
// yields an empty result, not an error.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	songs, err := h.deps.Search(r.Context(), q)
	if err != nil {
		writeError(w, Wrap("search", err))
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: q, Count: len(songs), Songs: songs})
}

// HandleSong handles GET /songs?title=&artist= requests.
func (h *SearchHandler) HandleSong(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	artist := r.URL.Query().Get("artist")
	if title == "" || artist == "" {
		writeError(w, NewKind("songs: title and artist are required", ErrBadRequest))
		return
	}
	song, err := h.deps.Song(r.Context(), title, artist)
	if err != nil {
		writeError(w, Wrap("songs", err))
		return
	}
	writeJSON(w, http.StatusOK, song)
}
