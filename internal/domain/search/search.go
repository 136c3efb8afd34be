package search

import (
	"strings"

	"github.com/okian/moviesongs/internal/domain/model"
)

// Search returns the songs whose title or artist contains query, compared
// after Normalize. Catalog order is preserved. An empty query, or one that
// normalizes to nothing, matches no songs.
func Search(query string, songs []model.Song) []model.Song {
	q := Normalize(query)
	out := []model.Song{}
	if q == "" {
		return out
	}
	for _, s := range songs {
		if strings.Contains(Normalize(s.Title), q) || strings.Contains(Normalize(s.Artist), q) {
			out = append(out, s)
		}
	}
	return out
}

// entry caches the normalized fields of one song.
type entry struct {
	title  string
	artist string
}

// Engine searches a single catalog with pre-normalized fields.
// It is safe for concurrent use because it never mutates after NewEngine.
type Engine struct {
	songs   []model.Song
	entries []entry
}

// NewEngine prepares an Engine over cat.
func NewEngine(cat *model.Catalog) *Engine {
	songs := cat.Songs()
	e := &Engine{
		songs:   songs,
		entries: make([]entry, len(songs)),
	}
	for i, s := range songs {
		e.entries[i] = entry{title: Normalize(s.Title), artist: Normalize(s.Artist)}
	}
	return e
}

// Search behaves like the package-level Search over the engine's catalog.
func (e *Engine) Search(query string) []model.Song {
	q := Normalize(query)
	out := []model.Song{}
	if q == "" {
		return out
	}
	for i, en := range e.entries {
		if strings.Contains(en.title, q) || strings.Contains(en.artist, q) {
			out = append(out, e.songs[i])
		}
	}
	return out
}

// Size returns the number of searchable songs.
func (e *Engine) Size() int {
	return len(e.songs)
}
