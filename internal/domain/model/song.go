// Package model contains domain models passed between layers.
package model

// MovieAppearance is one scene of one movie featuring a song.
// Empty strings stand for "no data"; fields are never absent.
type MovieAppearance struct {
	Name      string `json:"name"`
	Scene     string `json:"scene"`
	Timestamp string `json:"timestamp"`
}

// Song is a unique (title, artist) pair with the movies it appeared in.
type Song struct {
	Title  string            `json:"title"`
	Artist string            `json:"artist"`
	Movies []MovieAppearance `json:"movies"`
}

// Key identifies a song by its literal title and artist.
type Key struct {
	Title  string
	Artist string
}

// Key returns the identity of s. Comparison is exact; no normalization.
func (s Song) Key() Key {
	return Key{Title: s.Title, Artist: s.Artist}
}

// HasMovies reports whether s can be used to build a quiz question.
func (s Song) HasMovies() bool {
	return len(s.Movies) > 0
}

// Clone returns a copy of s that shares no memory with it.
// Movies is always non-nil so the song encodes as "movies": [].
func (s Song) Clone() Song {
	movies := make([]MovieAppearance, len(s.Movies))
	copy(movies, s.Movies)
	s.Movies = movies
	return s
}
