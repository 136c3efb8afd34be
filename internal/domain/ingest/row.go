// Package ingest turns spreadsheet rows into catalog songs.
package ingest

import (
	"fmt"

	"github.com/okian/moviesongs/internal/domain/model"
)

// Columns is the number of cells a source row carries:
// title, artist, movie name, scene, timestamp.
const Columns = 5

// Row is one source row. Missing cells are empty strings.
type Row struct {
	Title     string
	Artist    string
	Movie     string
	Scene     string
	Timestamp string
}

// RowFromCells maps a ragged row of cells onto a Row. Cells beyond the fifth
// are ignored; nil cells are empty and non-string cells are formatted.
func RowFromCells(cells []any) Row {
	var v [Columns]string
	for i := 0; i < Columns && i < len(cells); i++ {
		v[i] = cellString(cells[i])
	}
	return Row{Title: v[0], Artist: v[1], Movie: v[2], Scene: v[3], Timestamp: v[4]}
}

// RowFromStrings is RowFromCells for already-textual records such as CSV.
func RowFromStrings(record []string) Row {
	cells := make([]any, len(record))
	for i, s := range record {
		cells[i] = s
	}
	return RowFromCells(cells)
}

func cellString(c any) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// GroupStats summarizes a Group call.
type GroupStats struct {
	Rows    int
	Dropped int
	Songs   int
	Movies  int
}

// Group folds rows into songs. Rows without a title or artist are dropped.
// Rows with the same exact (title, artist) pair add to the same song; songs
// keep first-encounter order and movies keep row order.
func Group(rows []Row) ([]model.Song, GroupStats) {
	stats := GroupStats{Rows: len(rows)}
	index := make(map[model.Key]int)
	songs := []model.Song{}

	for _, r := range rows {
		if r.Title == "" || r.Artist == "" {
			stats.Dropped++
			continue
		}
		key := model.Key{Title: r.Title, Artist: r.Artist}
		i, ok := index[key]
		if !ok {
			i = len(songs)
			index[key] = i
			songs = append(songs, model.Song{Title: r.Title, Artist: r.Artist, Movies: []model.MovieAppearance{}})
		}
		songs[i].Movies = append(songs[i].Movies, model.MovieAppearance{
			Name:      r.Movie,
			Scene:     r.Scene,
			Timestamp: r.Timestamp,
		})
		stats.Movies++
	}

	stats.Songs = len(songs)
	return songs, stats
}
