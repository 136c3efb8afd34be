package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/moviesongs/internal/domain/ingest"
	"github.com/okian/moviesongs/internal/domain/model"
	"github.com/okian/moviesongs/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fakeSource struct {
	rows  []ingest.Row
	errs  []error
	calls int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(ctx context.Context) ([]ingest.Row, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.rows, nil
}

type fakeStore struct {
	saved [][]model.Song
	err   error
}

func (f *fakeStore) Path() string { return "memory://songs.json" }

func (f *fakeStore) Save(ctx context.Context, songs []model.Song) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, songs)
	return nil
}

func TestRowFromCells(t *testing.T) {
	Convey("Given ragged spreadsheet cells", t, func() {
		Convey("When trailing cells are missing", func() {
			r := ingest.RowFromCells([]any{"Imagine", "John Lennon", "The Killing Fields"})

			Convey("Then they default to empty strings", func() {
				So(r, ShouldResemble, ingest.Row{Title: "Imagine", Artist: "John Lennon", Movie: "The Killing Fields"})
			})
		})

		Convey("When cells are not strings", func() {
			r := ingest.RowFromCells([]any{1999, "Prince", nil, 3.5, true, "extra"})

			Convey("Then they are formatted", func() {
				So(r, ShouldResemble, ingest.Row{Title: "1999", Artist: "Prince", Scene: "3.5", Timestamp: "true"})
			})
		})

		Convey("When records are already strings", func() {
			r := ingest.RowFromStrings([]string{"a", "b", "c", "d", "e"})
			So(r, ShouldResemble, ingest.Row{Title: "a", Artist: "b", Movie: "c", Scene: "d", Timestamp: "e"})
		})
	})
}

func TestGroup(t *testing.T) {
	Convey("Given the single Imagine row", t, func() {
		rows := []ingest.Row{{Title: "Imagine", Artist: "John Lennon", Movie: "The Killing Fields", Scene: "opening scene", Timestamp: "00:02:10"}}

		Convey("Then it becomes one song with one appearance", func() {
			songs, stats := ingest.Group(rows)
			So(songs, ShouldResemble, []model.Song{{
				Title: "Imagine", Artist: "John Lennon",
				Movies: []model.MovieAppearance{{Name: "The Killing Fields", Scene: "opening scene", Timestamp: "00:02:10"}},
			}})
			So(stats, ShouldResemble, ingest.GroupStats{Rows: 1, Songs: 1, Movies: 1})
		})
	})

	Convey("Given rows sharing title and artist", t, func() {
		rows := []ingest.Row{
			{Title: "Imagine", Artist: "John Lennon", Movie: "First"},
			{Title: "Hey Jude", Artist: "The Beatles", Movie: "Other"},
			{Title: "Imagine", Artist: "John Lennon", Movie: "Second", Scene: "end"},
		}

		Convey("Then they merge in row order and songs keep first-seen order", func() {
			songs, stats := ingest.Group(rows)
			So(len(songs), ShouldEqual, 2)
			So(songs[0].Title, ShouldEqual, "Imagine")
			So(len(songs[0].Movies), ShouldEqual, 2)
			So(songs[0].Movies[0].Name, ShouldEqual, "First")
			So(songs[0].Movies[1].Name, ShouldEqual, "Second")
			So(songs[0].Movies[1].Scene, ShouldEqual, "end")
			So(songs[1].Title, ShouldEqual, "Hey Jude")
			So(stats.Movies, ShouldEqual, 3)
		})
	})

	Convey("Given pairs that would collide under a delimiter-joined key", t, func() {
		rows := []ingest.Row{
			{Title: "a|||b", Artist: "c", Movie: "M1"},
			{Title: "a", Artist: "b|||c", Movie: "M2"},
		}

		Convey("Then they stay separate songs", func() {
			songs, _ := ingest.Group(rows)
			So(len(songs), ShouldEqual, 2)
		})
	})

	Convey("Given rows that differ only by case", t, func() {
		rows := []ingest.Row{
			{Title: "Imagine", Artist: "John Lennon"},
			{Title: "imagine", Artist: "John Lennon"},
		}

		Convey("Then they are different songs", func() {
			songs, _ := ingest.Group(rows)
			So(len(songs), ShouldEqual, 2)
		})
	})

	Convey("Given rows missing a title or artist", t, func() {
		rows := []ingest.Row{
			{Title: "", Artist: "John Lennon", Movie: "M", Scene: "S", Timestamp: "T"},
			{Title: "Imagine", Artist: "", Movie: "M"},
			{Title: "Kept", Artist: "Someone"},
		}

		Convey("Then they are dropped and counted", func() {
			songs, stats := ingest.Group(rows)
			So(len(songs), ShouldEqual, 1)
			So(songs[0].Title, ShouldEqual, "Kept")
			So(songs[0].Movies, ShouldResemble, []model.MovieAppearance{{}})
			So(stats.Dropped, ShouldEqual, 2)
		})
	})

	Convey("Given no rows", t, func() {
		songs, stats := ingest.Group(nil)
		So(songs, ShouldNotBeNil)
		So(songs, ShouldBeEmpty)
		So(stats.Songs, ShouldEqual, 0)
	})
}

func TestPipeline(t *testing.T) {
	ctx := context.Background()

	Convey("Given a pipeline with rows available", t, func() {
		src := &fakeSource{rows: []ingest.Row{
			{Title: "Imagine", Artist: "John Lennon", Movie: "The Killing Fields"},
			{Title: "", Artist: "dropped"},
		}}
		store := &fakeStore{}
		p := ingest.New(ingest.WithSource(src), ingest.WithStore(store), ingest.WithRetry(3, 0))

		Convey("When run", func() {
			report, err := p.Run(ctx)

			Convey("Then the grouped catalog is saved once", func() {
				So(err, ShouldBeNil)
				So(len(store.saved), ShouldEqual, 1)
				So(store.saved[0][0].Title, ShouldEqual, "Imagine")
				So(report.Songs, ShouldEqual, 1)
				So(report.Dropped, ShouldEqual, 1)
				So(report.Attempts, ShouldEqual, 1)
				So(report.Source, ShouldEqual, "fake")
				So(report.Path, ShouldEqual, "memory://songs.json")
			})
		})
	})

	Convey("Given a source with no rows", t, func() {
		store := &fakeStore{}
		p := ingest.New(ingest.WithSource(&fakeSource{}), ingest.WithStore(store))

		Convey("Then nothing is written", func() {
			_, err := p.Run(ctx)
			So(errors.Is(err, ingest.ErrEmptySource), ShouldBeTrue)
			So(store.saved, ShouldBeEmpty)
		})
	})

	Convey("Given a source that fails transiently", t, func() {
		src := &fakeSource{
			rows: []ingest.Row{{Title: "t", Artist: "a"}},
			errs: []error{errors.New("timeout"), errors.New("timeout")},
		}
		store := &fakeStore{}
		p := ingest.New(ingest.WithSource(src), ingest.WithStore(store), ingest.WithRetry(3, time.Millisecond))

		Convey("Then the run succeeds on a later attempt", func() {
			report, err := p.Run(ctx)
			So(err, ShouldBeNil)
			So(src.calls, ShouldEqual, 3)
			So(report.Attempts, ShouldEqual, 3)
			So(len(store.saved), ShouldEqual, 1)
		})
	})

	Convey("Given a source that keeps failing", t, func() {
		cause := errors.New("403 forbidden")
		src := &fakeSource{errs: []error{cause, cause}}
		store := &fakeStore{}
		p := ingest.New(ingest.WithSource(src), ingest.WithStore(store), ingest.WithRetry(2, 0))

		Convey("Then the run aborts without writing", func() {
			_, err := p.Run(ctx)
			So(errors.Is(err, ingest.ErrSourceUnavailable), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(src.calls, ShouldEqual, 2)
			So(store.saved, ShouldBeEmpty)
		})
	})

	Convey("Given a cancelled context and a failing source", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		src := &fakeSource{errs: []error{errors.New("boom"), errors.New("boom")}}
		p := ingest.New(ingest.WithSource(src), ingest.WithStore(&fakeStore{}), ingest.WithRetry(3, time.Hour))

		Convey("Then retrying stops with the context error", func() {
			_, err := p.Run(cctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(src.calls, ShouldEqual, 1)
		})
	})

	Convey("Given a store that fails", t, func() {
		store := &fakeStore{err: errors.New("disk full")}
		p := ingest.New(ingest.WithSource(&fakeSource{rows: []ingest.Row{{Title: "t", Artist: "a"}}}), ingest.WithStore(store))

		Convey("Then the error is returned", func() {
			_, err := p.Run(ctx)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "disk full")
		})
	})

	Convey("Given a pipeline without a source or store", t, func() {
		_, err := ingest.New(ingest.WithStore(&fakeStore{})).Run(ctx)
		So(err, ShouldEqual, ingest.ErrNoSource)
		_, err = ingest.New(ingest.WithSource(&fakeSource{})).Run(ctx)
		So(err, ShouldEqual, ingest.ErrNoStore)
	})
}
