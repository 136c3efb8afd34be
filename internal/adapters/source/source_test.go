package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/api/option"

	"github.com/okian/moviesongs/internal/config"
	"github.com/okian/moviesongs/internal/domain/ingest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRowsFromValues(t *testing.T) {
	Convey("Given ragged sheet values", t, func() {
		values := [][]interface{}{
			{"Imagine", "John Lennon", "The Killing Fields", "opening scene", "00:02:10"},
			{"Imagine", "John Lennon"},
			{"Song", "Artist", "Movie", 42.0},
		}

		Convey("Then each row maps onto five columns", func() {
			rows := rowsFromValues(values)
			So(rows, ShouldHaveLength, 3)
			So(rows[0].Movie, ShouldEqual, "The Killing Fields")
			So(rows[1], ShouldResemble, ingest.Row{Title: "Imagine", Artist: "John Lennon"})
			So(rows[2].Scene, ShouldEqual, "42")
			So(rows[2].Timestamp, ShouldEqual, "")
		})

		Convey("Then nil values give an empty slice", func() {
			So(rowsFromValues(nil), ShouldBeEmpty)
		})
	})
}

func TestSheets(t *testing.T) {
	Convey("Given a fake Sheets endpoint", t, func() {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"range":"Rock Anthems!A2:E3","majorDimension":"ROWS","values":[["Imagine","John Lennon","The Killing Fields","opening scene","00:02:10"],["","Nobody"]]}`))
		}))
		defer srv.Close()

		src, err := NewSheets("sheet-id", "Rock Anthems!A2:E",
			WithClientOptions(option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication()),
		)
		So(err, ShouldBeNil)
		So(src.Name(), ShouldEqual, "sheets")

		Convey("When fetching", func() {
			rows, err := src.Fetch(context.Background())

			Convey("Then the rows come back in sheet order", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].Title, ShouldEqual, "Imagine")
				So(rows[0].Timestamp, ShouldEqual, "00:02:10")
				So(rows[1], ShouldResemble, ingest.Row{Artist: "Nobody"})
				So(gotPath, ShouldContainSubstring, "/spreadsheets/sheet-id/values/")
			})
		})
	})

	Convey("Given a failing Sheets endpoint", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
		}))
		defer srv.Close()

		src, _ := NewSheets("sheet-id", "A2:E",
			WithClientOptions(option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication()),
		)

		Convey("Then Fetch returns an error", func() {
			_, err := src.Fetch(context.Background())
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given no spreadsheet id", t, func() {
		_, err := NewSheets("", "A2:E")
		So(err, ShouldEqual, ErrMissingSpreadsheetID)
	})
}

func TestCSV(t *testing.T) {
	const data = "Title,Artist,Movie,Scene,Timestamp\n" +
		"Imagine,John Lennon,The Killing Fields,opening scene,00:02:10\n" +
		"Imagine,John Lennon,Forrest Gump\n" +
		"\"Rock, Roll\",Band,,,\n"

	Convey("Given a CSV export with a header", t, func() {
		Convey("When reading with the header skipped", func() {
			rows, err := ReadCSV(strings.NewReader(data), true)

			Convey("Then ragged records are padded", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 3)
				So(rows[1], ShouldResemble, ingest.Row{Title: "Imagine", Artist: "John Lennon", Movie: "Forrest Gump"})
				So(rows[2].Title, ShouldEqual, "Rock, Roll")
			})
		})

		Convey("When reading without skipping", func() {
			rows, err := ReadCSV(strings.NewReader(data), false)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 4)
			So(rows[0].Title, ShouldEqual, "Title")
		})

		Convey("When the file is fetched from disk", func() {
			path := filepath.Join(t.TempDir(), "songs.csv")
			So(os.WriteFile(path, []byte(data), 0o644), ShouldBeNil)

			src, err := NewCSV(path, WithSkipHeader(true))
			So(err, ShouldBeNil)
			So(src.Name(), ShouldEqual, "csv")

			rows, err := src.Fetch(context.Background())
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
		})
	})

	Convey("Given a missing file", t, func() {
		src, _ := NewCSV(filepath.Join(t.TempDir(), "missing.csv"))
		_, err := src.Fetch(context.Background())
		So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		src, _ := NewCSV("whatever.csv")
		_, err := src.Fetch(ctx)
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestNew(t *testing.T) {
	Convey("Given a config", t, func() {
		cfg := config.New()

		Convey("When the source is csv", func() {
			cfg.SyncSource = config.SourceCSV
			cfg.CSVPath = "songs.csv"
			src, err := New(cfg)
			So(err, ShouldBeNil)
			So(src.Name(), ShouldEqual, "csv")
		})

		Convey("When the source is sheets", func() {
			cfg.SpreadsheetID = "abc"
			src, err := New(cfg)
			So(err, ShouldBeNil)
			So(src.Name(), ShouldEqual, "sheets")
		})

		Convey("When the source is unknown", func() {
			cfg.SyncSource = "ftp"
			_, err := New(cfg)
			So(errors.Is(err, ErrUnknownSource), ShouldBeTrue)
		})
	})
}
