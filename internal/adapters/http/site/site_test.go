package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a site handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()
		mux.HandleFunc("GET /search", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})

		Convey("When registering the site handler", func() {
			Register(ctx, mux)

			Convey("Then it serves the index page at root", func() {
				req := httptest.NewRequest("GET", "/", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "Movie Song Database")
			})

			Convey("And it serves the script and stylesheet", func() {
				for _, path := range []string{"/app.js", "/style.css"} {
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, httptest.NewRequest("GET", path, http.NoBody))
					So(w.Code, ShouldEqual, http.StatusOK)
				}
			})

			Convey("And API routes still take precedence", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest("GET", "/search?q=x", http.NoBody))
				So(w.Code, ShouldEqual, http.StatusTeapot)
			})

			Convey("And unknown assets are not found", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest("GET", "/some-asset", http.NoBody))
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given a nil mux", t, func() {
		So(func() { Register(context.Background(), nil) }, ShouldPanic)
	})
}
