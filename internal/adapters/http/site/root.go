// Package site serves the embedded browser front end for search and quiz.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded site to mux as the catch-all route. API
// routes registered on the same mux take precedence.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", http.FileServer(FS()))
}
