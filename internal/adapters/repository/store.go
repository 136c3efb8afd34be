// Package repository persists the song catalog and holds live quiz sessions.
package repository

import (
	"context"

	"github.com/okian/moviesongs/internal/domain/model"
	"github.com/okian/moviesongs/internal/domain/quiz"
)

// CatalogReader loads the catalog snapshot used for a process lifetime.
type CatalogReader interface {
	Load(ctx context.Context) (*model.Catalog, error)
}

// CatalogWriter replaces the stored catalog wholesale.
type CatalogWriter interface {
	Save(ctx context.Context, songs []model.Song) error
	Path() string
}

// Sessions keeps quiz sessions addressable by id.
type Sessions interface {
	// Create stores s under a new id.
	Create(ctx context.Context, s *quiz.Session) (string, error)

	// With runs fn with exclusive access to the session id.
	// Returns ErrSessionNotFound if the id is unknown or expired.
	With(ctx context.Context, id string, fn func(*quiz.Session) error) error

	// Delete drops a session. Unknown ids are ignored.
	Delete(ctx context.Context, id string)

	// Len returns the number of live sessions.
	Len(ctx context.Context) int
}
