package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/okian/moviesongs/internal/domain/model"
)

// CatalogStore reads and writes the bundled catalog JSON file.
type CatalogStore struct {
	path string
}

// NewCatalogStore creates a store for the catalog file at path.
func NewCatalogStore(path string) *CatalogStore {
	return &CatalogStore{path: path}
}

// Path returns the catalog file path.
func (c *CatalogStore) Path() string {
	return c.path
}

// Load reads the catalog file. A missing file yields an error wrapping
// os.ErrNotExist.
func (c *CatalogStore) Load(_ context.Context) (*model.Catalog, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	songs, err := DecodeCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.path, err)
	}
	return model.NewCatalog(songs), nil
}

// Save replaces the catalog file atomically: the encoded catalog goes to a
// temporary file in the same directory which is then renamed over path.
func (c *CatalogStore) Save(_ context.Context, songs []model.Song) error {
	var buf bytes.Buffer
	if err := EncodeCatalog(&buf, songs); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temporary catalog file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temporary catalog file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temporary catalog file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace catalog file: %w", err)
	}
	return nil
}

// EncodeCatalog writes songs as a JSON array indented with two spaces.
// Songs without movies encode "movies": [].
func EncodeCatalog(w io.Writer, songs []model.Song) error {
	out := make([]model.Song, len(songs))
	for i, s := range songs {
		out[i] = s.Clone()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// DecodeCatalog parses a catalog JSON array.
func DecodeCatalog(r io.Reader) ([]model.Song, error) {
	var songs []model.Song
	if err := json.NewDecoder(r).Decode(&songs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogDecode, err)
	}
	return songs, nil
}
