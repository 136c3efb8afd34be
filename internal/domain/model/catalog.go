package model

// Catalog is an immutable, ordered snapshot of songs loaded once per run.
// Callers must treat slices returned by its methods as read-only.
type Catalog struct {
	songs    []Song
	eligible []Song
	index    map[Key]int
}

// NewCatalog builds a Catalog from songs. The input is deep-copied so later
// changes to it are not observed.
func NewCatalog(songs []Song) *Catalog {
	c := &Catalog{
		songs: make([]Song, len(songs)),
		index: make(map[Key]int, len(songs)),
	}
	for i, s := range songs {
		c.songs[i] = s.Clone()
		if _, dup := c.index[s.Key()]; !dup {
			c.index[s.Key()] = i
		}
		if s.HasMovies() {
			c.eligible = append(c.eligible, c.songs[i])
		}
	}
	return c
}

// Songs returns every song in catalog order.
func (c *Catalog) Songs() []Song {
	if c == nil {
		return nil
	}
	return c.songs
}

// Len returns the number of songs.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.songs)
}

// Eligible returns the songs that have at least one movie appearance,
// in catalog order.
func (c *Catalog) Eligible() []Song {
	if c == nil {
		return nil
	}
	return c.eligible
}

// MovieCount returns the total number of movie appearances.
func (c *Catalog) MovieCount() int {
	n := 0
	for _, s := range c.Songs() {
		n += len(s.Movies)
	}
	return n
}

// Find looks up a song by its exact title and artist.
func (c *Catalog) Find(title, artist string) (Song, error) {
	if c == nil {
		return Song{}, ErrSongNotFound
	}
	i, ok := c.index[Key{Title: title, Artist: artist}]
	if !ok {
		return Song{}, ErrSongNotFound
	}
	return c.songs[i], nil
}
