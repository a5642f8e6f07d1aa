package book

import (
	"errors"
	"fmt"
)

// DefaultListLimit caps GET /books.
const DefaultListLimit = 10

var (
	// ErrInvalidISBN is returned when the identifier fails checksum validation.
	ErrInvalidISBN = errors.New("ISBN is not valid")
	// ErrNotFound is returned when the catalog or the database has no such book.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateTitle is returned when a stored title already contains the new one.
	ErrDuplicateTitle = errors.New("book with this title already exists in the database")
)

// CatalogError reports a failed call to the upstream catalog. StatusCode is
// the upstream HTTP status, or 0 when no response was received.
type CatalogError struct {
	StatusCode int
	Err        error
}

func (e *CatalogError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog lookup failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("catalog lookup failed: %v", e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }

// Book is a book stored in the library database.
type Book struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Summary  *string `json:"summary"`
	CoverURL string  `json:"cover_url"`
}

// Details is the metadata resolved for an ISBN from the catalog.
type Details struct {
	Author   string  `json:"author"`
	Title    string  `json:"title"`
	Summary  *string `json:"summary"`
	CoverURL string  `json:"cover_url"`
}

func (d Details) toBook() Book {
	return Book{
		Title:    d.Title,
		Author:   d.Author,
		Summary:  d.Summary,
		CoverURL: d.CoverURL,
	}
}
