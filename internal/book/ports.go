package book

import (
	"context"

	"booklibrary/internal/platform/openlibrary"
)

// Repository defines the contract for book data storage.
type Repository interface {
	Create(ctx context.Context, b *Book) error
	// FindByTitle returns the first stored book whose title contains title,
	// ignoring case, or ErrNotFound.
	FindByTitle(ctx context.Context, title string) (Book, error)
	List(ctx context.Context, limit int) ([]Book, error)
}

// Catalog is the subset of the Open Library client used for lookups.
type Catalog interface {
	GetEdition(ctx context.Context, isbn string) (openlibrary.EditionData, bool, error)
	GetWorkKey(ctx context.Context, isbn string) (string, error)
	GetWork(ctx context.Context, workKey string) (*openlibrary.Work, error)
}
