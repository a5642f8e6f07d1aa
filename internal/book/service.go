package book

import (
	"context"
	"errors"
	"fmt"

	"booklibrary/internal/isbn"
	"booklibrary/internal/platform/openlibrary"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Service provides book-related business logic.
type Service struct {
	repo    Repository
	catalog Catalog
	log     zerolog.Logger
}

// NewService creates a new book service.
func NewService(repo Repository, catalog Catalog, log zerolog.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, log: log}
}

// Lookup resolves the metadata of an ISBN from the catalog. A missing or
// unreachable work record leaves Summary nil instead of failing the lookup.
func (s *Service) Lookup(ctx context.Context, code string) (Details, error) {
	if !isbn.IsValid(code) {
		return Details{}, ErrInvalidISBN
	}

	edition, found, err := s.catalog.GetEdition(ctx, code)
	if err != nil {
		return Details{}, catalogError(err)
	}
	if !found {
		return Details{}, fmt.Errorf("isbn %s: %w", code, ErrNotFound)
	}

	details := Details{
		Title:    edition.Title,
		CoverURL: edition.Cover.Medium,
		Summary:  s.summary(ctx, code),
	}
	if author, ok := lo.First(edition.Authors); ok {
		details.Author = author.Name
	}
	return details, nil
}

func (s *Service) summary(ctx context.Context, code string) *string {
	workKey, err := s.catalog.GetWorkKey(ctx, code)
	if err != nil {
		s.log.Warn().Err(err).Str("isbn", code).Msg("work key lookup failed")
		return nil
	}
	if workKey == "" {
		return nil
	}

	work, err := s.catalog.GetWork(ctx, workKey)
	if err != nil {
		s.log.Warn().Err(err).Str("isbn", code).Str("work", workKey).Msg("work lookup failed")
		return nil
	}
	return lo.EmptyableToPtr(work.DescriptionText())
}

// Create looks up an ISBN and stores the result unless a book with a
// matching title is already stored.
func (s *Service) Create(ctx context.Context, code string) (Book, error) {
	details, err := s.Lookup(ctx, code)
	if err != nil {
		return Book{}, err
	}
	// An empty title would match every stored row in FindByTitle.
	if details.Title == "" {
		return Book{}, fmt.Errorf("isbn %s has no title: %w", code, ErrNotFound)
	}

	existing, err := s.repo.FindByTitle(ctx, details.Title)
	switch {
	case err == nil:
		return Book{}, fmt.Errorf("%q matches stored book %d: %w", details.Title, existing.ID, ErrDuplicateTitle)
	case !errors.Is(err, ErrNotFound):
		return Book{}, fmt.Errorf("find by title: %w", err)
	}

	b := details.toBook()
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, fmt.Errorf("create book: %w", err)
	}
	s.log.Info().Int64("book_id", b.ID).Str("isbn", code).Str("title", b.Title).Msg("book stored")
	return b, nil
}

// List returns the first DefaultListLimit stored books.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx, DefaultListLimit)
}

func catalogError(err error) error {
	var se *openlibrary.StatusError
	if errors.As(err, &se) {
		return &CatalogError{StatusCode: se.StatusCode, Err: err}
	}
	return &CatalogError{Err: err}
}
