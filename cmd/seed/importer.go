package main

import (
	"context"
	"errors"

	"booklibrary/internal/book"

	"github.com/rs/zerolog"
)

type bookCreator interface {
	Create(ctx context.Context, isbn string) (book.Book, error)
}

type importResult struct {
	Created int
	Skipped int
	Failed  int
}

// importISBNs stores every ISBN it can. Invalid ISBNs, unknown ISBNs and
// titles already in the library are skipped; other errors count as failures.
func importISBNs(ctx context.Context, svc bookCreator, isbns []string, log zerolog.Logger) importResult {
	var res importResult
	seen := make(map[string]bool, len(isbns))

	for _, isbn := range isbns {
		if ctx.Err() != nil {
			break
		}
		if seen[isbn] {
			continue
		}
		seen[isbn] = true

		b, err := svc.Create(ctx, isbn)
		switch {
		case err == nil:
			res.Created++
			log.Debug().Str("isbn", isbn).Int64("id", b.ID).Msg("imported")
		case errors.Is(err, book.ErrInvalidISBN), errors.Is(err, book.ErrNotFound), errors.Is(err, book.ErrDuplicateTitle):
			res.Skipped++
			log.Info().Str("isbn", isbn).Err(err).Msg("skipped")
		default:
			res.Failed++
			log.Error().Str("isbn", isbn).Err(err).Msg("import failed")
		}
	}
	return res
}
