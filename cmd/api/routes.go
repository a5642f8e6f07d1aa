package main

import (
	"context"
	"net/http"
	"time"

	"booklibrary/internal/book"
)

// readinessCheck reports whether a dependency can serve traffic.
type readinessCheck func(ctx context.Context) error

func newRouter(books *book.HTTPHandler, ready readinessCheck) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /isbn/{isbn}", books.GetDetails)

	// Both spellings are registered so POST is never answered with a redirect.
	router.HandleFunc("GET /books", books.List)
	router.HandleFunc("GET /books/{$}", books.List)
	router.HandleFunc("POST /books", books.Create)
	router.HandleFunc("POST /books/{$}", books.Create)

	return router
}
