package book

import (
	"errors"
	"net/http"

	"booklibrary/internal/httpx"
	"booklibrary/internal/validation"

	"github.com/rs/zerolog"
)

type HTTPHandler struct {
	service *Service
	log     zerolog.Logger
}

func NewHTTPHandler(service *Service, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

type isbnRequest struct {
	ISBN string `validate:"required,isbn"`
}

// GetDetails handles GET /isbn/{isbn}
// @Summary Get book details by ISBN
// @Description Look up author, title, summary and cover URL in Open Library
// @Tags isbn
// @Produce json
// @Param isbn path string true "ISBN-10 or ISBN-13"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /isbn/{isbn} [get]
func (h *HTTPHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	req := isbnRequest{ISBN: r.PathValue("isbn")}
	if details := validation.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_ISBN", ErrInvalidISBN.Error(), details)
		return
	}

	d, err := h.service.Lookup(r.Context(), req.ISBN)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, d, nil)
}

// Create handles POST /books/?isbn=
// @Summary Store a book
// @Description Look up an ISBN and store the book unless its title is already stored
// @Tags books
// @Produce json
// @Param isbn query string true "ISBN-10 or ISBN-13"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books/ [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := isbnRequest{ISBN: r.URL.Query().Get("isbn")}
	if details := validation.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_ISBN", ErrInvalidISBN.Error(), details)
		return
	}

	b, err := h.service.Create(r.Context(), req.ISBN)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// List handles GET /books/
// @Summary List stored books
// @Tags books
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /books/ [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"limit": DefaultListLimit})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var catalogErr *CatalogError
	switch {
	case errors.Is(err, ErrInvalidISBN):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_ISBN", ErrInvalidISBN.Error(), nil)
	case errors.Is(err, ErrDuplicateTitle):
		httpx.JSONError(w, r, http.StatusBadRequest, "DUPLICATE_TITLE", "Book with this title already exists in the database", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book details not found", nil)
	case errors.As(err, &catalogErr):
		h.log.Warn().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("catalog lookup failed")
		status := catalogErr.StatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		httpx.JSONError(w, r, status, "UPSTREAM_ERROR", "Book details not found", nil)
	default:
		h.log.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("request failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
