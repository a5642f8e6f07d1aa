package book

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"booklibrary/internal/platform/openlibrary"
	"booklibrary/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestHandler(t *testing.T) (*HTTPHandler, *MockRepository, *mockCatalog) {
	s, repo, cat := newTestService(t)
	return NewHTTPHandler(s, zerolog.Nop()), repo, cat
}

func TestHTTPHandler_GetDetails(t *testing.T) {
	tests := []struct {
		name           string
		isbn           string
		setupMock      func(cat *mockCatalog)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "success",
			isbn: testISBN,
			setupMock: func(cat *mockCatalog) {
				cat.On("GetEdition", mock.Anything, testISBN).Return(testEdition, true, nil)
				cat.On("GetWorkKey", mock.Anything, testISBN).Return("", nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid isbn",
			isbn:           "0306406153",
			setupMock:      func(cat *mockCatalog) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_ISBN",
		},
		{
			name:           "alphabetic",
			isbn:           "notanisbn",
			setupMock:      func(cat *mockCatalog) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_ISBN",
		},
		{
			name: "not in catalog",
			isbn: "9780306406157",
			setupMock: func(cat *mockCatalog) {
				cat.On("GetEdition", mock.Anything, "9780306406157").Return(openlibrary.EditionData{}, false, nil)
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name: "upstream status passed through",
			isbn: testISBN,
			setupMock: func(cat *mockCatalog) {
				cat.On("GetEdition", mock.Anything, testISBN).
					Return(openlibrary.EditionData{}, false, &openlibrary.StatusError{StatusCode: http.StatusServiceUnavailable})
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "UPSTREAM_ERROR",
		},
		{
			name: "upstream unreachable",
			isbn: testISBN,
			setupMock: func(cat *mockCatalog) {
				cat.On("GetEdition", mock.Anything, testISBN).
					Return(openlibrary.EditionData{}, false, context.DeadlineExceeded)
			},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "UPSTREAM_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, cat := newTestHandler(t)
			tt.setupMock(cat)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/isbn/"+tt.isbn, nil)
			r.SetPathValue("isbn", tt.isbn)

			handler.GetDetails(w, r)

			resp := testutil.RecordHTTPResponse(w)
			assert.Equal(t, tt.expectedStatus, resp.Code)
			if tt.expectedCode != "" {
				testutil.AssertErrorCode(t, resp.Body, tt.expectedCode)
			}
		})
	}
}

func TestHTTPHandler_GetDetails_Body(t *testing.T) {
	handler, _, cat := newTestHandler(t)
	cat.On("GetEdition", mock.Anything, testISBN).Return(testEdition, true, nil)
	cat.On("GetWorkKey", mock.Anything, testISBN).Return("", nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/isbn/"+testISBN, nil)
	r.SetPathValue("isbn", testISBN)
	handler.GetDetails(w, r)

	resp := testutil.RecordHTTPResponse(w)
	data := resp.Body["data"].(map[string]interface{})
	assert.Equal(t, "Jane Doe", data["author"])
	assert.Equal(t, "Ensemble Modeling", data["title"])
	assert.Nil(t, data["summary"])
	assert.Contains(t, data, "summary")
	assert.Equal(t, "https://covers.openlibrary.org/b/id/1-M.jpg", data["cover_url"])
}

func TestHTTPHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		handler, repo, cat := newTestHandler(t)
		cat.On("GetEdition", mock.Anything, testISBN).Return(testEdition, true, nil)
		cat.On("GetWorkKey", mock.Anything, testISBN).Return("", nil)
		repo.EXPECT().FindByTitle(gomock.Any(), "Ensemble Modeling").Return(Book{}, ErrNotFound)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		handler.Create(w, testutil.NewRequest(http.MethodPost, "/books/?isbn="+testISBN, nil))

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate title", func(t *testing.T) {
		handler, repo, cat := newTestHandler(t)
		cat.On("GetEdition", mock.Anything, testISBN).Return(testEdition, true, nil)
		cat.On("GetWorkKey", mock.Anything, testISBN).Return("", nil)
		repo.EXPECT().FindByTitle(gomock.Any(), "Ensemble Modeling").Return(Book{ID: 3, Title: "Ensemble Modeling"}, nil)

		w := httptest.NewRecorder()
		handler.Create(w, testutil.NewRequest(http.MethodPost, "/books/?isbn="+testISBN, nil))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		testutil.AssertErrorCode(t, resp.Body, "DUPLICATE_TITLE")
	})

	t.Run("missing isbn", func(t *testing.T) {
		handler, _, _ := newTestHandler(t)

		w := httptest.NewRecorder()
		handler.Create(w, testutil.NewRequest(http.MethodPost, "/books/", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		handler, repo, cat := newTestHandler(t)
		cat.On("GetEdition", mock.Anything, testISBN).Return(testEdition, true, nil)
		cat.On("GetWorkKey", mock.Anything, testISBN).Return("", nil)
		repo.EXPECT().FindByTitle(gomock.Any(), gomock.Any()).Return(Book{}, ErrNotFound)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)

		w := httptest.NewRecorder()
		handler.Create(w, testutil.NewRequest(http.MethodPost, "/books/?isbn="+testISBN, nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, repo, _ := newTestHandler(t)
		repo.EXPECT().List(gomock.Any(), DefaultListLimit).Return([]Book{{ID: 1, Title: "Test"}}, nil)

		w := httptest.NewRecorder()
		handler.List(w, testutil.NewRequest(http.MethodGet, "/books/", nil))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Len(t, resp.Body["data"], 1)
	})

	t.Run("error", func(t *testing.T) {
		handler, repo, _ := newTestHandler(t)
		repo.EXPECT().List(gomock.Any(), DefaultListLimit).Return(nil, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		handler.List(w, testutil.NewRequest(http.MethodGet, "/books/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
