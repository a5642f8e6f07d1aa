package openlibrary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/books", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "data", r.URL.Query().Get("jscmd"))
		assert.Equal(t, "booklibrary-test", r.Header.Get("User-Agent"))
		if r.URL.Query().Get("bibkeys") != "ISBN:0306406152" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"ISBN:0306406152": {
			"title": "Ensemble Modeling",
			"authors": [{"url": "/authors/OL1A", "name": "Jane Doe"}],
			"cover": {"medium": "https://covers.openlibrary.org/b/id/1-M.jpg"}
		}}`))
	})
	mux.HandleFunc("/isbn/0306406152.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title": "Ensemble Modeling", "works": [{"key": "/works/OL1W"}]}`))
	})
	mux.HandleFunc("/isbn/9780306406157.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title": "No works"}`))
	})
	mux.HandleFunc("/works/OL1W.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title": "Ensemble Modeling", "description": {"type": "/type/text", "value": "A study."}}`))
	})
	mux.HandleFunc("/works/OL2W.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title": "Plain", "description": "Plain text."}`))
	})
	mux.HandleFunc("/works/OL3W.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Options{BaseURL: srv.URL, UserAgent: "booklibrary-test"})
}

func TestClient_GetEdition(t *testing.T) {
	c := newTestClient(newTestServer(t))
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		data, found, err := c.GetEdition(ctx, "0306406152")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "Ensemble Modeling", data.Title)
		require.Len(t, data.Authors, 1)
		assert.Equal(t, "Jane Doe", data.Authors[0].Name)
		assert.Equal(t, "https://covers.openlibrary.org/b/id/1-M.jpg", data.Cover.Medium)
	})

	t.Run("unknown isbn", func(t *testing.T) {
		_, found, err := c.GetEdition(ctx, "9780306406157")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestClient_GetWorkKey(t *testing.T) {
	c := newTestClient(newTestServer(t))
	ctx := context.Background()

	key, err := c.GetWorkKey(ctx, "0306406152")
	require.NoError(t, err)
	assert.Equal(t, "/works/OL1W", key)

	key, err = c.GetWorkKey(ctx, "9780306406157")
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestClient_GetWork(t *testing.T) {
	c := newTestClient(newTestServer(t))
	ctx := context.Background()

	t.Run("typed description", func(t *testing.T) {
		w, err := c.GetWork(ctx, "/works/OL1W")
		require.NoError(t, err)
		assert.Equal(t, "A study.", w.DescriptionText())
	})

	t.Run("string description", func(t *testing.T) {
		w, err := c.GetWork(ctx, "OL2W")
		require.NoError(t, err)
		assert.Equal(t, "Plain text.", w.DescriptionText())
	})

	t.Run("status error", func(t *testing.T) {
		_, err := c.GetWork(ctx, "/works/OL3W")
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusNotFound, se.StatusCode)
	})
}

func TestWork_DescriptionText_Missing(t *testing.T) {
	w := Work{}
	assert.Empty(t, w.DescriptionText())
}
