package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Open Library API.
const DefaultBaseURL = "https://openlibrary.org"

// StatusError is returned when Open Library answers with a non-200 status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Client is a rate-limited Open Library API client.
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
}

// Options configures NewClient. Zero values select the defaults.
type Options struct {
	BaseURL   string
	UserAgent string
	RPS       float64
	Timeout   time.Duration
}

// NewClient returns a Client. An RPS of zero disables the limiter.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent: opts.UserAgent,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		limiter:   rate.NewLimiter(limit, 1),
	}
}

type Author struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

type Cover struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// EditionData matches one entry of api/books?jscmd=data
type EditionData struct {
	Title   string   `json:"title"`
	Authors []Author `json:"authors"`
	Cover   Cover    `json:"cover"`
}

// Edition matches isbn/{isbn}.json
type Edition struct {
	Title string `json:"title"`
	Works []struct {
		Key string `json:"key"`
	} `json:"works"`
}

// Work matches works/{key}.json. Description can be a plain string or
// {"type": "/type/text", "value": "..."}.
type Work struct {
	Title       string          `json:"title"`
	Description json.RawMessage `json:"description"`
}

// DescriptionText returns the description regardless of which shape it came in.
func (w *Work) DescriptionText() string {
	if len(w.Description) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(w.Description, &s); err == nil {
		return s
	}
	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(w.Description, &typed); err == nil {
		return typed.Value
	}
	return ""
}

// GetEdition fetches edition data for a single ISBN. found is false when
// Open Library has no record for it.
func (c *Client) GetEdition(ctx context.Context, isbn string) (EditionData, bool, error) {
	bibkey := "ISBN:" + isbn
	u := fmt.Sprintf("%s/api/books?bibkeys=%s&jscmd=data&format=json",
		c.baseURL, url.QueryEscape(bibkey))

	var res map[string]EditionData
	if err := c.get(ctx, u, &res); err != nil {
		return EditionData{}, false, err
	}
	data, ok := res[bibkey]
	return data, ok, nil
}

// GetWorkKey returns the first work key of the edition, e.g. "/works/OL45804W".
func (c *Client) GetWorkKey(ctx context.Context, isbn string) (string, error) {
	u := fmt.Sprintf("%s/isbn/%s.json", c.baseURL, url.PathEscape(isbn))

	var res Edition
	if err := c.get(ctx, u, &res); err != nil {
		return "", err
	}
	if len(res.Works) == 0 {
		return "", nil
	}
	return res.Works[0].Key, nil
}

// GetWork fetches a work record by key, with or without the "/works/" prefix.
func (c *Client) GetWork(ctx context.Context, workKey string) (*Work, error) {
	key := strings.TrimPrefix(workKey, "/works/")
	u := fmt.Sprintf("%s/works/%s.json", c.baseURL, url.PathEscape(key))

	var res Work
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
