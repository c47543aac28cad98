// Package nytimes fetches local news from the New York Times Article Search API.
package nytimes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yolonews/localfeed/internal/datasources"
)

var _ datasources.NewsSearcher = (*Client)(nil)

const (
	DefaultBaseURL = "https://api.nytimes.com/svc/search/v2/articlesearch.json"

	// LocalNewsQuery restricts results to the Sacramento area.
	LocalNewsQuery = `("Sacramento" OR "Davis" OR "Yolo County")`
)

// ErrMissingAPIKey is returned when the client was built without an API key.
var ErrMissingAPIKey = errors.New("API key missing")

type Client struct {
	apiKey     string
	baseURL    string
	query      string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithQuery(query string) Option {
	return func(c *Client) { c.query = query }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		query:   LocalNewsQuery,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchNews returns the newest matching documents for the given page, as sent by the provider.
func (c *Client) SearchNews(ctx context.Context, page int) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("q", c.query)
	params.Set("api-key", c.apiKey)
	params.Set("sort", "newest")
	params.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("article search API error (status %d): %s", resp.StatusCode, string(body))
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("article search API returned invalid JSON")
	}

	return body, nil
}
