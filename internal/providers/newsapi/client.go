// Package newsapi implements the NewsAPI.org top-headlines client.
//
// Docs: https://newsapi.org/docs/endpoints/top-headlines
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/seenimoa/marketbrief/internal/infra"
	"github.com/seenimoa/marketbrief/pkg/models"
)

const (
	providerName = "newsapi"
	// DefaultBaseURL is the NewsAPI v2 root.
	DefaultBaseURL = "https://newsapi.org/v2"

	// removedTitle marks articles NewsAPI withdrew from the feed.
	removedTitle = "[Removed]"
)

// APIError is returned when NewsAPI answers with status "error".
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("newsapi %s: %s", e.Code, e.Message)
}

type topHeadlinesResponse struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Client fetches business headlines from NewsAPI.
type Client struct {
	baseURL    string
	apiKey     string
	category   string
	language   string
	httpClient *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New creates a NewsAPI client for English business headlines.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		category:   "business",
		language:   "en",
		httpClient: infra.NewHTTPClient(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider name.
func (c *Client) Name() string { return providerName }

// Headlines returns the top business headlines in upstream rank order.
// Withdrawn and empty titles are dropped.
func (c *Client) Headlines(ctx context.Context) ([]models.Headline, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("newsapi: missing API key")
	}

	q := url.Values{}
	q.Set("category", c.category)
	q.Set("language", c.language)
	q.Set("apiKey", c.apiKey)
	endpoint := c.baseURL + "/top-headlines?" + q.Encode()

	data, err := infra.GetBytes(ctx, c.httpClient, endpoint, infra.JSONHeaders())
	if err != nil {
		// Error bodies carry a JSON {status, code, message} envelope.
		var httpErr *infra.ErrHTTP
		if errors.As(err, &httpErr) {
			var resp topHeadlinesResponse
			if json.Unmarshal([]byte(httpErr.Body), &resp) == nil && resp.Code != "" {
				return nil, &APIError{Code: resp.Code, Message: resp.Message}
			}
		}
		return nil, fmt.Errorf("newsapi top-headlines: %w", err)
	}

	var resp topHeadlinesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("newsapi top-headlines: parse JSON: %w", err)
	}
	if resp.Status != "ok" {
		return nil, &APIError{Code: resp.Code, Message: resp.Message}
	}

	out := make([]models.Headline, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		title := strings.TrimSpace(a.Title)
		if title == "" || title == removedTitle {
			continue
		}
		h := models.Headline{Text: title, Source: models.HeadlineSourceA}
		if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			h.PublishedAt = ts.UTC()
		}
		out = append(out, h)
	}
	return out, nil
}
