// Package fmp implements the Financial Modeling Prep (FMP) client used for
// batched quotes and the economic calendar.
// FMP authenticates with an API key passed as the apikey query parameter.
//
// Free tier: 250 requests/day.
// Docs: https://financialmodelingprep.com/developer/docs
package fmp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/seenimoa/marketbrief/internal/infra"
)

const (
	providerName = "fmp"
	// DefaultBaseURL is the FMP v3 REST API root.
	DefaultBaseURL = "https://financialmodelingprep.com/api/v3"
)

// Client talks to the FMP REST API.
type Client struct {
	baseURL    string
	apiKey     string
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

// New creates a new FMP client.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: infra.NewHTTPClient(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider name.
func (c *Client) Name() string { return providerName }

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.apiKey != "" }

// fmpURL builds a full FMP API URL with the API key appended.
func (c *Client) fmpURL(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("apikey", c.apiKey)
	return c.baseURL + path + "?" + query.Encode()
}

// getJSON performs a GET request to FMP and decodes the response.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	if !c.Configured() {
		return fmt.Errorf("fmp: missing API key")
	}
	return infra.GetJSON(ctx, c.httpClient, c.fmpURL(path, query), infra.JSONHeaders(), dest)
}
