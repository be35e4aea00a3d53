package newsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/marketbrief/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("news_key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestHeadlines(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/top-headlines", r.URL.Path)
		assert.Equal(t, "business", r.URL.Query().Get("category"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "news_key", r.URL.Query().Get("apiKey"))
		w.Write([]byte(`{"status":"ok","totalResults":4,"articles":[
			{"source":{"name":"Reuters"},"title":"Stocks rally on rate hopes","publishedAt":"2026-02-18T21:00:00Z"},
			{"source":{"name":"x"},"title":"[Removed]","publishedAt":"2026-02-18T20:00:00Z"},
			{"source":{"name":"y"},"title":"  ","publishedAt":"2026-02-18T20:00:00Z"},
			{"source":{"name":"CNBC"},"title":"Oil slips","publishedAt":"bad"}
		]}`))
	})

	got, err := c.Headlines(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Stocks rally on rate hopes", got[0].Text)
	assert.Equal(t, models.HeadlineSourceA, got[0].Source)
	assert.Equal(t, time.Date(2026, 2, 18, 21, 0, 0, 0, time.UTC), got[0].PublishedAt)
	assert.Equal(t, "Oil slips", got[1].Text)
	assert.True(t, got[1].PublishedAt.IsZero())
}

func TestHeadlinesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`))
	})

	_, err := c.Headlines(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "apiKeyInvalid", apiErr.Code)
}

func TestHeadlinesStatusErrorWith200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","code":"rateLimited","message":"slow down"}`))
	})

	_, err := c.Headlines(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "rateLimited", apiErr.Code)
}

func TestHeadlinesMissingKey(t *testing.T) {
	_, err := New("").Headlines(context.Background())
	require.Error(t, err)
}
