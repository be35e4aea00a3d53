package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/marketbrief/pkg/models"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Top Stories</title>
  <item>
    <title>Older story</title>
    <pubDate>Wed, 18 Feb 2026 18:00:00 GMT</pubDate>
  </item>
  <item>
    <title><![CDATA[Fed holds <b>rates</b> steady]]></title>
    <pubDate>Wed, 18 Feb 2026 21:30:00 GMT</pubDate>
  </item>
  <item>
    <title>Undated story</title>
  </item>
  <item>
    <title>   </title>
    <pubDate>Wed, 18 Feb 2026 22:00:00 GMT</pubDate>
  </item>
</channel>
</rss>`

func newTestFeed(t *testing.T, handler http.HandlerFunc) *Feed {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/feed.xml", WithHTTPClient(srv.Client()))
}

func TestHeadlines(t *testing.T) {
	f := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	})

	got, err := f.Headlines(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Fed holds rates steady", got[0].Text)
	assert.Equal(t, time.Date(2026, 2, 18, 21, 30, 0, 0, time.UTC), got[0].PublishedAt)
	assert.Equal(t, "Older story", got[1].Text)
	assert.Equal(t, "Undated story", got[2].Text)
	assert.True(t, got[2].PublishedAt.IsZero())
	for _, h := range got {
		assert.Equal(t, models.HeadlineSourceB, h.Source)
	}
}

func TestHeadlinesAtom(t *testing.T) {
	f := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Markets</title>
  <entry><title>Yen weakens</title><updated>2026-02-18T20:00:00Z</updated></entry>
</feed>`))
	})

	got, err := f.Headlines(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Yen weakens", got[0].Text)
	assert.Equal(t, time.Date(2026, 2, 18, 20, 0, 0, 0, time.UTC), got[0].PublishedAt)
}

func TestHeadlinesErrors(t *testing.T) {
	t.Run("upstream 503", func(t *testing.T) {
		f := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		_, err := f.Headlines(context.Background())
		assert.Error(t, err)
	})

	t.Run("not a feed", func(t *testing.T) {
		f := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><body>not a feed</body></html>`))
		})
		_, err := f.Headlines(context.Background())
		assert.Error(t, err)
	})
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"<p>Stocks <i>up</i></p>", "Stocks up"},
		{"AT&amp;T beats", "AT&T beats"},
		{"  spaced\n  out  ", "spaced\n  out"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanHTML(tt.in), "cleanHTML(%q)", tt.in)
	}
}

func TestNewDefaultURL(t *testing.T) {
	assert.Equal(t, DefaultFeedURL, New("").URL())
}
