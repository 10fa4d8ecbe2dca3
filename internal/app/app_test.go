package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"situationroom/internal/config"
	"situationroom/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRSS = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<item><title>Oil prices climb as OPEC meets</title><link>https://example.com/oil</link>
<pubDate>Mon, 01 Jan 2024 10:00:00 GMT</pubDate></item>
<item><title>Greenland talks stall</title><link>https://example.com/greenland</link>
<pubDate>Mon, 01 Jan 2024 09:00:00 GMT</pubDate></item>
</channel></rss>`

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/world.xml", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, testRSS)
	})
	mux.HandleFunc("/broken.xml", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	mux.HandleFunc("/v0/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[7]`)
	})
	mux.HandleFunc("/v0/item/7.json", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":7,"title":"Show HN: an LLM in Go","time":1704103200}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(upstream string) *config.Config {
	cfg := config.New()
	cfg.Server.Address = "127.0.0.1:0"
	cfg.App.Feeds = []domain.FeedConfig{
		{Name: "World Wire", URL: upstream + "/world.xml", Category: domain.CategoryWorld},
		{Name: "Broken", URL: upstream + "/broken.xml", Category: domain.CategoryFinancial},
	}
	cfg.App.RefreshInterval = "1h"
	cfg.HackerNews.APIURL = upstream + "/v0"
	return cfg
}

func TestApp_ServesAggregatedNews(t *testing.T) {
	upstream := newUpstream(t)
	cfg := testConfig(upstream.URL)
	require.NoError(t, cfg.Validate())

	a, err := NewWithLogger(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data          map[string][]domain.NewsItem `json:"data"`
		TotalItems    int                          `json:"totalItems"`
		FailedSources int                          `json:"failedSources"`
		Stale         bool                         `json:"stale"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.TotalItems)
	assert.Equal(t, 1, body.FailedSources)
	assert.False(t, body.Stale)
	require.Len(t, body.Data["world"], 2)
	assert.Equal(t, "Oil prices climb as OPEC meets", body.Data["world"][0].Title)
	require.Len(t, body.Data["tech"], 1)
	assert.Equal(t, "hn-7", body.Data["tech"][0].ID)
	assert.Equal(t, "https://news.ycombinator.com/item?id=7", body.Data["tech"][0].Link)
	assert.Empty(t, body.Data["financial"])
	assert.Empty(t, body.Data["government"])

	rec = httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/affected-assets", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var matches []domain.TickerMatch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	require.Len(t, matches, 3)
	assert.Equal(t, "OIL", matches[0].Trigger)
	assert.Equal(t, "GREENLAND", matches[1].Trigger)
	assert.Equal(t, "LLM", matches[2].Trigger)
	assert.Equal(t, "Show HN: an LLM in Go", matches[2].MatchedHeadline)
}

func TestApp_StrictParser(t *testing.T) {
	upstream := newUpstream(t)
	cfg := testConfig(upstream.URL)
	cfg.App.Parser = config.ParserStrict
	cfg.HackerNews.Enabled = false

	a, err := NewWithLogger(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Greenland talks stall")
}

func TestNewParser_Unknown(t *testing.T) {
	_, err := newParser("xml", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}

func TestApp_RunStopsOnContextCancel(t *testing.T) {
	upstream := newUpstream(t)
	cfg := testConfig(upstream.URL)

	a, err := NewWithLogger(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
