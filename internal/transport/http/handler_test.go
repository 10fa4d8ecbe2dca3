package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"situationroom/internal/domain"
	"situationroom/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNews struct {
	snapshot   usecase.NewsSnapshot
	situations []domain.SituationReport
	assets     []domain.TickerMatch
}

func (s *stubNews) GetNews(ctx context.Context) usecase.NewsSnapshot { return s.snapshot }

func (s *stubNews) GetSituations(ctx context.Context) []domain.SituationReport {
	return s.situations
}

func (s *stubNews) GetAffectedAssets(ctx context.Context) []domain.TickerMatch { return s.assets }

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(news *stubNews) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(log, news)
	h.now = func() time.Time { return testNow }
	return NewServer(log, h)
}

func doRequest(t *testing.T, srv http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestGetNews(t *testing.T) {
	model := &domain.NewsModel{
		Data: map[domain.Category][]domain.NewsItem{
			domain.CategoryWorld: {{ID: "1", Title: "Quake", Link: "https://x/1", Source: "BBC World",
				PubDate: "Mon, 01 Jan 2024 10:00:00 GMT", Category: domain.CategoryWorld}},
			domain.CategoryTech: {},
		},
		Timestamp:     testNow,
		TotalItems:    1,
		Sources:       []domain.SourceStatus{{Name: "BBC World", Items: 1}, {Name: "Wired", Error: "timeout"}},
		FailedSources: 1,
	}
	srv := newTestServer(&stubNews{snapshot: usecase.NewsSnapshot{NewsModel: model}})

	rec := doRequest(t, srv, http.MethodGet, "/api/news")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body struct {
		Data          map[string][]map[string]string `json:"data"`
		TotalItems    int                            `json:"totalItems"`
		FailedSources int                            `json:"failedSources"`
		Stale         bool                           `json:"stale"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.TotalItems)
	assert.Equal(t, 1, body.FailedSources)
	assert.False(t, body.Stale)
	require.Len(t, body.Data["world"], 1)
	assert.Equal(t, "Quake", body.Data["world"][0]["title"])
	assert.Equal(t, "Mon, 01 Jan 2024 10:00:00 GMT", body.Data["world"][0]["pubDate"])
	assert.Empty(t, body.Data["tech"])
}

func TestGetNews_StaleIsStillOK(t *testing.T) {
	model := &domain.NewsModel{Data: map[domain.Category][]domain.NewsItem{}, Timestamp: testNow}
	srv := newTestServer(&stubNews{snapshot: usecase.NewsSnapshot{NewsModel: model, Stale: true}})

	rec := doRequest(t, srv, http.MethodGet, "/api/news")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stale":true`)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubNews{})
	for _, path := range []string{"/api/news", "/api/situations", "/api/affected-assets"} {
		t.Run(path, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, path)
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
			assert.JSONEq(t, `{"error":"Method Not Allowed"}`, rec.Body.String())
		})
	}
}

func TestGetSituations(t *testing.T) {
	srv := newTestServer(&stubNews{situations: []domain.SituationReport{
		{
			Situation:   domain.Situation{ID: "iran", Name: "Iran", Status: domain.ThreatHigh, Keywords: []string{"iran"}},
			Headlines:   []domain.NewsItem{{ID: "a", Title: "Iran talks resume", Link: "https://x/a"}},
			LastUpdated: testNow.Add(-2 * time.Hour),
		},
	}})

	rec := doRequest(t, srv, http.MethodGet, "/api/situations")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "iran", body[0]["id"])
	assert.Equal(t, "high", body[0]["status"])
	assert.Equal(t, "2 hours ago", body[0]["age"])
	assert.Len(t, body[0]["headlines"], 1)
}

func TestGetAffectedAssets(t *testing.T) {
	t.Run("matches", func(t *testing.T) {
		srv := newTestServer(&stubNews{assets: []domain.TickerMatch{
			{Trigger: "OIL", Tickers: []string{"USO", "XLE"}, MatchedHeadline: "Oil jumps"},
		}})
		rec := doRequest(t, srv, http.MethodGet, "/api/affected-assets")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"trigger":"OIL","tickers":["USO","XLE"],"matchedHeadline":"Oil jumps"}]`, rec.Body.String())
	})
	t.Run("none", func(t *testing.T) {
		rec := doRequest(t, newTestServer(&stubNews{}), http.MethodGet, "/api/affected-assets")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestHealthAndCORS(t *testing.T) {
	srv := newTestServer(&stubNews{})

	rec := doRequest(t, srv, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	preflight := doRequest(t, srv, http.MethodOptions, "/api/news")
	assert.Equal(t, http.StatusOK, preflight.Code)
	assert.Empty(t, preflight.Body.String())
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newTestServer(&stubNews{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestUnknownPath(t *testing.T) {
	rec := doRequest(t, newTestServer(&stubNews{}), http.MethodGet, "/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
