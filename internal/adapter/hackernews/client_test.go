package hackernews

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"situationroom/internal/adapter/fetcher"
	"situationroom/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(apiURL string, cfg Config) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg.APIURL = apiURL
	return NewClient(fetcher.NewHTTPFetcher(nil, "test", logger), cfg, logger)
}

func TestClient_FetchNews_Success(t *testing.T) {
	var detailCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[1,2,3,4,5,6,7,8,9,10,11,12]")
	})
	mux.HandleFunc("/item/", func(w http.ResponseWriter, r *http.Request) {
		detailCalls.Add(1)
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/item/"), ".json")
		switch id {
		case "2":
			fmt.Fprint(w, `{"id":2,"title":"Ask HN: no url","time":1700000000}`)
		case "3":
			w.WriteHeader(http.StatusInternalServerError)
		case "4":
			fmt.Fprint(w, `{"id":4,"time":1700000000}`)
		case "5":
			fmt.Fprint(w, `null`)
		case "6":
			fmt.Fprint(w, `{broken`)
		default:
			fmt.Fprintf(w, `{"id":%s,"title":"Story %s","url":"https://example.com/%s","time":1700000000}`, id, id, id)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	items, err := newTestClient(srv.URL, Config{}).FetchNews(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(10), detailCalls.Load(), "only the first ten ids are resolved")
	require.Len(t, items, 6)

	assert.Equal(t, "hn-1", items[0].ID)
	assert.Equal(t, "Story 1", items[0].Title)
	assert.Equal(t, "https://example.com/1", items[0].Link)
	assert.Equal(t, SourceName, items[0].Source)
	assert.Equal(t, domain.CategoryTech, items[0].Category)
	assert.Equal(t, "2023-11-14T22:13:20Z", items[0].PubDate)
	assert.True(t, items[0].Published.Equal(time.Unix(1700000000, 0)))

	assert.Equal(t, "hn-2", items[1].ID)
	assert.Equal(t, "https://news.ycombinator.com/item?id=2", items[1].Link)

	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"hn-1", "hn-2", "hn-7", "hn-8", "hn-9", "hn-10"}, ids)
}

func TestClient_FetchNews_TitleVerbatim(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[42]")
	})
	mux.HandleFunc("/item/42.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":42,"title":"Show HN: AT&amp;T <b>parser</b>","url":"https://example.com","time":1}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	items, err := newTestClient(srv.URL, Config{}).FetchNews(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Show HN: AT&amp;T <b>parser</b>", items[0].Title)
}

func TestClient_FetchNews_ListFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	items, err := newTestClient(srv.URL, Config{}).FetchNews(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "top stories")
	assert.Nil(t, items)
}

func TestClient_FetchNews_DetailTimeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[1,2]")
	})
	mux.HandleFunc("/item/1.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":1,"title":"Fast","time":1}`)
	})
	mux.HandleFunc("/item/2.json", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	items, err := newTestClient(srv.URL, Config{RequestTimeout: 100 * time.Millisecond}).FetchNews(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Fast", items[0].Title)
}

func TestClient_FetchNews_DetailsFetchedConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[1,2,3,4]")
	})
	mux.HandleFunc("/item/", func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(100 * time.Millisecond)
		inFlight.Add(-1)
		fmt.Fprint(w, `{"id":1,"title":"x","time":1}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	items, err := newTestClient(srv.URL, Config{}).FetchNews(context.Background())

	require.NoError(t, err)
	assert.Len(t, items, 4)
	assert.Greater(t, peak.Load(), int32(1))
}
