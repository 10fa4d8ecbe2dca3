package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"situationroom/internal/domain"

	"golang.org/x/sync/errgroup"
)

const (
	// SourceName - имя источника в NewsItem.Source.
	SourceName = "Hacker News"

	DefaultAPIURL      = "https://hacker-news.firebaseio.com/v0"
	DefaultItemPageURL = "https://news.ycombinator.com/item?id="
	DefaultTopStories  = 10

	idPrefix = "hn-"
)

// Fetcher загружает документ по URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// Config содержит параметры клиента Hacker News.
type Config struct {
	APIURL      string
	ItemPageURL string
	TopStories  int
	// RequestTimeout ограничивает каждый отдельный запрос; 0 - без ограничения.
	RequestTimeout time.Duration
	// Concurrency ограничивает число одновременных запросов деталей.
	Concurrency int
}

type story struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Time  int64  `json:"time"`
}

// Client получает топ историй Hacker News и приводит их к NewsItem.
type Client struct {
	fetcher Fetcher
	cfg     Config
	log     *slog.Logger
}

// NewClient создает клиента Hacker News; пустые поля Config заменяются значениями по умолчанию.
func NewClient(fetcher Fetcher, cfg Config, log *slog.Logger) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.ItemPageURL == "" {
		cfg.ItemPageURL = DefaultItemPageURL
	}
	if cfg.TopStories <= 0 {
		cfg.TopStories = DefaultTopStories
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = cfg.TopStories
	}
	return &Client{
		fetcher: fetcher,
		cfg:     cfg,
		log:     log.With(slog.String("component", "hackernews")),
	}
}

// Name возвращает имя источника.
func (c *Client) Name() string { return SourceName }

// FetchNews загружает список топ-историй, берёт первые TopStories идентификаторов
// и параллельно запрашивает их детали. Ошибка списка возвращается вызывающему;
// неудачные запросы деталей и записи без заголовка пропускаются.
func (c *Client) FetchNews(ctx context.Context) ([]domain.NewsItem, error) {
	var ids []int64
	if err := c.getJSON(ctx, c.cfg.APIURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("top stories: %w", err)
	}
	if len(ids) > c.cfg.TopStories {
		ids = ids[:c.cfg.TopStories]
	}

	stories := make([]*story, len(ids))
	var g errgroup.Group
	g.SetLimit(c.cfg.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			var s *story
			url := fmt.Sprintf("%s/item/%d.json", c.cfg.APIURL, id)
			if err := c.getJSON(ctx, url, &s); err != nil {
				c.log.Warn("Story detail fetch failed",
					slog.Int64("story_id", id),
					slog.Any("error", err),
				)
				return nil
			}
			stories[i] = s
			return nil
		})
	}
	_ = g.Wait()

	items := make([]domain.NewsItem, 0, len(stories))
	for _, s := range stories {
		if s == nil || strings.TrimSpace(s.Title) == "" {
			continue
		}
		items = append(items, c.toNewsItem(s))
	}
	c.log.Debug("Top stories resolved",
		slog.Int("requested", len(ids)),
		slog.Int("items_found", len(items)),
	)
	return items, nil
}

func (c *Client) toNewsItem(s *story) domain.NewsItem {
	id := strconv.FormatInt(s.ID, 10)
	link := s.URL
	if link == "" {
		link = c.cfg.ItemPageURL + id
	}
	published := time.Unix(s.Time, 0).UTC()
	return domain.NewsItem{
		ID:        idPrefix + id,
		Title:     s.Title,
		Link:      link,
		Source:    SourceName,
		PubDate:   published.Format(time.RFC3339),
		Category:  domain.CategoryTech,
		Published: published,
	}
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}
	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode JSON from %s: %w", url, err)
	}
	return nil
}
