package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"situationroom/internal/domain"
)

const (
	DefaultFeedTimeout      = 10 * time.Second
	DefaultPerCategoryLimit = 20
)

// AggregatorConfig содержит параметры агрегации.
type AggregatorConfig struct {
	Feeds      []domain.FeedConfig
	Categories []domain.Category
	// FeedTimeout ограничивает загрузку и разбор одной ленты.
	FeedTimeout      time.Duration
	PerCategoryLimit int
}

// Aggregator опрашивает все ленты и дополнительные источники параллельно,
// объединяет результаты, сортирует по дате и раскладывает по категориям.
type Aggregator struct {
	fetcher   FeedFetcher
	parser    FeedParser
	secondary []SecondarySource
	cfg       AggregatorConfig
	log       *slog.Logger
	now       func() time.Time
}

type sourceResult struct {
	name  string
	items []domain.NewsItem
	err   error
}

// NewAggregator создает агрегатор. Пустой список категорий заменяется полным набором,
// нулевые лимиты - значениями по умолчанию.
func NewAggregator(
	fetcher FeedFetcher,
	parser FeedParser,
	secondary []SecondarySource,
	cfg AggregatorConfig,
	log *slog.Logger,
) *Aggregator {
	if len(cfg.Categories) == 0 {
		cfg.Categories = domain.Categories()
	}
	if cfg.FeedTimeout <= 0 {
		cfg.FeedTimeout = DefaultFeedTimeout
	}
	if cfg.PerCategoryLimit <= 0 {
		cfg.PerCategoryLimit = DefaultPerCategoryLimit
	}
	return &Aggregator{
		fetcher:   fetcher,
		parser:    parser,
		secondary: secondary,
		cfg:       cfg,
		log:       log.With(slog.String("component", "aggregator")),
		now:       time.Now,
	}
}

// Aggregate выполняет один цикл агрегации и никогда не завершается ошибкой:
// сбой источника означает лишь отсутствие его новостей, что отражается в NewsModel.Sources.
func (a *Aggregator) Aggregate(ctx context.Context) *domain.NewsModel {
	start := time.Now()
	results := make([]sourceResult, len(a.cfg.Feeds)+len(a.secondary))
	var wg sync.WaitGroup
	for i, feed := range a.cfg.Feeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = a.settle(feed.Name, func() ([]domain.NewsItem, error) {
				return a.fetchFeed(ctx, feed)
			})
		}()
	}
	for j, src := range a.secondary {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[len(a.cfg.Feeds)+j] = a.settle(src.Name(), func() ([]domain.NewsItem, error) {
				return src.FetchNews(ctx)
			})
		}()
	}
	wg.Wait()

	model := a.merge(results)
	a.log.Info("Aggregation cycle completed",
		slog.Int("sources", len(results)),
		slog.Int("errors", model.FailedSources),
		slog.Int("count", model.TotalItems),
		slog.Duration("duration", time.Since(start)),
	)
	return model
}

// settle превращает ошибку или панику источника в пустой вклад.
func (a *Aggregator) settle(name string, fetch func() ([]domain.NewsItem, error)) (res sourceResult) {
	res.name = name
	defer func() {
		if r := recover(); r != nil {
			res.items = nil
			res.err = fmt.Errorf("source panicked: %v", r)
		}
		if res.err != nil {
			a.log.Error("Source failed",
				slog.String("feed", name),
				slog.Any("error", res.err),
			)
		}
	}()
	res.items, res.err = fetch()
	if res.err != nil {
		res.items = nil
	}
	return res
}

func (a *Aggregator) fetchFeed(ctx context.Context, feed domain.FeedConfig) ([]domain.NewsItem, error) {
	opCtx, cancel := context.WithTimeout(ctx, a.cfg.FeedTimeout)
	defer cancel()
	reader, err := a.fetcher.Fetch(opCtx, feed.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch failed for %s: %w", feed.Name, err)
	}
	defer reader.Close()
	items, err := a.parser.Parse(opCtx, reader, feed)
	if err != nil {
		return nil, fmt.Errorf("parse failed for %s: %w", feed.Name, err)
	}
	return items, nil
}

// merge объединяет результаты в порядке источников, устойчиво сортирует по убыванию даты
// и ограничивает каждую категорию.
func (a *Aggregator) merge(results []sourceResult) *domain.NewsModel {
	model := &domain.NewsModel{
		Data:    make(map[domain.Category][]domain.NewsItem, len(a.cfg.Categories)),
		Sources: make([]domain.SourceStatus, 0, len(results)),
	}
	var all []domain.NewsItem
	for _, r := range results {
		status := domain.SourceStatus{Name: r.name, Items: len(r.items)}
		if r.err != nil {
			status.Error = r.err.Error()
			model.FailedSources++
		}
		model.Sources = append(model.Sources, status)
		all = append(all, r.items...)
	}
	SortByDate(all)

	for _, c := range a.cfg.Categories {
		model.Data[c] = []domain.NewsItem{}
	}
	for _, item := range all {
		bucket, ok := model.Data[item.Category]
		if !ok {
			continue
		}
		model.Data[item.Category] = append(bucket, item)
	}
	for c, bucket := range model.Data {
		if len(bucket) > a.cfg.PerCategoryLimit {
			model.Data[c] = bucket[:a.cfg.PerCategoryLimit]
		}
	}
	model.TotalItems = len(all)
	model.Timestamp = a.now().UTC()
	return model
}

// SortByDate устойчиво сортирует новости от новых к старым.
// Дата каждой новости вычисляется один раз до сортировки.
func SortByDate(items []domain.NewsItem) {
	keys := make([]time.Time, len(items))
	for i := range items {
		keys[i] = items[i].Time()
	}
	sort.Stable(byDate{items: items, keys: keys})
}

type byDate struct {
	items []domain.NewsItem
	keys  []time.Time
}

func (b byDate) Len() int           { return len(b.items) }
func (b byDate) Less(i, j int) bool { return b.keys[i].After(b.keys[j]) }
func (b byDate) Swap(i, j int) {
	b.items[i], b.items[j] = b.items[j], b.items[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}
