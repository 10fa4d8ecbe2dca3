package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"situationroom/internal/domain"

	"github.com/mmcdole/gofeed"
)

// StrictParser разбирает ленты полноценным парсером gofeed.
// В отличие от PatternParser возвращает ошибку на документах, которые не удалось декодировать.
type StrictParser struct {
	log *slog.Logger
	now func() time.Time
}

func NewStrictParser(log *slog.Logger) *StrictParser {
	return &StrictParser{
		log: log,
		now: time.Now,
	}
}

// Parse реализует метод интерфейса FeedParser.
func (p *StrictParser) Parse(ctx context.Context, reader io.Reader, feed domain.FeedConfig) ([]domain.NewsItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	parsed, err := gofeed.NewParser().Parse(reader)
	if err != nil {
		p.log.Error("Error decoding feed",
			slog.String("feed", feed.Name),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}
	now := p.now()
	items := make([]domain.NewsItem, 0, min(len(parsed.Items), MaxItemsPerFeed))
	for _, it := range parsed.Items {
		if len(items) == MaxItemsPerFeed {
			break
		}
		link := it.Link
		if link == "" && len(it.Links) > 0 {
			link = it.Links[0]
		}
		if link == "" {
			link = it.GUID
		}
		id := it.GUID
		if id == "" {
			id = link
		}
		item, ok := buildItem(feed, it.Title, link, itemDate(it), id, now)
		if ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// itemDate предпочитает даты, уже разобранные gofeed, и сохраняет их в RFC 3339.
func itemDate(it *gofeed.Item) string {
	switch {
	case it.PublishedParsed != nil:
		return it.PublishedParsed.Format(time.RFC3339)
	case it.UpdatedParsed != nil:
		return it.UpdatedParsed.Format(time.RFC3339)
	case it.Published != "":
		return it.Published
	default:
		return it.Updated
	}
}
