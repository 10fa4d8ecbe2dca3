package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"time"

	"situationroom/internal/domain"

	"github.com/google/uuid"
)

// MaxItemsPerFeed ограничивает вклад одной ленты в общую выдачу.
const MaxItemsPerFeed = 10

var (
	itemRe  = regexp.MustCompile(`(?is)<item(?:\s[^>]*)?>(.*?)</item>`)
	entryRe = regexp.MustCompile(`(?is)<entry(?:\s[^>]*)?>(.*?)</entry>`)
)

// PatternParser разбирает RSS 2.0 и Atom поиском тегов по шаблонам, без строгого XML-парсера.
// Некорректный документ даёт пустой список, а не ошибку.
type PatternParser struct {
	log *slog.Logger
	now func() time.Time
}

func NewPatternParser(log *slog.Logger) *PatternParser {
	return &PatternParser{
		log: log,
		now: time.Now,
	}
}

// Parse реализует метод интерфейса FeedParser.
// Ищет блоки <item>; если ни одна новость не получена, пробует блоки <entry> формата Atom.
// Результат обрезается до MaxItemsPerFeed в порядке документа.
func (p *PatternParser) Parse(ctx context.Context, reader io.Reader, feed domain.FeedConfig) ([]domain.NewsItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}
	doc := string(body)
	items := p.parseRSS(doc, feed)
	format := "rss"
	if len(items) == 0 {
		items = p.parseAtom(doc, feed)
		format = "atom"
	}
	if len(items) > MaxItemsPerFeed {
		items = items[:MaxItemsPerFeed]
	}
	p.log.Debug("Feed document parsed",
		slog.String("feed", feed.Name),
		slog.String("format", format),
		slog.Int("items_found", len(items)),
	)
	return items, nil
}

func (p *PatternParser) parseRSS(doc string, feed domain.FeedConfig) []domain.NewsItem {
	var items []domain.NewsItem
	for _, m := range itemRe.FindAllStringSubmatch(doc, -1) {
		block := m[1]
		link := firstTag(block, "link", "guid")
		guid := firstTag(block, "guid")
		if guid == "" {
			guid = link
		}
		item, ok := buildItem(feed, firstTag(block, "title"), link, firstTag(block, "pubDate", "dc:date"), guid, p.now())
		if ok {
			items = append(items, item)
		}
	}
	return items
}

func (p *PatternParser) parseAtom(doc string, feed domain.FeedConfig) []domain.NewsItem {
	var items []domain.NewsItem
	for _, m := range entryRe.FindAllStringSubmatch(doc, -1) {
		block := m[1]
		link, ok := ExtractAtomLink(block)
		if !ok {
			link = firstTag(block, "link")
		}
		id := firstTag(block, "id")
		if id == "" {
			id = link
		}
		item, ok := buildItem(feed, firstTag(block, "title"), link, firstTag(block, "published", "updated"), id, p.now())
		if ok {
			items = append(items, item)
		}
	}
	return items
}

// buildItem собирает NewsItem из сырых значений тегов. Записи без заголовка или ссылки отбрасываются.
func buildItem(feed domain.FeedConfig, rawTitle, rawLink, rawDate, id string, now time.Time) (domain.NewsItem, bool) {
	title := CleanTitle(rawTitle)
	link := CleanLink(rawLink)
	if title == "" || link == "" {
		return domain.NewsItem{}, false
	}
	if id == "" {
		id = fallbackID(feed.Name, now)
	}
	pubDate, published := domain.NormalizePubDate(rawDate, now)
	return domain.NewsItem{
		ID:        id,
		Title:     title,
		Link:      link,
		Source:    feed.Name,
		PubDate:   pubDate,
		Category:  feed.Category,
		Published: published,
	}, true
}

// fallbackID формирует идентификатор для записи без guid/id.
// Значение не воспроизводимо и годится только как ключ списка.
func fallbackID(source string, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", source, now.UnixMilli(), uuid.NewString())
}
