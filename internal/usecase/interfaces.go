package usecase

import (
	"context"
	"io"

	"situationroom/internal/domain"
)

// FeedFetcher определяет интерфейс для загрузки лент из внешних источников.
// Возвращает io.ReadCloser, который должен быть закрыт после использования.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// FeedParser преобразует документ ленты в ограниченный список нормализованных новостей.
type FeedParser interface {
	Parse(ctx context.Context, reader io.Reader, feed domain.FeedConfig) ([]domain.NewsItem, error)
}

// SecondarySource - источник новостей, не являющийся RSS/Atom лентой.
type SecondarySource interface {
	Name() string
	FetchNews(ctx context.Context) ([]domain.NewsItem, error)
}
