package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// ErrUnexpectedStatus возвращается, когда источник ответил статусом вне диапазона 2xx.
var ErrUnexpectedStatus = errors.New("unexpected status code")

const defaultAccept = "application/rss+xml, application/atom+xml, application/xml, text/xml, application/json;q=0.9, */*;q=0.8"

// HTTPFetcher загружает ленты и JSON-документы источников по HTTP.
// Выставляет заголовки User-Agent и Accept, считает ошибкой любой статус вне 2xx.
// Таймаут отдельного запроса задаётся контекстом вызывающей стороны.
type HTTPFetcher struct {
	client    *http.Client
	log       *slog.Logger
	userAgent string
}

// NewHTTPFetcher создает новый экземпляр HTTPFetcher.
// Если client равен nil, используется http.DefaultClient.
func NewHTTPFetcher(client *http.Client, userAgent string, log *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		client:    client,
		log:       log,
		userAgent: userAgent,
	}
}

// Fetch выполняет GET-запрос по указанному URL.
// Возвращает тело ответа как io.ReadCloser, которое должно быть закрыто после использования.
// Статус вне 2xx оборачивает ErrUnexpectedStatus.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	log := f.log.With(slog.String("component", "fetcher"), slog.String("url", url))
	log.Debug("Fetching URL")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("Failed to create HTTP request", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create request for url %s: %w", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", defaultAccept)
	resp, err := f.client.Do(req)
	if err != nil {
		log.Warn("HTTP request failed", slog.Any("error", err))
		return nil, fmt.Errorf("failed to fetch url %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		log.Warn("Unexpected status code", slog.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("%w: %d for url %s", ErrUnexpectedStatus, resp.StatusCode, url)
	}
	log.Debug("Successfully fetched URL")
	return resp.Body, nil
}
