package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"situationroom/internal/domain"

	"gopkg.in/yaml.v3"
)

// Config представляет основную конфигурацию приложения.
// Содержит настройки сервера, логгера, агрегации, источника Hacker News,
// трекеров ситуаций и корреляций с инструментами.
type Config struct {
	Server         ServerConfig           `json:"server" yaml:"server"`
	Logger         LoggerConfig           `json:"logger" yaml:"logger"`
	App            AppConfig              `json:"app" yaml:"app"`
	HackerNews     HackerNewsConfig       `json:"hacker_news" yaml:"hacker_news"`
	Situations     []domain.Situation     `json:"situations" yaml:"situations"`
	TickerMappings []domain.TickerMapping `json:"ticker_mappings" yaml:"ticker_mappings"`
}

// ServerConfig содержит настройки HTTP-сервера приложения.
type ServerConfig struct {
	Address string `json:"address" yaml:"address"`
}

// LoggerConfig содержит настройки системы логирования.
// Пустые File и ErrorFile означают вывод в stdout и stderr.
type LoggerConfig struct {
	Level     string `json:"level" yaml:"level"`
	File      string `json:"file" yaml:"file"`
	ErrorFile string `json:"error_file" yaml:"error_file"`
}

// AppConfig содержит настройки агрегации новостей.
type AppConfig struct {
	Feeds            []domain.FeedConfig `json:"feeds" yaml:"feeds"`
	Categories       []domain.Category   `json:"categories" yaml:"categories"`
	RefreshInterval  string              `json:"refresh_interval" yaml:"refresh_interval"`
	CacheTTL         string              `json:"cache_ttl" yaml:"cache_ttl"`
	FeedTimeout      string              `json:"feed_timeout" yaml:"feed_timeout"`
	PerCategoryLimit int                 `json:"per_category_limit" yaml:"per_category_limit"`
	// Parser выбирает разбор лент: "pattern" (по шаблонам) или "strict" (gofeed).
	Parser    string `json:"parser" yaml:"parser"`
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// HackerNewsConfig содержит параметры дополнительного источника Hacker News.
type HackerNewsConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	APIURL      string `json:"api_url" yaml:"api_url"`
	ItemPageURL string `json:"item_page_url" yaml:"item_page_url"`
	TopStories  int    `json:"top_stories" yaml:"top_stories"`
	Timeout     string `json:"timeout" yaml:"timeout"`
	Concurrency int    `json:"concurrency" yaml:"concurrency"`
}

const (
	ParserPattern = "pattern"
	ParserStrict  = "strict"
)

// Load загружает конфигурацию из файла по указанному пути поверх значений по умолчанию.
// Формат определяется расширением: .yaml/.yml - YAML, иначе JSON.
func Load(configPath string) (*Config, error) {
	cfg := New()
	fileData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML from file %s: %w", configPath, err)
		}
	default:
		if err := json.Unmarshal(fileData, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON from file %s: %w", configPath, err)
		}
	}
	return cfg, nil
}

// New создает новый экземпляр Config со значениями по умолчанию.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		App: AppConfig{
			Feeds:            DefaultFeeds(),
			Categories:       domain.Categories(),
			RefreshInterval:  "5m",
			CacheTTL:         "5m",
			FeedTimeout:      "10s",
			PerCategoryLimit: 20,
			Parser:           ParserPattern,
			UserAgent:        "SituationMonitor/1.0",
		},
		HackerNews: HackerNewsConfig{
			Enabled:     true,
			APIURL:      "https://hacker-news.firebaseio.com/v0",
			ItemPageURL: "https://news.ycombinator.com/item?id=",
			TopStories:  10,
			Timeout:     "10s",
			Concurrency: 10,
		},
		Situations:     DefaultSituations(),
		TickerMappings: DefaultTickerMappings(),
	}
}

// Validate проверяет корректность конфигурации.
// Возвращает ошибку с описанием первой найденной проблемы.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is not set")
	}
	switch c.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logger.level: %q", c.Logger.Level)
	}
	if len(c.App.Categories) == 0 {
		return fmt.Errorf("app.categories must not be empty")
	}
	configured := make(map[domain.Category]bool, len(c.App.Categories))
	for _, cat := range c.App.Categories {
		if _, err := domain.ParseCategory(string(cat)); err != nil {
			return fmt.Errorf("invalid app.categories: %w", err)
		}
		configured[cat] = true
	}
	if len(c.App.Feeds) == 0 && !c.HackerNews.Enabled {
		return fmt.Errorf("app.feeds must not be empty when hacker_news is disabled")
	}
	for _, feed := range c.App.Feeds {
		if feed.Name == "" {
			return fmt.Errorf("feed name cannot be empty for url: %s", feed.URL)
		}
		if _, err := url.ParseRequestURI(feed.URL); err != nil {
			return fmt.Errorf("invalid url in app.feeds: %s", feed.URL)
		}
		if !configured[feed.Category] {
			return fmt.Errorf("feed %s has category %q which is not in app.categories", feed.Name, feed.Category)
		}
	}
	for _, d := range []struct{ name, value string }{
		{"app.refresh_interval", c.App.RefreshInterval},
		{"app.cache_ttl", c.App.CacheTTL},
		{"app.feed_timeout", c.App.FeedTimeout},
		{"hacker_news.timeout", c.HackerNews.Timeout},
	} {
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		if parsed <= 0 {
			return fmt.Errorf("%s must be positive", d.name)
		}
	}
	if c.App.PerCategoryLimit <= 0 {
		return fmt.Errorf("app.per_category_limit must be a positive number")
	}
	if c.App.Parser != ParserPattern && c.App.Parser != ParserStrict {
		return fmt.Errorf("invalid app.parser: %q", c.App.Parser)
	}
	if c.HackerNews.Enabled {
		if !configured[domain.CategoryTech] {
			return fmt.Errorf("hacker_news requires the %q category", domain.CategoryTech)
		}
		if _, err := url.ParseRequestURI(c.HackerNews.APIURL); err != nil {
			return fmt.Errorf("invalid hacker_news.api_url: %s", c.HackerNews.APIURL)
		}
		if c.HackerNews.TopStories <= 0 {
			return fmt.Errorf("hacker_news.top_stories must be a positive number")
		}
	}
	for _, s := range c.Situations {
		if s.ID == "" || s.Name == "" {
			return fmt.Errorf("situation id and name must be set")
		}
		if !s.Status.Valid() {
			return fmt.Errorf("situation %s has invalid status %q", s.ID, s.Status)
		}
		if len(s.Keywords) == 0 {
			return fmt.Errorf("situation %s has no keywords", s.ID)
		}
	}
	for i, m := range c.TickerMappings {
		if len(m.Keywords) == 0 || len(m.Tickers) == 0 {
			return fmt.Errorf("ticker_mappings[%d] needs keywords and tickers", i)
		}
	}
	return nil
}

// RefreshEvery возвращает интервал фонового обновления.
func (a AppConfig) RefreshEvery() time.Duration { return parseDuration(a.RefreshInterval) }

// TTL возвращает время жизни кэша новостей.
func (a AppConfig) TTL() time.Duration { return parseDuration(a.CacheTTL) }

// FetchTimeout возвращает таймаут загрузки одной ленты.
func (a AppConfig) FetchTimeout() time.Duration { return parseDuration(a.FeedTimeout) }

// RequestTimeout возвращает таймаут одного запроса к Hacker News.
func (h HackerNewsConfig) RequestTimeout() time.Duration { return parseDuration(h.Timeout) }

// parseDuration разбирает длительность, уже проверенную Validate; ошибка даёт 0.
func parseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
