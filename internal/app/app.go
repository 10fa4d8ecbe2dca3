package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"situationroom/internal/adapter/fetcher"
	"situationroom/internal/adapter/hackernews"
	"situationroom/internal/adapter/parser"
	"situationroom/internal/cache"
	"situationroom/internal/config"
	"situationroom/internal/logger"
	server "situationroom/internal/transport/http"
	"situationroom/internal/usecase"
	"situationroom/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// App представляет основное приложение Situation Room.
// Координирует работу всех компонентов: HTTP-сервера, фонового обновления новостей
// и системы логирования. Обеспечивает graceful startup и shutdown.
type App struct {
	config   *config.Config
	logger   *slog.Logger
	server   *http.Server
	worker   *worker.Worker
	stopChan chan os.Signal
	wg       sync.WaitGroup
}

// New создает и инициализирует новый экземпляр приложения.
// Настраивает логгер, собирает источники, агрегатор, кэш, воркер и HTTP-сервер.
// Конфигурация должна быть предварительно проверена через Validate.
func New(cfg *config.Config) (*App, error) {
	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	slog.SetDefault(appLogger)
	return NewWithLogger(cfg, appLogger)
}

// NewWithLogger собирает приложение с уже созданным логгером.
func NewWithLogger(cfg *config.Config, appLogger *slog.Logger) (*App, error) {
	httpClient := &http.Client{Timeout: cfg.App.FetchTimeout()}
	httpFetcher := fetcher.NewHTTPFetcher(httpClient, cfg.App.UserAgent, appLogger)

	feedParser, err := newParser(cfg.App.Parser, appLogger)
	if err != nil {
		return nil, fmt.Errorf("bad init app: %w", err)
	}

	var secondary []usecase.SecondarySource
	if cfg.HackerNews.Enabled {
		secondary = append(secondary, hackernews.NewClient(httpFetcher, hackernews.Config{
			APIURL:         cfg.HackerNews.APIURL,
			ItemPageURL:    cfg.HackerNews.ItemPageURL,
			TopStories:     cfg.HackerNews.TopStories,
			RequestTimeout: cfg.HackerNews.RequestTimeout(),
			Concurrency:    cfg.HackerNews.Concurrency,
		}, appLogger))
	}

	aggregator := usecase.NewAggregator(httpFetcher, feedParser, secondary, usecase.AggregatorConfig{
		Feeds:            cfg.App.Feeds,
		Categories:       cfg.App.Categories,
		FeedTimeout:      cfg.App.FetchTimeout(),
		PerCategoryLimit: cfg.App.PerCategoryLimit,
	}, appLogger)

	newsGetter := usecase.NewNewsGetterUseCase(
		aggregator,
		cache.New(cfg.App.TTL()),
		cfg.Situations,
		cfg.TickerMappings,
	)

	handler := server.NewHandler(appLogger, newsGetter)
	router := server.NewServer(appLogger, handler)

	// один цикл не должен пережить следующий тик
	refreshWorker := worker.New(newsGetter, cfg.App.RefreshEvery(), cfg.App.RefreshEvery(), appLogger)

	return &App{
		config: cfg,
		logger: appLogger,
		server: &http.Server{
			Addr:              cfg.Server.Address,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		worker:   refreshWorker,
		stopChan: make(chan os.Signal, 1),
	}, nil
}

func newParser(kind string, log *slog.Logger) (usecase.FeedParser, error) {
	switch kind {
	case config.ParserPattern, "":
		return parser.NewPatternParser(log), nil
	case config.ParserStrict:
		return parser.NewStrictParser(log), nil
	default:
		return nil, fmt.Errorf("unknown parser %q", kind)
	}
}

// Run запускает воркер обновления новостей и HTTP-сервер API,
// затем блокируется до получения сигнала завершения или отмены ctx.
// Возвращает ошибку в случае неудачи при запуске сервера.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting Situation Room",
		slog.String("component", "app"),
		slog.Int("feed_count", len(a.config.App.Feeds)),
		slog.Bool("hacker_news", a.config.HackerNews.Enabled),
		slog.String("refresh_interval", a.worker.GetInterval().String()),
	)
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	a.worker.Start()
	a.logger.Info("HTTP server ready",
		slog.String("component", "server"),
		slog.String("address", listener.Addr().String()),
	)
	serveErr := make(chan error, 1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server failed", slog.String("component", "server"), slog.Any("error", err))
			serveErr <- err
		}
	}()
	signal.Notify(a.stopChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(a.stopChan)
	var runErr error
	select {
	case sig := <-a.stopChan:
		a.logger.Info("Shutdown signal received",
			slog.String("component", "app"),
			slog.String("signal", sig.String()),
		)
	case <-ctx.Done():
		a.logger.Info("Context cancelled, initiating shutdown", slog.String("component", "app"))
	case runErr = <-serveErr:
	}
	if err := a.Shutdown(); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("http server: %w", runErr)
	}
	return nil
}

// Shutdown выполняет graceful shutdown приложения.
// Останавливает воркер, завершает HTTP-сервер с таймаутом и ожидает завершения горутин.
func (a *App) Shutdown() error {
	a.logger.Info("Starting graceful shutdown", slog.String("component", "app"))
	a.worker.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	var err error
	if err = a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", slog.String("component", "server"), slog.Any("error", err))
		err = fmt.Errorf("http server shutdown: %w", err)
	}
	a.wg.Wait()
	a.logger.Info("Application stopped gracefully", slog.String("component", "app"))
	return err
}
