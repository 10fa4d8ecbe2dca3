package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"situationroom/internal/usecase"
)

// NewsRefresher определяет интерфейс принудительного обновления новостей.
// Используется для внедрения зависимости в воркер.
type NewsRefresher interface {
	RefreshNews(ctx context.Context) usecase.NewsSnapshot
}

// Worker реализует фоновый воркер, периодически прогревающий кэш новостей,
// чтобы HTTP-запросы не ждали опроса источников.
type Worker struct {
	refresher NewsRefresher
	interval  time.Duration
	timeout   time.Duration
	log       *slog.Logger
	cancel    context.CancelFunc
	done      chan struct{}
	mu        sync.Mutex
}

// New создает воркер. timeout ограничивает один цикл обновления; 0 - без ограничения.
func New(refresher NewsRefresher, interval, timeout time.Duration, log *slog.Logger) *Worker {
	return &Worker{
		refresher: refresher,
		interval:  interval,
		timeout:   timeout,
		log:       log.With(slog.String("component", "worker")),
	}
}

// Start запускает воркер в отдельной горутине. Повторный вызов игнорируется.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx)
}

// Stop останавливает воркер и дожидается завершения текущего цикла.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel = nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	w.log.Info("News refresh worker started", slog.String("interval", w.interval.String()))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.refresh(ctx)
	for {
		select {
		case <-ticker.C:
			w.refresh(ctx)
		case <-ctx.Done():
			w.log.Info("Worker stopping")
			return
		}
	}
}

func (w *Worker) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	opCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	snap := w.refresher.RefreshNews(opCtx)
	w.log.Info("News refresh cycle completed",
		slog.Int("count", snap.TotalItems),
		slog.Int("errors", snap.FailedSources),
		slog.Bool("stale", snap.Stale),
		slog.Duration("duration", time.Since(start)),
	)
}

// GetInterval возвращает интервал обновления.
func (w *Worker) GetInterval() time.Duration { return w.interval }
