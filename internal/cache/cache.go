package cache

import (
	"context"
	"sync"
	"time"

	"situationroom/internal/domain"

	"golang.org/x/sync/singleflight"
)

const DefaultTTL = 5 * time.Minute

const flightKey = "news"

// RefreshFunc выполняет один цикл агрегации.
type RefreshFunc func(ctx context.Context) *domain.NewsModel

// Result - ответ кэша.
type Result struct {
	Model *domain.NewsModel
	// Stale - свежая агрегация провалилась целиком, отдана предыдущая модель.
	Stale bool
	// Cached - модель взята из кэша без обращения к источникам.
	Cached bool
}

// NewsCache хранит последнюю успешную модель новостей в памяти с явным TTL.
// Одновременно выполняется не более одного обновления.
type NewsCache struct {
	mu       sync.RWMutex
	model    *domain.NewsModel
	storedAt time.Time
	expired  bool
	ttl      time.Duration
	now      func() time.Time
	group    singleflight.Group
}

// New создает кэш с указанным TTL; ttl <= 0 заменяется DefaultTTL.
func New(ttl time.Duration) *NewsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &NewsCache{ttl: ttl, now: time.Now}
}

// Get возвращает сохранённую модель, признак её свежести и признак наличия.
func (c *NewsCache) Get() (*domain.NewsModel, bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.model == nil {
		return nil, false, false
	}
	return c.model, c.freshLocked(), true
}

// Set сохраняет модель и сбрасывает отсчёт TTL.
func (c *NewsCache) Set(m *domain.NewsModel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = m
	c.storedAt = c.now()
	c.expired = false
}

// Invalidate помечает модель устаревшей. Следующий GetOrRefresh обратится к источникам,
// но сохранённая модель остаётся запасным вариантом при полном сбое.
func (c *NewsCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expired = true
}

// GetOrRefresh отдаёт свежую модель из кэша или выполняет обновление.
// Обновление отвязано от отмены ctx: его результат разделяют все ожидающие запросы.
func (c *NewsCache) GetOrRefresh(ctx context.Context, refresh RefreshFunc) Result {
	if m, fresh, ok := c.Get(); ok && fresh {
		return Result{Model: m, Cached: true}
	}
	v, _, _ := c.group.Do(flightKey, func() (any, error) {
		return c.run(context.WithoutCancel(ctx), refresh), nil
	})
	return v.(Result)
}

// Refresh выполняет обновление независимо от свежести кэша и учитывает отмену ctx:
// при отмене или истечении ctx сразу возвращается предыдущая модель с Stale
// (или пустая модель, если кэш пуст), а прерванный цикл не сохраняется.
// Если все источники отказали и есть предыдущая модель, возвращается она с Stale.
// Полный сбой не сохраняется в кэш.
func (c *NewsCache) Refresh(ctx context.Context, refresh RefreshFunc) Result {
	ch := c.group.DoChan(flightKey, func() (any, error) {
		return c.run(ctx, refresh), nil
	})
	select {
	case r := <-ch:
		return r.Val.(Result)
	case <-ctx.Done():
		return c.fallback(&domain.NewsModel{Data: map[domain.Category][]domain.NewsItem{}})
	}
}

func (c *NewsCache) run(ctx context.Context, refresh RefreshFunc) Result {
	m := refresh(ctx)
	if m.TotalFailure() || ctx.Err() != nil {
		return c.fallback(m)
	}
	c.Set(m)
	return Result{Model: m}
}

// fallback возвращает сохранённую модель с признаком Stale, а при пустом кэше - m.
func (c *NewsCache) fallback(m *domain.NewsModel) Result {
	if prev, _, ok := c.Get(); ok {
		return Result{Model: prev, Stale: true, Cached: true}
	}
	return Result{Model: m}
}

func (c *NewsCache) freshLocked() bool {
	return !c.expired && c.now().Sub(c.storedAt) < c.ttl
}
