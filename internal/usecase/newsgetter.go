package usecase

import (
	"context"
	"time"

	"situationroom/internal/cache"
	"situationroom/internal/domain"
	"situationroom/internal/matcher"
)

// NewsAggregator определяет интерфейс одного цикла агрегации.
type NewsAggregator interface {
	Aggregate(ctx context.Context) *domain.NewsModel
}

// NewsSnapshot - модель новостей вместе с признаком устаревания.
type NewsSnapshot struct {
	*domain.NewsModel
	Stale bool `json:"stale"`
}

// NewsGetterUseCase отдаёт агрегированные новости через кэш и строит на их основе
// трекеры ситуаций и корреляции с инструментами.
type NewsGetterUseCase struct {
	aggregator NewsAggregator
	cache      *cache.NewsCache
	situations []domain.Situation
	mappings   []domain.TickerMapping
	now        func() time.Time
}

// NewNewsGetterUseCase создает новый экземпляр UseCase для получения новостей.
func NewNewsGetterUseCase(
	aggregator NewsAggregator,
	newsCache *cache.NewsCache,
	situations []domain.Situation,
	mappings []domain.TickerMapping,
) *NewsGetterUseCase {
	return &NewsGetterUseCase{
		aggregator: aggregator,
		cache:      newsCache,
		situations: situations,
		mappings:   mappings,
		now:        time.Now,
	}
}

// GetNews возвращает модель из кэша, при необходимости выполняя агрегацию.
func (us *NewsGetterUseCase) GetNews(ctx context.Context) NewsSnapshot {
	res := us.cache.GetOrRefresh(ctx, us.aggregator.Aggregate)
	return NewsSnapshot{NewsModel: res.Model, Stale: res.Stale}
}

// RefreshNews принудительно обновляет кэш; используется фоновым воркером.
func (us *NewsGetterUseCase) RefreshNews(ctx context.Context) NewsSnapshot {
	res := us.cache.Refresh(ctx, us.aggregator.Aggregate)
	return NewsSnapshot{NewsModel: res.Model, Stale: res.Stale}
}

// GetSituations возвращает отчёты по отслеживаемым ситуациям.
func (us *NewsGetterUseCase) GetSituations(ctx context.Context) []domain.SituationReport {
	snap := us.GetNews(ctx)
	return matcher.Situations(snap.Flatten(), us.situations, matcher.DefaultSituationHeadlines, us.now().UTC())
}

// GetAffectedAssets возвращает корреляции свежих заголовков с биржевыми инструментами.
func (us *NewsGetterUseCase) GetAffectedAssets(ctx context.Context) []domain.TickerMatch {
	snap := us.GetNews(ctx)
	return matcher.AffectedAssets(snap.Flatten(), us.mappings)
}
