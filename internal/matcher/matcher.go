// Package matcher отбирает новости по ключевым словам: для трекеров ситуаций
// и для корреляции заголовков с биржевыми инструментами.
//
// Совпадение - вхождение подстроки без учёта регистра, а не слово целиком:
// "iran" находит и "Iranian", и "Ukrainians".
package matcher

import (
	"strings"
	"time"

	"situationroom/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultSituationHeadlines = 5
	// DefaultScanLimit - сколько первых новостей просматривается при поиске корреляций.
	DefaultScanLimit  = 50
	DefaultMaxMatches = 5
)

var upper = cases.Upper(language.Und)

func lowerAll(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, k := range keywords {
		out[i] = strings.ToLower(k)
	}
	return out
}

// firstMatch возвращает первое ключевое слово, входящее в заголовок.
func firstMatch(titleLower string, keywords []string) (string, bool) {
	for _, k := range keywords {
		if strings.Contains(titleLower, k) {
			return k, true
		}
	}
	return "", false
}

// Filter возвращает новости, заголовок которых содержит хотя бы одно ключевое слово.
// Порядок сохраняется, дубликаты не удаляются.
func Filter(items []domain.NewsItem, keywords []string) []domain.NewsItem {
	lower := lowerAll(keywords)
	var matched []domain.NewsItem
	for _, item := range items {
		if _, ok := firstMatch(strings.ToLower(item.Title), lower); ok {
			matched = append(matched, item)
		}
	}
	return matched
}

// Situations строит отчёт по каждой ситуации: первые limit подходящих заголовков
// и время последнего обновления (дата первого заголовка либо now).
func Situations(items []domain.NewsItem, situations []domain.Situation, limit int, now time.Time) []domain.SituationReport {
	if limit <= 0 {
		limit = DefaultSituationHeadlines
	}
	reports := make([]domain.SituationReport, 0, len(situations))
	for _, s := range situations {
		headlines := Filter(items, s.Keywords)
		if len(headlines) > limit {
			headlines = headlines[:limit]
		}
		if headlines == nil {
			headlines = []domain.NewsItem{}
		}
		lastUpdated := now
		if len(headlines) > 0 {
			if t := headlines[0].Time(); !t.IsZero() {
				lastUpdated = t
			}
		}
		reports = append(reports, domain.SituationReport{
			Situation:   s,
			Headlines:   headlines,
			LastUpdated: lastUpdated,
		})
	}
	return reports
}

// AffectedAssets ищет заголовки, связанные с группами инструментов.
// Просматриваются первые DefaultScanLimit новостей; каждый заголовок и каждая группа
// используются не более одного раза, группы перебираются по порядку,
// поиск останавливается после DefaultMaxMatches совпадений.
func AffectedAssets(items []domain.NewsItem, mappings []domain.TickerMapping) []domain.TickerMatch {
	if len(items) > DefaultScanLimit {
		items = items[:DefaultScanLimit]
	}
	groups := make([][]string, len(mappings))
	for i, m := range mappings {
		groups[i] = lowerAll(m.Keywords)
	}
	usedHeadlines := make(map[string]bool)
	usedGroups := make(map[int]bool)
	matches := []domain.TickerMatch{}
	for _, item := range items {
		if usedHeadlines[item.Title] {
			continue
		}
		titleLower := strings.ToLower(item.Title)
		for i, keywords := range groups {
			if usedGroups[i] {
				continue
			}
			keyword, ok := firstMatch(titleLower, keywords)
			if !ok {
				continue
			}
			usedHeadlines[item.Title] = true
			usedGroups[i] = true
			matches = append(matches, domain.TickerMatch{
				Trigger:         upper.String(keyword),
				Tickers:         mappings[i].Tickers,
				MatchedHeadline: item.Title,
			})
			break
		}
		if len(matches) >= DefaultMaxMatches {
			break
		}
	}
	return matches
}
