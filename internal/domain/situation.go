package domain

import "time"

// ThreatLevel - уровень напряжённости отслеживаемой ситуации.
type ThreatLevel string

const (
	ThreatLow      ThreatLevel = "low"
	ThreatElevated ThreatLevel = "elevated"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
)

// Valid проверяет, что уровень входит в известный набор.
func (t ThreatLevel) Valid() bool {
	switch t {
	case ThreatLow, ThreatElevated, ThreatHigh, ThreatCritical:
		return true
	}
	return false
}

// Situation - именованная тема наблюдения с набором ключевых слов.
type Situation struct {
	ID       string      `json:"id" yaml:"id"`
	Name     string      `json:"name" yaml:"name"`
	Status   ThreatLevel `json:"status" yaml:"status"`
	Keywords []string    `json:"keywords" yaml:"keywords"`
}

// SituationReport - ситуация вместе с подходящими заголовками.
type SituationReport struct {
	Situation
	Headlines   []NewsItem `json:"headlines"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// TickerMapping связывает группу ключевых слов с биржевыми инструментами.
type TickerMapping struct {
	Keywords []string `json:"keywords" yaml:"keywords"`
	Tickers  []string `json:"tickers" yaml:"tickers"`
}

// TickerMatch - найденная корреляция заголовка с группой инструментов.
type TickerMatch struct {
	Trigger         string   `json:"trigger"`
	Tickers         []string `json:"tickers"`
	MatchedHeadline string   `json:"matchedHeadline"`
}
