package matcher

import (
	"testing"
	"time"

	"situationroom/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titled(titles ...string) []domain.NewsItem {
	items := make([]domain.NewsItem, len(titles))
	for i, t := range titles {
		items[i] = domain.NewsItem{ID: t, Title: t}
	}
	return items
}

func TestFilter_SubstringMatch(t *testing.T) {
	items := titled("Iranian officials meet diplomats", "Weather update")

	got := Filter(items, []string{"iran"})

	require.Len(t, got, 1)
	assert.Equal(t, "Iranian officials meet diplomats", got[0].Title)
}

func TestFilter_SubstringFalsePositive(t *testing.T) {
	got := Filter(titled("Ukrainians rally in Kyiv"), []string{"iran"})

	assert.Len(t, got, 1, "substring matching intentionally matches inside other words")
}

func TestFilter_CaseInsensitiveKeepsOrderNoDedupe(t *testing.T) {
	items := titled("TAIWAN chips", "Weather", "Taiwan strait", "TAIWAN chips")

	got := Filter(items, []string{"Taiwan", "strait"})

	require.Len(t, got, 3)
	assert.Equal(t, "TAIWAN chips", got[0].Title)
	assert.Equal(t, "Taiwan strait", got[1].Title)
	assert.Equal(t, "TAIWAN chips", got[2].Title)
}

func TestFilter_NoKeywords(t *testing.T) {
	assert.Empty(t, Filter(titled("anything"), nil))
}

func TestSituations(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	published := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	items := []domain.NewsItem{
		{Title: "Maduro speaks in Caracas", Published: published},
		{Title: "Venezuela oil output", Published: published.Add(-time.Hour)},
		{Title: "Unrelated"},
	}
	for i := 0; i < 6; i++ {
		items = append(items, domain.NewsItem{Title: "Venezuela update", Published: published.Add(-2 * time.Hour)})
	}
	situations := []domain.Situation{
		{ID: "venezuela", Name: "Venezuela Crisis", Status: domain.ThreatElevated, Keywords: []string{"venezuela", "maduro", "caracas"}},
		{ID: "greenland", Name: "Greenland Dispute", Status: domain.ThreatLow, Keywords: []string{"greenland"}},
	}

	reports := Situations(items, situations, 5, now)

	require.Len(t, reports, 2)
	assert.Equal(t, "venezuela", reports[0].ID)
	assert.Len(t, reports[0].Headlines, 5)
	assert.Equal(t, "Maduro speaks in Caracas", reports[0].Headlines[0].Title)
	assert.True(t, reports[0].LastUpdated.Equal(published))

	assert.Empty(t, reports[1].Headlines)
	assert.NotNil(t, reports[1].Headlines)
	assert.True(t, reports[1].LastUpdated.Equal(now))
}

func TestAffectedAssets(t *testing.T) {
	mappings := []domain.TickerMapping{
		{Keywords: []string{"fed", "interest rate"}, Tickers: []string{"SPY", "TLT"}},
		{Keywords: []string{"china", "taiwan"}, Tickers: []string{"TSM", "FXI"}},
		{Keywords: []string{"oil", "opec"}, Tickers: []string{"USO"}},
	}
	items := titled(
		"Fed holds interest rates steady",
		"Fed chair speaks again",
		"Fed holds interest rates steady",
		"OPEC cuts oil output",
		"Taiwan reports chip exports",
	)

	got := AffectedAssets(items, mappings)

	require.Len(t, got, 3)
	assert.Equal(t, domain.TickerMatch{Trigger: "FED", Tickers: []string{"SPY", "TLT"}, MatchedHeadline: "Fed holds interest rates steady"}, got[0])
	assert.Equal(t, "OIL", got[1].Trigger)
	assert.Equal(t, "OPEC cuts oil output", got[1].MatchedHeadline)
	assert.Equal(t, "TAIWAN", got[2].Trigger)
}

func TestAffectedAssets_OneGroupPerHeadline(t *testing.T) {
	mappings := []domain.TickerMapping{
		{Keywords: []string{"oil"}, Tickers: []string{"USO"}},
		{Keywords: []string{"iran"}, Tickers: []string{"GLD"}},
	}

	got := AffectedAssets(titled("Iran oil exports rise", "Iran talks resume"), mappings)

	require.Len(t, got, 2)
	assert.Equal(t, "OIL", got[0].Trigger)
	assert.Equal(t, "Iran oil exports rise", got[0].MatchedHeadline)
	assert.Equal(t, "IRAN", got[1].Trigger)
	assert.Equal(t, "Iran talks resume", got[1].MatchedHeadline)
}

func TestAffectedAssets_Limits(t *testing.T) {
	var mappings []domain.TickerMapping
	var titles []string
	for _, k := range []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf"} {
		mappings = append(mappings, domain.TickerMapping{Keywords: []string{k}, Tickers: []string{k}})
		titles = append(titles, k+" headline")
	}

	got := AffectedAssets(titled(titles...), mappings)
	assert.Len(t, got, DefaultMaxMatches)

	padded := make([]string, DefaultScanLimit)
	for i := range padded {
		padded[i] = "filler"
	}
	got = AffectedAssets(titled(append(padded, "alpha late")...), mappings)
	assert.Empty(t, got, "only the first items are scanned")
}
