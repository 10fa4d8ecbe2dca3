package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	time.RFC3339Nano,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
}

// ParsePubDate разбирает дату публикации в форматах RFC 822/1123 и ISO-8601.
// Для прочих форматов используется dateparse.
func ParsePubDate(dateStr string) (time.Time, error) {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse date in any known format: %q", dateStr)
	}
	return t, nil
}

// NormalizePubDate возвращает исходную строку и её разобранное значение.
// Пустая или нераспознанная дата заменяется моментом now в формате RFC 3339.
func NormalizePubDate(raw string, now time.Time) (string, time.Time) {
	raw = strings.TrimSpace(raw)
	if t, err := ParsePubDate(raw); err == nil {
		return raw, t
	}
	now = now.UTC()
	return now.Format(time.RFC3339), now
}
