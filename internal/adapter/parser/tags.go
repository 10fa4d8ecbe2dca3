package parser

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

type tagPatterns struct {
	cdata *regexp.Regexp
	plain *regexp.Regexp
}

var (
	tagCache sync.Map // имя тега -> *tagPatterns

	atomLinkRe  = regexp.MustCompile(`(?i)<link[^>]*href=["']([^"']+)["'][^>]*>`)
	markupRe    = regexp.MustCompile(`<[^>]+>`)
	cdataOpenRe = regexp.MustCompile(`<!\[CDATA\[`)
)

func patternsFor(tag string) *tagPatterns {
	if p, ok := tagCache.Load(tag); ok {
		return p.(*tagPatterns)
	}
	name := regexp.QuoteMeta(tag)
	p := &tagPatterns{
		cdata: regexp.MustCompile(fmt.Sprintf(`(?is)<%s[^>]*><!\[CDATA\[(.*?)\]\]></%s>`, name, name)),
		plain: regexp.MustCompile(fmt.Sprintf(`(?is)<%s[^>]*>(.*?)</%s>`, name, name)),
	}
	actual, _ := tagCache.LoadOrStore(tag, p)
	return actual.(*tagPatterns)
}

// ExtractTag возвращает содержимое первого вхождения тега во фрагменте XML.
// Сначала ищется форма с CDATA, затем обычное содержимое. Имя тега сравнивается
// без учёта регистра, атрибуты открывающего тега допускаются.
// Второе значение false означает, что тега нет.
func ExtractTag(xml, tag string) (string, bool) {
	p := patternsFor(tag)
	if m := p.cdata.FindStringSubmatch(xml); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := p.plain.FindStringSubmatch(xml); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

// ExtractAtomLink возвращает значение атрибута href первого тега <link> записи Atom.
func ExtractAtomLink(xml string) (string, bool) {
	m := atomLinkRe.FindStringSubmatch(xml)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// firstTag возвращает первое непустое содержимое из перечисленных тегов.
func firstTag(xml string, tags ...string) string {
	for _, tag := range tags {
		if v, ok := ExtractTag(xml, tag); ok && v != "" {
			return v
		}
	}
	return ""
}

func stripCDATA(s string) string {
	s = cdataOpenRe.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "]]>", "")
}

// CleanTitle убирает маркеры CDATA и разметку, затем раскрывает HTML-сущности.
func CleanTitle(title string) string {
	cleaned := strings.TrimSpace(markupRe.ReplaceAllString(stripCDATA(title), ""))
	return strings.TrimSpace(DecodeEntities(cleaned))
}

// CleanLink убирает маркеры CDATA и пробелы вокруг ссылки.
func CleanLink(link string) string {
	return strings.TrimSpace(stripCDATA(link))
}
