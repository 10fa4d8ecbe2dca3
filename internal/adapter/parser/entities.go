package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	hexEntityRe = regexp.MustCompile(`&#[xX]([0-9a-fA-F]+);`)
	decEntityRe = regexp.MustCompile(`&#(\d+);`)
)

// namedEntities применяются последовательно; &amp; идёт первым, чтобы раскрывать
// дважды закодированные именованные сущности вида &amp;lt;.
var namedEntities = []struct {
	entity string
	char   string
}{
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&apos;", "'"},
	{"&nbsp;", " "},
	{"&ndash;", "–"},
	{"&mdash;", "—"},
	{"&lsquo;", "‘"},
	{"&rsquo;", "’"},
	{"&ldquo;", "“"},
	{"&rdquo;", "”"},
	{"&hellip;", "…"},
	{"&trade;", "™"},
	{"&copy;", "©"},
	{"&reg;", "®"},
	{"&deg;", "°"},
	{"&plusmn;", "±"},
	{"&times;", "×"},
	{"&divide;", "÷"},
	{"&cent;", "¢"},
	{"&pound;", "£"},
	{"&euro;", "€"},
	{"&yen;", "¥"},
}

// DecodeEntities раскрывает числовые (&#x2019; и &#8217;) и распространённые именованные
// HTML-сущности. Числовой проход повторяется после именованного, чтобы обработать
// дважды закодированный текст (&amp;#39; -> '). Неизвестные сущности остаются как есть.
func DecodeEntities(text string) string {
	if text == "" || !strings.Contains(text, "&") {
		return text
	}
	decoded := decodeNumeric(text)
	for _, e := range namedEntities {
		decoded = strings.ReplaceAll(decoded, e.entity, e.char)
	}
	return decodeNumeric(decoded)
}

func decodeNumeric(s string) string {
	s = hexEntityRe.ReplaceAllStringFunc(s, func(m string) string {
		return codePoint(m, hexEntityRe.FindStringSubmatch(m)[1], 16)
	})
	return decEntityRe.ReplaceAllStringFunc(s, func(m string) string {
		return codePoint(m, decEntityRe.FindStringSubmatch(m)[1], 10)
	})
}

// codePoint возвращает символ с указанным кодом или исходную сущность, если код недопустим.
func codePoint(entity, digits string, base int) string {
	n, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		return entity
	}
	r := rune(n)
	if !utf8.ValidRune(r) {
		return entity
	}
	return string(r)
}
