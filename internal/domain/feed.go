package domain

import "fmt"

// Category представляет тематическую корзину новостей.
// Набор значений закрыт: категория назначается ленте в конфигурации и не выводится из текста.
type Category string

const (
	CategoryWorld      Category = "world"
	CategoryTech       Category = "tech"
	CategoryFinancial  Category = "financial"
	CategoryGovernment Category = "government"
)

// Categories возвращает все известные категории в порядке отображения.
func Categories() []Category {
	return []Category{CategoryWorld, CategoryTech, CategoryFinancial, CategoryGovernment}
}

// ParseCategory преобразует строку в Category.
// Возвращает ошибку для значений вне закрытого набора.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Label возвращает заголовок категории для панели новостей.
func (c Category) Label() string {
	switch c {
	case CategoryWorld:
		return "WORLD / GEOPOLITICAL"
	case CategoryTech:
		return "TECHNOLOGY / AI"
	case CategoryFinancial:
		return "FINANCIAL"
	case CategoryGovernment:
		return "GOVERNMENT / POLICY"
	default:
		return string(c)
	}
}

// FeedConfig описывает одну RSS/Atom ленту: имя источника, адрес и категорию.
type FeedConfig struct {
	Name     string   `json:"name" yaml:"name"`
	URL      string   `json:"url" yaml:"url"`
	Category Category `json:"category" yaml:"category"`
}
