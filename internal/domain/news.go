package domain

import "time"

// NewsItem представляет нормализованную новость из любого источника.
// После создания не изменяется.
type NewsItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Link     string   `json:"link"`
	Source   string   `json:"source"`
	PubDate  string   `json:"pubDate"`
	Category Category `json:"category"`
	// Published - разобранное значение PubDate, используется для сортировки.
	Published time.Time `json:"-"`
}

// Time возвращает момент публикации новости.
// Если Published не заполнен, PubDate разбирается заново; нулевое время для нераспознанных дат.
func (n NewsItem) Time() time.Time {
	if !n.Published.IsZero() {
		return n.Published
	}
	t, err := ParsePubDate(n.PubDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SourceStatus содержит итог опроса одного источника за цикл агрегации.
type SourceStatus struct {
	Name  string `json:"name"`
	Items int    `json:"items"`
	Error string `json:"error,omitempty"`
}

// NewsModel - результат агрегации, отдаваемый слою представления.
type NewsModel struct {
	Data          map[Category][]NewsItem `json:"data"`
	Timestamp     time.Time               `json:"timestamp"`
	TotalItems    int                     `json:"totalItems"`
	Sources       []SourceStatus          `json:"sources"`
	FailedSources int                     `json:"failedSources"`
}

// TotalFailure сообщает, что ни один из опрошенных источников не ответил.
func (m *NewsModel) TotalFailure() bool {
	return len(m.Sources) > 0 && m.FailedSources == len(m.Sources)
}

// Flatten возвращает все новости одним списком: категории в порядке Categories(),
// внутри категории - порядок корзины.
func (m *NewsModel) Flatten() []NewsItem {
	var all []NewsItem
	for _, c := range Categories() {
		all = append(all, m.Data[c]...)
	}
	return all
}
