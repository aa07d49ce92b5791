package domain

import "time"

// Лимиты полей статьи, соответствующие схеме таблицы articles.
// Нормализатор молча обрезает строки до этих значений перед сохранением.
const (
	TitleMaxLen      = 500
	LinkMaxLen       = 1000
	SummaryMaxLen    = 1000
	ContentMaxLen    = 5000
	AuthorMaxLen     = 200
	CategoriesMaxLen = 100
	SourceFeedMaxLen = 200
	GUIDMaxLen       = 500
	LanguageMaxLen   = 10
	ThumbnailMaxLen  = 200

	MaxAuthors  = 2
	MaxKeywords = 10
)

// RawEntry представляет один элемент RSS/Atom-ленты в сыром виде,
// как его вернул парсер. Не сохраняется напрямую в хранилище.
type RawEntry struct {
	Title      string
	Link       string
	Summary    string
	Author     string
	Published  *time.Time
	Updated    *time.Time
	Categories []string
	GUID       string
	Language   string
}

// ExtractedContent представляет результат извлечения контента со страницы
// статьи. Отсутствие результата (nil) — допустимый исход, а не ошибка.
type ExtractedContent struct {
	Title     string
	Text      string
	Summary   string
	Authors   []string
	Published *time.Time
	TopImage  string
	Keywords  []string
}

// ArticleFilter описывает параметры выборки статей для API.
// Author и Category фильтруют по подстроке без учета регистра.
type ArticleFilter struct {
	Author   string
	Category string
	Offset   int
	Limit    int
}

// Article представляет нормализованную статью — каноническую единицу
// хранения. Поле Link глобально уникально и служит ключом дедупликации.
type Article struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Link         string     `json:"link"`
	Summary      string     `json:"summary"`
	Content      string     `json:"content"`
	Author       string     `json:"author"`
	Published    time.Time  `json:"published"`
	Updated      *time.Time `json:"updated"`
	Categories   string     `json:"categories"`
	SourceFeed   string     `json:"source_feed"`
	GUID         string     `json:"guid"`
	Language     string     `json:"language"`
	Keywords     string     `json:"keywords"`
	ThumbnailURL string     `json:"thumbnail_url"`
	CreatedAt    time.Time  `json:"created_at"`
}
