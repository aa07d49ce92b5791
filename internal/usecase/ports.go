package usecase

import (
	"context"
	"io"
	"newsagg/internal/domain"
)

// FeedFetcher определяет интерфейс для загрузки документов по URL.
// Возвращает io.ReadCloser, который должен быть закрыт после использования.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// FeedParser определяет интерфейс для разбора документа ленты
// в последовательность сырых записей.
type FeedParser interface {
	Parse(ctx context.Context, reader io.Reader, feedURL string) ([]domain.RawEntry, error)
}

// ContentExtractor определяет интерфейс извлечения контента страницы статьи.
// Отсутствие результата (nil) — допустимый исход, а не ошибка.
type ContentExtractor interface {
	Extract(ctx context.Context, url string) *domain.ExtractedContent
}

// IngestStorage определяет операции хранилища, нужные пайплайну инжеста:
// чтение реестра лент и полное обновление таблицы статей.
type IngestStorage interface {
	ListFeedSources(ctx context.Context) ([]string, error)
	ReplaceArticles(ctx context.Context, articles []domain.Article) (int, error)
}

// ArticleReader определяет операции чтения статей для API.
type ArticleReader interface {
	ListArticles(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error)
	GetArticle(ctx context.Context, id int) (*domain.Article, error)
	ListAuthors(ctx context.Context) ([]string, error)
}
