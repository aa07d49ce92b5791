package storage

import (
	"context"
	"newsagg/internal/domain"
)

// Storage определяет общий интерфейс для работы с хранилищем агрегатора.
// Объединяет чтение реестра лент, полное обновление статей и выборки для API.
type Storage interface {
	ListFeedSources(ctx context.Context) ([]string, error)
	ReplaceArticles(ctx context.Context, articles []domain.Article) (int, error)
	ListArticles(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error)
	GetArticle(ctx context.Context, id int) (*domain.Article, error)
	ListAuthors(ctx context.Context) ([]string, error)
	Close()
}
