package usecase

import (
	"context"
	"newsagg/internal/domain"
)

// Pagination описывает положение страницы в общей выборке.
// Сериализуется в ответ API как есть.
type Pagination struct {
	Page     int  `json:"page"`
	PerPage  int  `json:"per_page"`
	Total    int  `json:"total"`
	HasPrev  bool `json:"has_prev"`
	HasNext  bool `json:"has_next"`
	PrevPage *int `json:"prev_page"`
	NextPage *int `json:"next_page"`
}

// ArticleQueryUseCase реализует чтение статей для API: постраничные выборки
// с фильтрами, отдельная статья и список авторов.
type ArticleQueryUseCase struct {
	storage ArticleReader
	perPage int
}

// NewArticleQueryUseCase создает новый UseCase чтения статей.
// perPage задает размер страницы выборки.
func NewArticleQueryUseCase(storage ArticleReader, perPage int) *ArticleQueryUseCase {
	if perPage <= 0 {
		perPage = 10
	}
	return &ArticleQueryUseCase{
		storage: storage,
		perPage: perPage,
	}
}

// List возвращает страницу статей и метаданные пагинации.
// Фильтры по автору и категории — подстрочные, без учета регистра.
// Номера страниц начинаются с 1; некорректный номер приводится к 1.
func (uc *ArticleQueryUseCase) List(ctx context.Context, page int, author, category string) ([]domain.Article, Pagination, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * uc.perPage
	articles, total, err := uc.storage.ListArticles(ctx, domain.ArticleFilter{
		Author:   author,
		Category: category,
		Offset:   offset,
		Limit:    uc.perPage,
	})
	if err != nil {
		return nil, Pagination{}, err
	}
	p := Pagination{
		Page:    page,
		PerPage: uc.perPage,
		Total:   total,
		HasPrev: page > 1,
		HasNext: offset+uc.perPage < total,
	}
	if p.HasPrev {
		prev := page - 1
		p.PrevPage = &prev
	}
	if p.HasNext {
		next := page + 1
		p.NextPage = &next
	}
	return articles, p, nil
}

// Get возвращает одну статью по идентификатору.
// Если статья не найдена, возвращает (nil, nil).
func (uc *ArticleQueryUseCase) Get(ctx context.Context, id int) (*domain.Article, error) {
	return uc.storage.GetArticle(ctx, id)
}

// Authors возвращает список уникальных авторов для фильтров.
func (uc *ArticleQueryUseCase) Authors(ctx context.Context) ([]string, error) {
	return uc.storage.ListAuthors(ctx)
}
