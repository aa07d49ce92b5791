package usecase

import (
	"context"
	"errors"
	"newsagg/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	articles   []domain.Article
	total      int
	article    *domain.Article
	authors    []string
	err        error
	lastFilter domain.ArticleFilter
}

func (r *fakeReader) ListArticles(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error) {
	r.lastFilter = filter
	return r.articles, r.total, r.err
}

func (r *fakeReader) GetArticle(ctx context.Context, id int) (*domain.Article, error) {
	return r.article, r.err
}

func (r *fakeReader) ListAuthors(ctx context.Context) ([]string, error) {
	return r.authors, r.err
}

func TestArticleQuery_List_FirstPage(t *testing.T) {
	reader := &fakeReader{
		articles: make([]domain.Article, 10),
		total:    25,
	}
	uc := NewArticleQueryUseCase(reader, 10)

	articles, p, err := uc.List(context.Background(), 1, "", "")

	require.NoError(t, err)
	assert.Len(t, articles, 10)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 25, p.Total)
	assert.False(t, p.HasPrev)
	assert.Nil(t, p.PrevPage)
	assert.True(t, p.HasNext)
	require.NotNil(t, p.NextPage)
	assert.Equal(t, 2, *p.NextPage)
	assert.Equal(t, 0, reader.lastFilter.Offset)
	assert.Equal(t, 10, reader.lastFilter.Limit)
}

func TestArticleQuery_List_MiddlePage(t *testing.T) {
	reader := &fakeReader{articles: make([]domain.Article, 10), total: 25}
	uc := NewArticleQueryUseCase(reader, 10)

	_, p, err := uc.List(context.Background(), 2, "", "")

	require.NoError(t, err)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
	require.NotNil(t, p.PrevPage)
	require.NotNil(t, p.NextPage)
	assert.Equal(t, 1, *p.PrevPage)
	assert.Equal(t, 3, *p.NextPage)
	assert.Equal(t, 10, reader.lastFilter.Offset)
}

func TestArticleQuery_List_LastPage(t *testing.T) {
	reader := &fakeReader{articles: make([]domain.Article, 5), total: 25}
	uc := NewArticleQueryUseCase(reader, 10)

	_, p, err := uc.List(context.Background(), 3, "", "")

	require.NoError(t, err)
	assert.True(t, p.HasPrev)
	assert.False(t, p.HasNext)
	assert.Nil(t, p.NextPage)
}

func TestArticleQuery_List_PageBelowOneBecomesFirst(t *testing.T) {
	reader := &fakeReader{total: 5}
	uc := NewArticleQueryUseCase(reader, 10)

	_, p, err := uc.List(context.Background(), -3, "", "")

	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 0, reader.lastFilter.Offset)
}

func TestArticleQuery_List_PassesFilters(t *testing.T) {
	reader := &fakeReader{}
	uc := NewArticleQueryUseCase(reader, 10)

	_, _, err := uc.List(context.Background(), 1, "alice", "tech")

	require.NoError(t, err)
	assert.Equal(t, "alice", reader.lastFilter.Author)
	assert.Equal(t, "tech", reader.lastFilter.Category)
}

func TestArticleQuery_List_StorageError(t *testing.T) {
	reader := &fakeReader{err: errors.New("db down")}
	uc := NewArticleQueryUseCase(reader, 10)

	articles, _, err := uc.List(context.Background(), 1, "", "")

	require.Error(t, err)
	assert.Nil(t, articles)
}

func TestArticleQuery_Get(t *testing.T) {
	article := &domain.Article{ID: 7, Title: "X"}
	uc := NewArticleQueryUseCase(&fakeReader{article: article}, 10)

	got, err := uc.Get(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, article, got)
}

func TestArticleQuery_Authors(t *testing.T) {
	uc := NewArticleQueryUseCase(&fakeReader{authors: []string{"Alice", "Bob"}}, 10)

	authors, err := uc.Authors(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, authors)
}
