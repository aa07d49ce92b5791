package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"newsagg/internal/domain"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu         sync.Mutex
	sources    []string
	sourcesErr error
	replaceErr error
	replaced   [][]domain.Article
}

func (s *fakeStore) ListFeedSources(ctx context.Context) ([]string, error) {
	return s.sources, s.sourcesErr
}

func (s *fakeStore) ReplaceArticles(ctx context.Context, articles []domain.Article) (int, error) {
	if s.replaceErr != nil {
		return 0, s.replaceErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaced = append(s.replaced, articles)
	return len(articles), nil
}

func (s *fakeStore) replaceCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.replaced)
}

type fakeFetcher struct {
	failing map[string]bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	if f.failing[url] {
		return nil, errors.New("connection refused")
	}
	return io.NopCloser(strings.NewReader(url)), nil
}

type fakeParser struct {
	entries map[string][]domain.RawEntry
}

func (p *fakeParser) Parse(ctx context.Context, reader io.Reader, feedURL string) ([]domain.RawEntry, error) {
	entries, ok := p.entries[feedURL]
	if !ok {
		return nil, errors.New("broken feed document")
	}
	return entries, nil
}

type fakeExtractor struct {
	byLink map[string]*domain.ExtractedContent
}

func (e *fakeExtractor) Extract(ctx context.Context, url string) *domain.ExtractedContent {
	return e.byLink[url]
}

func newTestIngest(store *fakeStore, fetcher *fakeFetcher, parser *fakeParser, extractor *fakeExtractor) *IngestUseCase {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := NewIngestUseCase(fetcher, parser, extractor, store, 30*time.Second, logger)
	uc.now = func() time.Time { return testNow }
	return uc
}

func TestIngest_Run_RSSOnlyFeed(t *testing.T) {
	published := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{sources: []string{"https://a.example/rss"}}
	parser := &fakeParser{entries: map[string][]domain.RawEntry{
		"https://a.example/rss": {
			{Title: "X", Link: "https://a.example/1", Published: &published},
		},
	}}
	uc := newTestIngest(store, &fakeFetcher{}, parser, &fakeExtractor{})

	result, err := uc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.FeedsProcessed)
	assert.Equal(t, 0, result.FeedErrors)
	assert.Equal(t, 1, result.ArticlesStored)

	require.Equal(t, 1, store.replaceCalls())
	require.Len(t, store.replaced[0], 1)
	article := store.replaced[0][0]
	assert.Equal(t, "X", article.Title)
	assert.Equal(t, "", article.Content)
	assert.Equal(t, published, article.Published)
	assert.Equal(t, "https://a.example/rss", article.SourceFeed)
}

func TestIngest_Run_NoFeedSources(t *testing.T) {
	store := &fakeStore{sources: nil}
	uc := newTestIngest(store, &fakeFetcher{}, &fakeParser{}, &fakeExtractor{})

	result, err := uc.Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoFeedSources))
	assert.Nil(t, result)
	// хранилище не тронуто: очистка без последующей записи недопустима
	assert.Equal(t, 0, store.replaceCalls())
}

func TestIngest_Run_FeedSourcesQueryFailed(t *testing.T) {
	store := &fakeStore{sourcesErr: errors.New("db down")}
	uc := newTestIngest(store, &fakeFetcher{}, &fakeParser{}, &fakeExtractor{})

	result, err := uc.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 0, store.replaceCalls())
}

func TestIngest_Run_FailedFeedIsRecoverable(t *testing.T) {
	published := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{sources: []string{"https://bad.example/rss", "https://a.example/rss"}}
	fetcher := &fakeFetcher{failing: map[string]bool{"https://bad.example/rss": true}}
	parser := &fakeParser{entries: map[string][]domain.RawEntry{
		"https://a.example/rss": {
			{Title: "X", Link: "https://a.example/1", Published: &published},
		},
	}}
	uc := newTestIngest(store, fetcher, parser, &fakeExtractor{})

	result, err := uc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.FeedsProcessed)
	assert.Equal(t, 1, result.FeedErrors)
	assert.Equal(t, 1, result.ArticlesStored)
}

func TestIngest_Run_ExtractorEnrichment(t *testing.T) {
	store := &fakeStore{sources: []string{"https://a.example/rss"}}
	parser := &fakeParser{entries: map[string][]domain.RawEntry{
		"https://a.example/rss": {
			{Title: "RSS Title", Link: "https://a.example/1"},
		},
	}}
	extractor := &fakeExtractor{byLink: map[string]*domain.ExtractedContent{
		"https://a.example/1": {
			Title:    "Extracted Title",
			Text:     "Full body",
			Authors:  []string{"Alice"},
			Keywords: []string{"go", "news"},
		},
	}}
	uc := newTestIngest(store, &fakeFetcher{}, parser, extractor)

	_, err := uc.Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, 1, store.replaceCalls())
	article := store.replaced[0][0]
	assert.Equal(t, "Extracted Title", article.Title)
	assert.Equal(t, "Full body", article.Content)
	assert.Equal(t, "Alice", article.Author)
	assert.Equal(t, "go, news", article.Keywords)
	// время инжеста как последний запасной вариант даты публикации
	assert.Equal(t, testNow, article.Published)
}

func TestIngest_Run_PersistenceFailureIsFatal(t *testing.T) {
	store := &fakeStore{
		sources:    []string{"https://a.example/rss"},
		replaceErr: errors.New("disk full"),
	}
	parser := &fakeParser{entries: map[string][]domain.RawEntry{
		"https://a.example/rss": {{Title: "X", Link: "https://a.example/1"}},
	}}
	uc := newTestIngest(store, &fakeFetcher{}, parser, &fakeExtractor{})

	result, err := uc.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistence failed")
	assert.Nil(t, result)
}

func TestIngest_Run_NoArticlesSkipsPersistence(t *testing.T) {
	store := &fakeStore{sources: []string{"https://a.example/rss"}}
	parser := &fakeParser{entries: map[string][]domain.RawEntry{
		"https://a.example/rss": {},
	}}
	uc := newTestIngest(store, &fakeFetcher{}, parser, &fakeExtractor{})

	result, err := uc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.FeedsProcessed)
	assert.Equal(t, 0, result.ArticlesStored)
	assert.Equal(t, 0, store.replaceCalls())
}

func TestIngest_Run_Idempotent(t *testing.T) {
	published := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{sources: []string{"https://a.example/rss"}}
	parser := &fakeParser{entries: map[string][]domain.RawEntry{
		"https://a.example/rss": {
			{Title: "X", Link: "https://a.example/1", Published: &published},
			{Title: "Y", Link: "https://a.example/2", Published: &published},
		},
	}}
	uc := newTestIngest(store, &fakeFetcher{}, parser, &fakeExtractor{})

	_, err := uc.Run(context.Background())
	require.NoError(t, err)
	_, err = uc.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, store.replaceCalls())
	assert.Equal(t, store.replaced[0], store.replaced[1])
}
