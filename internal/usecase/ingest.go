package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"newsagg/internal/domain"
	"sync"
	"sync/atomic"
	"time"
)

// ErrNoFeedSources возвращается, когда реестр лент пуст.
// Для запуска это фатальная ошибка: очистка хранилища не выполняется.
var ErrNoFeedSources = errors.New("no feed sources")

// IngestUseCase реализует пайплайн инжеста: обход реестра лент, разбор
// записей, извлечение контента, нормализацию и единственную фазу записи
// в конце запуска.
type IngestUseCase struct {
	fetcher     FeedFetcher
	parser      FeedParser
	extractor   ContentExtractor
	store       IngestStorage
	log         *slog.Logger
	feedTimeout time.Duration
	now         func() time.Time
}

// NewIngestUseCase создает новый экземпляр пайплайна инжеста.
// feedTimeout ограничивает полную обработку одной ленты, включая
// извлечение контента всех ее записей.
func NewIngestUseCase(
	fetcher FeedFetcher,
	parser FeedParser,
	extractor ContentExtractor,
	store IngestStorage,
	feedTimeout time.Duration,
	log *slog.Logger,
) *IngestUseCase {
	return &IngestUseCase{
		fetcher:     fetcher,
		parser:      parser,
		extractor:   extractor,
		store:       store,
		log:         log,
		feedTimeout: feedTimeout,
		now:         time.Now,
	}
}

// Run выполняет один полный запуск пайплайна.
//
// Ленты обрабатываются параллельно, каждая со своим таймаутом; сбой одной
// ленты или одной записи логируется и не прерывает запуск. Фатальны только
// пустой реестр лент и сбой фазы записи. Нормализованные статьи собираются
// полностью до единственного полного обновления таблицы, поэтому хранилище
// всегда содержит либо прошлое, либо новое поколение данных целиком.
func (uc *IngestUseCase) Run(ctx context.Context) (*domain.RunResult, error) {
	start := time.Now()
	log := uc.log.With(slog.String("component", "pipeline"))

	sources, err := uc.store.ListFeedSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed sources: %w", err)
	}
	if len(sources) == 0 {
		return nil, ErrNoFeedSources
	}
	log.Info("Ingestion run started", slog.Int("feed_count", len(sources)))

	var mu sync.Mutex
	var articles []domain.Article
	var successCount int64
	var errorCount int64
	var wg sync.WaitGroup
	for _, url := range sources {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			opCtx, opCancel := context.WithTimeout(ctx, uc.feedTimeout)
			defer opCancel()
			batch, err := uc.processFeed(opCtx, u)
			if err != nil {
				atomic.AddInt64(&errorCount, 1)
				log.Error("Feed processing failed",
					slog.String("feed", u),
					slog.Any("error", err),
				)
				return
			}
			atomic.AddInt64(&successCount, 1)
			mu.Lock()
			articles = append(articles, batch...)
			mu.Unlock()
		}(url)
	}
	wg.Wait()

	result := &domain.RunResult{
		FeedsProcessed: int(successCount),
		FeedErrors:     int(errorCount),
	}
	if len(articles) == 0 {
		log.Warn("No articles collected, store left untouched",
			slog.Int("feeds_failed", result.FeedErrors),
		)
		return result, nil
	}

	stored, err := uc.store.ReplaceArticles(ctx, articles)
	if err != nil {
		return nil, fmt.Errorf("persistence failed: %w", err)
	}
	result.ArticlesStored = stored

	log.Info("Ingestion run completed",
		slog.Int("feeds_processed", result.FeedsProcessed),
		slog.Int("feed_errors", result.FeedErrors),
		slog.Int("articles_collected", len(articles)),
		slog.Int("articles_stored", stored),
		slog.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// processFeed обрабатывает одну ленту: загрузка, разбор и обогащение записей.
// Извлечение контента опционально: при его сбое статья строится
// только из данных RSS.
func (uc *IngestUseCase) processFeed(ctx context.Context, feedURL string) ([]domain.Article, error) {
	log := uc.log.With(
		slog.String("component", "pipeline"),
		slog.String("feed", feedURL),
	)

	reader, err := uc.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer reader.Close()

	entries, err := uc.parser.Parse(ctx, reader, feedURL)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	log.Debug("Feed parsed", slog.Int("items_found", len(entries)))

	articles := make([]domain.Article, 0, len(entries))
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("feed processing interrupted: %w", ctx.Err())
		}
		extracted := uc.extractor.Extract(ctx, entry.Link)
		articles = append(articles, Normalize(entry, extracted, feedURL, uc.now()))
	}
	return articles, nil
}
