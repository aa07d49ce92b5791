package extractor

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"newsagg/internal/domain"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// PageFetcher определяет интерфейс для загрузки HTML-страницы статьи.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// ReadabilityExtractor извлекает структурированный контент со страницы статьи:
// чистый текст, заголовок, авторов, дату публикации и главное изображение.
// Любой сбой (сеть, парсинг, неподдерживаемый контент) дает отсутствующий
// результат, а не ошибку: пайплайн обязан переживать частичное обогащение.
type ReadabilityExtractor struct {
	fetcher PageFetcher
	timeout time.Duration
	log     *slog.Logger
}

// NewReadabilityExtractor создает новый экстрактор контента.
// timeout ограничивает загрузку одной страницы.
func NewReadabilityExtractor(fetcher PageFetcher, timeout time.Duration, log *slog.Logger) *ReadabilityExtractor {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ReadabilityExtractor{
		fetcher: fetcher,
		timeout: timeout,
		log:     log,
	}
}

// Extract загружает страницу по URL и извлекает из нее контент.
// Возвращает nil, если извлечение не удалось; ошибка наружу не поднимается.
// Вторичный шаг (ключевые слова, краткое содержание из текста) выполняется
// по принципу best-effort и не отменяет остальной результат.
func (e *ReadabilityExtractor) Extract(ctx context.Context, pageURL string) *domain.ExtractedContent {
	log := e.log.With(
		slog.String("component", "extractor"),
		slog.String("url", pageURL),
	)
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		log.Warn("Invalid article URL", slog.Any("error", err))
		return nil
	}
	opCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	body, err := e.fetcher.Fetch(opCtx, pageURL)
	if err != nil {
		log.Warn("Article page fetch failed", slog.Any("error", err))
		return nil
	}
	defer body.Close()
	article, err := readability.FromReader(body, parsedURL)
	if err != nil {
		log.Warn("Content extraction failed", slog.Any("error", err))
		return nil
	}
	content := &domain.ExtractedContent{
		Title:     strings.TrimSpace(article.Title),
		Text:      strings.TrimSpace(article.TextContent),
		Summary:   strings.TrimSpace(article.Excerpt),
		Authors:   splitByline(article.Byline),
		Published: article.PublishedTime,
		TopImage:  article.Image,
	}
	content.Keywords = deriveKeywords(content.Text, domain.MaxKeywords)
	if content.Summary == "" {
		content.Summary = leadingSentences(content.Text, 3)
	}
	log.Debug("Content extracted",
		slog.Int("text_len", len(content.Text)),
		slog.Int("keywords", len(content.Keywords)),
	)
	return content
}

// splitByline разбивает строку авторов страницы на отдельные имена.
// Readability отдает авторов одной строкой вида "A, B and C".
func splitByline(byline string) []string {
	byline = strings.TrimSpace(byline)
	if byline == "" {
		return nil
	}
	byline = strings.ReplaceAll(byline, " and ", ", ")
	parts := strings.Split(byline, ",")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p), "By "))
		if p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}

// leadingSentences возвращает первые n предложений текста.
// Используется как запасной вариант краткого содержания, когда страница
// не содержит явного описания.
func leadingSentences(text string, n int) string {
	if text == "" || n <= 0 {
		return ""
	}
	count := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count >= n {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return text
}
