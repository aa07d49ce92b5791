package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"newsagg/internal/domain"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedParser преобразует RSS/Atom-документы в последовательность RawEntry.
// Построен на универсальном парсере gofeed, поэтому формат ленты
// (RSS 0.x/1.0/2.0, Atom) определяется автоматически.
type FeedParser struct {
	log *slog.Logger
}

func NewFeedParser(log *slog.Logger) *FeedParser {
	return &FeedParser{
		log: log,
	}
}

// Parse читает документ ленты и возвращает записи в порядке документа.
// Записи без ссылки пропускаются с предупреждением: без ссылки невозможно
// сформировать уникальный ключ статьи. Лента без записей — валидный результат.
func (p *FeedParser) Parse(ctx context.Context, reader io.Reader, feedURL string) ([]domain.RawEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	feed, err := gofeed.NewParser().Parse(reader)
	if err != nil {
		p.log.Error("Error parsing feed",
			slog.String("feed", feedURL),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}
	entries := make([]domain.RawEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if strings.TrimSpace(item.Link) == "" {
			p.log.Warn("Skipping entry without link",
				slog.String("feed", feedURL),
				slog.String("item_title", item.Title),
			)
			continue
		}
		entry := domain.RawEntry{
			Title:      strings.TrimSpace(item.Title),
			Link:       strings.TrimSpace(item.Link),
			Summary:    item.Description,
			Author:     entryAuthor(item),
			Published:  item.PublishedParsed,
			Updated:    item.UpdatedParsed,
			Categories: item.Categories,
			GUID:       item.GUID,
			Language:   feed.Language,
		}
		if entry.GUID == "" {
			entry.GUID = entry.Link
		}
		entries = append(entries, entry)
	}
	p.log.Debug("Feed parsed",
		slog.String("feed", feedURL),
		slog.Int("items_found", len(feed.Items)),
		slog.Int("items_usable", len(entries)),
	)
	return entries, nil
}

// entryAuthor извлекает имя автора записи.
// gofeed заполняет либо список Authors, либо устаревшее поле Author.
func entryAuthor(item *gofeed.Item) string {
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	if item.Author != nil {
		return item.Author.Name
	}
	return ""
}
