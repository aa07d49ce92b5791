package usecase

import (
	"newsagg/internal/domain"
	"strings"
	"time"
)

// noTitle — заголовок-заглушка для записей вообще без заголовка.
const noTitle = "No Title"

// Normalize объединяет сырую запись ленты с результатом извлечения контента
// в нормализованную статью. Функция чистая и детерминированная: одинаковые
// входы дают одинаковый результат.
//
// Политика слияния (значение экстрактора предпочтительнее, RSS — запасное):
//   - title:      извлеченный → RSS → "No Title"
//   - summary:    извлеченный → RSS
//   - content:    извлеченный текст → пустая строка
//   - author:     первые 2 извлеченных автора через запятую → RSS-автор
//   - published:  дата RSS → дата экстрактора → время инжеста now
//   - updated:    только дата RSS, без запасных вариантов
//   - categories: теги RSS через запятую
//   - thumbnail:  главное изображение экстрактора
//   - keywords:   первые 10 ключевых слов экстрактора
//
// Все строки молча обрезаются до лимитов хранилища по границам рун.
func Normalize(entry domain.RawEntry, extracted *domain.ExtractedContent, feedURL string, now time.Time) domain.Article {
	article := domain.Article{
		Link:       truncate(entry.Link, domain.LinkMaxLen),
		SourceFeed: truncate(feedURL, domain.SourceFeedMaxLen),
		Language:   truncate(entry.Language, domain.LanguageMaxLen),
	}

	guid := entry.GUID
	if guid == "" {
		guid = entry.Link
	}
	article.GUID = truncate(guid, domain.GUIDMaxLen)

	title := ""
	if extracted != nil {
		title = extracted.Title
	}
	if title == "" {
		title = entry.Title
	}
	if title == "" {
		title = noTitle
	}
	article.Title = truncate(title, domain.TitleMaxLen)

	summary := ""
	if extracted != nil {
		summary = extracted.Summary
	}
	if summary == "" {
		summary = entry.Summary
	}
	article.Summary = truncate(summary, domain.SummaryMaxLen)

	if extracted != nil {
		article.Content = truncate(extracted.Text, domain.ContentMaxLen)
		article.ThumbnailURL = truncate(extracted.TopImage, domain.ThumbnailMaxLen)
	}

	author := ""
	if extracted != nil && len(extracted.Authors) > 0 {
		names := extracted.Authors
		if len(names) > domain.MaxAuthors {
			names = names[:domain.MaxAuthors]
		}
		author = strings.Join(names, ", ")
	}
	if author == "" {
		author = entry.Author
	}
	article.Author = truncate(author, domain.AuthorMaxLen)

	switch {
	case entry.Published != nil:
		article.Published = *entry.Published
	case extracted != nil && extracted.Published != nil:
		article.Published = *extracted.Published
	default:
		article.Published = now
	}
	article.Updated = entry.Updated

	if len(entry.Categories) > 0 {
		article.Categories = truncate(strings.Join(entry.Categories, ","), domain.CategoriesMaxLen)
	}

	if extracted != nil && len(extracted.Keywords) > 0 {
		keywords := extracted.Keywords
		if len(keywords) > domain.MaxKeywords {
			keywords = keywords[:domain.MaxKeywords]
		}
		article.Keywords = strings.Join(keywords, ", ")
	}

	return article
}

// truncate обрезает строку до limit символов по границам рун.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
