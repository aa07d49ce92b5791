package storage

import (
	"context"
	"fmt"
	"log/slog"
	"newsagg/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB — узкий контракт над пулом соединений PostgreSQL.
// Ему удовлетворяют pgxpool.Pool и pgxmock.PgxPoolIface в тестах.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresArticleDB реализует интерфейс Storage поверх PostgreSQL.
type PostgresArticleDB struct {
	db  DB
	log *slog.Logger
}

func NewPostgresArticleDB(db DB, log *slog.Logger) *PostgresArticleDB {
	log.Info("Initializing Postgres article storage")
	return &PostgresArticleDB{
		db:  db,
		log: log,
	}
}

func (s *PostgresArticleDB) Close() {
	s.log.Info("Closing database connection pool")
	s.db.Close()
}

// ListFeedSources возвращает URL всех зарегистрированных RSS-лент.
func (s *PostgresArticleDB) ListFeedSources(ctx context.Context) ([]string, error) {
	const op = "storage.postgres.ListFeedSources"
	rows, err := s.db.Query(ctx, "SELECT url FROM rss_feeds ORDER BY id;")
	if err != nil {
		s.log.Error("Failed to query feed sources", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	defer rows.Close()
	urls, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var url string
		err := row.Scan(&url)
		return url, err
	})
	if err != nil {
		s.log.Error("Failed to collect feed sources", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
	}
	return urls, nil
}

// ReplaceArticles выполняет полное обновление таблицы статей одной транзакцией:
// очистка со сбросом идентификаторов и пакетная вставка нового поколения.
// Дубликаты link внутри партии разрешаются по принципу "первый побеждает".
// Любая ошибка откатывает транзакцию целиком, включая очистку, поэтому
// при неудачной записи предыдущее поколение данных остается нетронутым.
func (s *PostgresArticleDB) ReplaceArticles(ctx context.Context, articles []domain.Article) (int, error) {
	log := s.log.With(slog.String("component", "storage"))
	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Error("Failed to begin transaction", slog.Any("error", err))
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(context.Background()); rollbackErr != nil && rollbackErr != pgx.ErrTxClosed {
				log.Error("Failed to rollback transaction", slog.Any("error", rollbackErr))
			}
		}
	}()
	if _, err = tx.Exec(ctx, "TRUNCATE TABLE articles RESTART IDENTITY;"); err != nil {
		log.Error("Failed to truncate articles table", slog.Any("error", err))
		return 0, fmt.Errorf("failed to truncate articles table: %w", err)
	}
	batch := &pgx.Batch{}
	query := `
	INSERT INTO articles (title, link, summary, content, author, published, updated, categories, source_feed, guid, language, keywords, thumbnail_url)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (link) DO NOTHING;
	`
	for _, a := range articles {
		batch.Queue(
			query,
			a.Title,
			a.Link,
			nullable(a.Summary),
			nullable(a.Content),
			nullable(a.Author),
			a.Published,
			a.Updated,
			nullable(a.Categories),
			nullable(a.SourceFeed),
			nullable(a.GUID),
			nullable(a.Language),
			nullable(a.Keywords),
			nullable(a.ThumbnailURL),
		)
	}
	batchResult := tx.SendBatch(ctx, batch)
	inserted := 0
	for range articles {
		var tag pgconn.CommandTag
		tag, err = batchResult.Exec()
		if err != nil {
			batchResult.Close()
			log.Error("Failed to execute batch insert", slog.Any("error", err))
			return 0, fmt.Errorf("failed to execute batch insert: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err = batchResult.Close(); err != nil {
		log.Error("Failed to close batch", slog.Any("error", err))
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		log.Error("Failed to commit transaction", slog.Any("error", err))
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Info("Articles table refreshed",
		slog.Int("received", len(articles)),
		slog.Int("stored", inserted),
	)
	return inserted, nil
}

// ListArticles возвращает страницу статей с фильтрами по автору и категории
// и общее число строк, удовлетворяющих фильтрам.
// Сортировка — по дате публикации по убыванию.
func (s *PostgresArticleDB) ListArticles(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error) {
	const op = "storage.postgres.ListArticles"
	where := ""
	args := []any{}
	if filter.Author != "" {
		args = append(args, "%"+filter.Author+"%")
		where += fmt.Sprintf(" AND author ILIKE $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, "%"+filter.Category+"%")
		where += fmt.Sprintf(" AND categories ILIKE $%d", len(args))
	}
	countQuery := "SELECT count(id) FROM articles WHERE true" + where + ";"
	var total int
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		s.log.Error("Failed to count articles", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%s: failed to count rows: %w", op, err)
	}
	args = append(args, filter.Limit, filter.Offset)
	query := articleColumns + " FROM articles WHERE true" + where +
		fmt.Sprintf(" ORDER BY published DESC LIMIT $%d OFFSET $%d;", len(args)-1, len(args))
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		s.log.Error("Database query failed", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	defer rows.Close()
	articles, err := pgx.CollectRows(rows, scanArticle)
	if err != nil {
		s.log.Error("Failed to collect rows", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%s: failed to scan row: %w", op, err)
	}
	return articles, total, nil
}

// GetArticle возвращает одну статью по идентификатору.
// Если статья не найдена, возвращает (nil, nil).
func (s *PostgresArticleDB) GetArticle(ctx context.Context, id int) (*domain.Article, error) {
	const op = "storage.postgres.GetArticle"
	rows, err := s.db.Query(ctx, articleColumns+" FROM articles WHERE id = $1;", id)
	if err != nil {
		s.log.Error("Database query failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	defer rows.Close()
	article, err := pgx.CollectOneRow(rows, scanArticle)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		s.log.Error("Failed to scan article", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
	}
	return &article, nil
}

// ListAuthors возвращает список уникальных непустых авторов.
func (s *PostgresArticleDB) ListAuthors(ctx context.Context) ([]string, error) {
	const op = "storage.postgres.ListAuthors"
	rows, err := s.db.Query(ctx, "SELECT DISTINCT author FROM articles WHERE author IS NOT NULL AND author <> '' ORDER BY author;")
	if err != nil {
		s.log.Error("Database query failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	defer rows.Close()
	authors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var author string
		err := row.Scan(&author)
		return author, err
	})
	if err != nil {
		s.log.Error("Failed to collect rows", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
	}
	return authors, nil
}

const articleColumns = `
	SELECT id, title, link,
	COALESCE(summary, ''), COALESCE(content, ''), COALESCE(author, ''),
	published, updated,
	COALESCE(categories, ''), COALESCE(source_feed, ''), COALESCE(guid, ''),
	COALESCE(language, ''), COALESCE(keywords, ''), COALESCE(thumbnail_url, ''),
	created_at`

func scanArticle(row pgx.CollectableRow) (domain.Article, error) {
	var a domain.Article
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Link,
		&a.Summary,
		&a.Content,
		&a.Author,
		&a.Published,
		&a.Updated,
		&a.Categories,
		&a.SourceFeed,
		&a.GUID,
		&a.Language,
		&a.Keywords,
		&a.ThumbnailURL,
		&a.CreatedAt,
	)
	return a, err
}

// nullable превращает пустую строку в NULL при вставке.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
