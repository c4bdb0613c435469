package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookcatalog-backend/internal/domains/catalog"
	"bookcatalog-backend/internal/shared/utils"
	"bookcatalog-backend/pkg/cache"
	"bookcatalog-backend/pkg/database"
)

const (
	bookCacheTTL      = 5 * time.Minute
	recommendCacheTTL = time.Minute
)

// sortColumns is the ORDER BY allow-list. Every sort value passes
// through this map; user input is never interpolated into SQL.
var sortColumns = map[string]string{
	"id":    "b.id",
	"title": "b.title",
	"year":  "b.published_year",
	"genre": "b.genre",
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the same
// statement helpers run inside and outside transactions.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// postgresRepository - raw SQL with pgxpool
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) catalog.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// ============================================
// AUTHORS
// ============================================

func (r *postgresRepository) FindOrCreateAuthor(ctx context.Context, name string) (*catalog.Author, error) {
	return findOrCreateAuthor(ctx, r.pool, name)
}

// findOrCreateAuthor is the dedup-on-write lookup. The upsert closes
// the read-then-write race: two concurrent creates of the same new name
// both land on the single row guarded by the unique constraint.
func findOrCreateAuthor(ctx context.Context, q querier, name string) (*catalog.Author, error) {
	var author catalog.Author

	err := q.QueryRow(ctx,
		`SELECT id, name FROM authors WHERE name = $1`, name,
	).Scan(&author.ID, &author.Name)
	if err == nil {
		return &author, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up author: %w", err)
	}

	// DO UPDATE instead of DO NOTHING so RETURNING always yields the
	// surviving row, even when a concurrent insert won.
	err = q.QueryRow(ctx, `
		INSERT INTO authors (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`, name).Scan(&author.ID, &author.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to insert author: %w", err)
	}

	return &author, nil
}

// ============================================
// BOOK WRITES
// ============================================

func (r *postgresRepository) CreateBook(ctx context.Context, title, genre string, year int, authorName string) (*catalog.Book, error) {
	var book *catalog.Book

	// Author resolution and book insert either both persist or neither
	// does.
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		author, err := findOrCreateAuthor(ctx, tx, authorName)
		if err != nil {
			return err
		}

		b := catalog.Book{
			Title:         title,
			Genre:         genre,
			PublishedYear: year,
			AuthorID:      author.ID,
			Author:        *author,
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO books (title, genre, published_year, author_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, b.Title, b.Genre, b.PublishedYear, b.AuthorID).Scan(&b.ID)
		if err != nil {
			return fmt.Errorf("failed to insert book: %w", err)
		}

		book = &b
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidateDerived(ctx)
	return book, nil
}

func (r *postgresRepository) UpdateBook(ctx context.Context, id int64, patch catalog.BookPatch) (*catalog.Book, error) {
	var book *catalog.Book

	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := getBook(ctx, tx, id)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			current.Title = *patch.Title
		}
		if patch.Genre != nil {
			current.Genre = *patch.Genre
		}
		if patch.PublishedYear != nil {
			current.PublishedYear = *patch.PublishedYear
		}
		if patch.AuthorName != nil {
			// May reassign to a different or brand-new author. The
			// previous author stays even if now orphaned.
			author, err := findOrCreateAuthor(ctx, tx, *patch.AuthorName)
			if err != nil {
				return err
			}
			current.AuthorID = author.ID
			current.Author = *author
		}

		_, err = tx.Exec(ctx, `
			UPDATE books
			SET title = $1, genre = $2, published_year = $3, author_id = $4
			WHERE id = $5
		`, current.Title, current.Genre, current.PublishedYear, current.AuthorID, current.ID)
		if err != nil {
			return fmt.Errorf("failed to update book: %w", err)
		}

		book = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = r.cache.Delete(ctx, bookCacheKey(id))
	r.invalidateDerived(ctx)
	return book, nil
}

func (r *postgresRepository) DeleteBook(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrBookNotFound
	}

	_ = r.cache.Delete(ctx, bookCacheKey(id))
	r.invalidateDerived(ctx)
	return nil
}

// ============================================
// BOOK READS
// ============================================

func (r *postgresRepository) GetBook(ctx context.Context, id int64) (*catalog.Book, error) {
	var cached catalog.Book
	if found, err := r.cache.Get(ctx, bookCacheKey(id), &cached); err == nil && found {
		return &cached, nil
	}

	book, err := getBook(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, bookCacheKey(id), book, bookCacheTTL)
	return book, nil
}

func getBook(ctx context.Context, q querier, id int64) (*catalog.Book, error) {
	var b catalog.Book
	err := q.QueryRow(ctx, `
		SELECT b.id, b.title, b.genre, b.published_year, b.author_id,
		       a.id, a.name
		FROM books b
		JOIN authors a ON b.author_id = a.id
		WHERE b.id = $1
	`, id).Scan(
		&b.ID, &b.Title, &b.Genre, &b.PublishedYear, &b.AuthorID,
		&b.Author.ID, &b.Author.Name,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return &b, nil
}

func (r *postgresRepository) ListBooks(ctx context.Context, filter catalog.ListFilter) ([]catalog.Book, error) {
	whereClause, args := buildWhereClause(filter)

	query := selectBooks
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY " + orderClause(filter.Sort)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Skip)

	return r.queryBooks(ctx, query, args)
}

func (r *postgresRepository) CountBooks(ctx context.Context, filter catalog.ListFilter) (int, error) {
	whereClause, args := buildWhereClause(filter)

	query := `SELECT COUNT(*) FROM books b JOIN authors a ON b.author_id = a.id`
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}

	return total, nil
}

func (r *postgresRepository) ListAllForExport(ctx context.Context, cap int) ([]catalog.Book, error) {
	query := selectBooks + ` ORDER BY b.id LIMIT $1`
	return r.queryBooks(ctx, query, []any{cap})
}

func (r *postgresRepository) Recommend(ctx context.Context, bookID int64, limit int) ([]catalog.Book, error) {
	key := recommendCacheKey(bookID, limit)
	var cached []catalog.Book
	if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	// Fails first when the source book is gone; a missing source is a
	// 404, not an empty list.
	source, err := getBook(ctx, r.pool, bookID)
	if err != nil {
		return nil, err
	}

	query := selectBooks + `
		WHERE b.id != $1
		  AND (b.author_id = $2 OR b.genre = $3)
		LIMIT $4`

	books, err := r.queryBooks(ctx, query, []any{source.ID, source.AuthorID, source.Genre, limit})
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, key, books, recommendCacheTTL)
	return books, nil
}

// ============================================
// QUERY BUILDING HELPERS
// ============================================

const selectBooks = `
	SELECT b.id, b.title, b.genre, b.published_year, b.author_id,
	       a.id AS a_id, a.name AS a_name
	FROM books b
	JOIN authors a ON b.author_id = a.id`

// buildWhereClause constructs the WHERE clause dynamically. Every user
// value travels as a positional argument.
func buildWhereClause(filter catalog.ListFilter) (string, []any) {
	var conditions []string
	var args []any
	argIndex := 1

	if filter.Title != "" {
		conditions = append(conditions, fmt.Sprintf("b.title ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Title+"%")
		argIndex++
	}

	if filter.Author != "" {
		conditions = append(conditions, fmt.Sprintf("a.name ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Author+"%")
		argIndex++
	}

	if filter.Genre != "" {
		conditions = append(conditions, fmt.Sprintf("b.genre = $%d", argIndex))
		args = append(args, filter.Genre)
		argIndex++
	}

	if filter.YearFrom != nil {
		conditions = append(conditions, fmt.Sprintf("b.published_year >= $%d", argIndex))
		args = append(args, *filter.YearFrom)
		argIndex++
	}

	if filter.YearTo != nil {
		conditions = append(conditions, fmt.Sprintf("b.published_year <= $%d", argIndex))
		args = append(args, *filter.YearTo)
		argIndex++
	}

	return utils.JoinWithAnd(conditions), args
}

// orderClause maps the requested sort field through the allow-list.
// Anything else silently falls back to id ascending.
func orderClause(sort string) string {
	if col, ok := sortColumns[sort]; ok {
		return col
	}
	return sortColumns["id"]
}

func (r *postgresRepository) queryBooks(ctx context.Context, query string, args []any) ([]catalog.Book, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books query failed: %w", err)
	}
	defer rows.Close()

	books := []catalog.Book{}
	for rows.Next() {
		var b catalog.Book
		err := rows.Scan(
			&b.ID, &b.Title, &b.Genre, &b.PublishedYear, &b.AuthorID,
			&b.Author.ID, &b.Author.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return books, nil
}

// ============================================
// CACHE KEYS
// ============================================

func bookCacheKey(id int64) string {
	return fmt.Sprintf("book:%d", id)
}

func recommendCacheKey(id int64, limit int) string {
	return fmt.Sprintf("recommend:%d:%d", id, limit)
}

// invalidateDerived drops recommendation entries after any write.
// Recommendations depend on other rows, so per-key invalidation is not
// enough.
func (r *postgresRepository) invalidateDerived(ctx context.Context) {
	_ = r.cache.DeletePattern(ctx, "recommend:*")
}
