package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
	bookssvc "github.com/lazyvar/cliffhanger-club/internal/services/books"
)

type BookRepo struct {
	pool *pgxpool.Pool
}

func NewBookRepo(pool *pgxpool.Pool) *BookRepo {
	return &BookRepo{pool: pool}
}

func (r *BookRepo) ListAll(ctx context.Context) ([]model.BookWithPicker, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	const query = `
SELECT b.id, b.title, b.author, COALESCE(b.cover_url, ''), b.added_by,
       COALESCE(b.read_date, ''), b.status, b.created_at,
       u.display_name, u.avatar_url
FROM books b
JOIN users u ON u.id = b.added_by
ORDER BY b.id DESC
`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []model.BookWithPicker
	for rows.Next() {
		var book model.BookWithPicker
		if err := rows.Scan(
			&book.ID, &book.Title, &book.Author, &book.CoverURL, &book.AddedBy,
			&book.ReadDate, &book.Status, &book.CreatedAt,
			&book.PickerName, &book.PickerAvatar,
		); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}

	return books, nil
}

func (r *BookRepo) FindByID(ctx context.Context, id int64) (model.BookWithPicker, error) {
	if r.pool == nil {
		return model.BookWithPicker{}, fmt.Errorf("postgres pool is nil")
	}

	const query = `
SELECT b.id, b.title, b.author, COALESCE(b.cover_url, ''), b.added_by,
       COALESCE(b.read_date, ''), b.status, b.created_at,
       u.display_name, u.avatar_url
FROM books b
JOIN users u ON u.id = b.added_by
WHERE b.id = $1
`
	var book model.BookWithPicker
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&book.ID, &book.Title, &book.Author, &book.CoverURL, &book.AddedBy,
		&book.ReadDate, &book.Status, &book.CreatedAt,
		&book.PickerName, &book.PickerAvatar,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.BookWithPicker{}, bookssvc.ErrBookNotFound
		}
		return model.BookWithPicker{}, fmt.Errorf("find book by id: %w", err)
	}

	return book, nil
}

func (r *BookRepo) ListByUsername(ctx context.Context, username string) ([]model.Book, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	const query = `
SELECT b.id, b.title, b.author, COALESCE(b.cover_url, ''), b.added_by,
       COALESCE(b.read_date, ''), b.status, b.created_at
FROM books b
JOIN users u ON u.id = b.added_by
WHERE u.username = $1
ORDER BY b.id DESC
`
	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("list books by username: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		var book model.Book
		if err := rows.Scan(
			&book.ID, &book.Title, &book.Author, &book.CoverURL, &book.AddedBy,
			&book.ReadDate, &book.Status, &book.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}

	return books, nil
}
