package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/esportsfed/platform/models"
	"github.com/lib/pq"
)

var (
	ErrNewsNotFound     = errors.New("news post not found")
	ErrNewsSlugConflict = errors.New("news slug is already in use")
)

type NewsRepository interface {
	Create(ctx context.Context, post *models.NewsPost) error
	GetByID(ctx context.Context, id int) (*models.NewsPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.NewsPost, error)
	List(ctx context.Context, limit, offset int, publishedOnly bool) ([]models.NewsPost, error)
	Update(ctx context.Context, post *models.NewsPost) error
	Delete(ctx context.Context, id int) error
}

type postgresNewsRepository struct {
	db *sql.DB
}

func NewPostgresNewsRepository(db *sql.DB) NewsRepository {
	return &postgresNewsRepository{db: db}
}

const newsColumns = `id, title, slug, body, author_id, published_at, created_at`

func (r *postgresNewsRepository) scanPost(rowScanner interface{ Scan(...interface{}) error }) (*models.NewsPost, error) {
	var p models.NewsPost
	err := rowScanner.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.AuthorID, &p.PublishedAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresNewsRepository) Create(ctx context.Context, post *models.NewsPost) error {
	query := `
		INSERT INTO news_posts (title, slug, body, author_id, published_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, post.Title, post.Slug, post.Body, post.AuthorID, post.PublishedAt).
		Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" && pqErr.Constraint == "news_posts_slug_key" {
			return ErrNewsSlugConflict
		}
		return fmt.Errorf("failed to create news post: %w", err)
	}
	return nil
}

func (r *postgresNewsRepository) GetByID(ctx context.Context, id int) (*models.NewsPost, error) {
	query := `SELECT ` + newsColumns + ` FROM news_posts WHERE id = $1`
	return r.scanPost(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresNewsRepository) GetBySlug(ctx context.Context, slug string) (*models.NewsPost, error) {
	query := `SELECT ` + newsColumns + ` FROM news_posts WHERE slug = $1`
	return r.scanPost(r.db.QueryRowContext(ctx, query, slug))
}

func (r *postgresNewsRepository) List(ctx context.Context, limit, offset int, publishedOnly bool) ([]models.NewsPost, error) {
	query := `SELECT ` + newsColumns + ` FROM news_posts`
	if publishedOnly {
		query += ` WHERE published_at IS NOT NULL AND published_at <= NOW()`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list news posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.NewsPost, 0)
	for rows.Next() {
		p, errScan := r.scanPost(rows)
		if errScan != nil {
			return nil, errScan
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (r *postgresNewsRepository) Update(ctx context.Context, post *models.NewsPost) error {
	query := `UPDATE news_posts SET title = $1, body = $2, published_at = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, post.Title, post.Body, post.PublishedAt, post.ID)
	if err != nil {
		return fmt.Errorf("failed to update news post: %w", err)
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM news_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete news post: %w", err)
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}
