package repository

import (
	"context"
	"errors"
	"fmt"

	"experience-market/internal/data/entity"
	"experience-market/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Post, error)
	FindAll(ctx context.Context, publishedOnly bool, limit, offset int) ([]*entity.Post, error)
	Count(ctx context.Context, publishedOnly bool) (int64, error)
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewPostRepository(db database.DBTX, log *zap.Logger) PostRepository {
	return &postRepository{
		db:  db,
		log: log.With(zap.String("repository", "post")),
	}
}

const postColumns = `id, slug, author_id, title_en, title_es, body_en, body_es, image_url, published, created_at, updated_at`

func scanPost(row pgx.Row) (*entity.Post, error) {
	var p entity.Post
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.AuthorID,
		&p.TitleEN,
		&p.TitleES,
		&p.BodyEN,
		&p.BodyES,
		&p.ImageURL,
		&p.Published,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	query := `
		INSERT INTO posts (id, slug, author_id, title_en, title_es, body_en, body_es, image_url, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		post.ID,
		post.Slug,
		post.AuthorID,
		post.TitleEN,
		post.TitleES,
		post.BodyEN,
		post.BodyES,
		post.ImageURL,
		post.Published,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create post", zap.Error(err), zap.String("slug", post.Slug))
		return fmt.Errorf("create post %s: %w", post.Slug, err)
	}

	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	p, err := scanPost(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find post by ID", zap.Error(err), zap.String("post_id", id.String()))
		return nil, fmt.Errorf("find post by ID %s: %w", id, err)
	}

	return p, nil
}

func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`

	p, err := scanPost(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find post by slug", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("find post by slug %s: %w", slug, err)
	}

	return p, nil
}

func (r *postRepository) FindAll(ctx context.Context, publishedOnly bool, limit, offset int) ([]*entity.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE (NOT $1::boolean OR published)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, publishedOnly, limit, offset)
	if err != nil {
		r.log.Error("Failed to find posts", zap.Error(err))
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer rows.Close()

	var posts []*entity.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			r.log.Error("Failed to scan post row", zap.Error(err))
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

func (r *postRepository) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM posts WHERE (NOT $1::boolean OR published)`

	var count int64
	if err := r.db.QueryRow(ctx, query, publishedOnly).Scan(&count); err != nil {
		r.log.Error("Failed to count posts", zap.Error(err))
		return 0, fmt.Errorf("count posts: %w", err)
	}

	return count, nil
}

func (r *postRepository) Update(ctx context.Context, post *entity.Post) error {
	query := `
		UPDATE posts
		SET slug = $2, title_en = $3, title_es = $4, body_en = $5, body_es = $6,
			image_url = $7, published = $8, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		post.ID,
		post.Slug,
		post.TitleEN,
		post.TitleES,
		post.BodyEN,
		post.BodyES,
		post.ImageURL,
		post.Published,
	)
	if err != nil {
		r.log.Error("Failed to update post", zap.Error(err), zap.String("post_id", post.ID.String()))
		return fmt.Errorf("update post %s: %w", post.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post %s not found", post.ID)
	}

	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete post", zap.Error(err), zap.String("post_id", id.String()))
		return fmt.Errorf("delete post %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post %s not found", id)
	}

	return nil
}
