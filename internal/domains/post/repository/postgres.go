package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/query"
	"blog-backend/pkg/cache"
	pkgdb "blog-backend/pkg/database"
	"blog-backend/pkg/logger"
)

const (
	postColumns  = `id, title, content, slug, status, user_id, featured_image, created_at, updated_at`
	slugCacheTTL = 5 * time.Minute
	// slugRefillGrace is how long after a write the slug keys are dropped
	// once more, evicting rows refilled by reads that overlapped the commit.
	slugRefillGrace = time.Second
)

var columns = database.Columns{
	post.FieldID:        "id",
	post.FieldSlug:      "slug",
	post.FieldStatus:    "status",
	post.FieldUserID:    "user_id",
	post.FieldCreatedAt: "created_at",
}

// postgresRepository - Raw SQL with pgxpool, read-through slug cache
type postgresRepository struct {
	pool        *pgxpool.Pool
	cache       cache.Cache // optional
	refillGrace time.Duration
}

// NewPostgresRepository - Constructor. c may be nil to disable caching.
func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache) post.Repository {
	return &postgresRepository{pool: pool, cache: c, refillGrace: slugRefillGrace}
}

func slugKey(slug string) string {
	return "post:slug:" + slug
}

// ========================================
// WRITES
// ========================================

func (r *postgresRepository) Create(ctx context.Context, p *post.Post) error {
	p.ID = uuid.NewString()

	query := `
		INSERT INTO posts (id, title, content, slug, status, user_id, featured_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Title, p.Content, p.Slug, p.Status, p.UserID, p.FeaturedImage,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return translateWriteError(err, "create post")
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, p *post.Post) error {
	query := `
		UPDATE posts
		SET title = $2, content = $3, slug = $4, status = $5, featured_image = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING slug, updated_at
	`

	// Slug keys are dropped before the write, under the row lock, after
	// commit, and once more after refillGrace.
	r.invalidate(ctx, p.Slug)

	var oldSlug string
	err := pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT slug FROM posts WHERE id = $1 FOR UPDATE`, p.ID).Scan(&oldSlug); err != nil {
			return err
		}
		r.invalidate(ctx, oldSlug)

		var slug string
		return tx.QueryRow(ctx, query,
			p.ID, p.Title, p.Content, p.Slug, p.Status, p.FeaturedImage,
		).Scan(&slug, &p.UpdatedAt)
	})
	if err != nil {
		return translateWriteError(err, "update post")
	}

	r.invalidate(ctx, oldSlug, p.Slug)
	r.invalidateLater(oldSlug, p.Slug)
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	var slug string
	err := pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		return tx.QueryRow(ctx, `DELETE FROM posts WHERE id = $1 RETURNING slug`, id).Scan(&slug)
	})
	if err != nil {
		return translateWriteError(err, "delete post")
	}

	r.invalidate(ctx, slug)
	r.invalidateLater(slug)
	return nil
}

// ========================================
// READS
// ========================================

func (r *postgresRepository) FindByID(ctx context.Context, id string) (*post.Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err != nil {
		return nil, translateReadError(err, "find post by id")
	}
	return p, nil
}

func (r *postgresRepository) FindBySlug(ctx context.Context, slug string) (*post.Post, error) {
	if r.cache != nil {
		var cached post.Post
		hit, err := r.cache.Get(ctx, slugKey(slug), &cached)
		if err != nil {
			logger.Warn("post cache read failed", map[string]interface{}{"slug": slug, "error": err.Error()})
		} else if hit {
			return &cached, nil
		}
	}

	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug)
	p, err := scanPost(row)
	if err != nil {
		return nil, translateReadError(err, "find post by slug")
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, slugKey(slug), p, slugCacheTTL); err != nil {
			logger.Warn("post cache write failed", map[string]interface{}{"slug": slug, "error": err.Error()})
		}
	}
	return p, nil
}

func (r *postgresRepository) List(ctx context.Context, q query.Query) ([]*post.Post, int, error) {
	where, suffix, args, err := columns.Translate(q)
	if err != nil {
		return nil, 0, apperror.Internal("Failed to fetch posts", err)
	}

	// Filter arguments come first in args, paging arguments after them.
	var total int
	countSQL := `SELECT COUNT(*) FROM posts ` + where
	if err := r.pool.QueryRow(ctx, countSQL, args[:len(q.Filters)]...).Scan(&total); err != nil {
		return nil, 0, apperror.Internal("Failed to fetch posts", fmt.Errorf("count posts: %w", err))
	}

	rows, err := r.pool.Query(ctx, `SELECT `+postColumns+` FROM posts `+where+` `+suffix, args...)
	if err != nil {
		return nil, 0, apperror.Internal("Failed to fetch posts", fmt.Errorf("list posts: %w", err))
	}
	defer rows.Close()

	posts := make([]*post.Post, 0, q.Limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, apperror.Internal("Failed to fetch posts", fmt.Errorf("scan post: %w", err))
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.Internal("Failed to fetch posts", fmt.Errorf("iterate posts: %w", err))
	}

	return posts, total, nil
}

// ========================================
// HELPERS
// ========================================

func scanPost(row pgx.Row) (*post.Post, error) {
	var p post.Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.Slug, &p.Status, &p.UserID, &p.FeaturedImage,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) invalidate(ctx context.Context, slugs ...string) {
	if r.cache == nil {
		return
	}
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if s != "" {
			keys = append(keys, slugKey(s))
		}
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("post cache invalidation failed", map[string]interface{}{"keys": keys, "error": err.Error()})
	}
}

// invalidateLater repeats the invalidation once refillGrace has passed,
// detached from the request context.
func (r *postgresRepository) invalidateLater(slugs ...string) {
	if r.cache == nil {
		return
	}
	time.AfterFunc(r.refillGrace, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		r.invalidate(ctx, slugs...)
	})
}

func translateReadError(err error, op string) error {
	// A malformed id can never match a row.
	if database.IsNoRows(err) || database.IsInvalidInput(err) {
		return apperror.NotFound("Post not found")
	}
	return apperror.Internal("Failed to fetch post", fmt.Errorf("%s: %w", op, err))
}

func translateWriteError(err error, op string) error {
	switch {
	case database.IsNoRows(err), database.IsInvalidInput(err):
		return apperror.NotFound("Post not found")
	case database.IsUniqueViolation(err, "posts_slug_key"):
		return apperror.Duplicate("Slug already exists")
	}
	return apperror.Internal("Failed to "+op, fmt.Errorf("%s: %w", op, err))
}
