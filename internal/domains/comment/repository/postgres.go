package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/comment"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/query"
)

const commentColumns = `id, post_id, content, author_id, author_name, author_email, created_at, updated_at`

var columns = database.Columns{
	comment.FieldPostID:    "post_id",
	comment.FieldCreatedAt: "created_at",
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) comment.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, c *comment.Comment) error {
	c.ID = uuid.NewString()

	query := `
		INSERT INTO comments (id, post_id, content, author_id, author_name, author_email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		c.ID, c.PostID, c.Content, c.UserID, c.UserName, c.UserEmail,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) || database.IsInvalidInput(err) {
			return apperror.NotFound("Post not found")
		}
		return apperror.Internal("Failed to create comment", fmt.Errorf("insert comment: %w", err))
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id string) (*comment.Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "find comment")
	}
	return c, nil
}

func (r *postgresRepository) List(ctx context.Context, q query.Query) ([]*comment.Comment, error) {
	where, suffix, args, err := columns.Translate(q)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch comments", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+commentColumns+` FROM comments `+where+` `+suffix, args...)
	if err != nil {
		if database.IsInvalidInput(err) {
			return nil, apperror.NotFound("Post not found")
		}
		return nil, apperror.Internal("Failed to fetch comments", fmt.Errorf("list comments: %w", err))
	}
	defer rows.Close()

	comments := make([]*comment.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, apperror.Internal("Failed to fetch comments", fmt.Errorf("scan comment: %w", err))
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal("Failed to fetch comments", fmt.Errorf("iterate comments: %w", err))
	}
	return comments, nil
}

func (r *postgresRepository) Update(ctx context.Context, c *comment.Comment) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE comments SET content = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		c.ID, c.Content,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return translate(err, "update comment")
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete comment")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Comment not found")
	}
	return nil
}

func scanComment(row pgx.Row) (*comment.Comment, error) {
	var c comment.Comment
	if err := row.Scan(
		&c.ID, &c.PostID, &c.Content, &c.UserID, &c.UserName, &c.UserEmail, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func translate(err error, op string) error {
	if database.IsNoRows(err) || database.IsInvalidInput(err) {
		return apperror.NotFound("Comment not found")
	}
	return apperror.Internal("Failed to "+op, fmt.Errorf("%s: %w", op, err))
}
