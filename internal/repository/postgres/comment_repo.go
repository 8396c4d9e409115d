package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/quill/internal/domain"
)

const commentSelect = `
	SELECT c.id, c.post_id, c.author_id, c.content, c.created_at,
		u.name, u.username, u.profile_url
	FROM comments c
	JOIN users u ON c.author_id = u.id`

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query, c.ID, c.PostID, c.AuthorID, c.Content, c.CreatedAt)
	return err
}

func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var c domain.Comment
	err := scanComment(r.pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id), &c)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &c, err
}

func (r *CommentRepo) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, commentSelect+` WHERE c.post_id = $1 ORDER BY c.created_at`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := scanComment(rows, &c); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}

func scanComment(row pgx.Row, c *domain.Comment) error {
	var author domain.UserSummary
	if err := row.Scan(
		&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt,
		&author.Name, &author.Username, &author.ProfileURL,
	); err != nil {
		return err
	}
	author.ID = c.AuthorID
	c.Author = &author
	return nil
}
