package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/quill/internal/domain"
)

const postSelect = `
	SELECT p.id, p.author_id, p.title, p.description, p.content, p.tags,
		p.is_published, p.read_time, p.created_at, p.updated_at,
		u.name, u.username, u.profile_url,
		(SELECT COUNT(*) FROM post_reactions r WHERE r.post_id = p.id AND r.kind = 'like'),
		(SELECT COUNT(*) FROM post_reactions r WHERE r.post_id = p.id AND r.kind = 'dislike'),
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
	FROM posts p
	JOIN users u ON p.author_id = u.id`

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	query := `
		INSERT INTO posts (id, author_id, title, description, content, tags, is_published, read_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.AuthorID, p.Title, p.Description, p.Content, p.Tags,
		p.IsPublished, p.ReadTime, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var p domain.Post
	err := scanPost(r.pool.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &p, err
}

func (r *PostRepo) List(ctx context.Context, filter domain.PostFilter, limit, offset int) ([]domain.Post, error) {
	where, args := buildPostFilter(filter)
	query := fmt.Sprintf(`%s%s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`,
		postSelect, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0, limit)
	for rows.Next() {
		var p domain.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepo) Count(ctx context.Context, filter domain.PostFilter) (int, error) {
	where, args := buildPostFilter(filter)
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return total, nil
}

func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error {
	query := `
		UPDATE posts
		SET title = $1, description = $2, content = $3, tags = $4,
			is_published = $5, read_time = $6, updated_at = $7
		WHERE id = $8`
	_, err := r.pool.Exec(ctx, query,
		p.Title, p.Description, p.Content, p.Tags, p.IsPublished, p.ReadTime, p.UpdatedAt, p.ID,
	)
	return err
}

func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

func buildPostFilter(f domain.PostFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.Published != nil {
		args = append(args, *f.Published)
		clauses = append(clauses, fmt.Sprintf("p.is_published = $%d", len(args)))
	}
	if f.AuthorID != nil {
		args = append(args, *f.AuthorID)
		clauses = append(clauses, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(p.tags)", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			`(p.title ILIKE $%[1]d OR p.description ILIKE $%[1]d OR EXISTS (SELECT 1 FROM unnest(p.tags) tag WHERE tag ILIKE $%[1]d))`, n))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanPost(row pgx.Row, p *domain.Post) error {
	var author domain.UserSummary
	err := row.Scan(
		&p.ID, &p.AuthorID, &p.Title, &p.Description, &p.Content, &p.Tags,
		&p.IsPublished, &p.ReadTime, &p.CreatedAt, &p.UpdatedAt,
		&author.Name, &author.Username, &author.ProfileURL,
		&p.LikeCount, &p.DislikeCount, &p.CommentCount,
	)
	if err != nil {
		return err
	}
	author.ID = p.AuthorID
	p.Author = &author
	return nil
}
