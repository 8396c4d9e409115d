package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/quill/internal/domain"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type ReactionRepo struct {
	pool *pgxpool.Pool
}

func NewReactionRepo(pool *pgxpool.Pool) *ReactionRepo {
	return &ReactionRepo{pool: pool}
}

func (r *ReactionRepo) Get(ctx context.Context, postID uuid.UUID) (*domain.Reactions, error) {
	return loadReactions(ctx, r.pool, postID)
}

// Update locks the post row for the length of the transaction, so concurrent toggles
// on one post run one after another instead of overwriting each other.
func (r *ReactionRepo) Update(ctx context.Context, postID uuid.UUID, fn func(*domain.Reactions) error) (*domain.Reactions, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin reaction tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	before, err := loadReactions(ctx, tx, postID)
	if err != nil {
		return nil, err
	}

	after := before.Clone()
	if err := fn(after); err != nil {
		return nil, err
	}

	now := time.Now()
	for userID, kind := range before.Diff(after) {
		if kind == domain.ReactionNone {
			_, err = tx.Exec(ctx, `DELETE FROM post_reactions WHERE post_id = $1 AND user_id = $2`, postID, userID)
		} else {
			_, err = tx.Exec(ctx, `
				INSERT INTO post_reactions (post_id, user_id, kind, created_at)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (post_id, user_id) DO UPDATE SET kind = EXCLUDED.kind, created_at = EXCLUDED.created_at`,
				postID, userID, kind, now)
		}
		if err != nil {
			return nil, fmt.Errorf("writing reaction: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reaction tx: %w", err)
	}
	return after, nil
}

func loadReactions(ctx context.Context, q querier, postID uuid.UUID) (*domain.Reactions, error) {
	rows, err := q.Query(ctx, `SELECT user_id, kind FROM post_reactions WHERE post_id = $1`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reactions := domain.NewReactions()
	for rows.Next() {
		var userID uuid.UUID
		var kind domain.ReactionKind
		if err := rows.Scan(&userID, &kind); err != nil {
			return nil, err
		}
		reactions.Set(userID, kind)
	}
	return reactions, rows.Err()
}
