package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vedran77/quill/internal/domain"
)

// Returned by UserRepository.Create when a unique column collides.
var (
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrDuplicateUsername = errors.New("duplicate username")
)

// Lookups return (nil, nil) when no row matches.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListExcept(ctx context.Context, id uuid.UUID) ([]domain.User, error)
	Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserSummary, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context, filter domain.PostFilter, limit, offset int) ([]domain.Post, error)
	Count(ctx context.Context, filter domain.PostFilter) (int, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReactionRepository interface {
	Get(ctx context.Context, postID uuid.UUID) (*domain.Reactions, error)
	// Update hands the post's current reactions to fn and persists what fn changed.
	// Calls for the same post are serialized. Returns (nil, nil) if the post is gone.
	Update(ctx context.Context, postID uuid.UUID, fn func(*domain.Reactions) error) (*domain.Reactions, error)
}
