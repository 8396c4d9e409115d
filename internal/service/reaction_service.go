package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vedran77/quill/internal/domain"
	"github.com/vedran77/quill/internal/repository"
)

var ErrInvalidReaction = errors.New("reaction must be like or dislike")

type ReactionService struct {
	reactionRepo repository.ReactionRepository
	notifier     Notifier
}

func NewReactionService(reactionRepo repository.ReactionRepository) *ReactionService {
	return &ReactionService{reactionRepo: reactionRepo}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *ReactionService) SetNotifier(n Notifier) {
	s.notifier = n
}

type ReactionResult struct {
	Counts domain.ReactionCounts
	// Active is true when the caller holds the requested reaction afterwards.
	Active bool
}

// Toggle flips the caller's kind reaction on a post: set it (dropping the opposite
// one) if absent, clear it if present. Reacting to one's own post is allowed.
func (s *ReactionService) Toggle(ctx context.Context, userID, postID uuid.UUID, kind domain.ReactionKind) (*ReactionResult, error) {
	if !kind.Valid() {
		return nil, ErrInvalidReaction
	}

	var active bool
	reactions, err := s.reactionRepo.Update(ctx, postID, func(r *domain.Reactions) error {
		var err error
		active, err = r.Toggle(userID, kind)
		return err
	})
	if err != nil {
		return nil, err
	}
	if reactions == nil {
		return nil, ErrPostNotFound
	}

	counts := reactions.Counts()
	if s.notifier != nil {
		s.notifier.NotifyReactions(postID, counts)
	}

	return &ReactionResult{Counts: counts, Active: active}, nil
}
