package service

import (
	"github.com/google/uuid"
	"github.com/vedran77/quill/internal/domain"
)

// Notifier broadcasts engagement changes to connected clients.
type Notifier interface {
	NotifyReactions(postID uuid.UUID, counts domain.ReactionCounts)
	NotifyNewComment(comment *domain.Comment)
	NotifyDeletedComment(postID, commentID uuid.UUID)
	NotifyUpdatedPost(post *domain.Post)
	NotifyDeletedPost(postID uuid.UUID)
}
