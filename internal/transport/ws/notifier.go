package ws

import (
	"log"

	"github.com/google/uuid"
	"github.com/vedran77/quill/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyReactions(postID uuid.UUID, counts domain.ReactionCounts) {
	n.publish(postID, EventTypeReactionUpdated, ReactionPayload{ReactionCounts: counts})
}

func (n *HubNotifier) NotifyNewComment(comment *domain.Comment) {
	n.publish(comment.PostID, EventTypeCommentNew, CommentPayload{Comment: *comment})
}

func (n *HubNotifier) NotifyDeletedComment(postID, commentID uuid.UUID) {
	n.publish(postID, EventTypeCommentDeleted, DeletedPayload{ID: commentID})
}

func (n *HubNotifier) NotifyUpdatedPost(post *domain.Post) {
	n.publish(post.ID, EventTypePostUpdated, PostUpdatedPayload{Post: *post})
}

func (n *HubNotifier) NotifyDeletedPost(postID uuid.UUID) {
	n.publish(postID, EventTypePostDeleted, DeletedPayload{ID: postID})
}

func (n *HubNotifier) publish(postID uuid.UUID, eventType string, payload any) {
	evt, err := NewEvent(eventType, &postID, payload)
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToPost(postID, evt)
}
