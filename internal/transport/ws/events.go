package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/quill/internal/domain"
)

// Event types - Client → Server
const (
	EventTypePostSubscribe   = "post.subscribe"
	EventTypePostUnsubscribe = "post.unsubscribe"
	EventTypePing            = "ping"
)

// Event types - Server → Client
const (
	EventTypeReactionUpdated = "reaction.updated"
	EventTypeCommentNew      = "comment.new"
	EventTypeCommentDeleted  = "comment.deleted"
	EventTypePostUpdated     = "post.updated"
	EventTypePostDeleted     = "post.deleted"
	EventTypePong            = "pong"
	EventTypeError           = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	PostID    *uuid.UUID      `json:"post_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type PostPayload struct {
	PostID uuid.UUID `json:"post_id"`
}

// --- Server → Client payloads ---

type ReactionPayload struct {
	domain.ReactionCounts
}

type CommentPayload struct {
	domain.Comment
}

type PostUpdatedPayload struct {
	domain.Post
}

type DeletedPayload struct {
	ID uuid.UUID `json:"id"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, postID *uuid.UUID, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		PostID:    postID,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
