package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/quill/internal/domain"
	"github.com/vedran77/quill/internal/repository"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("only the comment author or the post author can delete this comment")
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	notifier    Notifier
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *CommentService) SetNotifier(n Notifier) {
	s.notifier = n
}

type AddCommentInput struct {
	Content string `json:"content"`
}

func (s *CommentService) Add(ctx context.Context, userID, postID uuid.UUID, input AddCommentInput) (*domain.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		AuthorID:  userID,
		Content:   strings.TrimSpace(input.Content),
		CreatedAt: time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	// Fetch with author info
	full, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return nil, ErrCommentNotFound
	}

	if s.notifier != nil {
		s.notifier.NotifyNewComment(full)
	}

	return full, nil
}

// Delete removes a comment if the caller wrote it or owns the post it is on.
func (s *CommentService) Delete(ctx context.Context, userID, postID, commentID uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil || comment.PostID != postID {
		return ErrCommentNotFound
	}
	if !comment.CanBeDeletedBy(userID, post) {
		return ErrNotCommentOwner
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyDeletedComment(postID, commentID)
	}

	return nil
}
