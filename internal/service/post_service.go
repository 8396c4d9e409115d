package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/quill/internal/domain"
	"github.com/vedran77/quill/internal/repository"
	"golang.org/x/sync/errgroup"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("only the post author can perform this action")
)

type PostService struct {
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
	userRepo     repository.UserRepository
	notifier     Notifier
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	reactionRepo repository.ReactionRepository,
	userRepo repository.UserRepository,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
		userRepo:     userRepo,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *PostService) SetNotifier(n Notifier) {
	s.notifier = n
}

type CreatePostInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	IsPublished bool     `json:"is_published"`
}

// UpdatePostInput carries only the fields present in the request body.
// A nil field keeps the stored value.
type UpdatePostInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Content     *string   `json:"content"`
	Tags        *[]string `json:"tags"`
	IsPublished *bool     `json:"is_published"`
}

func (s *PostService) Create(ctx context.Context, userID uuid.UUID, input CreatePostInput) (*domain.Post, error) {
	now := time.Now()
	content := strings.TrimSpace(input.Content)
	post := &domain.Post{
		ID:          uuid.New(),
		AuthorID:    userID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Content:     content,
		Tags:        domain.NormalizeTags(input.Tags),
		IsPublished: input.IsPublished,
		ReadTime:    domain.EstimateReadTime(content),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	// Re-read for the author join
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) List(ctx context.Context, filter domain.PostFilter, page domain.PageRequest) (*domain.PostPage, error) {
	if filter.Tag != "" {
		filter.Tag = domain.NormalizeTag(filter.Tag)
	}
	filter.Search = strings.TrimSpace(filter.Search)

	var (
		posts []domain.Post
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.postRepo.List(gctx, filter, page.Limit, page.Offset())
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.postRepo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if posts == nil {
		posts = []domain.Post{}
	}

	return &domain.PostPage{
		Blogs:       posts,
		Total:       total,
		TotalPages:  page.TotalPages(total),
		CurrentPage: page.Page,
	}, nil
}

// ListByAuthor returns only the author's published posts.
func (s *PostService) ListByAuthor(ctx context.Context, authorID uuid.UUID, page domain.PageRequest) (*domain.PostPage, error) {
	published := true
	return s.List(ctx, domain.PostFilter{AuthorID: &authorID, Published: &published}, page)
}

// Get returns the post with its comments and reactors expanded.
func (s *PostService) Get(ctx context.Context, postID uuid.UUID) (*domain.PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	var (
		comments  []domain.Comment
		reactions *domain.Reactions
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comments, err = s.commentRepo.ListByPost(gctx, postID)
		return err
	})
	g.Go(func() error {
		var err error
		reactions, err = s.reactionRepo.Get(gctx, postID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(reactions.Likes)+len(reactions.Dislikes))
	for id := range reactions.Likes {
		ids = append(ids, id)
	}
	for id := range reactions.Dislikes {
		ids = append(ids, id)
	}
	summaries, err := s.userRepo.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	if comments == nil {
		comments = []domain.Comment{}
	}

	return &domain.PostDetail{
		Post:     *post,
		Likes:    expandReactors(reactions.Likes, summaries),
		Dislikes: expandReactors(reactions.Dislikes, summaries),
		Comments: comments,
	}, nil
}

func (s *PostService) Update(ctx context.Context, userID, postID uuid.UUID, input UpdatePostInput) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if !post.IsAuthor(userID) {
		return nil, ErrNotPostOwner
	}

	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		post.Description = strings.TrimSpace(*input.Description)
	}
	if input.Content != nil {
		post.Content = strings.TrimSpace(*input.Content)
		post.ReadTime = domain.EstimateReadTime(post.Content)
	}
	if input.Tags != nil {
		post.Tags = domain.NormalizeTags(*input.Tags)
	}
	if input.IsPublished != nil {
		post.IsPublished = *input.IsPublished
	}
	post.UpdatedAt = time.Now()

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}

	updated, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostNotFound
	}

	if s.notifier != nil {
		s.notifier.NotifyUpdatedPost(updated)
	}

	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if !post.IsAuthor(userID) {
		return ErrNotPostOwner
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyDeletedPost(postID)
	}

	return nil
}

func expandReactors(set domain.ReactorSet, summaries map[uuid.UUID]domain.UserSummary) []domain.UserSummary {
	out := make([]domain.UserSummary, 0, len(set))
	for id := range set {
		if sum, ok := summaries[id]; ok {
			out = append(out, sum)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}
