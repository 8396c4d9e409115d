// Package memory keeps every repository in process memory. It backs STORE=memory
// for local runs and the service and handler tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/quill/internal/domain"
	"github.com/vedran77/quill/internal/repository"
)

// Store is shared by the repositories so that joins (author summaries, counts)
// and cascading deletes see one consistent state.
type Store struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]domain.User
	posts     map[uuid.UUID]domain.Post
	comments  map[uuid.UUID]domain.Comment
	reactions map[uuid.UUID]*domain.Reactions
}

func NewStore() *Store {
	return &Store{
		users:     make(map[uuid.UUID]domain.User),
		posts:     make(map[uuid.UUID]domain.Post),
		comments:  make(map[uuid.UUID]domain.Comment),
		reactions: make(map[uuid.UUID]*domain.Reactions),
	}
}

// DeleteUser removes a user and everything they own. There is no API for it; tests
// use it to exercise tokens that outlive their user.
func (s *Store) DeleteUser(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	for pid, p := range s.posts {
		if p.AuthorID == id {
			s.deletePostLocked(pid)
		}
	}
	for cid, c := range s.comments {
		if c.AuthorID == id {
			delete(s.comments, cid)
		}
	}
	for _, r := range s.reactions {
		r.Set(id, domain.ReactionNone)
	}
}

func (s *Store) deletePostLocked(id uuid.UUID) {
	delete(s.posts, id)
	delete(s.reactions, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
}

func (s *Store) summaryLocked(id uuid.UUID) *domain.UserSummary {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	sum := u.Summary()
	return &sum
}

// --- Users ---

type UserRepo struct{ s *Store }

func NewUserRepo(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *UserRepo) ListExcept(_ context.Context, id uuid.UUID) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var users []domain.User
	for _, u := range r.s.users {
		if u.ID != id {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *UserRepo) Summaries(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[uuid.UUID]domain.UserSummary, len(ids))
	for _, id := range ids {
		if sum := r.s.summaryLocked(id); sum != nil {
			out[id] = *sum
		}
	}
	return out, nil
}

func (r *UserRepo) find(match func(domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, nil
}

// --- Posts ---

type PostRepo struct{ s *Store }

func NewPostRepo(s *Store) *PostRepo { return &PostRepo{s: s} }

func (r *PostRepo) Create(_ context.Context, p *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *p
	stored.Tags = slices.Clone(p.Tags)
	r.s.posts[p.ID] = stored
	r.s.reactions[p.ID] = domain.NewReactions()
	return nil
}

func (r *PostRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, nil
	}
	out := r.decorateLocked(p)
	return &out, nil
}

func (r *PostRepo) List(_ context.Context, filter domain.PostFilter, limit, offset int) ([]domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := r.matchLocked(filter)
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	if offset >= len(matched) {
		return []domain.Post{}, nil
	}
	end := min(offset+limit, len(matched))

	posts := make([]domain.Post, 0, end-offset)
	for _, p := range matched[offset:end] {
		posts = append(posts, r.decorateLocked(p))
	}
	return posts, nil
}

func (r *PostRepo) Count(_ context.Context, filter domain.PostFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return len(r.matchLocked(filter)), nil
}

func (r *PostRepo) Update(_ context.Context, p *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[p.ID]; !ok {
		return nil
	}
	stored := *p
	stored.Tags = slices.Clone(p.Tags)
	stored.Author = nil
	r.s.posts[p.ID] = stored
	return nil
}

func (r *PostRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.deletePostLocked(id)
	return nil
}

func (r *PostRepo) matchLocked(f domain.PostFilter) []domain.Post {
	search := strings.ToLower(f.Search)

	var out []domain.Post
	for _, p := range r.s.posts {
		if f.Published != nil && p.IsPublished != *f.Published {
			continue
		}
		if f.AuthorID != nil && p.AuthorID != *f.AuthorID {
			continue
		}
		if f.Tag != "" && !slices.Contains(p.Tags, f.Tag) {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p domain.Post, needle string) bool {
	if strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

func (r *PostRepo) decorateLocked(p domain.Post) domain.Post {
	p.Tags = slices.Clone(p.Tags)
	p.Author = r.s.summaryLocked(p.AuthorID)
	if rx, ok := r.s.reactions[p.ID]; ok {
		counts := rx.Counts()
		p.LikeCount, p.DislikeCount = counts.Likes, counts.Dislikes
	}
	p.CommentCount = 0
	for _, c := range r.s.comments {
		if c.PostID == p.ID {
			p.CommentCount++
		}
	}
	return p
}

// --- Comments ---

type CommentRepo struct{ s *Store }

func NewCommentRepo(s *Store) *CommentRepo { return &CommentRepo{s: s} }

func (r *CommentRepo) Create(_ context.Context, c *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *c
	stored.Author = nil
	r.s.comments[c.ID] = stored
	return nil
}

func (r *CommentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, nil
	}
	c.Author = r.s.summaryLocked(c.AuthorID)
	return &c, nil
}

func (r *CommentRepo) ListByPost(_ context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var comments []domain.Comment
	for _, c := range r.s.comments {
		if c.PostID == postID {
			c.Author = r.s.summaryLocked(c.AuthorID)
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (r *CommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.comments, id)
	return nil
}

// --- Reactions ---

type ReactionRepo struct{ s *Store }

func NewReactionRepo(s *Store) *ReactionRepo { return &ReactionRepo{s: s} }

func (r *ReactionRepo) Get(_ context.Context, postID uuid.UUID) (*domain.Reactions, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rx, ok := r.s.reactions[postID]
	if !ok {
		return domain.NewReactions(), nil
	}
	return rx.Clone(), nil
}

func (r *ReactionRepo) Update(_ context.Context, postID uuid.UUID, fn func(*domain.Reactions) error) (*domain.Reactions, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[postID]; !ok {
		return nil, nil
	}
	current, ok := r.s.reactions[postID]
	if !ok {
		current = domain.NewReactions()
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	r.s.reactions[postID] = next
	return next.Clone(), nil
}
