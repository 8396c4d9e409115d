package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/quill/internal/domain"
	"github.com/vedran77/quill/internal/repository/memory"
)

type testEnv struct {
	store     *memory.Store
	auth      *AuthService
	posts     *PostService
	comments  *CommentService
	reactions *ReactionService
	events    *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	users := memory.NewUserRepo(store)
	posts := memory.NewPostRepo(store)
	comments := memory.NewCommentRepo(store)
	reactions := memory.NewReactionRepo(store)

	env := &testEnv{
		store:     store,
		auth:      NewAuthService(users, "test-secret", time.Hour),
		posts:     NewPostService(posts, comments, reactions, users),
		comments:  NewCommentService(comments, posts),
		reactions: NewReactionService(reactions),
		events:    &recordingNotifier{},
	}
	env.posts.SetNotifier(env.events)
	env.comments.SetNotifier(env.events)
	env.reactions.SetNotifier(env.events)
	return env
}

func (e *testEnv) signup(t *testing.T, username string) *domain.User {
	t.Helper()

	resp, err := e.auth.Register(context.Background(), RegisterInput{
		Name:       "User " + username,
		Email:      username + "@example.com",
		Password:   "secret-" + username,
		ProfileURL: "https://img.example/" + username,
		Gender:     "female",
		Address:    "1 Main St",
		Username:   username,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return resp.User
}

func (e *testEnv) createPost(t *testing.T, author uuid.UUID, title string, published bool) *domain.Post {
	t.Helper()

	post, err := e.posts.Create(context.Background(), author, CreatePostInput{
		Title:       title,
		Description: "About " + title,
		Content:     "Some words about " + title,
		Tags:        []string{"Go"},
		IsPublished: published,
	})
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return post
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) record(event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

func (n *recordingNotifier) NotifyReactions(uuid.UUID, domain.ReactionCounts) { n.record("reactions") }
func (n *recordingNotifier) NotifyNewComment(*domain.Comment)                { n.record("comment.new") }
func (n *recordingNotifier) NotifyDeletedComment(uuid.UUID, uuid.UUID)       { n.record("comment.deleted") }
func (n *recordingNotifier) NotifyUpdatedPost(*domain.Post)                  { n.record("post.updated") }
func (n *recordingNotifier) NotifyDeletedPost(uuid.UUID)                     { n.record("post.deleted") }
