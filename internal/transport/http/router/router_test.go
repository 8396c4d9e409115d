package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vedran77/quill/internal/repository/memory"
	"github.com/vedran77/quill/internal/service"
	"github.com/vedran77/quill/internal/transport/http/handlers"
	"github.com/vedran77/quill/internal/transport/http/middleware"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type api struct {
	t *testing.T
	h http.Handler
}

func newAPI(t *testing.T, authLimit int) *api {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := memory.NewStore()
	users := memory.NewUserRepo(store)
	posts := memory.NewPostRepo(store)
	comments := memory.NewCommentRepo(store)
	reactions := memory.NewReactionRepo(store)

	auth := service.NewAuthService(users, "router-test-secret", time.Hour)
	h := New(Deps{
		Users:          handlers.NewUserHandler(auth, true),
		Posts:          handlers.NewPostHandler(service.NewPostService(posts, comments, reactions, users), true),
		Reactions:      handlers.NewReactionHandler(service.NewReactionService(reactions), true),
		Comments:       handlers.NewCommentHandler(service.NewCommentService(comments, posts), true),
		Auth:           auth,
		AuthLimiter:    middleware.NewMemoryLimiter(ctx, authLimit, time.Minute),
		AllowedOrigins: []string{"*"},
	})
	return &api{t: t, h: h}
}

func (a *api) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env
}

func (a *api) signup(username string) (token, id string) {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/users/signup", "", map[string]string{
		"name":        "User " + username,
		"email":       username + "@example.com",
		"password":    "pw-" + username,
		"profile_url": "https://img.example/" + username,
		"gender":      "male",
		"address":     "Somewhere 1",
		"username":    username,
	})
	if code != http.StatusCreated {
		a.t.Fatalf("signup %s: %d %+v", username, code, env)
	}
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(a.t, env.Data, &data)
	return data.Token, data.User.ID
}

func decode(t *testing.T, raw json.RawMessage, dst any) {
	t.Helper()
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
}

func TestHealth(t *testing.T) {
	a := newAPI(t, 100)
	code, env := a.do(http.MethodGet, "/health", "", nil)
	if code != http.StatusOK || !env.Status || env.Message != "ok" {
		t.Errorf("health = %d %+v", code, env)
	}
}

func TestUserEndpoints(t *testing.T) {
	a := newAPI(t, 100)
	anaToken, anaID := a.signup("ana")
	a.signup("ben")

	code, env := a.do(http.MethodPost, "/api/users/signup", "", map[string]string{
		"name": "Again", "email": "ana@example.com", "password": "x", "profile_url": "u",
		"gender": "female", "address": "a", "username": "ana2",
	})
	if code != http.StatusBadRequest || env.Status {
		t.Errorf("duplicate signup = %d %+v", code, env)
	}

	code, env = a.do(http.MethodPost, "/api/users/signup", "", map[string]string{"name": "Incomplete"})
	if code != http.StatusBadRequest || env.Error == "" {
		t.Errorf("incomplete signup = %d %+v", code, env)
	}

	code, _ = a.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ana@example.com", "password": "bad"})
	if code != http.StatusUnauthorized {
		t.Errorf("bad login = %d", code)
	}
	code, _ = a.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ana@example.com", "password": "pw-ana"})
	if code != http.StatusOK {
		t.Errorf("login = %d", code)
	}

	code, _ = a.do(http.MethodPost, "/api/users/login", "", "{not json")
	if code != http.StatusBadRequest {
		t.Errorf("malformed body = %d", code)
	}

	code, env = a.do(http.MethodGet, "/api/users/profile", anaToken, nil)
	var profile struct {
		ID           string `json:"id"`
		PasswordHash string `json:"password_hash"`
	}
	decode(t, env.Data, &profile)
	if code != http.StatusOK || profile.ID != anaID || profile.PasswordHash != "" {
		t.Errorf("profile = %d %s", code, env.Data)
	}

	code, env = a.do(http.MethodGet, "/api/users", anaToken, nil)
	var others []struct {
		Username string `json:"username"`
	}
	decode(t, env.Data, &others)
	if code != http.StatusOK || len(others) != 1 || others[0].Username != "ben" {
		t.Errorf("users = %d %s", code, env.Data)
	}

	if code, _ := a.do(http.MethodGet, "/api/users/profile", "", nil); code != http.StatusUnauthorized {
		t.Errorf("ungated profile = %d", code)
	}
	if code, _ := a.do(http.MethodPost, "/api/users/logout", anaToken, nil); code != http.StatusOK {
		t.Errorf("logout = %d", code)
	}
}

func TestBlogLifecycle(t *testing.T) {
	a := newAPI(t, 100)
	aliceToken, aliceID := a.signup("alice")
	bobToken, _ := a.signup("bob")

	code, env := a.do(http.MethodPost, "/api/blogs", "", map[string]any{"title": "x"})
	if code != http.StatusUnauthorized {
		t.Fatalf("ungated create = %d", code)
	}

	code, env = a.do(http.MethodPost, "/api/blogs", aliceToken, map[string]any{
		"title": "Go tips", "description": "Short ones", "content": "Use interfaces sparingly",
		"tags": []string{"Go", "tips"}, "is_published": true,
	})
	if code != http.StatusCreated {
		t.Fatalf("create = %d %+v", code, env)
	}
	var post struct {
		ID       string   `json:"id"`
		AuthorID string   `json:"author_id"`
		Tags     []string `json:"tags"`
	}
	decode(t, env.Data, &post)
	if post.AuthorID != aliceID || len(post.Tags) != 2 || post.Tags[0] != "go" {
		t.Errorf("created post = %s", env.Data)
	}

	code, _ = a.do(http.MethodPost, "/api/blogs", aliceToken, map[string]any{"title": "No body"})
	if code != http.StatusBadRequest {
		t.Errorf("incomplete create = %d", code)
	}

	// Reactions
	code, env = a.do(http.MethodPost, "/api/blogs/"+post.ID+"/like", bobToken, nil)
	var counts struct{ Likes, Dislikes int }
	decode(t, env.Data, &counts)
	if code != http.StatusOK || env.Message != "Blog liked successfully!" || counts.Likes != 1 || counts.Dislikes != 0 {
		t.Errorf("like = %d %+v", code, env)
	}
	code, env = a.do(http.MethodPost, "/api/blogs/"+post.ID+"/dislike", bobToken, nil)
	decode(t, env.Data, &counts)
	if code != http.StatusOK || env.Message != "Blog disliked successfully!" || counts.Likes != 0 || counts.Dislikes != 1 {
		t.Errorf("dislike = %d %+v", code, env)
	}
	code, env = a.do(http.MethodPost, "/api/blogs/"+post.ID+"/dislike", bobToken, nil)
	if code != http.StatusOK || env.Message != "Blog undisliked successfully!" {
		t.Errorf("undislike = %d %+v", code, env)
	}

	// Comments
	code, env = a.do(http.MethodPost, "/api/blogs/"+post.ID+"/comments", bobToken, map[string]string{"content": "Great"})
	if code != http.StatusCreated {
		t.Fatalf("comment = %d %+v", code, env)
	}
	var comment struct {
		ID string `json:"id"`
	}
	decode(t, env.Data, &comment)

	code, env = a.do(http.MethodGet, "/api/blogs/"+post.ID, "", nil)
	var detail struct {
		Comments []struct {
			Content string `json:"content"`
		} `json:"comments"`
		Likes []any `json:"likes"`
	}
	decode(t, env.Data, &detail)
	if code != http.StatusOK || len(detail.Comments) != 1 || detail.Likes == nil {
		t.Errorf("detail = %d %s", code, env.Data)
	}

	// Owner gates
	code, _ = a.do(http.MethodPut, "/api/blogs/"+post.ID, bobToken, map[string]string{"title": "Mine now"})
	if code != http.StatusForbidden {
		t.Errorf("non-owner update = %d", code)
	}
	code, env = a.do(http.MethodPut, "/api/blogs/"+post.ID, aliceToken, map[string]string{"title": "Go tips, revised"})
	var updated struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	decode(t, env.Data, &updated)
	if code != http.StatusOK || updated.Title != "Go tips, revised" || updated.Description != "Short ones" {
		t.Errorf("owner update = %d %s", code, env.Data)
	}

	code, _ = a.do(http.MethodDelete, "/api/blogs/"+post.ID+"/comments/not-a-uuid", aliceToken, nil)
	if code != http.StatusBadRequest {
		t.Errorf("bad comment id = %d", code)
	}
	code, _ = a.do(http.MethodDelete, "/api/blogs/"+post.ID+"/comments/"+comment.ID, aliceToken, nil)
	if code != http.StatusOK {
		t.Errorf("post owner deleting comment = %d", code)
	}

	code, _ = a.do(http.MethodDelete, "/api/blogs/"+post.ID, bobToken, nil)
	if code != http.StatusForbidden {
		t.Errorf("non-owner delete = %d", code)
	}
	code, _ = a.do(http.MethodDelete, "/api/blogs/"+post.ID, aliceToken, nil)
	if code != http.StatusOK {
		t.Errorf("owner delete = %d", code)
	}
	code, _ = a.do(http.MethodGet, "/api/blogs/"+post.ID, "", nil)
	if code != http.StatusNotFound {
		t.Errorf("get deleted = %d", code)
	}
	code, _ = a.do(http.MethodGet, "/api/blogs/not-a-uuid", "", nil)
	if code != http.StatusBadRequest {
		t.Errorf("malformed id = %d", code)
	}
}

func TestBlogListing(t *testing.T) {
	a := newAPI(t, 100)
	token, userID := a.signup("writer")

	for i := 0; i < 12; i++ {
		_, env := a.do(http.MethodPost, "/api/blogs", token, map[string]any{
			"title": "Post", "description": "d", "content": "c", "is_published": i%4 != 0,
		})
		if !env.Status {
			t.Fatalf("create %d: %+v", i, env)
		}
	}

	tests := []struct {
		path      string
		wantLen   int
		wantTotal int
		wantPages int
	}{
		{"/api/blogs", 10, 12, 2},
		{"/api/blogs?page=2&limit=5", 5, 12, 3},
		{"/api/blogs?page=abc&limit=-1", 10, 12, 2},
		{"/api/blogs?published=true", 9, 9, 1},
		{"/api/blogs?published=false", 3, 3, 1},
		{"/api/blogs/user/" + userID, 9, 9, 1},
		{"/api/blogs?author=" + userID + "&limit=100", 12, 12, 1},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, env := a.do(http.MethodGet, tt.path, "", nil)
			var page struct {
				Blogs      []any `json:"blogs"`
				Total      int   `json:"total"`
				TotalPages int   `json:"totalPages"`
			}
			decode(t, env.Data, &page)
			if code != http.StatusOK || len(page.Blogs) != tt.wantLen || page.Total != tt.wantTotal || page.TotalPages != tt.wantPages {
				t.Errorf("= %d, %d blogs, total %d, pages %d", code, len(page.Blogs), page.Total, page.TotalPages)
			}
		})
	}

	if code, _ := a.do(http.MethodGet, "/api/blogs?author=zzz", "", nil); code != http.StatusBadRequest {
		t.Errorf("bad author filter = %d", code)
	}
}

func TestAuthRateLimit(t *testing.T) {
	a := newAPI(t, 2)
	body := map[string]string{"email": "nobody@example.com", "password": "x"}

	for i := 0; i < 2; i++ {
		if code, _ := a.do(http.MethodPost, "/api/users/login", "", body); code != http.StatusUnauthorized {
			t.Fatalf("attempt %d = %d", i+1, code)
		}
	}
	code, env := a.do(http.MethodPost, "/api/users/login", "", body)
	if code != http.StatusTooManyRequests || env.Status {
		t.Errorf("over limit = %d %+v", code, env)
	}

	if code, _ := a.do(http.MethodGet, "/api/blogs", "", nil); code != http.StatusOK {
		t.Errorf("ungated route limited: %d", code)
	}
}
