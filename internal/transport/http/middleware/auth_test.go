package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/vedran77/quill/internal/domain"
	"github.com/vedran77/quill/internal/service"
	"github.com/vedran77/quill/internal/transport/http/response"
)

type stubAuth struct {
	users map[string]*domain.User
	errs  map[string]error
}

func (s stubAuth) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if err, ok := s.errs[token]; ok {
		return nil, err
	}
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, service.ErrInvalidToken
}

func TestAuthGate(t *testing.T) {
	ana := &domain.User{ID: uuid.New(), Username: "ana"}
	auth := stubAuth{
		users: map[string]*domain.User{"good": ana},
		errs: map[string]error{
			"expired": service.ErrInvalidToken,
			"orphan":  service.ErrUserNotFound,
			"broken":  errors.New("db down"),
		},
	}

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Auth(auth)(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"missing", "", http.StatusUnauthorized, "no credential supplied"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "no credential supplied"},
		{"empty bearer", "Bearer   ", http.StatusUnauthorized, "no credential supplied"},
		{"invalid", "Bearer nope", http.StatusUnauthorized, "invalid credential"},
		{"expired", "Bearer expired", http.StatusUnauthorized, "invalid credential"},
		{"deleted user", "Bearer orphan", http.StatusNotFound, "user not found"},
		{"store failure", "Bearer broken", http.StatusInternalServerError, "Something went wrong"},
		{"ok", "Bearer good", http.StatusNoContent, ""},
		{"ok lower-case scheme", "bearer good", http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantMsg == "" {
				if seen != ana.ID {
					t.Errorf("user in context = %s, want %s", seen, ana.ID)
				}
				return
			}

			var env response.Envelope
			if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
				t.Fatal(err)
			}
			if env.Status || env.Message != tt.wantMsg {
				t.Errorf("envelope = %+v, want message %q", env, tt.wantMsg)
			}
			if seen != uuid.Nil {
				t.Error("next handler ran on a rejected request")
			}
		})
	}
}

func TestCurrentUserWithoutGate(t *testing.T) {
	if u := CurrentUser(context.Background()); u != nil {
		t.Errorf("CurrentUser = %+v, want nil", u)
	}
	if id := GetUserID(context.Background()); id != uuid.Nil {
		t.Errorf("GetUserID = %s, want nil uuid", id)
	}
}
