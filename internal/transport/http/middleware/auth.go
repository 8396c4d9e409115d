package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/vedran77/quill/internal/domain"
	"github.com/vedran77/quill/internal/service"
	"github.com/vedran77/quill/internal/transport/http/response"
)

type contextKey string

const userKey contextKey = "user"

// Authenticator resolves a bearer token to the user it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

func Auth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := BearerToken(r)
			if !ok {
				response.Fail(w, http.StatusUnauthorized, "no credential supplied")
				return
			}

			user, err := auth.Authenticate(r.Context(), tokenStr)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrInvalidToken):
					response.Fail(w, http.StatusUnauthorized, "invalid credential")
				case errors.Is(err, service.ErrUserNotFound):
					response.Fail(w, http.StatusNotFound, "user not found")
				default:
					log.Printf("ERROR authenticate: %v", err)
					response.Fail(w, http.StatusInternalServerError, "Something went wrong")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser returns the user attached by Auth, or nil on ungated routes.
func CurrentUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey).(*domain.User)
	return user
}

// GetUserID extracts user ID from request context
func GetUserID(ctx context.Context) uuid.UUID {
	if user := CurrentUser(ctx); user != nil {
		return user.ID
	}
	return uuid.Nil
}
