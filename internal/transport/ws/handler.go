package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"slices"

	"github.com/vedran77/quill/internal/domain"
	"github.com/vedran77/quill/internal/service"
	"nhooyr.io/websocket"
)

// Authenticator resolves the ?token= credential to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// ServeWS returns an HTTP handler that upgrades to WebSocket.
// Auth is done via ?token=xxx query param (browsers can't set headers on the upgrade).
// An empty originPatterns list, or one containing "*", accepts any origin.
func ServeWS(ctx context.Context, hub *Hub, auth Authenticator, originPatterns []string) http.HandlerFunc {
	opts := &websocket.AcceptOptions{}
	if len(originPatterns) == 0 || slices.Contains(originPatterns, "*") {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = originPatterns
	}

	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "no credential supplied", http.StatusUnauthorized)
			return
		}

		user, err := auth.Authenticate(r.Context(), tokenStr)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidToken):
				http.Error(w, "invalid credential", http.StatusUnauthorized)
			case errors.Is(err, service.ErrUserNotFound):
				http.Error(w, "user not found", http.StatusNotFound)
			default:
				log.Printf("ERROR ws authenticate: %v", err)
				http.Error(w, "Something went wrong", http.StatusInternalServerError)
			}
			return
		}

		conn, err := websocket.Accept(w, r, opts)
		if err != nil {
			log.Printf("ws: accept error: %v", err)
			return
		}

		client := NewClient(hub, conn, user.ID)
		if !hub.Register(client) {
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}

		// The request context ends with the handler, so pumps run on the server's.
		go client.WritePump(ctx)
		go client.ReadPump(ctx)
	}
}
