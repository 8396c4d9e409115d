package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vedran77/quill/internal/transport/http/handlers"
	"github.com/vedran77/quill/internal/transport/http/middleware"
)

// Deps carries everything the route table needs.
type Deps struct {
	Users     *handlers.UserHandler
	Posts     *handlers.PostHandler
	Reactions *handlers.ReactionHandler
	Comments  *handlers.CommentHandler

	Auth        middleware.Authenticator
	AuthLimiter middleware.Limiter
	// WS upgrades /ws; nil leaves the route unmounted.
	WS http.Handler

	AllowedOrigins []string
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	r.Get("/health", handlers.Health)
	if d.WS != nil {
		r.Handle("/ws", d.WS)
	}

	auth := middleware.Auth(d.Auth)
	limit := middleware.RateLimit(d.AuthLimiter)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.With(limit).Post("/signup", d.Users.Signup)
			r.With(limit).Post("/login", d.Users.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/logout", d.Users.Logout)
				r.Get("/profile", d.Users.Profile)
				r.Get("/", d.Users.List)
			})
		})

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", d.Posts.List)
			r.Get("/user/{userId}", d.Posts.ListByUser)
			r.Get("/{id}", d.Posts.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", d.Posts.Create)
				r.Put("/{id}", d.Posts.Update)
				r.Delete("/{id}", d.Posts.Delete)
				r.Post("/{id}/like", d.Reactions.Like)
				r.Post("/{id}/dislike", d.Reactions.Dislike)
				r.Post("/{id}/comments", d.Comments.Add)
				r.Delete("/{id}/comments/{commentId}", d.Comments.Delete)
			})
		})
	})

	return r
}
