package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vedran77/quill/internal/config"
	"github.com/vedran77/quill/internal/database"
	"github.com/vedran77/quill/internal/repository"
	memoryrepo "github.com/vedran77/quill/internal/repository/memory"
	postgresrepo "github.com/vedran77/quill/internal/repository/postgres"
	"github.com/vedran77/quill/internal/service"
	"github.com/vedran77/quill/internal/transport/http/handlers"
	"github.com/vedran77/quill/internal/transport/http/middleware"
	"github.com/vedran77/quill/internal/transport/http/router"
	"github.com/vedran77/quill/internal/transport/ws"
)

type repositories struct {
	users     repository.UserRepository
	posts     repository.PostRepository
	comments  repository.CommentRepository
	reactions repository.ReactionRepository
}

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	repos, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	// Services
	authService := service.NewAuthService(repos.users, cfg.JWTSecret, cfg.TokenTTL)
	postService := service.NewPostService(repos.posts, repos.comments, repos.reactions, repos.users)
	reactionService := service.NewReactionService(repos.reactions)
	commentService := service.NewCommentService(repos.comments, repos.posts)

	// WebSocket Hub
	hub := ws.NewHub()
	go hub.Run(ctx)

	notifier := ws.NewHubNotifier(hub)
	postService.SetNotifier(notifier)
	reactionService.SetNotifier(notifier)
	commentService.SetNotifier(notifier)

	// Rate limiting for signup/login
	limiter, closeLimiter, err := openLimiter(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLimiter()

	// Handlers
	expose := !cfg.Production()
	handler := router.New(router.Deps{
		Users:          handlers.NewUserHandler(authService, expose),
		Posts:          handlers.NewPostHandler(postService, expose),
		Reactions:      handlers.NewReactionHandler(reactionService, expose),
		Comments:       handlers.NewCommentHandler(commentService, expose),
		Auth:           authService,
		AuthLimiter:    limiter,
		WS:             ws.ServeWS(ctx, hub, authService, cfg.CorsAllowedOrigins),
		AllowedOrigins: cfg.CorsAllowedOrigins,
	})

	// WebSocket connections outlive per-request deadlines, so only headers and idle
	// keep-alives are bounded.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s (store=%s, env=%s)", srv.Addr, cfg.Store, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (*repositories, func(), error) {
	switch cfg.Store {
	case "memory":
		log.Println("Using in-memory store")
		store := memoryrepo.NewStore()
		return &repositories{
			users:     memoryrepo.NewUserRepo(store),
			posts:     memoryrepo.NewPostRepo(store),
			comments:  memoryrepo.NewCommentRepo(store),
			reactions: memoryrepo.NewReactionRepo(store),
		}, func() {}, nil

	case "postgres":
		pool, err := database.Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Println("Connected to database")

		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return &repositories{
			users:     postgresrepo.NewUserRepo(pool),
			posts:     postgresrepo.NewPostRepo(pool),
			comments:  postgresrepo.NewCommentRepo(pool),
			reactions: postgresrepo.NewReactionRepo(pool),
		}, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE %q (want postgres or memory)", cfg.Store)
	}
}

func openLimiter(ctx context.Context, cfg *config.Config) (middleware.Limiter, func(), error) {
	if cfg.RedisURL == "" {
		return middleware.NewMemoryLimiter(ctx, cfg.AuthRateLimit, cfg.AuthRateWindow), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		log.Printf("redis unavailable, falling back to in-memory rate limits: %v", err)
		return middleware.NewMemoryLimiter(ctx, cfg.AuthRateLimit, cfg.AuthRateWindow), func() {}, nil
	}
	log.Println("Connected to redis")

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Printf("redis close: %v", err)
		}
	}
	return middleware.NewRedisLimiter(client, "quill:ratelimit:auth", cfg.AuthRateLimit, cfg.AuthRateWindow), closeFn, nil
}
