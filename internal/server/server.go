// Package server contains the HTTP handlers and wiring for the LinkSphere API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"linksphere/internal/config"
	"linksphere/internal/database"
	"linksphere/internal/media"
	"linksphere/internal/middleware"
	"linksphere/internal/models"
	"linksphere/internal/notifications"
	"linksphere/internal/redisclient"
	"linksphere/internal/repository"
	"linksphere/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo repository.UserRepository
	notifier *notifications.Notifier
	store    media.Store

	networkService    *service.NetworkService
	postService       *service.PostService
	engagementService *service.EngagementService
	commentService    *service.CommentService
	profileService    *service.ProfileService
	mediaService      *service.MediaService
}

// NewServer connects to the database and Redis, applies the schema and builds
// the media store selected by the config.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.ApplySchema(db, cfg); err != nil {
		return nil, fmt.Errorf("schema setup failed: %w", err)
	}

	// May be nil when Redis is unreachable.
	rdb := redisclient.Connect(cfg.RedisURL)

	store, err := media.NewStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("media store setup failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, rdb, store)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil Redis client disables event publication and Redis-backed rate limits.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client, store media.Store) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	connRepo := repository.NewConnectionRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          rdb,
		promMiddleware: middleware.InitMetrics("linksphere-api"),
		userRepo:       userRepo,
		store:          store,
	}

	var events service.EventPublisher
	if rdb != nil {
		s.notifier = notifications.NewNotifier(rdb)
		events = s.notifier
	}

	s.networkService = service.NewNetworkService(connRepo, userRepo, events)
	s.postService = service.NewPostService(postRepo)
	s.engagementService = service.NewEngagementService(engagementRepo, postRepo, events)
	s.commentService = service.NewCommentService(commentRepo, postRepo, events)
	s.profileService = service.NewProfileService(profileRepo)
	s.mediaService = service.NewMediaService(store, cfg.MaxUploadBytes())

	return s, nil
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "LinkSphere API",
		BodyLimit:    int(s.config.MaxUploadBytes()) + 1024*1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		// Uploaded media is fetched by browser clients on other origins.
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if fs, ok := s.store.(*media.FileSystemStore); ok {
		app.Static(strings.TrimSuffix(media.PublicPrefix, "/"), fs.Dir(), fiber.Static{ByteRange: true})
	}

	api := app.Group("/api", middleware.AuthRequired(middleware.AuthConfig{
		Secret:   s.config.JWTSecret,
		Issuer:   s.config.JWTIssuer,
		Audience: s.config.JWTAudience,
	}, s.userRepo))

	network := api.Group("/network")
	network.Get("/connections", s.ListConnections)
	network.Get("/suggestions", s.GetSuggestions)
	network.Post("/connect/:userId", middleware.RateLimit(
		s.redis, 30, time.Minute, "connect"), s.Connect)
	network.Delete("/disconnect/:userId", s.Disconnect)

	posts := api.Group("/posts")
	posts.Get("/", s.ListPosts)
	posts.Get("/search", middleware.RateLimit(
		s.redis, 30, time.Minute, "search"), s.SearchPosts)
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Post("/upload", middleware.RateLimit(
		s.redis, 10, time.Minute, "upload"), s.UploadMedia)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Post("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Post("/:id/save", s.SavePost)
	posts.Delete("/:id/save", s.UnsavePost)
	posts.Get("/:id/comments", s.ListComments)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 20, time.Minute, "create_comment"), s.AddComment)
	posts.Delete("/:postId/comments/:commentId", s.DeleteComment)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	api.Get("/users/:id/posts", s.ListUserPosts)

	profile := api.Group("/profile")
	profile.Get("/", s.GetProfile)
	profile.Put("/", s.UpsertProfile)
	profile.Post("/", s.UpsertProfile)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional, so
// only the database decides readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	if s.notifier != nil {
		go func() {
			err := s.notifier.StartUserSubscriber(s.shutdownCtx, func(channel, payload string) {
				middleware.Logger.Debug("event delivered",
					slog.String("channel", channel),
					slog.Int("bytes", len(payload)),
				)
			})
			if err != nil {
				middleware.Logger.Warn("event subscriber failed to start", slog.String("error", err.Error()))
			}
		}()
	}

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
