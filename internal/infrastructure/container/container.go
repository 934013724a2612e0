package container

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/skillswap24/skillswap-backend/internal/config"
	"github.com/skillswap24/skillswap-backend/internal/delivery/http"
	"github.com/skillswap24/skillswap-backend/internal/delivery/http/handler"
	"github.com/skillswap24/skillswap-backend/internal/delivery/http/middleware"
	"github.com/skillswap24/skillswap-backend/internal/infrastructure/database"
	"github.com/skillswap24/skillswap-backend/internal/infrastructure/gemini"
	"github.com/skillswap24/skillswap-backend/internal/infrastructure/server"
	"github.com/skillswap24/skillswap-backend/internal/projection"
	"github.com/skillswap24/skillswap-backend/internal/repository"
	"github.com/skillswap24/skillswap-backend/internal/repository/memory"
	"github.com/skillswap24/skillswap-backend/internal/repository/postgres"
	"github.com/skillswap24/skillswap-backend/internal/usecase/auth"
	"github.com/skillswap24/skillswap-backend/internal/usecase/conversation"
	"github.com/skillswap24/skillswap-backend/internal/usecase/feed"
	"github.com/skillswap24/skillswap-backend/internal/usecase/matching"
	"github.com/skillswap24/skillswap-backend/internal/usecase/swap"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Gemini *gemini.Client
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	var (
		db          *sqlx.DB
		redisClient *redis.Client

		userRepo    repository.UserRepository
		swapRepo    repository.SwapRepository
		convRepo    repository.ConversationRepository
		sessionRepo repository.SessionRepository

		store projection.Store
	)

	if cfg.IsDev() {
		// Dev mode runs entirely in-memory: no postgres or redis needed.
		userRepo = memory.NewUserRepository()
		swapRepo = memory.NewSwapRepository()
		convRepo = memory.NewConversationRepository()
		sessionRepo = memory.NewSessionRepository()
		store = projection.NewMemoryStore()
	} else {
		var err error
		db, err = database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}

		redisClient, err = database.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}

		userRepo = postgres.NewUserRepository(db)
		swapRepo = postgres.NewSwapRepository(db)
		convRepo = postgres.NewConversationRepository(db)
		sessionRepo = postgres.NewSessionRepository(db)
		store = projection.NewRedisStore(redisClient, cfg.Redis.ProjectionTTL)
	}

	// Gemini is best-effort: the orchestrator falls back to plain seed
	// messages when it is unavailable.
	var geminiClient *gemini.Client
	if cfg.GeminiAPIKey != "" {
		var err error
		geminiClient, err = gemini.NewClient(cfg.GeminiAPIKey)
		if err != nil {
			fmt.Printf("Warning: Failed to initialize Gemini client: %v\n", err)
			geminiClient = nil
		}
	}

	// Use cases
	matcher := matching.NewEngine()

	swapUseCase := swap.NewUseCase(swapRepo, userRepo)
	orchestrator := conversation.NewOrchestrator(convRepo, geminiClient)
	swapUseCase.Subscribe(orchestrator)

	feedUseCase := feed.NewUseCase(userRepo, swapRepo, matcher)
	authUseCase := auth.NewUseCase(userRepo, sessionRepo, cfg.JWT.Secret)

	view := projection.NewSwapProjection(store)

	// Handlers
	authHandler := handler.NewAuthHandler(authUseCase)
	swapHandler := handler.NewSwapHandler(swapUseCase, orchestrator, view)
	feedHandler := handler.NewFeedHandler(feedUseCase)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	// Router
	router := http.NewRouter(
		authHandler,
		swapHandler,
		feedHandler,
		authMiddleware,
	)

	ginRouter := router.Setup()

	srv := server.NewServer(&cfg.Server, ginRouter)

	return &Container{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		Server: srv,
		Gemini: geminiClient,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		c.Gemini.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			fmt.Printf("Error closing Redis: %v\n", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
