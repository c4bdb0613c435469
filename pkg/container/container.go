package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"bookcatalog-backend/internal/config"
	infraCache "bookcatalog-backend/internal/infrastructure/cache"
	"bookcatalog-backend/internal/infrastructure/database"
	"bookcatalog-backend/pkg/cache"
	"bookcatalog-backend/pkg/jwt"

	"bookcatalog-backend/internal/domains/catalog"
	catalogHandler "bookcatalog-backend/internal/domains/catalog/handler"
	catalogRepo "bookcatalog-backend/internal/domains/catalog/repository"
	catalogService "bookcatalog-backend/internal/domains/catalog/service"
	"bookcatalog-backend/internal/domains/user"
	userHandler "bookcatalog-backend/internal/domains/user/handler"
	userRepo "bookcatalog-backend/internal/domains/user/repository"
	userService "bookcatalog-backend/internal/domains/user/service"
)

// Container holds every dependency of the application and is the root
// of the dependency graph. All members are singletons initialized once
// at startup and read-only afterwards.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// Repositories
	UserRepo    user.Repository
	CatalogRepo catalog.Repository

	// Services
	AuthService    user.Service
	CatalogService catalog.Service

	// Handlers
	AuthHandler         *userHandler.AuthHandler
	BookHandler         *catalogHandler.BookHandler
	ImportExportHandler *catalogHandler.ImportExportHandler

	redisCache *infraCache.RedisCache
}

// NewContainer initializes the dependency graph in order:
// config → infrastructure → repositories → services → handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	c.DB = database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Redis is optional; without it reads simply skip the cache.
	if cfg.Redis.Enabled {
		redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, falling back to no-op cache")
			c.Cache = cache.NewNoop()
		} else {
			c.Cache = redisCache
			c.redisCache = redisCache
		}
	} else {
		c.Cache = cache.NewNoop()
	}

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
	)

	c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool)
	c.CatalogRepo = catalogRepo.NewPostgresRepository(c.DB.Pool, c.Cache)

	c.AuthService = userService.NewAuthService(c.UserRepo, c.JWTManager)
	c.CatalogService = catalogService.NewBookService(c.CatalogRepo)

	c.AuthHandler = userHandler.NewAuthHandler(c.AuthService)
	c.BookHandler = catalogHandler.NewBookHandler(c.CatalogService)
	c.ImportExportHandler = catalogHandler.NewImportExportHandler(c.CatalogService)

	log.Info().Str("environment", cfg.App.Environment).Msg("Container initialized")
	return c, nil
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.redisCache != nil {
		if err := c.redisCache.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
