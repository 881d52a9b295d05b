package container

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"blog-backend/internal/attachment"
	"blog-backend/internal/config"
	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/infrastructure/identity"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared/metrics"
	"blog-backend/internal/shared/middleware"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"
	"blog-backend/pkg/logger"

	"blog-backend/internal/domains/auth"
	authHandler "blog-backend/internal/domains/auth/handler"
	authRepo "blog-backend/internal/domains/auth/repository"
	authService "blog-backend/internal/domains/auth/service"

	"blog-backend/internal/domains/post"
	postHandler "blog-backend/internal/domains/post/handler"
	postRepo "blog-backend/internal/domains/post/repository"
	postService "blog-backend/internal/domains/post/service"

	"blog-backend/internal/domains/comment"
	commentHandler "blog-backend/internal/domains/comment/handler"
	commentRepo "blog-backend/internal/domains/comment/repository"
	commentService "blog-backend/internal/domains/comment/service"

	"blog-backend/internal/domains/image"
	imageHandler "blog-backend/internal/domains/image/handler"
	imageService "blog-backend/internal/domains/image/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Every field is built once
// at startup and shared read-only by all requests.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient // nil when REDIS_ENABLED=false
	Cache      cache.Cache             // nil when REDIS_ENABLED=false
	JWTManager *jwt.Manager
	Identity   identity.Provider
	Storage    storage.Storage

	Registry *prometheus.Registry
	Metrics  metrics.Recorder

	Stager      *attachment.Stager
	Attachments *attachment.Manager
	Sweeper     *attachment.Sweeper
	AuthLimiter *middleware.RateLimiter

	// ========================================
	// REPOSITORY LAYER
	// ========================================

	Revocations auth.RevocationRepository // nil without Redis
	PostRepo    post.Repository
	CommentRepo comment.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================

	AuthService    auth.Service
	PostService    post.Service
	CommentService comment.Service
	ImageService   image.Service

	// ========================================
	// HANDLER LAYER
	// ========================================

	AuthHandler    *authHandler.AuthHandler
	PostHandler    *postHandler.PostHandler
	CommentHandler *commentHandler.CommentHandler
	ImageHandler   *imageHandler.ImageHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the whole graph in dependency order:
// infrastructure, repositories, services, handlers.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger.Info("initializing container", map[string]interface{}{"env": cfg.App.Environment})

	c := &Container{Config: cfg}

	// STEP 1: INFRASTRUCTURE
	if err := c.initInfrastructure(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	// STEP 2: REPOSITORIES
	c.initRepositories()

	// STEP 3: SERVICES
	c.initServices()

	// STEP 4: HANDLERS
	c.initHandlers()

	logger.Info("container initialized", nil)
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.Config

	// Metrics first so every component below can record.
	c.Registry = prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		c.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		c.Metrics = metrics.NewCollector(c.Registry)
	} else {
		c.Metrics = metrics.Nop{}
	}

	// ----------------------------------------
	// DATABASE
	// ----------------------------------------
	db := database.NewPostgresDB(cfg.Database.PoolConfig())
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	// ----------------------------------------
	// REDIS (token denylist + post cache)
	// ----------------------------------------
	if cfg.Redis.Enabled {
		rc := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		if err := rc.Connect(ctx); err != nil {
			// Logout would silently stop revoking tokens, so this is fatal.
			_ = rc.Close()
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.Redis = rc
		c.Cache = infraCache.NewRedisCache(rc.Client, "blog:")
	} else {
		logger.Warn("redis disabled: logout will not revoke issued tokens", nil)
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Lifetime)

	// ----------------------------------------
	// IDENTITY PROVIDER
	// ----------------------------------------
	switch cfg.Identity.Driver {
	case config.IdentityPostgres:
		c.Identity = identity.NewPostgresProvider(db.Pool)
	default:
		c.Identity = identity.NewAppwriteProvider(cfg.Identity)
	}
	logger.Info("identity provider configured", map[string]interface{}{"driver": cfg.Identity.Driver})

	// ----------------------------------------
	// BLOB STORAGE
	// ----------------------------------------
	switch cfg.Storage.Driver {
	case config.StorageS3:
		c.Storage = storage.NewS3Storage(cfg.Storage)
	default:
		minioStorage, err := storage.NewMinIOStorage(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to init blob storage: %w", err)
		}
		c.Storage = minioStorage
	}
	logger.Info("blob storage configured", map[string]interface{}{
		"driver": cfg.Storage.Driver,
		"bucket": cfg.Storage.Bucket,
	})

	// ----------------------------------------
	// ATTACHMENTS
	// ----------------------------------------
	stager, err := attachment.NewStager(cfg.Upload.StagingDir, cfg.Upload.MaxSize)
	if err != nil {
		return fmt.Errorf("failed to init upload staging: %w", err)
	}
	c.Stager = stager
	c.Attachments = attachment.NewManager(c.Storage, c.Metrics)

	sweeper, err := attachment.NewSweeper(stager.Dir(), cfg.Upload.SweepMaxAge, cfg.Upload.SweepInterval)
	if err != nil {
		return fmt.Errorf("invalid UPLOAD_SWEEP_INTERVAL: %w", err)
	}
	c.Sweeper = sweeper

	c.AuthLimiter = middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimit.AuthPerMinute))

	return nil
}

func (c *Container) initRepositories() {
	if c.Cache != nil {
		c.Revocations = authRepo.NewRevocationRepository(c.Cache)
	}
	c.PostRepo = postRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
	c.CommentRepo = commentRepo.NewPostgresRepository(c.DB.Pool)
}

func (c *Container) initServices() {
	c.AuthService = authService.NewAuthService(c.Identity, c.JWTManager, c.Revocations, c.Metrics)
	c.PostService = postService.NewPostService(c.PostRepo, c.Attachments)
	c.CommentService = commentService.NewCommentService(c.CommentRepo, c.PostRepo)
	c.ImageService = imageService.NewImageService(c.Storage)
}

func (c *Container) initHandlers() {
	c.AuthHandler = authHandler.NewAuthHandler(c.AuthService)
	c.PostHandler = postHandler.NewPostHandler(c.PostService, c.Stager)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService)
	c.ImageHandler = imageHandler.NewImageHandler(c.ImageService)
}

// RevocationChecker returns the denylist as the middleware sees it, or a
// nil interface when revocation is disabled.
func (c *Container) RevocationChecker() middleware.RevocationChecker {
	if c.Revocations == nil {
		return nil
	}
	return c.Revocations
}

// ========================================
// LIFECYCLE
// ========================================

// Start launches background jobs.
func (c *Container) Start() {
	if c.Sweeper != nil {
		c.Sweeper.Start()
	}
}

// Cleanup releases resources on shutdown. Safe on a partially built container.
func (c *Container) Cleanup() {
	logger.Info("cleaning up container resources", nil)

	if c.Sweeper != nil {
		c.Sweeper.Stop()
	}
	if c.AuthLimiter != nil {
		c.AuthLimiter.Stop()
	}
	if c.DB != nil {
		c.DB.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
}
