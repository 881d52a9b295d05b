package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/metrics"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ClientIP(),
		middleware.CORS(c.Config.App.FrontendOrigin),
		middleware.SecurityHeaders(),
		middleware.Metrics(c.Metrics),
	)

	router.GET("/", rootHandler(c))
	router.GET("/health", healthCheckHandler(c))
	if c.Config.Metrics.Enabled && c.Registry != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(c.Registry)))
	}

	api := router.Group("/api")
	{
		setupAuthRoutes(api, c)
		setupPostRoutes(api, c)
		setupCommentRoutes(api, c)
		setupImageRoutes(api, c)
	}

	router.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "Route not found")
	})

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(api *gin.RouterGroup, c *container.Container) {
	requireAuth := middleware.Authenticate(c.JWTManager, c.RevocationChecker())

	auth := api.Group("/auth")
	{
		auth.GET("/test", c.AuthHandler.Test)

		limited := auth.Group("")
		if c.AuthLimiter != nil {
			limited.Use(c.AuthLimiter.Middleware())
		}
		limited.POST("/register", c.AuthHandler.Register)
		limited.POST("/login", c.AuthHandler.Login)

		auth.POST("/logout", requireAuth, c.AuthHandler.Logout)
		auth.GET("/profile", requireAuth, c.AuthHandler.Profile)
		auth.PUT("/profile", requireAuth, c.AuthHandler.UpdateProfile)
	}
}

// ========================================
// POST ROUTES
// ========================================
func setupPostRoutes(api *gin.RouterGroup, c *container.Container) {
	requireAuth := middleware.Authenticate(c.JWTManager, c.RevocationChecker())
	optionalAuth := middleware.OptionalAuth(c.JWTManager, c.RevocationChecker())
	bodyLimit := middleware.BodyLimit(c.Config.Upload.MaxSize)

	posts := api.Group("/posts")
	{
		posts.GET("", optionalAuth, c.PostHandler.List)
		// Must be registered before /:slug.
		posts.GET("/user/me", requireAuth, c.PostHandler.ListMine)
		posts.GET("/:slug", optionalAuth, c.PostHandler.GetBySlug)

		posts.POST("", requireAuth, bodyLimit, c.PostHandler.Create)
		posts.PUT("/:id", requireAuth, bodyLimit, c.PostHandler.Update)
		posts.DELETE("/:id", requireAuth, c.PostHandler.Delete)
	}
}

// ========================================
// COMMENT ROUTES
// ========================================
func setupCommentRoutes(api *gin.RouterGroup, c *container.Container) {
	requireAuth := middleware.Authenticate(c.JWTManager, c.RevocationChecker())

	comments := api.Group("/comments")
	{
		comments.GET("", middleware.OptionalAuth(c.JWTManager, c.RevocationChecker()), c.CommentHandler.List)
		comments.POST("", requireAuth, c.CommentHandler.Create)
		comments.PUT("/:id", requireAuth, c.CommentHandler.Update)
		comments.DELETE("/:id", requireAuth, c.CommentHandler.Delete)
	}
}

// ========================================
// IMAGE ROUTES
// ========================================
func setupImageRoutes(api *gin.RouterGroup, c *container.Container) {
	images := api.Group("/images")
	{
		images.GET("/url/:fileId", c.ImageHandler.URL)
		images.GET("/info/:fileId", c.ImageHandler.Info)
		images.GET("/download/:fileId", c.ImageHandler.Download)
		images.GET("/:fileId", c.ImageHandler.Serve)
	}
}

// ========================================
// ROOT & HEALTH
// ========================================

func rootHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, http.StatusOK, appCtx.Config.App.Name+" is running", gin.H{
			"version":     appCtx.Config.App.Version,
			"environment": appCtx.Config.App.Environment,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":      "ok",
			"environment": appCtx.Config.App.Environment,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		}

		// Check database
		dbStatus := gin.H{"status": "ok"}
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus["status"] = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.Ping(ctx); err != nil {
				dbStatus["status"] = "error"
				dbStatus["error"] = err.Error()
				health["status"] = "degraded"
			} else if stats, err := appCtx.DB.Stats(); err == nil {
				dbStatus["pool"] = stats
			}
		}

		// Check redis
		redisStatus := gin.H{"status": "disabled"}
		if appCtx.Cache != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus["status"] = "error"
				redisStatus["error"] = err.Error()
				health["status"] = "degraded"
			} else {
				redisStatus["status"] = "ok"
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if health["status"] != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
