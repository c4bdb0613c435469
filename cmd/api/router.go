package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookcatalog-backend/internal/shared/middleware"
	"bookcatalog-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	router.GET("/health", healthCheckHandler(c))

	setupAuthRoutes(router, c)
	setupUserRoutes(router, c)
	setupBookRoutes(router, c)

	return router
}

func setupAuthRoutes(router *gin.Engine, c *container.Container) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", c.AuthHandler.Register)
		auth.POST("/token", c.AuthHandler.Token)
	}
}

func setupUserRoutes(router *gin.Engine, c *container.Container) {
	users := router.Group("/users")
	users.Use(middleware.AuthRequired(c.AuthService))
	{
		users.GET("/me", c.AuthHandler.Me)
	}
}

func setupBookRoutes(router *gin.Engine, c *container.Container) {
	authRequired := middleware.AuthRequired(c.AuthService)

	books := router.Group("/books")
	{
		// Public reads
		books.GET("", c.BookHandler.List)
		books.GET("/export", c.ImportExportHandler.Export)
		books.GET("/:id", c.BookHandler.Get)
		books.GET("/:id/recommend", c.BookHandler.Recommend)

		// Mutations require a bearer token
		books.POST("", authRequired, c.BookHandler.Create)
		books.PUT("/:id", authRequired, c.BookHandler.Update)
		books.DELETE("/:id", authRequired, c.BookHandler.Delete)
		books.POST("/import", authRequired, c.ImportExportHandler.Import)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": c.Config.App.Version,
		})
	}
}
