package http

import (
	"github.com/gin-gonic/gin"

	"github.com/skillswap24/skillswap-backend/internal/delivery/http/handler"
	"github.com/skillswap24/skillswap-backend/internal/delivery/http/middleware"
)

type Router struct {
	authHandler    *handler.AuthHandler
	swapHandler    *handler.SwapHandler
	feedHandler    *handler.FeedHandler
	authMiddleware *middleware.AuthMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	swapHandler *handler.SwapHandler,
	feedHandler *handler.FeedHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		authHandler:    authHandler,
		swapHandler:    swapHandler,
		feedHandler:    feedHandler,
		authMiddleware: authMiddleware,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/logout", r.authMiddleware.RequireAuth(), r.authHandler.Logout)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			// Swap negotiation routes
			swaps := protected.Group("/swaps")
			{
				swaps.POST("", r.swapHandler.Request)
				swaps.GET("", r.swapHandler.ListMine)
				swaps.GET("/incoming", r.swapHandler.ListIncoming)
				swaps.GET("/:id", r.swapHandler.GetByID)
				swaps.POST("/:id/accept", r.swapHandler.Accept)
				swaps.POST("/:id/reject", r.swapHandler.Reject)
				swaps.POST("/:id/schedule", r.swapHandler.Schedule)
				swaps.POST("/:id/complete", r.swapHandler.Complete)
				swaps.POST("/:id/cancel", r.swapHandler.Cancel)
				swaps.POST("/:id/conversation/retry", r.swapHandler.RetryConversation)
			}

			// Feed routes
			feed := protected.Group("/feed")
			{
				feed.GET("/recommendations", r.feedHandler.Recommendations)
				feed.GET("/candidates/:user_id", r.feedHandler.Candidate)
			}
		}

		// System routes, called by the scheduler collaborator when a
		// session's date arrives. Deployments keep /internal off the
		// public ingress.
		internal := v1.Group("/internal")
		{
			internal.POST("/swaps/:id/begin", r.swapHandler.Begin)
		}
	}

	return router
}
