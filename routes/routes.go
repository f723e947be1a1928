package routes

import (
	"time"

	"ripple/handlers"
	"ripple/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
			"ws":     "WebSocket feed available at /ws",
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080", "http://127.0.0.1:8080", "http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes; auth endpoints are rate limited
	authLimiter := middleware.NewIPRateLimiter(20, time.Minute)
	router.POST("/api/signup", middleware.RateLimit(authLimiter), handlers.Signup)
	router.POST("/api/login", middleware.RateLimit(authLimiter), handlers.Login)
	router.POST("/api/forgot-password", middleware.RateLimit(authLimiter), handlers.ForgotPassword)
	router.POST("/api/reset-password", middleware.RateLimit(authLimiter), handlers.ResetPassword)

	// The feed is readable without signing in
	router.GET("/api/feed", handlers.GetFeed)

	router.GET("/api/vapid-public-key", handlers.GetVapidPublicKey)

	// Protected routes group
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	// Profile
	protected.GET("/me", handlers.GetMyProfile)
	protected.PUT("/me", handlers.UpdateMyProfile)
	protected.PUT("/me/avatar", handlers.UpdateAvatar)
	protected.DELETE("/me/avatar", handlers.RemoveAvatar)

	// Posts
	protected.POST("/post", handlers.CreatePost)
	protected.PUT("/post/:id", handlers.UpdatePost)
	protected.DELETE("/post/:id", handlers.DeletePost)

	// Likes and comments
	protected.POST("/post/:id/like", handlers.ToggleLike)
	protected.POST("/post/:id/comment", handlers.AddComment)

	// Push subscriptions
	protected.POST("/subscribe", handlers.SubscribePush)

	// JSON 404 for unknown API routes
	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
