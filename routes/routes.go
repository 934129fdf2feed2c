package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"threads/config"
	"threads/handlers"
	"threads/middleware"
	"threads/store"
)

// Setup assembles the engine: CORS for the configured frontend origin,
// the public auth endpoints, and everything else behind the session
// middleware.
func Setup(cfg *config.Config, st store.Store, h *handlers.Handler) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	api.POST("/users/signin", h.Signin)
	api.POST("/users/login", h.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWTSecret, st))

	protected.POST("/users/logout", h.Logout)
	protected.GET("/users/me", h.MyInfo)
	protected.GET("/users/:id", h.UserDetails)
	protected.GET("/users/search/:query", h.SearchUsers)
	protected.PUT("/users/follow/:id", h.FollowUser)
	protected.PUT("/users/update", h.UpdateProfile)

	protected.POST("/posts", h.AddPost)
	protected.GET("/posts", h.AllPosts)
	protected.GET("/posts/:id", h.SinglePost)
	protected.DELETE("/posts/:id", h.DeletePost)
	protected.PUT("/posts/like/:id", h.LikePost)
	protected.PUT("/posts/repost/:id", h.Repost)
	protected.POST("/posts/comment/:id", h.AddComment)
	protected.DELETE("/posts/comment/:postId/:id", h.DeleteComment)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"msg": "Endpoint not found", "path": c.Request.URL.Path})
	})

	return router
}
