package app

import (
	"github.com/gin-gonic/gin"

	"pixelpals_backend/internal/config"
	"pixelpals_backend/internal/middleware"
	"pixelpals_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware(cfg))
	{
		authorized.GET("/auth/me", c.auth.Me)

		// websocket entry; the token arrives as ?token= for browser clients
		authorized.GET("/ws", c.chat.Connect)
		authorized.GET("/presence/online", c.chat.OnlineUsers)

		users := authorized.Group("/users")
		{
			users.GET("/search", c.user.Search)
			users.GET("/id/:id", c.user.GetByID)
			users.GET("/:username", c.user.GetByUsername)
			users.PUT("/profile", c.user.UpdateProfile)
			users.PUT("/preferred-games", c.user.SetPreferredGames)
			users.PUT("/platforms", c.user.SetPlatforms)
			users.PUT("/skill-level", c.user.SetSkillLevel)
		}

		catalog := authorized.Group("/catalog")
		{
			catalog.GET("/games", c.user.ListGames)
			catalog.GET("/platforms", c.user.ListPlatforms)
		}

		friends := authorized.Group("/friends")
		{
			friends.POST("/requests", c.friendship.SendRequest)
			friends.PUT("/requests/:id/accept", c.friendship.Accept)
			friends.PUT("/requests/:id/reject", c.friendship.Reject)
			friends.DELETE("/:userId", c.friendship.Remove)
			friends.GET("", c.friendship.ListFriends)
			friends.GET("/requests/pending", c.friendship.ListPending)
			friends.GET("/requests/sent", c.friendship.ListSent)
			friends.GET("/status/:userId", c.friendship.StatusWith)
		}

		matches := authorized.Group("/matches")
		{
			matches.POST("/find", c.match.FindMatches)
			matches.POST("", c.match.RequestMatch)
			matches.PUT("/:id/accept", c.match.Accept)
			matches.PUT("/:id/decline", c.match.Decline)
			matches.PUT("/:id/close", c.match.Close)
			matches.POST("/:id/rate", c.match.Rate)
			matches.GET("/pending", c.match.ListPending)
			matches.GET("/accepted", c.match.ListAccepted)
			matches.GET("/:id", c.match.Get)
		}

		messages := authorized.Group("/messages")
		{
			messages.POST("", c.message.Send)
			messages.GET("/rooms/:roomId", c.message.History)
			messages.PUT("/rooms/:roomId/read", c.message.MarkRead)
			messages.GET("/unread", c.message.UnreadCounts)
			messages.GET("/room-with/:userId", c.message.RoomWith)
		}
	}
}
