package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/pacerDone/liarsdice/config"
	"github.com/pacerDone/liarsdice/internal/game"
	"github.com/pacerDone/liarsdice/internal/handlers"
	"github.com/pacerDone/liarsdice/internal/middleware"
	"github.com/pacerDone/liarsdice/internal/redis"
)

func main() {
	cfg := config.Load()

	if err := redis.Connect(cfg.Redis); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redis.Close()
	log.Println("Redis connection established")

	registry := game.NewRegistry()
	hub := handlers.NewHub(registry)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Global CORS middleware (runs before routing)
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Room management API
	apiGroup := router.Group("/api")
	{
		// Login endpoint (public)
		apiGroup.POST("/auth/login", handlers.Login(cfg.JWTSecret))

		// Reserve a room code (requires JWT)
		apiGroup.POST("/rooms", middleware.JWTAuth(cfg.JWTSecret), handlers.CreateRoom())

		// Room info (public)
		apiGroup.GET("/rooms/:roomId", handlers.GetRoom(registry))

		// Delete a reserved room (requires JWT, creator only)
		apiGroup.DELETE("/rooms/:roomId", middleware.JWTAuth(cfg.JWTSecret), handlers.DeleteRoom(registry))
	}

	// Game WebSocket endpoint
	wsGroup := router.Group("/ws")
	{
		wsGroup.GET("/game", handlers.HandleGame(hub))
	}

	log.Printf("Starting liar's dice server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
