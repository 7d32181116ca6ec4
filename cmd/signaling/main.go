package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/peervine/signaling/config"
	"github.com/peervine/signaling/internal/handlers"
	"github.com/peervine/signaling/internal/metrics"
	"github.com/peervine/signaling/internal/registry"
	"github.com/peervine/signaling/internal/relay"
)

func main() {
	// Load local .env (dev only)
	_ = godotenv.Load()

	cfg := config.Load()

	// Registry and hub hold all signaling state; nothing is persisted
	reg := registry.New(cfg.RoomCapacity)
	hub := relay.NewHub(reg)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Global CORS middleware (runs before routing)
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Room occupancy API (public, read-only)
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/rooms", handlers.ListRooms(hub))
		apiGroup.GET("/rooms/:roomId", handlers.GetRoom(hub))
	}

	// WebSocket signaling endpoint
	wsGroup := router.Group("/ws")
	{
		wsGroup.GET("/signal", handlers.HandleSignaling(hub))
	}

	// Start server
	log.Printf("Starting WebRTC signaling relay on port %s (room capacity %d)", cfg.Port, cfg.RoomCapacity)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
