package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/AndrewDonelson/music-storyteller/config"
	"github.com/AndrewDonelson/music-storyteller/internal/database"
	"github.com/AndrewDonelson/music-storyteller/internal/handlers"
	"github.com/AndrewDonelson/music-storyteller/internal/services/ai"
	"github.com/AndrewDonelson/music-storyteller/internal/services/events"
	"github.com/AndrewDonelson/music-storyteller/internal/services/genius"
	"github.com/AndrewDonelson/music-storyteller/internal/services/storyteller"
	"github.com/AndrewDonelson/music-storyteller/internal/worker"
	"github.com/gin-gonic/gin"
)

const appVersion = "1.0.0"

func main() {
	fmt.Println("Music Storyteller")

	// Load configuration
	cfg := config.LoadConfig()
	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Server port: %d", cfg.ServerPort)

	// Initialize database
	schemaPath := filepath.Join("scripts", "schema.sql")
	db, err := database.InitDB(cfg.DBPath, schemaPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Create repositories
	storyRepo := database.NewStoryRepository(db)
	queueRepo := database.NewQueueRepository(db)

	// Create services
	geniusClient := genius.NewClient(cfg)
	aiClient := ai.NewClient(cfg)
	teller := storyteller.NewService(geniusClient, aiClient, storyRepo)

	// Job event broadcaster for SSE subscribers
	broadcaster := events.NewBroadcaster()

	// Create handlers
	songHandler := handlers.NewSongHandler(geniusClient)
	storyHandler := handlers.NewStoryHandler(teller, storyRepo, cfg)
	queueHandler := handlers.NewQueueHandler(queueRepo)
	eventsHandler := handlers.NewEventsHandler(broadcaster)
	statsHandler := handlers.NewStatsHandler(db)

	// Create and start the story queue worker
	queueWorker := worker.NewWorker(queueRepo, teller, broadcaster, cfg.LogDir, 5*time.Second)
	go queueWorker.Start()
	log.Println("Story queue worker started (polling every 5 seconds)")

	// Create Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS middleware - MUST be first
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Add("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Add("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Add("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Add("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	})

	// Service info endpoint
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome to Music Storyteller API",
			"version": appVersion,
		})
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "music-storyteller",
		})
	})

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Songs endpoints
		songs := v1.Group("/songs")
		{
			songs.POST("/search", songHandler.Search)
			songs.GET("/:id", songHandler.GetByID)
		}

		// Stories endpoints
		stories := v1.Group("/stories")
		{
			stories.POST("/generate", storyHandler.Generate)
			stories.GET("", storyHandler.GetAll)
			stories.GET("/health", storyHandler.Health)
			stories.GET("/:id", storyHandler.GetByID)
		}

		// Async generation queue endpoints
		queue := v1.Group("/queue")
		{
			queue.POST("", queueHandler.Create)
			queue.GET("", queueHandler.GetAll)
			queue.GET("/events", eventsHandler.StreamJobs)
			queue.GET("/events/stats", eventsHandler.GetStats)
			queue.GET("/:id", queueHandler.GetByID)
		}

		// Aggregate statistics
		v1.GET("/stats", statsHandler.GetStats)
	}

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	// Stop worker
	queueWorker.Stop()

	// Close database
	db.Close()

	log.Println("Shutdown complete")
}
