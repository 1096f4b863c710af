package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AndrewDonelson/music-storyteller/config"
	"github.com/AndrewDonelson/music-storyteller/internal/database"
	"github.com/AndrewDonelson/music-storyteller/internal/services/genius"
	"github.com/AndrewDonelson/music-storyteller/internal/services/storyteller"
	"github.com/gin-gonic/gin"
)

// StoryHandler handles story generation and retrieval requests
type StoryHandler struct {
	teller *storyteller.Service
	repo   *database.StoryRepository
	config *config.Config
}

// NewStoryHandler creates a new story handler
func NewStoryHandler(teller *storyteller.Service, repo *database.StoryRepository, cfg *config.Config) *StoryHandler {
	return &StoryHandler{
		teller: teller,
		repo:   repo,
		config: cfg,
	}
}

// GenerateRequest is the body for POST /stories/generate
type GenerateRequest struct {
	SongName   string `json:"song_name" binding:"required,min=1,max=200"`
	ArtistName string `json:"artist_name" binding:"omitempty,max=200"`
}

// Generate runs the full chain synchronously and returns the story
func (h *StoryHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	story, err := h.teller.GenerateFromSongName(c.Request.Context(), req.SongName, req.ArtistName)
	if errors.Is(err, genius.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Song '" + req.SongName + "' not found on Genius"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"story":   story,
		"message": "Story generated successfully",
	})
}

// GetAll returns all persisted stories
func (h *StoryHandler) GetAll(c *gin.Context) {
	stories, err := h.repo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

// GetByID returns a persisted story by ID
func (h *StoryHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	story, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if story == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return
	}

	c.JSON(http.StatusOK, story)
}

// Health reports the status of the story generation dependencies
func (h *StoryHandler) Health(c *gin.Context) {
	status := "healthy"
	services := gin.H{
		"genius": "operational",
		"llm":    "operational",
	}

	if h.config.GeniusAPIKey == "" {
		status = "degraded"
		services["genius"] = "missing API key"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"services": services,
	})
}
