package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AndrewDonelson/music-storyteller/internal/services/genius"
	"github.com/gin-gonic/gin"
)

// SongHandler handles song search and retrieval requests
type SongHandler struct {
	genius *genius.Client
}

// NewSongHandler creates a new song handler
func NewSongHandler(geniusClient *genius.Client) *SongHandler {
	return &SongHandler{genius: geniusClient}
}

// SearchRequest is the body for POST /songs/search
type SearchRequest struct {
	Query string `json:"query" binding:"required,min=1,max=200"`
	Limit int    `json:"limit" binding:"omitempty,min=1,max=50"`
}

// Search searches Genius for songs matching a free-text query
func (h *SongHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	songs, err := h.genius.Search(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search songs"})
		return
	}

	if len(songs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No songs found for query: " + req.Query})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"songs":       songs,
		"total_found": len(songs),
		"query":       req.Query,
	})
}

// GetByID returns the complete assembled record for one song
func (h *SongHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	song, err := h.genius.CompleteSong(c.Request.Context(), id)
	if errors.Is(err, genius.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"song":    song,
		"message": "Song details retrieved successfully",
	})
}
