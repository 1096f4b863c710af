package handlers

import (
	"net/http"
	"strconv"

	"github.com/AndrewDonelson/music-storyteller/internal/database"
	"github.com/AndrewDonelson/music-storyteller/internal/models"
	"github.com/gin-gonic/gin"
)

// QueueHandler handles async story generation jobs
type QueueHandler struct {
	repo *database.QueueRepository
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(repo *database.QueueRepository) *QueueHandler {
	return &QueueHandler{repo: repo}
}

// EnqueueRequest is the body for POST /queue
type EnqueueRequest struct {
	SongName   string `json:"song_name" binding:"required,min=1,max=200"`
	ArtistName string `json:"artist_name" binding:"omitempty,max=200"`
}

// Create enqueues a story generation job
func (h *QueueHandler) Create(c *gin.Context) {
	var req EnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job := models.StoryJob{
		SongName:   req.SongName,
		ArtistName: req.ArtistName,
		Status:     models.StatusQueued,
	}
	if err := h.repo.Create(&job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetAll returns all jobs
func (h *QueueHandler) GetAll(c *gin.Context) {
	jobs, err := h.repo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// GetByID returns a job by ID
func (h *QueueHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	job, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}
