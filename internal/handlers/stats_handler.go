package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatsHandler serves aggregate statistics over stories and jobs
type StatsHandler struct {
	db *sql.DB
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(db *sql.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

// Stats is the aggregate view returned by GET /stats
type Stats struct {
	// Current status
	TotalStories   int `json:"total_stories"`
	QueuedJobs     int `json:"queued_jobs"`
	ProcessingJobs int `json:"processing_jobs"`
	CompletedToday int `json:"completed_today"`
	FailedToday    int `json:"failed_today"`

	// Generation time analytics over completed jobs
	MinGenerationTime string  `json:"min_generation_time"`
	MaxGenerationTime string  `json:"max_generation_time"`
	AvgGenerationTime string  `json:"avg_generation_time"`
	TotalCompleted    int     `json:"total_completed"`
	TotalFailed       int     `json:"total_failed"`
	SuccessRate       float64 `json:"success_rate"`

	// Recent activity
	RecentStories     []RecentStory `json:"recent_stories"`
	RecentErrors      []RecentError `json:"recent_errors"`
	GenreDistribution []GenreStats  `json:"genre_distribution"`
}

// RecentStory is a row in the recent stories list
type RecentStory struct {
	ID        int       `json:"id"`
	SongID    int       `json:"song_id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	CreatedAt time.Time `json:"created_at"`
}

// RecentError is a row in the recent failures list
type RecentError struct {
	ID           int       `json:"id"`
	SongName     string    `json:"song_name"`
	ErrorMessage string    `json:"error_message"`
	FailedAt     time.Time `json:"failed_at"`
}

// GenreStats counts stories per genre
type GenreStats struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

func formatDuration(seconds int) string {
	if seconds < 0 {
		return "0s"
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, secs)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm%ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

// GetStats aggregates story and queue statistics
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats := Stats{}

	err := h.db.QueryRow("SELECT COUNT(*) FROM stories").Scan(&stats.TotalStories)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	err = h.db.QueryRow("SELECT COUNT(*) FROM story_queue WHERE status = 'queued'").Scan(&stats.QueuedJobs)
	if err != nil {
		stats.QueuedJobs = 0
	}

	err = h.db.QueryRow("SELECT COUNT(*) FROM story_queue WHERE status = 'processing'").Scan(&stats.ProcessingJobs)
	if err != nil {
		stats.ProcessingJobs = 0
	}

	err = h.db.QueryRow("SELECT COUNT(*) FROM story_queue WHERE status = 'completed' AND DATE(completed_at) = DATE('now')").Scan(&stats.CompletedToday)
	if err != nil {
		stats.CompletedToday = 0
	}

	err = h.db.QueryRow("SELECT COUNT(*) FROM story_queue WHERE status = 'failed' AND DATE(completed_at) = DATE('now')").Scan(&stats.FailedToday)
	if err != nil {
		stats.FailedToday = 0
	}

	// Generation time stats over completed jobs
	var minSeconds, maxSeconds, avgSeconds sql.NullInt64
	var totalCompleted sql.NullInt64

	err = h.db.QueryRow(`
		SELECT
			MIN(CAST((julianday(completed_at) - julianday(started_at)) * 86400 AS INTEGER)),
			MAX(CAST((julianday(completed_at) - julianday(started_at)) * 86400 AS INTEGER)),
			AVG(CAST((julianday(completed_at) - julianday(started_at)) * 86400 AS INTEGER)),
			COUNT(*)
		FROM story_queue
		WHERE status = 'completed'
		AND started_at IS NOT NULL
		AND completed_at IS NOT NULL
	`).Scan(&minSeconds, &maxSeconds, &avgSeconds, &totalCompleted)

	if err == nil && minSeconds.Valid {
		stats.MinGenerationTime = formatDuration(int(minSeconds.Int64))
		stats.MaxGenerationTime = formatDuration(int(maxSeconds.Int64))
		stats.AvgGenerationTime = formatDuration(int(avgSeconds.Int64))
		stats.TotalCompleted = int(totalCompleted.Int64)
	} else {
		stats.MinGenerationTime = "N/A"
		stats.MaxGenerationTime = "N/A"
		stats.AvgGenerationTime = "N/A"
		stats.TotalCompleted = 0
	}

	var totalFailed sql.NullInt64
	err = h.db.QueryRow("SELECT COUNT(*) FROM story_queue WHERE status = 'failed'").Scan(&totalFailed)
	if err == nil && totalFailed.Valid {
		stats.TotalFailed = int(totalFailed.Int64)
		totalAttempts := stats.TotalCompleted + stats.TotalFailed
		if totalAttempts > 0 {
			stats.SuccessRate = float64(stats.TotalCompleted) / float64(totalAttempts) * 100
		}
	}

	// Recent stories (last 10)
	rows, err := h.db.Query(`
		SELECT id, song_id, title, artist, created_at
		FROM stories
		ORDER BY created_at DESC
		LIMIT 10
	`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var s RecentStory
			if err := rows.Scan(&s.ID, &s.SongID, &s.Title, &s.Artist, &s.CreatedAt); err == nil {
				stats.RecentStories = append(stats.RecentStories, s)
			}
		}
	}

	// Recent failures (last 10)
	rows, err = h.db.Query(`
		SELECT id, song_name, COALESCE(error_message, ''), completed_at
		FROM story_queue
		WHERE status = 'failed'
		ORDER BY completed_at DESC
		LIMIT 10
	`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var e RecentError
			var failedAt sql.NullTime
			if err := rows.Scan(&e.ID, &e.SongName, &e.ErrorMessage, &failedAt); err == nil && failedAt.Valid {
				e.FailedAt = failedAt.Time
				stats.RecentErrors = append(stats.RecentErrors, e)
			}
		}
	}

	// Genre distribution over stored stories
	rows, err = h.db.Query(`
		SELECT COALESCE(NULLIF(genre, ''), 'Unknown') as genre, COUNT(*) as count
		FROM stories
		GROUP BY genre
		ORDER BY count DESC
		LIMIT 10
	`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var g GenreStats
			if err := rows.Scan(&g.Genre, &g.Count); err == nil {
				stats.GenreDistribution = append(stats.GenreDistribution, g)
			}
		}
	}

	c.JSON(http.StatusOK, stats)
}
