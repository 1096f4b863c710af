package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testStatsRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../scripts/schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	router := gin.New()
	router.GET("/api/v1/stats", NewStatsHandler(db).GetStats)
	return router, db
}

func TestStatsEmptyDatabase(t *testing.T) {
	router, _ := testStatsRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Zero(t, stats.TotalStories)
	require.Zero(t, stats.QueuedJobs)
	require.Equal(t, "N/A", stats.MinGenerationTime)
	require.Zero(t, stats.SuccessRate)
}

func TestStatsAggregatesStoriesAndJobs(t *testing.T) {
	router, db := testStatsRouter(t)

	_, err := db.Exec(`INSERT INTO stories (song_id, title, artist, genre, generated_story)
		VALUES (42, 'The Sound of Silence', 'Simon & Garfunkel', 'Folk, Rock', 'story one'),
		       (43, 'Yesterday', 'The Beatles', 'Folk, Rock', 'story two'),
		       (44, 'Mystery Track', 'Unknown Artist', '', 'story three')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO story_queue (song_name, status, started_at, completed_at, error_message)
		VALUES ('Yesterday', 'completed', datetime('now', '-90 seconds'), datetime('now'), NULL),
		       ('Broken Song', 'failed', datetime('now', '-10 seconds'), datetime('now'), 'song not found'),
		       ('Waiting Song', 'queued', NULL, NULL, NULL)`)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))

	require.Equal(t, 3, stats.TotalStories)
	require.Equal(t, 1, stats.QueuedJobs)
	require.Equal(t, 1, stats.CompletedToday)
	require.Equal(t, 1, stats.FailedToday)
	require.Equal(t, 1, stats.TotalCompleted)
	require.Equal(t, 1, stats.TotalFailed)
	require.InDelta(t, 50.0, stats.SuccessRate, 0.01)
	// julianday arithmetic can truncate a second
	require.Contains(t, []string{"1m29s", "1m30s"}, stats.MinGenerationTime)

	require.Len(t, stats.RecentStories, 3)
	require.Len(t, stats.RecentErrors, 1)
	require.Equal(t, "Broken Song", stats.RecentErrors[0].SongName)
	require.Equal(t, "song not found", stats.RecentErrors[0].ErrorMessage)

	genres := map[string]int{}
	for _, g := range stats.GenreDistribution {
		genres[g.Genre] = g.Count
	}
	require.Equal(t, 2, genres["Folk, Rock"])
	require.Equal(t, 1, genres["Unknown"])
}

func TestStatsFormatDuration(t *testing.T) {
	require.Equal(t, "45s", formatDuration(45))
	require.Equal(t, "2m5s", formatDuration(125))
	require.Equal(t, "1h1m5s", formatDuration(3665))
	require.Equal(t, "0s", formatDuration(-3))
}
