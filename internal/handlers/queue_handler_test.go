package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/AndrewDonelson/music-storyteller/internal/database"
	"github.com/AndrewDonelson/music-storyteller/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testQueueRouter(t *testing.T) (*gin.Engine, *database.QueueRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../scripts/schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	repo := database.NewQueueRepository(db)
	handler := NewQueueHandler(repo)

	router := gin.New()
	router.POST("/api/v1/queue", handler.Create)
	router.GET("/api/v1/queue", handler.GetAll)
	router.GET("/api/v1/queue/:id", handler.GetByID)
	return router, repo
}

func TestQueueCreateEnqueuesJob(t *testing.T) {
	router, repo := testQueueRouter(t)

	body := `{"song_name":"Yesterday","artist_name":"The Beatles"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/queue", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var job models.StoryJob
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	require.NotZero(t, job.ID)
	require.Equal(t, "Yesterday", job.SongName)
	require.Equal(t, models.StatusQueued, job.Status)

	stored, err := repo.GetByID(job.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, "The Beatles", stored.ArtistName)
}

func TestQueueCreateRejectsMissingSongName(t *testing.T) {
	router, _ := testQueueRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/queue", strings.NewReader(`{"artist_name":"The Beatles"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueueGetByIDNotFound(t *testing.T) {
	router, _ := testQueueRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/queue/999", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestQueueGetAll(t *testing.T) {
	router, repo := testQueueRouter(t)

	require.NoError(t, repo.Create(&models.StoryJob{SongName: "Yesterday", Status: models.StatusQueued}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/queue", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Jobs []models.StoryJob `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Jobs, 1)
	require.Equal(t, "Yesterday", resp.Jobs[0].SongName)
}
