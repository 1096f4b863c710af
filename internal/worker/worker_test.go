package worker

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AndrewDonelson/music-storyteller/internal/database"
	"github.com/AndrewDonelson/music-storyteller/internal/models"
	"github.com/stretchr/testify/require"
)

func workerQueueRepo(t *testing.T) (*database.QueueRepository, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../scripts/schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return database.NewQueueRepository(db), db
}

func transcriptFor(t *testing.T, logDir string, jobID int) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(logDir, "jobs", fmt.Sprintf("job_%d.log", jobID)))
	require.NoError(t, err)
	return string(data)
}

func TestProcessNextCompletesJobWithTranscript(t *testing.T) {
	repo, _ := workerQueueRepo(t)

	job := &models.StoryJob{SongName: "Yesterday", ArtistName: "The Beatles", Status: models.StatusQueued}
	require.NoError(t, repo.Create(job))

	logDir := t.TempDir()
	gen := generatorFunc(func(ctx context.Context, songName, artistName string) (*models.Story, error) {
		return &models.Story{ID: 7}, nil
	})
	w := NewWorker(repo, gen, nil, logDir, time.Second)

	w.processNext()

	got, err := repo.GetByID(job.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, got.Status)
	require.NotNil(t, got.StoryID)
	require.Equal(t, 7, *got.StoryID)
	require.NotNil(t, got.StartedAt)
	require.NotNil(t, got.CompletedAt)

	transcript := transcriptFor(t, logDir, job.ID)
	require.Contains(t, transcript, "song_name = Yesterday")
	require.Contains(t, transcript, "story_id = 7")
	require.Contains(t, transcript, "COMPLETED SUCCESSFULLY")
}

func TestProcessNextFailsJobWithTranscript(t *testing.T) {
	repo, _ := workerQueueRepo(t)

	job := &models.StoryJob{SongName: "Nonexistent", Status: models.StatusQueued}
	require.NoError(t, repo.Create(job))

	logDir := t.TempDir()
	gen := generatorFunc(func(ctx context.Context, songName, artistName string) (*models.Story, error) {
		return nil, fmt.Errorf("song not found")
	})
	w := NewWorker(repo, gen, nil, logDir, time.Second)

	w.processNext()

	got, err := repo.GetByID(job.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusFailed, got.Status)
	require.Equal(t, "song not found", got.ErrorMessage)

	transcript := transcriptFor(t, logDir, job.ID)
	require.Contains(t, transcript, "Generation failed")
	require.Contains(t, transcript, "JOB FAILED")
}

func TestProcessNextClosesTranscriptWhenUpdateFails(t *testing.T) {
	repo, db := workerQueueRepo(t)

	job := &models.StoryJob{SongName: "Yesterday", Status: models.StatusQueued}
	require.NoError(t, repo.Create(job))

	// Make the status update fail while reads keep working
	_, err := db.Exec(`CREATE TRIGGER block_updates BEFORE UPDATE ON story_queue
		BEGIN SELECT RAISE(ABORT, 'updates blocked'); END`)
	require.NoError(t, err)

	logDir := t.TempDir()
	gen := generatorFunc(func(ctx context.Context, songName, artistName string) (*models.Story, error) {
		t.Fatal("generator must not run when the job cannot be marked as processing")
		return nil, nil
	})
	w := NewWorker(repo, gen, nil, logDir, time.Second)

	w.processNext()

	// The transcript is closed with a failure footer, not leaked open
	transcript := transcriptFor(t, logDir, job.ID)
	require.Contains(t, transcript, "JOB FAILED")
	require.Contains(t, transcript, "Could not mark job as processing")
}
