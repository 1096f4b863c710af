package database

import (
	"database/sql"

	"github.com/AndrewDonelson/music-storyteller/internal/models"
)

// QueueRepository handles story queue database operations
type QueueRepository struct {
	db *sql.DB
}

// NewQueueRepository creates a new queue repository
func NewQueueRepository(db *sql.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

// GetAll returns all queued jobs
func (r *QueueRepository) GetAll() ([]models.StoryJob, error) {
	query := `SELECT id, song_name,
		COALESCE(artist_name, '') as artist_name,
		status,
		COALESCE(error_message, '') as error_message,
		story_id, queued_at, started_at, completed_at
		FROM story_queue ORDER BY queued_at ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.StoryJob
	for rows.Next() {
		var job models.StoryJob
		err := rows.Scan(
			&job.ID, &job.SongName, &job.ArtistName, &job.Status,
			&job.ErrorMessage, &job.StoryID,
			&job.QueuedAt, &job.StartedAt, &job.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// GetByID returns a job by ID
func (r *QueueRepository) GetByID(id int) (*models.StoryJob, error) {
	query := `SELECT id, song_name,
		COALESCE(artist_name, '') as artist_name,
		status,
		COALESCE(error_message, '') as error_message,
		story_id, queued_at, started_at, completed_at
		FROM story_queue WHERE id = ?`

	var job models.StoryJob
	err := r.db.QueryRow(query, id).Scan(
		&job.ID, &job.SongName, &job.ArtistName, &job.Status,
		&job.ErrorMessage, &job.StoryID,
		&job.QueuedAt, &job.StartedAt, &job.CompletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &job, nil
}

// Create creates a new queued job
func (r *QueueRepository) Create(job *models.StoryJob) error {
	query := `INSERT INTO story_queue (song_name, artist_name, status)
		VALUES (?, ?, ?)`

	result, err := r.db.Exec(query, job.SongName, job.ArtistName, job.Status)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	job.ID = int(id)
	return nil
}

// Update updates an existing job
func (r *QueueRepository) Update(job *models.StoryJob) error {
	query := `UPDATE story_queue SET status=?, error_message=?, story_id=?,
		started_at=?, completed_at=?
		WHERE id=?`

	_, err := r.db.Exec(query,
		job.Status, job.ErrorMessage, job.StoryID,
		job.StartedAt, job.CompletedAt,
		job.ID,
	)
	return err
}

// GetNextPending returns the oldest queued job
func (r *QueueRepository) GetNextPending() (*models.StoryJob, error) {
	query := `SELECT id, song_name,
		COALESCE(artist_name, '') as artist_name,
		status,
		COALESCE(error_message, '') as error_message,
		story_id, queued_at, started_at, completed_at
		FROM story_queue
		WHERE status = ?
		ORDER BY queued_at ASC
		LIMIT 1`

	var job models.StoryJob
	err := r.db.QueryRow(query, models.StatusQueued).Scan(
		&job.ID, &job.SongName, &job.ArtistName, &job.Status,
		&job.ErrorMessage, &job.StoryID,
		&job.QueuedAt, &job.StartedAt, &job.CompletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &job, nil
}
