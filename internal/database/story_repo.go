package database

import (
	"database/sql"

	"github.com/AndrewDonelson/music-storyteller/internal/models"
)

// StoryRepository handles story database operations
type StoryRepository struct {
	db *sql.DB
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db *sql.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

// Create persists a generated story. Only song metadata is stored; the
// scraped lyrics text is kept out of the database.
func (r *StoryRepository) Create(story *models.Story) error {
	query := `INSERT INTO stories (song_id, title, artist, album, genre,
		release_year, lyrics_url, annotation_count, generated_story)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.Exec(query,
		story.Song.ID, story.Song.Title, story.Song.Artist,
		story.Song.Album, story.Song.Genre, story.Song.ReleaseYear,
		story.Song.LyricsURL, len(story.Song.Annotations), story.GeneratedStory,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	story.ID = int(id)
	return nil
}

// GetAll returns all stored stories, newest first
func (r *StoryRepository) GetAll() ([]models.Story, error) {
	query := `SELECT id, song_id, title, artist,
		COALESCE(album, '') as album,
		COALESCE(genre, '') as genre,
		COALESCE(release_year, 0) as release_year,
		COALESCE(lyrics_url, '') as lyrics_url,
		generated_story, created_at
		FROM stories ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []models.Story
	for rows.Next() {
		var s models.Story
		err := rows.Scan(
			&s.ID, &s.Song.ID, &s.Song.Title, &s.Song.Artist,
			&s.Song.Album, &s.Song.Genre, &s.Song.ReleaseYear, &s.Song.LyricsURL,
			&s.GeneratedStory, &s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}

	return stories, rows.Err()
}

// GetByID returns a story by ID
func (r *StoryRepository) GetByID(id int) (*models.Story, error) {
	query := `SELECT id, song_id, title, artist,
		COALESCE(album, '') as album,
		COALESCE(genre, '') as genre,
		COALESCE(release_year, 0) as release_year,
		COALESCE(lyrics_url, '') as lyrics_url,
		generated_story, created_at
		FROM stories WHERE id = ?`

	var s models.Story
	err := r.db.QueryRow(query, id).Scan(
		&s.ID, &s.Song.ID, &s.Song.Title, &s.Song.Artist,
		&s.Song.Album, &s.Song.Genre, &s.Song.ReleaseYear, &s.Song.LyricsURL,
		&s.GeneratedStory, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Delete deletes a story
func (r *StoryRepository) Delete(id int) error {
	_, err := r.db.Exec("DELETE FROM stories WHERE id=?", id)
	return err
}
