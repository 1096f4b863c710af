package models

import "time"

// Song represents a complete song record assembled from the Genius API
// and lyrics page
type Song struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Artist      string    `json:"artist" db:"artist"`
	Album       string    `json:"album,omitempty" db:"album"`
	Genre       string    `json:"genre,omitempty" db:"genre"`
	ReleaseYear int       `json:"release_year,omitempty" db:"release_year"`
	Lyrics      string    `json:"lyrics,omitempty" db:"lyrics"`
	LyricsURL   string    `json:"lyrics_url,omitempty" db:"lyrics_url"`
	Annotations []string  `json:"annotations" db:"annotations"` // "<fragment>: <body>" entries
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// SongSummary is a single search result row
type SongSummary struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	URL       string `json:"url,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Annotation is one community-contributed explanation attached to a
// lyric fragment (referent). Not persisted; flattened into Song.Annotations.
type Annotation struct {
	ID         int    `json:"id"`
	Body       string `json:"body"`
	Fragment   string `json:"fragment"`
	URL        string `json:"url"`
	VotesTotal int    `json:"votes_total"`
	Verified   bool   `json:"verified"`
	Author     string `json:"author"`
}

// Story represents an AI-generated narrative based on a song
type Story struct {
	ID             int       `json:"id" db:"id"`
	Song           Song      `json:"song"`
	GeneratedStory string    `json:"generated_story" db:"generated_story"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// StoryJob represents a queued story generation request
type StoryJob struct {
	ID         int    `json:"id" db:"id"`
	SongName   string `json:"song_name" db:"song_name"`
	ArtistName string `json:"artist_name,omitempty" db:"artist_name"`
	Status     string `json:"status" db:"status"`

	ErrorMessage string `json:"error_message,omitempty" db:"error_message"`
	StoryID      *int   `json:"story_id,omitempty" db:"story_id"`

	QueuedAt    time.Time  `json:"queued_at" db:"queued_at"`
	StartedAt   *time.Time `json:"started_at" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
}

// Job status constants
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
