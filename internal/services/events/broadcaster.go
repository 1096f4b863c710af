// Package events fans job status updates out to SSE subscribers.
package events

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/AndrewDonelson/music-storyteller/internal/models"
)

// JobUpdate represents a story job status event
type JobUpdate struct {
	JobID        int       `json:"job_id"`
	SongName     string    `json:"song_name"`
	ArtistName   string    `json:"artist_name,omitempty"`
	Status       string    `json:"status"`
	StoryID      *int      `json:"story_id,omitempty"`
	Message      string    `json:"message,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Broadcaster manages SSE connections for live job updates
type Broadcaster struct {
	clients map[chan JobUpdate]bool
	mutex   sync.RWMutex
}

// NewBroadcaster creates a new job event broadcaster
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[chan JobUpdate]bool),
	}
}

// Subscribe adds a new client to receive job updates
func (b *Broadcaster) Subscribe() chan JobUpdate {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	client := make(chan JobUpdate, 10)
	b.clients[client] = true
	log.Printf("Client subscribed to job updates. Total clients: %d", len(b.clients))
	return client
}

// Unsubscribe removes a client from receiving updates
func (b *Broadcaster) Unsubscribe(client chan JobUpdate) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if _, ok := b.clients[client]; ok {
		delete(b.clients, client)
		close(client)
		log.Printf("Client unsubscribed from job updates. Total clients: %d", len(b.clients))
	}
}

// Broadcast sends a job update to all connected clients
func (b *Broadcaster) Broadcast(update JobUpdate) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	update.Timestamp = time.Now()

	for client := range b.clients {
		select {
		case client <- update:
		default:
			// Client buffer full, skip
			log.Printf("Warning: Client buffer full, skipping update for job_id=%d", update.JobID)
		}
	}
}

// BroadcastJob converts a story job to an update and broadcasts it
func (b *Broadcaster) BroadcastJob(job *models.StoryJob, message string) {
	if b == nil {
		return
	}
	b.Broadcast(JobUpdate{
		JobID:        job.ID,
		SongName:     job.SongName,
		ArtistName:   job.ArtistName,
		Status:       job.Status,
		StoryID:      job.StoryID,
		Message:      message,
		ErrorMessage: job.ErrorMessage,
	})
}

// ClientCount returns the number of connected clients
func (b *Broadcaster) ClientCount() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.clients)
}

// FormatSSE formats a job update as a Server-Sent Event
func FormatSSE(update JobUpdate) string {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling SSE data: %v", err)
		return ""
	}
	return "data: " + string(data) + "\n\n"
}
