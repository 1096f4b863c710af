// Package storyteller chains song retrieval and story generation.
package storyteller

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/AndrewDonelson/music-storyteller/internal/database"
	"github.com/AndrewDonelson/music-storyteller/internal/models"
	"github.com/AndrewDonelson/music-storyteller/internal/services/ai"
	"github.com/AndrewDonelson/music-storyteller/internal/services/genius"
)

// Service orchestrates the full chain: search song, retrieve data,
// generate story, persist result
type Service struct {
	genius  *genius.Client
	ai      *ai.Client
	stories *database.StoryRepository
}

// NewService creates a storyteller service
func NewService(geniusClient *genius.Client, aiClient *ai.Client, stories *database.StoryRepository) *Service {
	return &Service{
		genius:  geniusClient,
		ai:      aiClient,
		stories: stories,
	}
}

// GenerateFromSongName searches for a song by name (and optional
// artist), assembles its complete record and generates a story from it.
// Returns genius.ErrNotFound when the search yields nothing.
func (s *Service) GenerateFromSongName(ctx context.Context, songName, artistName string) (*models.Story, error) {
	query := songName
	if artistName != "" {
		query = songName + " " + artistName
	}
	log.Printf("Starting story generation for song: %q", query)

	results, err := s.genius.Search(ctx, query, 0)
	if err != nil {
		return nil, fmt.Errorf("song search failed: %w", err)
	}
	if len(results) == 0 {
		return nil, genius.ErrNotFound
	}

	song, err := s.genius.CompleteSong(ctx, results[0].ID)
	if err != nil {
		return nil, err
	}

	content, err := s.ai.GenerateStory(song)
	if err != nil {
		return nil, err
	}

	story := &models.Story{
		Song:           *song,
		GeneratedStory: content,
		CreatedAt:      time.Now(),
	}

	if err := s.stories.Create(story); err != nil {
		// The story is still usable even when persistence fails
		log.Printf("Failed to persist story for %q: %v", song.Title, err)
	}

	log.Printf("Generated story for %q (%d characters)", song.Title, len(content))
	return story, nil
}
