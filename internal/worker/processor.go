package worker

import (
	"context"

	"github.com/AndrewDonelson/music-storyteller/internal/models"
)

// Generator produces a story for a named song
type Generator interface {
	GenerateFromSongName(ctx context.Context, songName, artistName string) (*models.Story, error)
}

// Processor executes a single story generation job
type Processor struct {
	generator Generator
}

// NewProcessor creates a job processor
func NewProcessor(generator Generator) *Processor {
	return &Processor{generator: generator}
}

// Process generates the story for a job and records the resulting story
// ID on it
func (p *Processor) Process(ctx context.Context, job *models.StoryJob) error {
	story, err := p.generator.GenerateFromSongName(ctx, job.SongName, job.ArtistName)
	if err != nil {
		return err
	}

	if story.ID != 0 {
		id := story.ID
		job.StoryID = &id
	}
	return nil
}
