package genius

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/AndrewDonelson/music-storyteller/internal/models"
)

// CompleteSong assembles the full record for a song: metadata, then
// annotations, then scraped lyrics. A metadata failure aborts the
// assembly; missing annotations or lyrics are tolerated and leave their
// fields empty.
func (c *Client) CompleteSong(ctx context.Context, songID int) (*models.Song, error) {
	log.Printf("Getting complete song data for ID: %d", songID)

	detail, err := c.SongDetails(ctx, songID)
	if err != nil {
		return nil, err
	}

	meta := extractMetadata(detail)

	annotations, err := c.Annotations(ctx, songID)
	if err != nil {
		log.Printf("Failed to fetch annotations for song %d: %v", songID, err)
		annotations = nil
	}

	var lyricsText string
	if detail.URL != "" {
		lyricsText, err = c.ScrapeLyrics(ctx, detail.URL)
		if err != nil {
			log.Printf("No lyrics available for song %d: %v", songID, err)
			lyricsText = ""
		}
	}

	formatted := make([]string, 0, len(annotations))
	for _, a := range annotations {
		if a.Body == "" {
			continue
		}
		formatted = append(formatted, fmt.Sprintf("%s: %s", a.Fragment, a.Body))
	}

	song := &models.Song{
		ID:          songID,
		Title:       detail.Title,
		Artist:      detail.PrimaryArtist.Name,
		Album:       meta.Album,
		Genre:       meta.Genre,
		ReleaseYear: meta.ReleaseYear,
		Lyrics:      lyricsText,
		LyricsURL:   detail.URL,
		Annotations: formatted,
		CreatedAt:   time.Now(),
	}

	log.Printf("Assembled song %q with %d annotations", song.Title, len(song.Annotations))
	return song, nil
}
