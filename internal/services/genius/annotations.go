package genius

import (
	"context"
	"log"
	"net/url"
	"strconv"

	"github.com/AndrewDonelson/music-storyteller/internal/models"
)

// annotationPageSize is the per_page value for the referents endpoint
const annotationPageSize = 50

type referentsResponse struct {
	Meta struct {
		LastPage int `json:"last_page"`
	} `json:"meta"`
	Response struct {
		Referents []struct {
			Fragment    string `json:"fragment"`
			Annotations []struct {
				ID         int    `json:"id"`
				URL        string `json:"url"`
				VotesTotal int    `json:"votes_total"`
				Verified   bool   `json:"verified"`
				Body       struct {
					Plain string `json:"plain"`
				} `json:"body"`
				Authors []struct {
					Name string `json:"name"`
				} `json:"authors"`
			} `json:"annotations"`
		} `json:"referents"`
	} `json:"response"`
}

// Annotations collects every community annotation for a song across all
// referent pages. Each annotation carries its parent referent's lyric
// fragment; no deduplication is performed. An empty referents page is
// the primary terminator, the reported last_page only a secondary bound.
func (c *Client) Annotations(ctx context.Context, songID int) ([]models.Annotation, error) {
	var all []models.Annotation

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("song_id", strconv.Itoa(songID))
		params.Set("text_format", "plain")
		params.Set("per_page", strconv.Itoa(annotationPageSize))
		params.Set("page", strconv.Itoa(page))

		var resp referentsResponse
		if err := c.apiGet(ctx, "/referents", params, &resp); err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			log.Printf("No response for annotations page %d of song %d: %v", page, songID, err)
			break
		}

		referents := resp.Response.Referents
		if len(referents) == 0 {
			break
		}

		for _, referent := range referents {
			for _, a := range referent.Annotations {
				author := "Unknown"
				if len(a.Authors) > 0 && a.Authors[0].Name != "" {
					author = a.Authors[0].Name
				}
				all = append(all, models.Annotation{
					ID:         a.ID,
					Body:       a.Body.Plain,
					Fragment:   referent.Fragment,
					URL:        a.URL,
					VotesTotal: a.VotesTotal,
					Verified:   a.Verified,
					Author:     author,
				})
			}
		}

		if resp.Meta.LastPage > 0 && page >= resp.Meta.LastPage {
			break
		}
	}

	log.Printf("Total annotations found for song %d: %d", songID, len(all))
	return all, nil
}
