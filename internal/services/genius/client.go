// Package genius talks to the Genius song API and scrapes lyric pages.
package genius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/AndrewDonelson/music-storyteller/config"
	"github.com/AndrewDonelson/music-storyteller/internal/models"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// ErrNotFound signals that a query or identifier yielded no result. It
// is a normal outcome, not a hard failure.
var ErrNotFound = errors.New("not found on Genius")

// Client talks to the Genius API and website
type Client struct {
	baseURL          string
	apiKey           string
	userAgent        string
	maxSearchResults int

	api     *http.Client
	web     *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Genius client from configuration. API calls go
// through a retrying transport; page scrapes stay single-shot.
func NewClient(cfg *config.Config) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil
	rc.HTTPClient.Timeout = cfg.GeniusTimeout

	return &Client{
		baseURL:          cfg.GeniusBaseURL,
		apiKey:           cfg.GeniusAPIKey,
		userAgent:        cfg.GeniusUserAgent,
		maxSearchResults: cfg.GeniusMaxSearchResults,
		api:              rc.StandardClient(),
		web: &http.Client{
			Timeout: cfg.GeniusTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(cfg.GeniusRequestDelay), 1),
	}
}

// apiGet performs an authenticated GET against the API and decodes the
// JSON response into out
func (c *Client) apiGet(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.api.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type searchResponse struct {
	Response struct {
		Hits []struct {
			Result struct {
				ID            int    `json:"id"`
				Title         string `json:"title"`
				URL           string `json:"url"`
				ThumbnailURL  string `json:"header_image_thumbnail_url"`
				PrimaryArtist struct {
					Name string `json:"name"`
				} `json:"primary_artist"`
			} `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

// Search performs a free-text song search. A limit of zero uses the
// configured default.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.SongSummary, error) {
	if limit <= 0 {
		limit = c.maxSearchResults
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", strconv.Itoa(limit))

	var resp searchResponse
	if err := c.apiGet(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	songs := make([]models.SongSummary, 0, len(resp.Response.Hits))
	for _, hit := range resp.Response.Hits {
		songs = append(songs, models.SongSummary{
			ID:        hit.Result.ID,
			Title:     hit.Result.Title,
			Artist:    hit.Result.PrimaryArtist.Name,
			URL:       hit.Result.URL,
			Thumbnail: hit.Result.ThumbnailURL,
		})
	}
	return songs, nil
}

// SongDetail is the raw metadata payload returned for a single song
type SongDetail struct {
	ID                    int    `json:"id"`
	Title                 string `json:"title"`
	URL                   string `json:"url"`
	ReleaseDateForDisplay string `json:"release_date_for_display"`
	PrimaryArtist         struct {
		Name string `json:"name"`
	} `json:"primary_artist"`
	Album *struct {
		Name string `json:"name"`
	} `json:"album"`
	Tags []struct {
		Name string `json:"name"`
	} `json:"tags"`
}

type songResponse struct {
	Response struct {
		Song *SongDetail `json:"song"`
	} `json:"response"`
}

// SongDetails fetches the raw metadata payload for a song
func (c *Client) SongDetails(ctx context.Context, songID int) (*SongDetail, error) {
	params := url.Values{}
	params.Set("text_format", "plain")

	var resp songResponse
	if err := c.apiGet(ctx, fmt.Sprintf("/songs/%d", songID), params, &resp); err != nil {
		return nil, err
	}
	if resp.Response.Song == nil {
		return nil, ErrNotFound
	}
	return resp.Response.Song, nil
}
