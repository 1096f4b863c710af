// Package ai generates narrative stories from song data through a
// local LLM endpoint.
package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/AndrewDonelson/music-storyteller/config"
	"github.com/AndrewDonelson/music-storyteller/internal/models"
)

const analysisPromptTemplate = `Analyze the following song lyrics and provide a summary covering:

- Main emotional themes
- Story elements or narrative present
- Overall mood and atmosphere
- Key symbolic or metaphorical elements
- Emotional journey or progression
- Characters or personas mentioned
- Setting or atmosphere described

Do NOT reproduce or directly quote the lyrics. Provide only a thematic and contextual analysis.

Lyrics: {{LYRICS}}

Combined Thematic and Contextual Summary:`

const storyPromptTemplate = `You are a creative storyteller who transforms songs into engaging narratives.

Based on the following song information, create an original story that captures the essence and themes of the song:

Song Title: {{TITLE}}
Artist: {{ARTIST}}
Album: {{ALBUM}}
Genre: {{GENRE}}
Release Year: {{RELEASE_YEAR}}

Song Annotations (Expert Analysis): {{ANNOTATIONS}}

Lyrical Themes and Context Analysis: {{LYRICS_SUMMARY}}

Instructions:
- Create an original narrative story inspired by the song's themes and emotions
- Use the annotations to understand deeper meanings and cultural context
- Incorporate the emotional essence from the lyrics
- Do not reproduce lyrics verbatim, focus on thematic elements
- Make the story engaging, vivid, and emotionally resonant
- Length should be 300-500 words
- Focus on character development and atmospheric storytelling

Story:`

// Client handles LLM calls for lyric analysis and story generation
type Client struct {
	baseURL       string
	model         string
	maxLyricChars int
	client        *http.Client
}

// NewClient creates an AI client against an Ollama-compatible endpoint
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:       cfg.LLMURL,
		model:         cfg.LLMModel,
		maxLyricChars: cfg.StoryMaxLyricChars,
		client: &http.Client{
			Timeout: cfg.LLMTimeout, // local LLMs need a long leash
		},
	}
}

// AnalyzeLyrics produces a thematic summary of lyric text without
// reproducing it. Failures degrade to a placeholder string so story
// generation can continue with whatever context is available.
func (c *Client) AnalyzeLyrics(lyricsText string) string {
	if strings.TrimSpace(lyricsText) == "" {
		return "No lyrical content available for analysis."
	}

	// Bound the amount of text sent for analysis
	if runes := []rune(lyricsText); len(runes) > c.maxLyricChars {
		lyricsText = string(runes[:c.maxLyricChars])
	}

	prompt := strings.ReplaceAll(analysisPromptTemplate, "{{LYRICS}}", lyricsText)

	summary, err := c.callLLM(prompt)
	if err != nil {
		return fmt.Sprintf("Unable to analyze lyrics: %v", err)
	}
	return strings.TrimSpace(summary)
}

// GenerateStory creates an original narrative from a complete song record
func (c *Client) GenerateStory(song *models.Song) (string, error) {
	lyricsSummary := c.AnalyzeLyrics(song.Lyrics)

	annotationsText := "No expert annotations available"
	if len(song.Annotations) > 0 {
		var b strings.Builder
		for _, ann := range song.Annotations {
			b.WriteString("- ")
			b.WriteString(ann)
			b.WriteString("\n")
		}
		annotationsText = strings.TrimRight(b.String(), "\n")
	}

	prompt := c.buildStoryPrompt(song, annotationsText, lyricsSummary)

	story, err := c.callLLM(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate story: %w", err)
	}
	return strings.TrimSpace(story), nil
}

// buildStoryPrompt fills the story template from song data
func (c *Client) buildStoryPrompt(song *models.Song, annotationsText, lyricsSummary string) string {
	album := song.Album
	if album == "" {
		album = "Unknown Album"
	}
	genre := song.Genre
	if genre == "" {
		genre = "Unknown Genre"
	}
	year := "Unknown Year"
	if song.ReleaseYear != 0 {
		year = strconv.Itoa(song.ReleaseYear)
	}

	prompt := strings.ReplaceAll(storyPromptTemplate, "{{TITLE}}", song.Title)
	prompt = strings.ReplaceAll(prompt, "{{ARTIST}}", song.Artist)
	prompt = strings.ReplaceAll(prompt, "{{ALBUM}}", album)
	prompt = strings.ReplaceAll(prompt, "{{GENRE}}", genre)
	prompt = strings.ReplaceAll(prompt, "{{RELEASE_YEAR}}", year)
	prompt = strings.ReplaceAll(prompt, "{{ANNOTATIONS}}", annotationsText)
	prompt = strings.ReplaceAll(prompt, "{{LYRICS_SUMMARY}}", lyricsSummary)

	return prompt
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// callLLM sends the prompt to the generation endpoint and returns the
// response text
func (c *Client) callLLM(prompt string) (string, error) {
	reqBody := ollamaRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var apiResp ollamaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if apiResp.Response == "" {
		return "", fmt.Errorf("empty response from API")
	}

	return apiResp.Response, nil
}
