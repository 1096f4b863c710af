package ai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AndrewDonelson/music-storyteller/config"
	"github.com/AndrewDonelson/music-storyteller/internal/models"
	"github.com/stretchr/testify/require"
)

func testAIClient(baseURL string) *Client {
	return NewClient(&config.Config{
		LLMURL:             baseURL,
		LLMModel:           "test-model",
		LLMTimeout:         5 * time.Second,
		StoryMaxLyricChars: 1500,
	})
}

// fakeOllama records every prompt it receives and answers each call with
// the next canned response
func fakeOllama(t *testing.T, responses ...string) (*httptest.Server, *[]string) {
	t.Helper()
	var prompts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test-model", req.Model)
		require.False(t, req.Stream)

		call := len(prompts)
		prompts = append(prompts, req.Prompt)
		require.Less(t, call, len(responses))
		fmt.Fprintf(w, `{"response":%q,"done":true}`, responses[call])
	}))
	return srv, &prompts
}

func TestAnalyzeLyricsEmptyInput(t *testing.T) {
	// No endpoint needed, the call must short-circuit
	client := testAIClient("http://127.0.0.1:0")

	require.Equal(t, "No lyrical content available for analysis.",
		client.AnalyzeLyrics(""))
	require.Equal(t, "No lyrical content available for analysis.",
		client.AnalyzeLyrics("   \n\t "))
}

func TestAnalyzeLyricsTruncatesLongInput(t *testing.T) {
	srv, prompts := fakeOllama(t, "A song about persistence.")
	defer srv.Close()

	long := strings.Repeat("a", 2000)
	got := testAIClient(srv.URL).AnalyzeLyrics(long)

	require.Equal(t, "A song about persistence.", got)
	require.Len(t, *prompts, 1)
	require.Contains(t, (*prompts)[0], strings.Repeat("a", 1500))
	require.NotContains(t, (*prompts)[0], strings.Repeat("a", 1501))
}

func TestAnalyzeLyricsDegradesOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	got := testAIClient(srv.URL).AnalyzeLyrics("some lyrics")
	require.True(t, strings.HasPrefix(got, "Unable to analyze lyrics:"), got)
}

func TestGenerateStoryFillsPrompt(t *testing.T) {
	srv, prompts := fakeOllama(t,
		"Themes of isolation and urban loneliness.",
		"  Once upon a time in a neon city...  ")
	defer srv.Close()

	song := &models.Song{
		ID:          42,
		Title:       "The Sound of Silence",
		Artist:      "Simon & Garfunkel",
		Album:       "Wednesday Morning, 3 A.M.",
		Genre:       "Folk, Rock",
		ReleaseYear: 1964,
		Lyrics:      "Hello darkness, my old friend",
		Annotations: []string{
			"my old friend: A greeting to darkness",
			"neon light: Urban imagery",
		},
	}

	story, err := testAIClient(srv.URL).GenerateStory(song)
	require.NoError(t, err)
	require.Equal(t, "Once upon a time in a neon city...", story)

	require.Len(t, *prompts, 2)
	analysis, narrative := (*prompts)[0], (*prompts)[1]

	require.Contains(t, analysis, "Hello darkness, my old friend")

	require.Contains(t, narrative, "Song Title: The Sound of Silence")
	require.Contains(t, narrative, "Artist: Simon & Garfunkel")
	require.Contains(t, narrative, "Album: Wednesday Morning, 3 A.M.")
	require.Contains(t, narrative, "Genre: Folk, Rock")
	require.Contains(t, narrative, "Release Year: 1964")
	require.Contains(t, narrative, "- my old friend: A greeting to darkness\n- neon light: Urban imagery")
	require.Contains(t, narrative, "Themes of isolation and urban loneliness.")
}

func TestGenerateStoryDefaultsForMissingMetadata(t *testing.T) {
	srv, prompts := fakeOllama(t, "story text")
	defer srv.Close()

	song := &models.Song{Title: "Untitled", Artist: "Someone"}

	story, err := testAIClient(srv.URL).GenerateStory(song)
	require.NoError(t, err)
	require.Equal(t, "story text", story)

	// Empty lyrics short-circuit analysis, so only one LLM call is made
	require.Len(t, *prompts, 1)
	narrative := (*prompts)[0]
	require.Contains(t, narrative, "Album: Unknown Album")
	require.Contains(t, narrative, "Genre: Unknown Genre")
	require.Contains(t, narrative, "Release Year: Unknown Year")
	require.Contains(t, narrative, "Song Annotations (Expert Analysis): No expert annotations available")
	require.Contains(t, narrative, "No lyrical content available for analysis.")
}

func TestGenerateStoryPropagatesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	song := &models.Song{Title: "Untitled", Artist: "Someone"}
	_, err := testAIClient(srv.URL).GenerateStory(song)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to generate story")
}
