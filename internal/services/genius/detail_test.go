package genius_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AndrewDonelson/music-storyteller/config"
	"github.com/AndrewDonelson/music-storyteller/internal/services/genius"
	"github.com/stretchr/testify/require"
)

func TestSongDetailsUsableFromOutsidePackage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"song":{
			"id":12345,
			"title":"Yesterday",
			"url":"https://genius.com/yesterday",
			"primary_artist":{"name":"The Beatles"}
		}}}`)
	}))
	defer srv.Close()

	client := genius.NewClient(&config.Config{
		GeniusBaseURL:      srv.URL,
		GeniusAPIKey:       "test-key",
		GeniusTimeout:      5 * time.Second,
		GeniusRequestDelay: time.Millisecond,
		GeniusUserAgent:    "MusicStoryteller-test/1.0",
	})

	var detail *genius.SongDetail
	detail, err := client.SongDetails(context.Background(), 12345)
	require.NoError(t, err)
	require.Equal(t, "Yesterday", detail.Title)
	require.Equal(t, "The Beatles", detail.PrimaryArtist.Name)
}
