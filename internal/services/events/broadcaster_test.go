package events

import (
	"encoding/json"
	"testing"

	"github.com/AndrewDonelson/music-storyteller/internal/models"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	b := NewBroadcaster()

	first := b.Subscribe()
	second := b.Subscribe()
	require.Equal(t, 2, b.ClientCount())

	storyID := 7
	job := &models.StoryJob{
		ID:       3,
		SongName: "Yesterday",
		Status:   models.StatusCompleted,
		StoryID:  &storyID,
	}
	b.BroadcastJob(job, "Story generated")

	for _, ch := range []chan JobUpdate{first, second} {
		update := <-ch
		require.Equal(t, 3, update.JobID)
		require.Equal(t, "Yesterday", update.SongName)
		require.Equal(t, models.StatusCompleted, update.Status)
		require.NotNil(t, update.StoryID)
		require.Equal(t, 7, *update.StoryID)
		require.False(t, update.Timestamp.IsZero())
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()

	ch := b.Subscribe()
	b.Unsubscribe(ch)
	require.Equal(t, 0, b.ClientCount())

	_, open := <-ch
	require.False(t, open)

	// Unsubscribing twice is a no-op
	b.Unsubscribe(ch)
}

func TestBroadcastSkipsFullClientBuffers(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()

	job := &models.StoryJob{ID: 1, SongName: "Yesterday", Status: models.StatusQueued}
	for i := 0; i < 15; i++ {
		b.BroadcastJob(job, "update")
	}

	// Buffer holds 10; the rest are dropped without blocking
	require.Len(t, ch, 10)
}

func TestBroadcastJobOnNilBroadcaster(t *testing.T) {
	var b *Broadcaster
	b.BroadcastJob(&models.StoryJob{ID: 1}, "no-op")
}

func TestFormatSSE(t *testing.T) {
	update := JobUpdate{JobID: 3, SongName: "Yesterday", Status: models.StatusProcessing}

	data := FormatSSE(update)
	require.True(t, len(data) > 0)
	require.Contains(t, data, "data: ")
	require.Contains(t, data, "\n\n")

	var decoded JobUpdate
	payload := data[len("data: ") : len(data)-2]
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
	require.Equal(t, 3, decoded.JobID)
	require.Equal(t, models.StatusProcessing, decoded.Status)
}
