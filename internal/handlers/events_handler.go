package handlers

import (
	"io"
	"log"
	"time"

	"github.com/AndrewDonelson/music-storyteller/internal/services/events"
	"github.com/gin-gonic/gin"
)

// EventsHandler streams story job updates to clients
type EventsHandler struct {
	broadcaster *events.Broadcaster
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(broadcaster *events.Broadcaster) *EventsHandler {
	return &EventsHandler{broadcaster: broadcaster}
}

// StreamJobs streams job status updates via Server-Sent Events
func (h *EventsHandler) StreamJobs(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")

	clientChan := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(clientChan)

	clientGone := c.Request.Context().Done()

	// Initial connection confirmation
	c.Writer.Write([]byte("data: {\"message\":\"connected\",\"timestamp\":\"" + time.Now().Format(time.RFC3339) + "\"}\n\n"))
	c.Writer.Flush()

	for {
		select {
		case <-clientGone:
			log.Println("Client disconnected from job event stream")
			return
		case update := <-clientChan:
			data := events.FormatSSE(update)
			if data != "" {
				if _, err := c.Writer.Write([]byte(data)); err != nil {
					if err != io.EOF {
						log.Printf("Error writing SSE data: %v", err)
					}
					return
				}
				c.Writer.Flush()
			}
		case <-time.After(30 * time.Second):
			// Keepalive ping
			c.Writer.Write([]byte(": keepalive\n\n"))
			c.Writer.Flush()
		}
	}
}

// GetStats returns broadcaster statistics
func (h *EventsHandler) GetStats(c *gin.Context) {
	c.JSON(200, gin.H{
		"connected_clients": h.broadcaster.ClientCount(),
		"timestamp":         time.Now(),
	})
}
