package worker

import (
	"context"
	"log"
	"time"

	"github.com/AndrewDonelson/music-storyteller/internal/database"
	"github.com/AndrewDonelson/music-storyteller/internal/models"
	"github.com/AndrewDonelson/music-storyteller/internal/services/events"
	"github.com/AndrewDonelson/music-storyteller/pkg/logger"
)

// Worker processes queued story generation jobs
type Worker struct {
	queueRepo    *database.QueueRepository
	processor    *Processor
	broadcaster  *events.Broadcaster
	logDir       string
	pollInterval time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewWorker creates a story queue worker. The broadcaster may be nil
// when no event streaming is wanted; an empty logDir disables per-job
// transcripts.
func NewWorker(queueRepo *database.QueueRepository, generator Generator, broadcaster *events.Broadcaster, logDir string, pollInterval time.Duration) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		queueRepo:    queueRepo,
		processor:    NewProcessor(generator),
		broadcaster:  broadcaster,
		logDir:       logDir,
		pollInterval: pollInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start begins processing queued jobs
func (w *Worker) Start() {
	log.Println("Story queue worker started")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Process immediately on start
	w.processNext()

	// Then process on interval
	for {
		select {
		case <-w.ctx.Done():
			log.Println("Story queue worker stopped")
			return
		case <-ticker.C:
			w.processNext()
		}
	}
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	log.Println("Stopping story queue worker...")
	w.cancel()
}

// processNext processes the next queued job, one at a time
func (w *Worker) processNext() {
	job, err := w.queueRepo.GetNextPending()
	if err != nil {
		log.Printf("Error getting next pending job: %v", err)
		return
	}

	if job == nil {
		// Nothing to process
		return
	}

	log.Printf("Processing story job %d (%q)", job.ID, job.SongName)
	transcript := w.openTranscript(job)

	// Mark as processing
	now := time.Now()
	job.Status = models.StatusProcessing
	job.StartedAt = &now
	if err := w.queueRepo.Update(job); err != nil {
		log.Printf("Error updating story job: %v", err)
		if transcript != nil {
			transcript.Close(false, "Could not mark job as processing")
		}
		return
	}
	w.broadcaster.BroadcastJob(job, "Story generation started")

	if err := w.processor.Process(w.ctx, job); err != nil {
		log.Printf("Error processing story job %d: %v", job.ID, err)
		if transcript != nil {
			transcript.Error("Generation failed: %v", err)
			transcript.Close(false, err.Error())
		}
		w.failJob(job, err.Error())
		return
	}

	// Mark as completed
	completed := time.Now()
	job.Status = models.StatusCompleted
	job.CompletedAt = &completed
	if err := w.queueRepo.Update(job); err != nil {
		log.Printf("Error updating completed story job: %v", err)
		return
	}
	w.broadcaster.BroadcastJob(job, "Story generated")

	if transcript != nil {
		if job.StoryID != nil {
			transcript.Property("story_id", *job.StoryID)
		}
		transcript.Close(true, "Story generated")
	}

	log.Printf("Story job %d completed successfully", job.ID)
}

// openTranscript starts a per-job transcript when a log directory is
// configured. Transcript failures never block job processing.
func (w *Worker) openTranscript(job *models.StoryJob) *logger.JobLogger {
	if w.logDir == "" {
		return nil
	}

	transcript, err := logger.NewJobLogger(w.logDir, job.ID)
	if err != nil {
		log.Printf("Error creating transcript for job %d: %v", job.ID, err)
		return nil
	}

	transcript.Property("song_name", job.SongName)
	if job.ArtistName != "" {
		transcript.Property("artist_name", job.ArtistName)
	}
	return transcript
}

// failJob marks a job as failed
func (w *Worker) failJob(job *models.StoryJob, errorMsg string) {
	job.Status = models.StatusFailed
	job.ErrorMessage = errorMsg
	completed := time.Now()
	job.CompletedAt = &completed

	if err := w.queueRepo.Update(job); err != nil {
		log.Printf("Error updating failed story job: %v", err)
		return
	}
	w.broadcaster.BroadcastJob(job, "Story generation failed")

	log.Printf("Story job %d failed: %s", job.ID, errorMsg)
}
