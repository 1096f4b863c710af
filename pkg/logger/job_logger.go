package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// JobLogger writes a per-job transcript of a story generation run
type JobLogger struct {
	jobID     int
	logPath   string
	file      *os.File
	mu        sync.Mutex
	startTime time.Time
}

// NewJobLogger creates a new transcript logger for a story job.
// Any existing transcript for the job is replaced.
func NewJobLogger(logDir string, jobID int) (*JobLogger, error) {
	dir := filepath.Join(logDir, "jobs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(dir, fmt.Sprintf("job_%d.log", jobID))

	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	jl := &JobLogger{
		jobID:     jobID,
		logPath:   logPath,
		file:      file,
		startTime: time.Now(),
	}

	jl.writeHeader()
	return jl, nil
}

func (jl *JobLogger) writeHeader() {
	jl.mu.Lock()
	defer jl.mu.Unlock()

	header := fmt.Sprintf(`================================================================================
MUSIC STORYTELLER - STORY GENERATION LOG
Job ID: %d
Started: %s
================================================================================

`, jl.jobID, jl.startTime.Format("2006-01-02 15:04:05 MST"))

	jl.file.WriteString(header)
	jl.file.Sync()
}

// Info logs an informational message
func (jl *JobLogger) Info(format string, args ...interface{}) {
	jl.log("INFO", format, args...)
}

// Error logs an error message
func (jl *JobLogger) Error(format string, args ...interface{}) {
	jl.log("ERROR", format, args...)
}

// Property logs a key-value property
func (jl *JobLogger) Property(key string, value interface{}) {
	jl.mu.Lock()
	defer jl.mu.Unlock()

	elapsed := time.Since(jl.startTime).Round(time.Millisecond)
	msg := fmt.Sprintf("[%s] PROPERTY: %s = %v\n", elapsed, key, value)

	jl.file.WriteString(msg)
	jl.file.Sync()
}

func (jl *JobLogger) log(level string, format string, args ...interface{}) {
	jl.mu.Lock()
	defer jl.mu.Unlock()

	elapsed := time.Since(jl.startTime).Round(time.Millisecond)
	message := fmt.Sprintf(format, args...)
	msg := fmt.Sprintf("[%s] %s: %s\n", elapsed, level, message)

	jl.file.WriteString(msg)
	jl.file.Sync()
}

// Close writes the footer and closes the transcript
func (jl *JobLogger) Close(success bool, finalMessage string) error {
	jl.mu.Lock()
	defer jl.mu.Unlock()

	elapsed := time.Since(jl.startTime).Round(time.Millisecond)
	endTime := time.Now()

	status := "COMPLETED SUCCESSFULLY"
	if !success {
		status = "FAILED"
	}

	footer := fmt.Sprintf(`
================================================================================
JOB %s
Duration: %s
Completed: %s
%s
================================================================================
`, status, elapsed, endTime.Format("2006-01-02 15:04:05 MST"), finalMessage)

	jl.file.WriteString(footer)
	jl.file.Sync()

	return jl.file.Close()
}

// GetLogPath returns the path to the transcript file
func (jl *JobLogger) GetLogPath() string {
	return jl.logPath
}
