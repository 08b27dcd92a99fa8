// Package jobs tracks asynchronous video generation jobs.
package jobs

import (
	"sync"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// terminal reports whether a status admits no further transitions.
func (s Status) terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is a snapshot of one generation request. Message is always set so
// status consumers never see a bare state; VideoURL stays null until the
// job completes.
type Job struct {
	ID        string    `json:"job_id"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	VideoURL  *string   `json:"video_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// statusMessage is the default human-readable message per state, used when
// the caller supplies none.
func statusMessage(s Status) string {
	switch s {
	case StatusPending:
		return "Video generation queued."
	case StatusProcessing:
		return "Video generation in progress."
	case StatusCompleted:
		return "Video generation completed successfully."
	default:
		return "Video generation failed."
	}
}

// Store persists job state. Implementations must be safe for concurrent
// use.
type Store interface {
	Put(job Job)
	Get(id string) (Job, bool)
	Update(id string, status Status, videoURL, message string) bool
}

// MemoryStore keeps jobs in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]Job)}
}

func (s *MemoryStore) Put(job Job) {
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Message == "" {
		job.Message = statusMessage(job.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *MemoryStore) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// Update transitions a job to a new status. Terminal jobs are never
// overwritten; Update reports whether the transition was applied.
func (s *MemoryStore) Update(id string, status Status, videoURL, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || job.Status.terminal() {
		return false
	}

	job.Status = status
	if videoURL != "" {
		job.VideoURL = &videoURL
	} else {
		job.VideoURL = nil
	}
	if message == "" {
		message = statusMessage(status)
	}
	job.Message = message
	job.UpdatedAt = time.Now()
	s.jobs[id] = job
	return true
}
