package pipeline

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/engine"
	"github.com/google/uuid"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusAnalyzing JobStatus = "analyzing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of a single document analysis.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   *engine.Analysis
	cached   bool
	errors   []string
}

// NewJob creates a queued job for an uploaded file. The document ID is the
// content hash, so identical uploads share it.
func NewJob(filename string, data []byte) *Job {
	now := time.Now()
	hash := ContentHashHex(data)
	return &Job{
		ID:          uuid.NewString(),
		DocID:       hash[:16],
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		ContentHash: hash,
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// Complete stores the analysis, marks the job done and releases the upload.
func (j *Job) Complete(a engine.Analysis, cached bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = &a
	j.cached = cached
	j.fileData = nil
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// Result returns the analysis once the job has completed.
func (j *Job) Result() (engine.Analysis, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.result == nil {
		return engine.Analysis{}, false
	}
	return *j.result, true
}

// CacheKey identifies the analysis inputs: the content plus the base
// filename, since the extension picks the parser and the name can become
// the title.
func (j *Job) CacheKey() string {
	return j.ContentHash + ":" + filepath.Base(j.Filename)
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	DocID       string    `json:"doc_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title,omitempty"`
	Mode        string    `json:"mode,omitempty"`
	Headings    int       `json:"headings"`
	Cached      bool      `json:"cached"`
	Errors      []string  `json:"errors"`
	ContentHash string    `json:"content_hash"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	snap := JobSnapshot{
		ID:          j.ID,
		DocID:       j.DocID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Cached:      j.cached,
		Errors:      errs,
		ContentHash: j.ContentHash,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
	if j.result != nil {
		snap.Title = j.result.Structure.Title
		snap.Mode = j.result.Diagnostics.Mode
		snap.Headings = len(j.result.Structure.Outline)
	}
	return snap
}

type cachedResult struct {
	analysis engine.Analysis
	storedAt time.Time
}

// JobStore is a thread-safe in-memory job registry with TTL eviction. It
// also remembers completed analyses by content hash and filename.
type JobStore struct {
	mu      sync.Mutex
	jobs    map[string]*Job
	results map[string]cachedResult
	ttl     time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs:    make(map[string]*Job),
		results: make(map[string]cachedResult),
		ttl:     ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// CacheResult remembers the analysis under a job's cache key.
func (s *JobStore) CacheResult(key string, a engine.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[key] = cachedResult{analysis: a, storedAt: time.Now()}
}

// CachedResult returns a previous analysis of the same content and name.
func (s *JobStore) CachedResult(key string) (engine.Analysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[key]
	return r.analysis, ok
}

// Cleanup removes expired jobs and cached results.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
	for key, r := range s.results {
		if now.Sub(r.storedAt) > s.ttl {
			delete(s.results, key)
		}
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
