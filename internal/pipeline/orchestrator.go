package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
)

// ErrStopped is returned by Submit once Stop has been called.
var ErrStopped = errors.New("pipeline stopped")

// Orchestrator runs queued analysis jobs on a fixed pool of goroutines.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	worker *Worker
	log    *slog.Logger
	cfg    config.Config

	mu       sync.RWMutex
	stopped  bool
	stopOnce sync.Once
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, worker *Worker, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		worker: worker,
		log:    log,
		cfg:    cfg,
	}
}

// Start launches worker goroutines and the job store janitor.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.worker.Process(workerCtx, job, o.jobs)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(cleanupInterval(o.cfg.JobTTL))
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				before := o.jobs.Len()
				o.jobs.Cleanup()
				if n := before - o.jobs.Len(); n > 0 {
					o.log.Debug("expired jobs", "count", n)
				}
			}
		}
	}()
}

// cleanupInterval sweeps at least twice per TTL, and no less often than
// every five minutes.
func cleanupInterval(ttl time.Duration) time.Duration {
	interval := 5 * time.Minute
	if half := ttl / 2; half > 0 && half < interval {
		interval = half
	}
	return interval
}

// Stop cancels in-flight work and waits for the workers to exit. Jobs still
// queued are failed. Stop may be called more than once.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		o.mu.Lock()
		o.stopped = true
		close(o.queue)
		o.mu.Unlock()

		if o.cancel != nil {
			o.cancel()
		}
		o.wg.Wait()

		dropped := 0
		for job := range o.queue {
			job.AddError(ErrStopped.Error())
			job.SetStatus(StatusFailed, "cancelled")
			dropped++
		}
		if dropped > 0 {
			o.log.Warn("dropped queued jobs on shutdown", "count", dropped)
		}
	})
}

// Submit registers a job and queues it. A full queue fails the job
// immediately rather than blocking the caller.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.stopped {
		job.AddError(ErrStopped.Error())
		job.SetStatus(StatusFailed, "cancelled")
		return ErrStopped
	}

	select {
	case o.queue <- job:
		o.log.Debug("job queued", "job_id", job.ID, "filename", job.Filename, "queue_depth", len(o.queue))
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID, or nil when unknown or expired.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns the number of jobs waiting for a worker.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// JobCount returns the number of jobs still held by the store.
func (o *Orchestrator) JobCount() int {
	return o.jobs.Len()
}

// Worker returns the shared worker for synchronous requests.
func (o *Orchestrator) Worker() *Worker {
	return o.worker
}
