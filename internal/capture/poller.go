package capture

import (
	"context"
	"io"
	"log"
	"sort"
	"sync"
	"time"
)

// Job is one unit of background work run by the Poller.
type Job func(ctx context.Context) error

// JobState represents the current state of a job.
type JobState int

const (
	JobIdle JobState = iota
	JobRunning
	JobError
)

func (s JobState) String() string {
	switch s {
	case JobRunning:
		return "running"
	case JobError:
		return "error"
	default:
		return "idle"
	}
}

// JobStatus holds the run state of a single job.
type JobStatus struct {
	Name    string
	State   JobState
	Runs    int
	LastRun time.Time
	Error   error
}

// runTimeout is the maximum time allowed for a single job run.
const runTimeout = 2 * time.Minute

// defaultInterval applies when a job is registered without one.
const defaultInterval = 5 * time.Minute

type jobEntry struct {
	name     string
	interval time.Duration
	run      Job
	trigger  chan struct{}
}

// Poller runs registered jobs on their intervals until stopped. Each job
// runs once on Start, then on every tick and on Trigger.
type Poller struct {
	logger   *log.Logger
	jobs     []*jobEntry
	statuses map[string]*JobStatus
	stopCh   chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// NewPoller creates an idle Poller. A nil logger discards output.
func NewPoller(logger *log.Logger) *Poller {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Poller{
		logger:   logger,
		statuses: make(map[string]*JobStatus),
		stopCh:   make(chan struct{}),
	}
}

// Register adds a job. Jobs registered after Start are not run.
func (p *Poller) Register(name string, interval time.Duration, run Job) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if interval <= 0 {
		interval = defaultInterval
	}
	p.jobs = append(p.jobs, &jobEntry{
		name:     name,
		interval: interval,
		run:      run,
		trigger:  make(chan struct{}, 1),
	})
	p.statuses[name] = &JobStatus{Name: name, State: JobIdle}
}

// Start launches one goroutine per job. Jobs stop when ctx is done or Stop
// is called.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true

	for _, j := range p.jobs {
		p.wg.Add(1)
		go p.loop(ctx, j)
	}
}

// Stop halts all jobs and waits for in-flight runs to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
}

// Trigger requests an immediate run of the named job. It reports whether
// the job exists. A request made while one is already pending is merged
// into it.
func (p *Poller) Trigger(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, j := range p.jobs {
		if j.name == name {
			select {
			case j.trigger <- struct{}{}:
			default:
			}
			return true
		}
	}
	return false
}

// TriggerAll requests an immediate run of every job.
func (p *Poller) TriggerAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, j := range p.jobs {
		select {
		case j.trigger <- struct{}{}:
		default:
		}
	}
}

// Statuses returns the current status of all jobs, ordered by name.
func (p *Poller) Statuses() []JobStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	statuses := make([]JobStatus, 0, len(p.statuses))
	for _, s := range p.statuses {
		statuses = append(statuses, *s)
	}
	sort.Slice(statuses, func(i, k int) bool { return statuses[i].Name < statuses[k].Name })
	return statuses
}

func (p *Poller) loop(ctx context.Context, j *jobEntry) {
	defer p.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	p.runOnce(ctx, j)

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.runOnce(ctx, j)
		case <-j.trigger:
			p.runOnce(ctx, j)
		}
	}
}

func (p *Poller) runOnce(ctx context.Context, j *jobEntry) {
	p.setStatus(j.name, JobRunning, nil)

	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	err := j.run(runCtx)
	switch {
	case err == nil:
		p.setStatus(j.name, JobIdle, nil)
	case IsAuthError(err):
		p.logger.Printf("capture: job %s: %v; check the stored credentials", j.name, err)
		p.setStatus(j.name, JobError, err)
	default:
		p.logger.Printf("capture: job %s: %v", j.name, err)
		p.setStatus(j.name, JobError, err)
	}
}

func (p *Poller) setStatus(name string, state JobState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	status, ok := p.statuses[name]
	if !ok {
		return
	}

	status.State = state
	status.Error = err
	if state != JobRunning {
		status.Runs++
		status.LastRun = time.Now()
	}
}
