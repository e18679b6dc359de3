// Package jobmgr runs named background jobs with cancellation and in-memory
// tracking of running jobs.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(func(msg string) {
//	    log.Println("JOB:", msg)
//	})
//
//	done, err := jm.StartAsync("play:1234", func(ctx context.Context) error {
//	    // pump frames until ctx is cancelled
//	    return nil
//	})
//
//	// later...
//	_ = jm.Stop("play:1234") // returns once the job has exited
//
// No retry logic, no workers, no persistence. Jobs run in separate
// goroutines and are removed on completion.
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotRunning is returned by Stop for unknown job names.
var ErrNotRunning = errors.New("job not running")

// Job represents a running unit of work.
type Job struct {
	Name   string
	Cancel context.CancelFunc
	done   chan struct{}
}

// StatusReporter receives lifecycle events for jobs.
// Example messages:
//
//	running:play:1234
//	error:play:1234:exit status 1
//	done:play:1234
type StatusReporter func(string)

// Manager orchestrates starting, stopping and tracking jobs.
// It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*Job
	Reporter StatusReporter
}

// NewManager creates a new Manager.
// The reporter callback may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*Job),
		Reporter: reporter,
	}
}

// StartAsync runs a job in a separate goroutine and returns immediately with
// a channel that is closed when the job returns.
// If a job with the same name is already running, an error is returned.
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) (<-chan struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[name]; exists {
		return nil, fmt.Errorf("job '%s' is already running", name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{Name: name, Cancel: cancel, done: make(chan struct{})}
	m.jobs[name] = job

	go func() {
		defer close(job.done)
		defer cancel()
		m.report("running:" + name)

		err := runner(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			m.report("error:" + name + ":" + err.Error())
		} else {
			m.report("done:" + name)
		}

		m.mu.Lock()
		if m.jobs[name] == job {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()

	return job.done, nil
}

// Stop cancels a running job by name and waits until it has returned.
// If the job is not running, ErrNotRunning is returned.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	job, ok := m.jobs[name]
	if ok {
		delete(m.jobs, name)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("job '%s': %w", name, ErrNotRunning)
	}

	job.Cancel()
	<-job.done
	return nil
}

// StopAll stops every running job whose name has the given prefix.
func (m *Manager) StopAll(prefix string) {
	for _, name := range m.List() {
		if strings.HasPrefix(name, prefix) {
			_ = m.Stop(name)
		}
	}
}

// Running reports whether a job with this name is active.
func (m *Manager) Running(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jobs[name]
	return ok
}

// List returns the sorted list of active job names.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Status returns a human-readable summary of active jobs.
// If none are running: "No jobs are running."
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}

// report delivers lifecycle messages to the reporter if present.
func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
