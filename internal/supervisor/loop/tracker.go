package loop

import (
	"sync"
	"time"
)

// Tracker is the process-wide feedback state the planner reads but never
// owns: which containers we have asked to start, and which have been signaled
// to hand over. The executor writes entries, the engine event mirror clears
// them when a container dies or disappears.
type Tracker struct {
	mu        sync.Mutex
	started   map[string]bool
	handovers map[string]time.Time

	// now is swappable for tests.
	now func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		started:   make(map[string]bool),
		handovers: make(map[string]time.Time),
		now:       time.Now,
	}
}

// MarkStarted records that a start was issued for the container.
func (t *Tracker) MarkStarted(containerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started[containerID] = true
}

// ClearStarted drops all memory of the container.
func (t *Tracker) ClearStarted(containerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.started, containerID)
	delete(t.handovers, containerID)
}

// RecordHandover notes the deadline after which the container's overlap
// window is over.
func (t *Tracker) RecordHandover(containerID string, timeout time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.handovers[containerID]; !ok {
		t.handovers[containerID] = t.now().Add(timeout)
	}
}

// InHandover reports whether the container has been signaled to hand over.
func (t *Tracker) InHandover(containerID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.handovers[containerID]
	return ok
}

// StartedSnapshot returns a copy of the start memo for a planner context.
func (t *Tracker) StartedSnapshot() map[string]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]bool, len(t.started))
	for id := range t.started {
		out[id] = true
	}
	return out
}

// ExpiredSnapshot returns the containers whose handover deadline has passed.
func (t *Tracker) ExpiredSnapshot() map[string]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	out := make(map[string]bool)
	for id, deadline := range t.handovers {
		if now.After(deadline) {
			out[id] = true
		}
	}
	return out
}
