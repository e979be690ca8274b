package loop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrackerStartMemo(t *testing.T) {
	tracker := NewTracker()

	tracker.MarkStarted("c1")
	tracker.MarkStarted("c2")
	assert.Equal(t, map[string]bool{"c1": true, "c2": true}, tracker.StartedSnapshot())

	tracker.ClearStarted("c1")
	assert.Equal(t, map[string]bool{"c2": true}, tracker.StartedSnapshot())

	// Snapshots are copies; mutating one does not leak back.
	snap := tracker.StartedSnapshot()
	snap["c3"] = true
	assert.Equal(t, map[string]bool{"c2": true}, tracker.StartedSnapshot())
}

func TestTrackerHandoverExpiry(t *testing.T) {
	tracker := NewTracker()
	now := time.Now()
	tracker.now = func() time.Time { return now }

	tracker.RecordHandover("c1", 30*time.Second)
	assert.True(t, tracker.InHandover("c1"))
	assert.Empty(t, tracker.ExpiredSnapshot())

	// A second signal does not push the deadline out.
	now = now.Add(20 * time.Second)
	tracker.RecordHandover("c1", 30*time.Second)

	now = now.Add(15 * time.Second)
	assert.Equal(t, map[string]bool{"c1": true}, tracker.ExpiredSnapshot())

	// Once the container dies the record goes with it.
	tracker.ClearStarted("c1")
	assert.False(t, tracker.InHandover("c1"))
	assert.Empty(t, tracker.ExpiredSnapshot())
}
