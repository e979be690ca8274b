package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/docker/docker/api/types/events"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/eagraf/shipmate/internal/supervisor/engine/mocks"
)

type recordingReporter struct {
	mu      sync.Mutex
	cleared []string
}

func (r *recordingReporter) MarkStarted(string) {}

func (r *recordingReporter) ClearStarted(containerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared = append(r.cleared, containerID)
}

func (r *recordingReporter) clearedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.cleared...)
}

func TestMirrorClearsMemoOnDie(t *testing.T) {
	ctrl := gomock.NewController(t)
	docker := mocks.NewMockDocker(ctrl)
	reporter := &recordingReporter{}

	msgs := make(chan events.Message, 2)
	errs := make(chan error)
	var msgsRecv <-chan events.Message = msgs
	var errsRecv <-chan error = errs
	docker.EXPECT().Events(gomock.Any(), gomock.Any()).Return(msgsRecv, errsRecv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	mirror := NewMirror(docker, reporter)
	go func() {
		_ = mirror.Run(ctx)
		close(done)
	}()

	msgs <- events.Message{Action: "die", Actor: events.Actor{ID: "c1"}}
	msgs <- events.Message{Action: "start", Actor: events.Actor{ID: "c2"}}

	require.Eventually(t, func() bool {
		ids := reporter.clearedIDs()
		return len(ids) == 1 && ids[0] == "c1"
	}, time.Second, time.Millisecond, "die clears the memo, start does not")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mirror did not stop on context cancel")
	}
}
