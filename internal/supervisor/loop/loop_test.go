package loop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eagraf/shipmate/core/state/compose"
	"github.com/eagraf/shipmate/internal/supervisor/planner"
)

type fakeState struct {
	apps   []compose.App
	images []compose.Image
}

func (f *fakeState) CurrentApps(context.Context) ([]compose.App, error) {
	return f.apps, nil
}

func (f *fakeState) AvailableImages(context.Context) ([]compose.Image, error) {
	return f.images, nil
}

type fakeTarget struct {
	apps []compose.App
}

func (f *fakeTarget) TargetApps() ([]compose.App, error) {
	return f.apps, nil
}

type fakeDownloads struct {
	downloading map[int]bool
}

func (f *fakeDownloads) Downloading() map[int]bool {
	return f.downloading
}

type recordingApplier struct {
	batches [][]planner.Step
}

func (r *recordingApplier) Apply(_ context.Context, steps []planner.Step) error {
	r.batches = append(r.batches, steps)
	return nil
}

func supervisedCurrent(apps ...compose.App) []compose.App {
	base := compose.App{
		AppID: 0,
		Networks: map[string]compose.Network{
			compose.SupervisorNetworkName: compose.SupervisorNetwork(),
		},
	}
	return append([]compose.App{base}, apps...)
}

func TestReconcileAppliesPlannedSteps(t *testing.T) {
	tgtSvc, err := compose.ServiceFromComposeObject(1, "", "main", compose.ServiceConfig{
		Image:   "app/main:v1",
		Running: true,
	}, 1, 1, 1)
	require.NoError(t, err)

	state := &fakeState{apps: supervisedCurrent(compose.App{AppID: 1})}
	target := &fakeTarget{apps: []compose.App{{
		AppID:    1,
		Services: []compose.Service{tgtSvc},
		IsTarget: true,
	}}}
	applier := &recordingApplier{}

	l := New(state, target, &fakeDownloads{}, applier, NewTracker(), Config{})
	require.NoError(t, l.Reconcile(context.Background()))

	require.Len(t, applier.batches, 1)
	assert.NotEmpty(t, applier.batches[0])
	assert.Equal(t, applier.batches[0], l.LastPlan())
}

func TestReconcileConvergedAppliesNothing(t *testing.T) {
	state := &fakeState{apps: supervisedCurrent()}
	applier := &recordingApplier{}

	l := New(state, &fakeTarget{}, &fakeDownloads{}, applier, NewTracker(), Config{})
	require.NoError(t, l.Reconcile(context.Background()))
	assert.Empty(t, applier.batches, "a converged state produces no batch")
	assert.Empty(t, l.LastPlan())
}

func TestReconcileMarksHandovers(t *testing.T) {
	tracker := NewTracker()
	tracker.RecordHandover("c-old", 0)

	oldSvc := compose.Service{
		AppID:       1,
		ServiceName: "main",
		ReleaseID:   1,
		ImageID:     1,
		ImageName:   "app/main:v1",
		ContainerID: "c-old",
		Status:      compose.StatusRunning,
		Config:      compose.ServiceConfig{Image: "app/main:v1", Running: true},
	}
	app := compose.App{
		AppID:    1,
		Services: []compose.Service{oldSvc},
		Networks: map[string]compose.Network{"default": compose.DefaultNetwork(1, "")},
	}

	state := &fakeState{apps: supervisedCurrent(app)}
	applier := &recordingApplier{}

	// No target: the app is torn down, but the point here is that the
	// observed service shows up as Handover for the planner.
	l := New(state, &fakeTarget{}, &fakeDownloads{}, applier, tracker, Config{})
	require.NoError(t, l.Reconcile(context.Background()))

	require.Len(t, applier.batches, 1)
	found := false
	for _, step := range applier.batches[0] {
		if kill, ok := step.(planner.Kill); ok && kill.Current.Status == compose.StatusHandover {
			found = true
		}
	}
	assert.True(t, found, "the tracker's handover state is overlaid onto current state")
}
