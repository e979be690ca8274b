package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/eagraf/shipmate/core/state/compose"
	"github.com/eagraf/shipmate/internal/supervisor/engine/mocks"
	"github.com/eagraf/shipmate/internal/supervisor/planner"
)

// fakeTracker satisfies planner.StartReporter and HandoverRecorder for tests.
type fakeTracker struct {
	started   map[string]bool
	handovers map[string]time.Duration
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		started:   make(map[string]bool),
		handovers: make(map[string]time.Duration),
	}
}

func (f *fakeTracker) MarkStarted(containerID string)  { f.started[containerID] = true }
func (f *fakeTracker) ClearStarted(containerID string) { delete(f.started, containerID) }
func (f *fakeTracker) RecordHandover(containerID string, timeout time.Duration) {
	f.handovers[containerID] = timeout
}

func newTestExecutor(t *testing.T) (*Executor, *mocks.MockDocker, *fakeTracker) {
	t.Helper()
	ctrl := gomock.NewController(t)
	docker := mocks.NewMockDocker(ctrl)
	tracker := newFakeTracker()
	executor := NewExecutor(docker, NewFetcher(docker), tracker, tracker)
	return executor, docker, tracker
}

func targetService() compose.Service {
	return compose.Service{
		AppID:       1,
		AppUUID:     "deadbeef",
		ServiceID:   10,
		ServiceName: "main",
		ReleaseID:   2,
		ImageID:     100,
		ImageName:   "app/main:v2",
		Config: compose.ServiceConfig{
			Image:   "app/main:v2",
			Running: true,
			Volumes: []string{"data:/var/data", "/host:/etc/host"},
		},
	}
}

func TestExecutorStartCreatesContainer(t *testing.T) {
	executor, docker, tracker := newTestExecutor(t)
	svc := targetService()

	docker.EXPECT().ContainerCreate(
		gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
	).DoAndReturn(func(_ context.Context, cfg *container.Config, host *container.HostConfig, netCfg *network.NetworkingConfig, _ any, name string) (container.CreateResponse, error) {
		assert.Equal(t, "app/main:v2", cfg.Image)
		assert.Equal(t, "true", cfg.Labels[compose.LabelSupervised])
		assert.Equal(t, "1", cfg.Labels[compose.LabelAppID])
		assert.Equal(t, "main", cfg.Labels[compose.LabelServiceName])
		assert.Equal(t, "2", cfg.Labels[compose.LabelReleaseID])
		assert.True(t, strings.HasPrefix(name, "main_100_2_"))
		assert.Contains(t, host.Binds, "1_data:/var/data", "named volumes get the app prefix")
		assert.Contains(t, host.Binds, "/host:/etc/host", "bind mounts pass through")
		_, ok := netCfg.EndpointsConfig["1_default"]
		assert.True(t, ok, "services join the app default network")
		return container.CreateResponse{ID: "c-new"}, nil
	})
	docker.EXPECT().ContainerStart(gomock.Any(), "c-new", gomock.Any()).Return(nil)

	err := executor.Apply(context.Background(), []planner.Step{planner.Start{Target: svc}})
	require.NoError(t, err)
	assert.True(t, tracker.started["c-new"], "successful starts are reported")
}

func TestExecutorStartExistingContainer(t *testing.T) {
	executor, docker, tracker := newTestExecutor(t)
	svc := targetService()
	svc.ContainerID = "c-existing"

	docker.EXPECT().ContainerStart(gomock.Any(), "c-existing", gomock.Any()).Return(nil)

	err := executor.Apply(context.Background(), []planner.Step{planner.Start{Target: svc}})
	require.NoError(t, err)
	assert.True(t, tracker.started["c-existing"])
}

func TestExecutorKillRemovesContainer(t *testing.T) {
	executor, docker, tracker := newTestExecutor(t)
	tracker.started["c1"] = true

	cur := targetService()
	cur.ContainerID = "c1"
	cur.Status = compose.StatusRunning

	docker.EXPECT().ContainerKill(gomock.Any(), "c1", "SIGKILL").Return(nil)
	docker.EXPECT().ContainerRemove(gomock.Any(), "c1", gomock.Any()).Return(nil)

	err := executor.Apply(context.Background(), []planner.Step{planner.Kill{Current: cur}})
	require.NoError(t, err)
	assert.False(t, tracker.started["c1"], "killed containers drop their start memo")
}

func TestExecutorCreateNetworkAndVolume(t *testing.T) {
	executor, docker, _ := newTestExecutor(t)

	n, err := compose.NetworkFromComposeObject(1, "deadbeef", "backend", compose.NetworkConfig{})
	require.NoError(t, err)
	v := compose.VolumeFromComposeObject(1, "deadbeef", "data", compose.VolumeConfig{})

	docker.EXPECT().NetworkCreate(gomock.Any(), "1_backend", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, opts types.NetworkCreate) (types.NetworkCreateResponse, error) {
			assert.Equal(t, "bridge", opts.Driver)
			assert.Equal(t, "true", opts.Labels[compose.LabelSupervised])
			return types.NetworkCreateResponse{ID: "n1"}, nil
		})
	docker.EXPECT().VolumeCreate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts volume.CreateOptions) (volume.Volume, error) {
			assert.Equal(t, "1_data", opts.Name)
			return volume.Volume{Name: opts.Name}, nil
		})

	err = executor.Apply(context.Background(), []planner.Step{
		planner.CreateNetwork{Network: n},
		planner.CreateVolume{Volume: v},
	})
	require.NoError(t, err)
}

func TestExecutorHandoverSignalsAndRecords(t *testing.T) {
	executor, docker, tracker := newTestExecutor(t)

	cur := targetService()
	cur.ContainerID = "c-old"

	docker.EXPECT().ContainerKill(gomock.Any(), "c-old", "SIGUSR1").Return(nil)

	err := executor.Apply(context.Background(), []planner.Step{
		planner.Handover{Current: cur, Target: targetService(), Timeout: 30 * time.Second},
	})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, tracker.handovers["c-old"])
}

func TestExecutorUpdateMetadataRenames(t *testing.T) {
	executor, docker, _ := newTestExecutor(t)

	cur := targetService()
	cur.ContainerID = "c1"
	cur.ReleaseID = 1
	tgt := targetService()

	docker.EXPECT().ContainerRename(gomock.Any(), "c1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, newName string) error {
			assert.True(t, strings.HasPrefix(newName, "main_100_2_"), "the new name carries the new release")
			return nil
		})

	err := executor.Apply(context.Background(), []planner.Step{planner.UpdateMetadata{Current: cur, Target: tgt}})
	require.NoError(t, err)
}

func TestExecutorRemoveImage(t *testing.T) {
	executor, docker, _ := newTestExecutor(t)

	img := compose.Image{Name: "app/old:v1", DockerImageID: "sha256:old", Status: compose.ImageDownloaded}
	docker.EXPECT().ImageRemove(gomock.Any(), "sha256:old", gomock.Any()).Return([]image.DeleteResponse{}, nil)

	err := executor.Apply(context.Background(), []planner.Step{planner.RemoveImage{Image: img}})
	require.NoError(t, err)
}
