package compose

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseService() Service {
	return Service{
		AppID:       1,
		ServiceID:   10,
		ServiceName: "main",
		ReleaseID:   1,
		ImageID:     100,
		ImageName:   "registry2.example.com/app/main:v1",
		Config: ServiceConfig{
			Image:       "registry2.example.com/app/main:v1",
			Running:     true,
			Environment: []string{"A=1", "B=2"},
			Labels:      map[string]string{"team": "core"},
			Volumes:     []string{"data:/var/data"},
		},
	}
}

func TestIsEqualExceptForRunningAndRelease(t *testing.T) {
	a := baseService()

	b := baseService()
	b.ReleaseID = 2
	b.ImageID = 200
	b.Config.Running = false
	b.Config.Labels = map[string]string{
		"team":               "core",
		LabelReleaseID:       "2",
		LabelUpdateStrategy:  "kill-then-download",
		LabelHandoverTimeout: "30",
	}
	assert.True(t, a.IsEqualExceptForRunningAndRelease(b), "running, release metadata and supervised labels are ignored")
	assert.False(t, a.IsEqualConfig(b), "full equality still sees the running flag")

	c := baseService()
	c.Config.Environment = []string{"B=2", "A=1"}
	assert.True(t, a.IsEqualExceptForRunningAndRelease(c), "environment order is irrelevant")

	d := baseService()
	d.Config.Privileged = true
	assert.False(t, a.IsEqualExceptForRunningAndRelease(d), "privileged is a material change")

	e := baseService()
	e.Config.Image = "registry2.example.com/app/main:v2"
	assert.False(t, a.IsEqualExceptForRunningAndRelease(e), "image is a material change")
}

func TestVolumeAndNetworkReferences(t *testing.T) {
	svc := baseService()
	svc.Config.Volumes = []string{"data:/var/data", "/host/path:/etc/conf", "./rel:/x"}

	assert.True(t, svc.ReferencesVolume("data"))
	assert.False(t, svc.ReferencesVolume("other"))
	assert.False(t, svc.ReferencesVolume("/host/path"))

	assert.True(t, svc.ReferencesNetwork("default"), "no explicit networks means default")
	svc.Config.Networks = map[string]ServiceNetwork{"backend": {}}
	assert.True(t, svc.ReferencesNetwork("backend"))
	assert.False(t, svc.ReferencesNetwork("default"))
}

func TestParseUpdateStrategy(t *testing.T) {
	assert.Equal(t, StrategyDownloadThenKill, ParseUpdateStrategy(""))
	assert.Equal(t, StrategyKillThenDownload, ParseUpdateStrategy("kill-then-download"))
	assert.Equal(t, StrategyDeleteThenDownload, ParseUpdateStrategy("delete-then-download"))
	assert.Equal(t, StrategyHandover, ParseUpdateStrategy("hand-over"))
	assert.Equal(t, StrategyDownloadThenKill, ParseUpdateStrategy("something-new"))
}

func TestHandoverTimeout(t *testing.T) {
	svc := baseService()
	assert.Equal(t, DefaultHandoverTimeout, svc.HandoverTimeout())

	svc.Config.Labels[LabelHandoverTimeout] = "90"
	assert.Equal(t, 90*time.Second, svc.HandoverTimeout())

	svc.Config.Labels[LabelHandoverTimeout] = "not-a-number"
	assert.Equal(t, DefaultHandoverTimeout, svc.HandoverTimeout())
}

func TestServiceImageDescriptor(t *testing.T) {
	svc := baseService()
	img, err := svc.Image()
	require.NoError(t, err)
	assert.Equal(t, svc.ImageName, img.Name)
	assert.Equal(t, svc.ImageID, img.ImageID)
	assert.Equal(t, svc.ReleaseID, img.ReleaseID)

	svc.ImageName = ""
	svc.Config.Image = ""
	_, err = svc.Image()
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestServiceFromComposeObjectRequiresImage(t *testing.T) {
	_, err := ServiceFromComposeObject(1, "", "main", ServiceConfig{}, 1, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidServiceConfiguration)
}
