package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTarget = `{
	"apps": {
		"1": {
			"uuid": "deadbeef",
			"release_id": 2,
			"services": {
				"main": {
					"service_id": 10,
					"image_id": 100,
					"image": "app/main:v2",
					"running": true,
					"depends_on": ["db"]
				},
				"db": {
					"service_id": 11,
					"image_id": 101,
					"image": "app/db:v2",
					"running": true
				}
			},
			"networks": {
				"backend": { "driver": "bridge" }
			},
			"volumes": {
				"data": { "labels": { "purpose": "db" } }
			}
		}
	}
}`

func TestParseTarget(t *testing.T) {
	apps, err := ParseTarget([]byte(sampleTarget))
	require.NoError(t, err)
	require.Len(t, apps, 1)

	app := apps[0]
	assert.Equal(t, 1, app.AppID)
	assert.Equal(t, "deadbeef", app.AppUUID)
	assert.True(t, app.IsTarget)
	require.Len(t, app.Services, 2)

	// Services come out sorted by name.
	assert.Equal(t, "db", app.Services[0].ServiceName)
	assert.Equal(t, "main", app.Services[1].ServiceName)

	main := app.Services[1]
	assert.Equal(t, 2, main.ReleaseID, "release id falls back to the app's")
	assert.Equal(t, []string{"db"}, main.Config.DependsOn)
	assert.Equal(t, "app/main:v2", main.ImageName)

	network, ok := app.Networks["backend"]
	require.True(t, ok)
	assert.Equal(t, "true", network.Config.Labels[LabelSupervised])
	assert.Equal(t, "deadbeef", network.Config.Labels[LabelAppUUID])

	volume, ok := app.Volumes["data"]
	require.True(t, ok)
	assert.Equal(t, "db", volume.Config.Labels["purpose"])
	assert.Equal(t, "true", volume.Config.Labels[LabelSupervised])
}

func TestParseTargetRejectsCycles(t *testing.T) {
	doc := `{
		"apps": {
			"1": {
				"services": {
					"a": { "service_id": 1, "image_id": 1, "image": "x", "depends_on": ["b"] },
					"b": { "service_id": 2, "image_id": 2, "image": "y", "depends_on": ["a"] }
				}
			}
		}
	}`
	_, err := ParseTarget([]byte(doc))
	assert.ErrorIs(t, err, ErrDependencyCycle)
}

func TestParseTargetRejectsDanglingDependency(t *testing.T) {
	doc := `{
		"apps": {
			"1": {
				"services": {
					"a": { "service_id": 1, "image_id": 1, "image": "x", "depends_on": ["ghost"] }
				}
			}
		}
	}`
	_, err := ParseTarget([]byte(doc))
	assert.ErrorIs(t, err, ErrInvalidServiceConfiguration)
}

func TestParseTargetRejectsSchemaViolations(t *testing.T) {
	// Service missing its image.
	doc := `{
		"apps": {
			"1": {
				"services": {
					"a": { "service_id": 1, "image_id": 1 }
				}
			}
		}
	}`
	_, err := ParseTarget([]byte(doc))
	assert.Error(t, err)

	// No apps key at all.
	_, err = ParseTarget([]byte(`{}`))
	assert.Error(t, err)
}

func TestParseTargetRejectsBadAppID(t *testing.T) {
	doc := `{
		"apps": {
			"zero": {
				"services": {}
			}
		}
	}`
	_, err := ParseTarget([]byte(doc))
	assert.ErrorIs(t, err, ErrInvalidAppID)
}

func TestParseTargetEmpty(t *testing.T) {
	apps, err := ParseTarget([]byte(`{"apps": {}}`))
	require.NoError(t, err)
	assert.Empty(t, apps)
}
