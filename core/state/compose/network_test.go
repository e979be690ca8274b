package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkValidation(t *testing.T) {
	_, err := NetworkFromComposeObject(1, "u", "backend", NetworkConfig{
		IPAM: IPAMConfig{Pools: []IPAMPool{{Subnet: "10.0.0.0/24"}}},
	})
	assert.ErrorIs(t, err, ErrInvalidNetworkConfiguration, "ipam pool needs both subnet and gateway")

	n, err := NetworkFromComposeObject(1, "u", "backend", NetworkConfig{
		IPAM: IPAMConfig{Pools: []IPAMPool{{Subnet: "10.0.0.0/24", Gateway: "10.0.0.1"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "1_backend", n.EngineName())
	assert.Equal(t, "true", n.Config.Labels[LabelSupervised])
}

func TestNetworkIsEqualConfig(t *testing.T) {
	a, err := NetworkFromComposeObject(1, "u", "backend", NetworkConfig{})
	require.NoError(t, err)

	// A bridge driver made explicit is not a difference.
	b, err := NetworkFromComposeObject(1, "u", "backend", NetworkConfig{Driver: "bridge"})
	require.NoError(t, err)
	assert.True(t, a.IsEqualConfig(b))

	// The engine reporting assigned pools does not force a recreation.
	observed := b
	observed.Config.IPAM.Pools = []IPAMPool{{Subnet: "172.17.0.0/16", Gateway: "172.17.0.1"}}
	assert.True(t, a.IsEqualConfig(observed))

	c, err := NetworkFromComposeObject(1, "u", "backend", NetworkConfig{Internal: true})
	require.NoError(t, err)
	assert.False(t, a.IsEqualConfig(c))
}

func TestVolumeIsEqualConfig(t *testing.T) {
	a := VolumeFromComposeObject(1, "u", "data", VolumeConfig{})
	b := VolumeFromComposeObject(1, "u", "data", VolumeConfig{Driver: "local"})
	assert.True(t, a.IsEqualConfig(b), "local driver made explicit is not a difference")

	c := VolumeFromComposeObject(1, "u", "data", VolumeConfig{Labels: map[string]string{"x": "y"}})
	assert.False(t, a.IsEqualConfig(c))
}

func TestWithoutSupervisedLabels(t *testing.T) {
	labels := map[string]string{
		"team":          "core",
		LabelSupervised: "true",
		LabelAppID:      "1",
		LabelReleaseID:  "2",
	}
	stripped := WithoutSupervisedLabels(labels)
	assert.Equal(t, map[string]string{"team": "core"}, stripped)
	assert.Contains(t, labels, LabelSupervised, "input is untouched")
}
