package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineNameRoundTrip(t *testing.T) {
	name := EngineName(123, "backend")
	assert.Equal(t, "123_backend", name)

	appID, parsed, err := ParseEngineName(name)
	require.NoError(t, err)
	assert.Equal(t, 123, appID)
	assert.Equal(t, "backend", parsed)

	// Names may themselves contain underscores.
	appID, parsed, err = ParseEngineName("7_my_data_volume")
	require.NoError(t, err)
	assert.Equal(t, 7, appID)
	assert.Equal(t, "my_data_volume", parsed)
}

func TestParseEngineNameRejectsBadForms(t *testing.T) {
	for _, bad := range []string{"backend", "_backend", "abc_backend", ""} {
		_, _, err := ParseEngineName(bad)
		assert.ErrorIs(t, err, ErrInvalidName, "input %q", bad)
	}

	_, _, err := ParseEngineName("0_backend")
	assert.ErrorIs(t, err, ErrInvalidAppID, "app ids are positive")
}

func TestParseAppID(t *testing.T) {
	id, err := ParseAppID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, bad := range []string{"", "x", "-1", "0"} {
		_, err := ParseAppID(bad)
		assert.ErrorIs(t, err, ErrInvalidAppID, "input %q", bad)
	}
}
