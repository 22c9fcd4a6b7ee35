package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The test working directory carries no config.yml, so the singleton load
// fails. Repeat calls must keep reporting that failure instead of returning
// a nil config with a nil error.
func TestGetConfig_LoadFailureIsSticky(t *testing.T) {
	first, err1 := GetConfig()
	require.Error(t, err1)
	assert.Nil(t, first)

	second, err2 := GetConfig()
	require.Error(t, err2)
	assert.Nil(t, second)
	assert.Equal(t, err1, err2)
}
