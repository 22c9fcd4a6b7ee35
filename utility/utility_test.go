package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWattsToKilowatts(t *testing.T) {
	assert.Equal(t, "2.40", WattsToKilowatts(2400))
	assert.Equal(t, "0.00", WattsToKilowatts(0))
	assert.Equal(t, "10.55", WattsToKilowatts(10550))
}

func TestNewUUID(t *testing.T) {
	assert.NotEqual(t, NewUUID(), NewUUID())
	assert.Len(t, NewUUID(), 36)
}
