package camunda

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClientWithConfig_RequiresAddress(t *testing.T) {
	_, err := NewClientWithConfig(&ClientConfig{})
	assert.EqualError(t, err, "gateway address is required")
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(errors.New("rpc error: code = Unavailable desc = connection refused")))
	assert.True(t, IsTransient(errors.New("context deadline exceeded")))
	assert.False(t, IsTransient(errors.New("NOT_FOUND: no such process")))
	assert.False(t, IsTransient(nil))
}
