package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShippedConfig(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join("..", "..", "..", "configs", "config.yaml"))
	require.NoError(t, err)

	// the prediction call keeps the transport default unless overridden
	assert.Equal(t, 0, cfg.Platform.Timeout)
	assert.Equal(t, DefaultTargetColumn, cfg.Dataset.TargetColumn)
	assert.Equal(t, 30000, cfg.Camunda.Timeout)
	assert.True(t, IsWorkerEnabled(cfg, "predict-price"))
}
