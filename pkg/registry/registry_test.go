package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry_Catalogue(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)

	a, ok := reg.Find("predict-price")
	require.True(t, ok)
	assert.Equal(t, "Predict Car Price", a.DisplayName)
	assert.Contains(t, a.ErrorCodes, "FEATURES_INVALID")

	assert.Empty(t, reg.Missing("prepare-dataset", "predict-price"))
	assert.Equal(t, []string{"train-model"}, reg.Missing("prepare-dataset", "train-model"))
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = LoadRegistry(bad)
	assert.Error(t, err)
}
