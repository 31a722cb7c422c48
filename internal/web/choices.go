package web

import (
	"context"
	"fmt"
	"os"
	"time"

	"carprice/internal/common/logger"
	"carprice/internal/dataprep"
	"carprice/internal/prediction"
)

// ChoiceCache stores computed choice lists. *database.RedisClient satisfies it.
type ChoiceCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

// choicesKey changes whenever the cleaned file is rewritten.
func choicesKey(path string, info os.FileInfo) string {
	return fmt.Sprintf("carprice:choices:v1:%s:%d:%d", path, info.Size(), info.ModTime().UnixNano())
}

// LoadChoices returns the dropdown values for each choice column of the
// cleaned dataset at path. cache may be nil; cache failures fall back to
// reading the file.
func LoadChoices(ctx context.Context, path string, cache ChoiceCache, ttl time.Duration, log logger.Logger) (map[string][]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	key := choicesKey(path, info)

	if cache != nil {
		var cached map[string][]string
		found, err := cache.GetJSON(ctx, key, &cached)
		switch {
		case err != nil:
			log.Warn("choice cache read failed", map[string]interface{}{"key": key, "error": err})
		case found:
			log.Debug("choice lists served from cache", map[string]interface{}{"key": key})
			return cached, nil
		}
	}

	table, err := dataprep.Load(path)
	if err != nil {
		return nil, err
	}
	choices := dataprep.Choices(dataprep.NormalizeColumns(table), prediction.ChoiceColumns...)

	log.Info("choice lists computed", map[string]interface{}{
		"path": path,
		"rows": table.Len(),
	})

	if cache != nil {
		if err := cache.SetJSON(ctx, key, choices, ttl); err != nil {
			log.Warn("choice cache write failed", map[string]interface{}{"key": key, "error": err})
		}
	}
	return choices, nil
}
