package preparedataset

import (
	"fmt"
	"time"

	"carprice/internal/common/config"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	TargetColumn  string        `mapstructure:"target_column"`
	OutputSuffix  string        `mapstructure:"output_suffix"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 1,
		Timeout:       5 * time.Minute,
		TargetColumn:  config.DefaultTargetColumn,
		OutputSuffix:  config.DefaultOutputSuffix,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.TargetColumn == "" {
		return fmt.Errorf("target_column is required")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	if workerCfg, exists := appConfig.Workers[TaskType]; exists {
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(workerCfg.Timeout)
		}
	}
	if appConfig.Dataset.TargetColumn != "" {
		cfg.TargetColumn = appConfig.Dataset.TargetColumn
	}
	if appConfig.Dataset.OutputSuffix != "" {
		cfg.OutputSuffix = appConfig.Dataset.OutputSuffix
	}
	return cfg
}
