package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Platform PlatformConfig          `mapstructure:"platform"`
	Dataset  DatasetConfig           `mapstructure:"dataset"`
	Server   ServerConfig            `mapstructure:"server"`
	Cache    CacheConfig             `mapstructure:"cache"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// PlatformConfig locates the hosted model endpoint.
type PlatformConfig struct {
	Project         string `mapstructure:"project"`
	Region          string `mapstructure:"region"`
	EndpointID      string `mapstructure:"endpoint_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
	BaseURL         string `mapstructure:"base_url"` // overrides https://<region>-aiplatform.googleapis.com
	Timeout         int    `mapstructure:"timeout"`  // milliseconds, 0 = transport default
}

// EndpointName returns the endpoint resource name.
func (p PlatformConfig) EndpointName() string {
	return fmt.Sprintf("projects/%s/locations/%s/endpoints/%s", p.Project, p.Region, p.EndpointID)
}

// GetBaseURL returns the regional API host unless overridden.
func (p PlatformConfig) GetBaseURL() string {
	if p.BaseURL != "" {
		return p.BaseURL
	}
	return fmt.Sprintf("https://%s-aiplatform.googleapis.com", p.Region)
}

type DatasetConfig struct {
	InputPath    string `mapstructure:"input_path"`
	OutputSuffix string `mapstructure:"output_suffix"`
	TargetColumn string `mapstructure:"target_column"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"` // gin mode: debug, release, test
}

// CacheConfig configures the optional Redis choice-list cache. An empty
// address disables it.
type CacheConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // seconds
}

type CamundaConfig struct {
	BrokerAddress string `mapstructure:"broker_address"`
	MaxJobsActive int    `mapstructure:"max_jobs_active"`
	Timeout       int    `mapstructure:"timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
