package prediction

import (
	"fmt"
	"strings"
	"time"

	"carprice/internal/common/config"
)

type Config struct {
	Project         string
	Region          string
	EndpointID      string
	BaseURL         string
	CredentialsFile string
	Timeout         time.Duration // zero leaves the transport default
}

func DefaultConfig() *Config {
	return &Config{
		Region: config.DefaultRegion,
	}
}

// ConfigFromAppConfig copies the platform section of the application config.
func ConfigFromAppConfig(app *config.Config) *Config {
	cfg := DefaultConfig()
	if app == nil {
		return cfg
	}

	p := app.Platform
	cfg.Project = p.Project
	if p.Region != "" {
		cfg.Region = p.Region
	}
	cfg.EndpointID = p.EndpointID
	cfg.BaseURL = p.BaseURL
	cfg.CredentialsFile = p.CredentialsFile
	cfg.Timeout = config.GetDuration(p.Timeout)
	return cfg
}

func (c *Config) Validate() error {
	if c.Project == "" {
		return fmt.Errorf("project is required")
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.EndpointID == "" {
		return fmt.Errorf("endpoint_id is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// EndpointName is the endpoint resource reference,
// projects/<project>/locations/<region>/endpoints/<id>.
func (c *Config) EndpointName() string {
	return config.PlatformConfig{
		Project:    c.Project,
		Region:     c.Region,
		EndpointID: c.EndpointID,
	}.EndpointName()
}

// PredictURL is the REST method URL for the endpoint.
func (c *Config) PredictURL() string {
	base := config.PlatformConfig{Region: c.Region, BaseURL: c.BaseURL}.GetBaseURL()
	return strings.TrimSuffix(base, "/") + "/v1/" + c.EndpointName() + ":predict"
}
