package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Stats struct {
		// Timezone is the IANA zone used for daily and hourly trade
		// grouping. Empty means the process-local zone.
		Timezone string `yaml:"timezone"`
	} `yaml:"stats"`
	Import struct {
		// BatchSize caps the operation count per store batch write.
		BatchSize int `yaml:"batch_size"`
		// Account is the default account id imports are filed under.
		Account string `yaml:"account"`
	} `yaml:"import"`
	Fetch struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"fetch"`
	Logging struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		Detailed bool   `yaml:"detailed"`
		Tracing  bool   `yaml:"tracing"`
	} `yaml:"logging"`
}

func (c *Config) Validate() error {
	if c.Import.BatchSize <= 0 {
		return fmt.Errorf("import.batch_size must be positive, got %d", c.Import.BatchSize)
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be positive, got %d", c.Fetch.TimeoutSeconds)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	var c Config
	c.Import.BatchSize = DefaultMaxBatchOps
	c.Import.Account = "default"
	c.Fetch.TimeoutSeconds = 30
	c.Logging.Level = "INFO"
	c.Logging.Format = "json"
	c.Logging.Tracing = true
	return &c
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	if c.Import.BatchSize == 0 {
		c.Import.BatchSize = DefaultMaxBatchOps
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = 30
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return c, nil
}
