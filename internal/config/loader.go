package config

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

var ErrMissingConnectionString = errors.New("device storage connection string is not configured")

func Init() (*ServiceConfig, error) {
	cfg := &ServiceConfig{}

	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service configuration: %w", err)
	}

	if len(ServiceVersion) != 0 {
		cfg.App.ServiceVersion = ServiceVersion
	}

	if len(CommitSHA) != 0 {
		cfg.App.CommitSHA = CommitSHA
	}

	return cfg, nil
}

// ValidateStorage is called once secrets have been resolved, since the
// connection string may come from Vault rather than the environment.
func (c *ServiceConfig) ValidateStorage() error {
	if c.Storage.ConnectionString == "" {
		return ErrMissingConnectionString
	}

	return nil
}
