package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/architeacher/device-admin/internal/ports"
	"github.com/cenkalti/backoff/v5"
)

const (
	storageSecretName      = "storage"
	connectionStringSecret = "connection_string"
)

var ErrSecretNotFound = errors.New("secret not found")

// StorageSecretPath is the KV v2 path holding the storage connection string.
func (c *ServiceConfig) StorageSecretPath() string {
	return fmt.Sprintf("%s/data/%s", c.SecretsStorage.MountPath, storageSecretName)
}

// ApplySecrets overrides the storage connection string with the value kept in
// the secrets store. Reads are retried with exponential backoff; a missing
// secret is not retried.
func ApplySecrets(ctx context.Context, secretsRepo ports.SecretsRepository, cfg *ServiceConfig) error {
	if !cfg.SecretsStorage.Enabled {
		return nil
	}

	if cfg.SecretsStorage.Token != "" {
		secretsRepo.SetToken(cfg.SecretsStorage.Token)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.SecretsStorage.Timeout)
	defer cancel()

	path := cfg.StorageSecretPath()

	connectionString, err := backoff.Retry(ctx, func() (string, error) {
		secret, err := secretsRepo.GetSecrets(ctx, path)
		if err != nil {
			return "", err
		}

		if secret == nil {
			return "", backoff.Permanent(fmt.Errorf("%w: %s", ErrSecretNotFound, path))
		}

		data, _ := secret.Data["data"].(map[string]any)

		value, _ := data[connectionStringSecret].(string)
		if value == "" {
			return "", backoff.Permanent(fmt.Errorf("%w: %s has no %s", ErrSecretNotFound, path, connectionStringSecret))
		}

		return value, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(cfg.SecretsStorage.MaxRetries)+1),
	)
	if err != nil {
		return fmt.Errorf("failed to read storage secret: %w", err)
	}

	cfg.Storage.ConnectionString = connectionString

	return nil
}
