package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/require"
)

type fakeSecretsRepository struct {
	token    string
	paths    []string
	failures int
	secret   *api.Secret
}

func (f *fakeSecretsRepository) SetToken(v string) {
	f.token = v
}

func (f *fakeSecretsRepository) GetSecrets(_ context.Context, path string) (*api.Secret, error) {
	f.paths = append(f.paths, path)

	if f.failures > 0 {
		f.failures--

		return nil, errors.New("vault sealed")
	}

	return f.secret, nil
}

func storageSecret(connectionString string) *api.Secret {
	return &api.Secret{
		Data: map[string]any{
			"data": map[string]any{"connection_string": connectionString},
		},
	}
}

func secretsConfig() *ServiceConfig {
	cfg := &ServiceConfig{}
	cfg.Storage.ConnectionString = "postgres://from-env"
	cfg.SecretsStorage = SecretsStorage{
		Enabled:    true,
		Token:      "root",
		MountPath:  "svc-device-admin",
		Timeout:    10 * time.Second,
		MaxRetries: 2,
	}

	return cfg
}

func TestApplySecrets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name             string
		disabled         bool
		repo             *fakeSecretsRepository
		expectedConn     string
		expectedErr      error
		expectedAttempts int
	}{
		{
			name:             "overrides connection string",
			repo:             &fakeSecretsRepository{secret: storageSecret("postgres://from-vault")},
			expectedConn:     "postgres://from-vault",
			expectedAttempts: 1,
		},
		{
			name:             "retries transient failures",
			repo:             &fakeSecretsRepository{failures: 1, secret: storageSecret("postgres://from-vault")},
			expectedConn:     "postgres://from-vault",
			expectedAttempts: 2,
		},
		{
			name:             "missing secret is not retried",
			repo:             &fakeSecretsRepository{},
			expectedConn:     "postgres://from-env",
			expectedErr:      ErrSecretNotFound,
			expectedAttempts: 1,
		},
		{
			name:             "secret without connection string",
			repo:             &fakeSecretsRepository{secret: &api.Secret{Data: map[string]any{"data": map[string]any{}}}},
			expectedConn:     "postgres://from-env",
			expectedErr:      ErrSecretNotFound,
			expectedAttempts: 1,
		},
		{
			name:             "disabled secrets storage is skipped",
			disabled:         true,
			repo:             &fakeSecretsRepository{secret: storageSecret("postgres://from-vault")},
			expectedConn:     "postgres://from-env",
			expectedAttempts: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := secretsConfig()
			cfg.SecretsStorage.Enabled = !tc.disabled

			err := ApplySecrets(t.Context(), tc.repo, cfg)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
			}

			require.Equal(t, tc.expectedConn, cfg.Storage.ConnectionString)
			require.Len(t, tc.repo.paths, tc.expectedAttempts)

			for _, path := range tc.repo.paths {
				require.Equal(t, "svc-device-admin/data/storage", path)
			}

			if tc.expectedAttempts > 0 {
				require.Equal(t, "root", tc.repo.token)
			}
		})
	}
}
