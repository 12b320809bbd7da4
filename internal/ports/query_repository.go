package ports

import (
	"context"

	"github.com/architeacher/device-admin/internal/domain/model"
)

type (
	// SaveOptions control how Save treats an existing query.
	SaveOptions struct {
		Force bool
		Mode  model.ConcurrencyMode
	}

	SaveOption func(*SaveOptions)
)

// WithForce lets Save overwrite a query that already exists.
func WithForce() SaveOption {
	return func(o *SaveOptions) {
		o.Force = true
	}
}

// WithConcurrencyMode replaces the default last-write-wins behavior of Save.
func WithConcurrencyMode(mode model.ConcurrencyMode) SaveOption {
	return func(o *SaveOptions) {
		o.Mode = mode
	}
}

// NewSaveOptions applies opts over an unconditional, non-forced save.
func NewSaveOptions(opts ...SaveOption) SaveOptions {
	options := SaveOptions{Mode: model.Unconditional()}
	for _, opt := range opts {
		opt(&options)
	}

	return options
}

// DeviceListQueryRepository persists named device list queries.
type DeviceListQueryRepository interface {
	// NameExists reports whether a query with the given name is stored.
	NameExists(ctx context.Context, name string) (bool, error)

	// GetByName returns nil and no error when the name is unknown.
	GetByName(ctx context.Context, name string) (*model.DeviceListQuery, error)

	// Save reports false when the write was declined.
	Save(ctx context.Context, query *model.DeviceListQuery, opts ...SaveOption) (bool, error)

	Touch(ctx context.Context, name string) (bool, error)

	Delete(ctx context.Context, name string) (bool, error)

	// ListRecent returns queries newest first; limit <= 0 means all.
	ListRecent(ctx context.Context, limit int) ([]*model.DeviceListQuery, error)

	ListNames(ctx context.Context) ([]string, error)
}
