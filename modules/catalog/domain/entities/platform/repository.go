package platform

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("platform not found")
	ErrDuplicateName = errors.New("platform name already exists for vendor")
	ErrUnknownVendor = errors.New("platform references an unknown vendor")
)

type Repository interface {
	// GetAll lists platforms, optionally scoped to one vendor.
	GetAll(ctx context.Context, vendorID *int64) ([]Platform, error)
	GetByID(ctx context.Context, id int64) (Platform, error)
	Create(ctx context.Context, p Platform) (Platform, error)
}
