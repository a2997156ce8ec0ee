package tag

import (
	"context"
	"errors"
)

var (
	ErrNotFound             = errors.New("tag not found")
	ErrDuplicateSibling     = errors.New("tag name already exists under this parent")
	ErrUnknownVendor        = errors.New("tag references an unknown vendor")
	ErrParentVendorMismatch = errors.New("parent tag belongs to another vendor")
)

type Repository interface {
	// GetForest lists tags, optionally scoped to one vendor, ordered by
	// (parent, name) so that forest construction is stable.
	GetForest(ctx context.Context, vendorID *int64) ([]Tag, error)
	GetByID(ctx context.Context, id int64) (Tag, error)
	// FindSibling looks up a child of parentID (nil meaning the vendor's
	// forest root) by normalized name.
	FindSibling(ctx context.Context, vendorID int64, parentID *int64, name string) (Tag, error)
	Create(ctx context.Context, t Tag) (Tag, error)
}
