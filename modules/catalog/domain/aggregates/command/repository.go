package command

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("command not found")
	ErrDuplicate    = errors.New("command already exists for vendor")
	ErrBadReference = errors.New("command references an unknown vendor, platform or tag")
)

// FindParams filter the paginated listing. Predicates combine by
// conjunction; Search is a substring match over the command text.
type FindParams struct {
	Search       string
	VendorName   string
	PlatformName string
	TagName      string
	Version      string
	Limit        int
	Offset       int
}

// WithNames is the denormalized read model the listing endpoints render.
type WithNames struct {
	Command
	VendorName   string
	PlatformName *string
	TagName      *string
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]WithNames, int64, error)
	GetByID(ctx context.Context, id int64) (Command, error)
	// GetWithNamesByID returns one command joined with its vendor, platform
	// and tag names.
	GetWithNamesByID(ctx context.Context, id int64) (WithNames, error)
	// FindByText looks up the reconciliation key (vendor, command-text).
	FindByText(ctx context.Context, vendorID int64, text string) (Command, error)
	Create(ctx context.Context, c Command) (Command, error)
	// Update overwrites every mutable column from the entity.
	Update(ctx context.Context, c Command) (Command, error)
}
