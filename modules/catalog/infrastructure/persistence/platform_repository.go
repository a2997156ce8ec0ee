package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/platform"
	"github.com/cmdvault/cmdvault/modules/catalog/infrastructure/persistence/models"
	"github.com/cmdvault/cmdvault/pkg/composables"
)

const platformFindQuery = `SELECT id, vendor_id, name, created_at, updated_at FROM platforms`

type PlatformRepository struct{}

func NewPlatformRepository() platform.Repository {
	return &PlatformRepository{}
}

func (r *PlatformRepository) GetAll(ctx context.Context, vendorID *int64) ([]platform.Platform, error) {
	if vendorID != nil {
		return r.queryPlatforms(ctx, platformFindQuery+" WHERE vendor_id = $1 ORDER BY name", *vendorID)
	}
	return r.queryPlatforms(ctx, platformFindQuery+" ORDER BY name")
}

func (r *PlatformRepository) GetByID(ctx context.Context, id int64) (platform.Platform, error) {
	platforms, err := r.queryPlatforms(ctx, platformFindQuery+" WHERE id = $1", id)
	if err != nil {
		return platform.Platform{}, err
	}
	if len(platforms) == 0 {
		return platform.Platform{}, platform.ErrNotFound
	}
	return platforms[0], nil
}

func (r *PlatformRepository) Create(ctx context.Context, p platform.Platform) (platform.Platform, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return platform.Platform{}, err
	}

	query := `
		INSERT INTO platforms (vendor_id, name)
		VALUES ($1, $2)
		RETURNING id
	`
	var id int64
	if err := tx.QueryRow(ctx, query, p.VendorID(), p.Name()).Scan(&id); err != nil {
		if isPgError(err, pgUniqueViolation) {
			return platform.Platform{}, platform.ErrDuplicateName
		}
		if isPgError(err, pgForeignKeyViolation) {
			return platform.Platform{}, platform.ErrUnknownVendor
		}
		return platform.Platform{}, errors.Wrap(err, "failed to insert platform")
	}
	return r.GetByID(ctx, id)
}

func (r *PlatformRepository) queryPlatforms(ctx context.Context, query string, args ...interface{}) ([]platform.Platform, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query platforms")
	}
	defer rows.Close()

	var platforms []platform.Platform
	for rows.Next() {
		var m models.Platform
		if err := rows.Scan(&m.ID, &m.VendorID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan platform row")
		}
		platforms = append(platforms, toDomainPlatform(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return platforms, nil
}
