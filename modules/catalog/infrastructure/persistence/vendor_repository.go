package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/vendor"
	"github.com/cmdvault/cmdvault/modules/catalog/infrastructure/persistence/models"
	"github.com/cmdvault/cmdvault/pkg/composables"
)

const vendorFindQuery = `SELECT id, name, created_at, updated_at FROM vendors`

type VendorRepository struct{}

func NewVendorRepository() vendor.Repository {
	return &VendorRepository{}
}

func (r *VendorRepository) GetAll(ctx context.Context) ([]vendor.Vendor, error) {
	return r.queryVendors(ctx, vendorFindQuery+" ORDER BY name")
}

func (r *VendorRepository) GetByID(ctx context.Context, id int64) (vendor.Vendor, error) {
	vendors, err := r.queryVendors(ctx, vendorFindQuery+" WHERE id = $1", id)
	if err != nil {
		return vendor.Vendor{}, err
	}
	if len(vendors) == 0 {
		return vendor.Vendor{}, vendor.ErrNotFound
	}
	return vendors[0], nil
}

func (r *VendorRepository) Create(ctx context.Context, v vendor.Vendor) (vendor.Vendor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return vendor.Vendor{}, err
	}

	query := `
		INSERT INTO vendors (name)
		VALUES ($1)
		RETURNING id
	`
	var id int64
	if err := tx.QueryRow(ctx, query, v.Name()).Scan(&id); err != nil {
		if isPgError(err, pgUniqueViolation) {
			return vendor.Vendor{}, vendor.ErrDuplicateName
		}
		return vendor.Vendor{}, errors.Wrap(err, "failed to insert vendor")
	}
	return r.GetByID(ctx, id)
}

func (r *VendorRepository) queryVendors(ctx context.Context, query string, args ...interface{}) ([]vendor.Vendor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query vendors")
	}
	defer rows.Close()

	var vendors []vendor.Vendor
	for rows.Next() {
		var m models.Vendor
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan vendor row")
		}
		vendors = append(vendors, toDomainVendor(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return vendors, nil
}
