package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/tag"
	"github.com/cmdvault/cmdvault/modules/catalog/infrastructure/persistence/models"
	"github.com/cmdvault/cmdvault/pkg/composables"
	"github.com/cmdvault/cmdvault/pkg/mapping"
)

const tagFindQuery = `SELECT id, vendor_id, parent_id, name, created_at, updated_at FROM tags`

type TagRepository struct{}

func NewTagRepository() tag.Repository {
	return &TagRepository{}
}

func (r *TagRepository) GetForest(ctx context.Context, vendorID *int64) ([]tag.Tag, error) {
	// NULLS FIRST puts the roots ahead of their children so a single pass
	// can attach every node to an already-seen parent.
	if vendorID != nil {
		return r.queryTags(ctx, tagFindQuery+" WHERE vendor_id = $1 ORDER BY parent_id NULLS FIRST, name", *vendorID)
	}
	return r.queryTags(ctx, tagFindQuery+" ORDER BY parent_id NULLS FIRST, name")
}

func (r *TagRepository) GetByID(ctx context.Context, id int64) (tag.Tag, error) {
	tags, err := r.queryTags(ctx, tagFindQuery+" WHERE id = $1", id)
	if err != nil {
		return tag.Tag{}, err
	}
	if len(tags) == 0 {
		return tag.Tag{}, tag.ErrNotFound
	}
	return tags[0], nil
}

func (r *TagRepository) FindSibling(ctx context.Context, vendorID int64, parentID *int64, name string) (tag.Tag, error) {
	var (
		tags []tag.Tag
		err  error
	)
	if parentID == nil {
		tags, err = r.queryTags(ctx, tagFindQuery+" WHERE vendor_id = $1 AND parent_id IS NULL AND name = $2", vendorID, name)
	} else {
		tags, err = r.queryTags(ctx, tagFindQuery+" WHERE vendor_id = $1 AND parent_id = $2 AND name = $3", vendorID, *parentID, name)
	}
	if err != nil {
		return tag.Tag{}, err
	}
	if len(tags) == 0 {
		return tag.Tag{}, tag.ErrNotFound
	}
	return tags[0], nil
}

func (r *TagRepository) Create(ctx context.Context, t tag.Tag) (tag.Tag, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return tag.Tag{}, err
	}

	if t.ParentID() != nil {
		parent, err := r.GetByID(ctx, *t.ParentID())
		if err != nil {
			return tag.Tag{}, err
		}
		if parent.VendorID() != t.VendorID() {
			return tag.Tag{}, tag.ErrParentVendorMismatch
		}
	}

	query := `
		INSERT INTO tags (vendor_id, parent_id, name)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	if err := tx.QueryRow(
		ctx,
		query,
		t.VendorID(),
		mapping.PointerToSQLNullInt64(t.ParentID()),
		t.Name(),
	).Scan(&id); err != nil {
		if isPgError(err, pgUniqueViolation) {
			return tag.Tag{}, tag.ErrDuplicateSibling
		}
		if isPgError(err, pgForeignKeyViolation) {
			return tag.Tag{}, tag.ErrUnknownVendor
		}
		return tag.Tag{}, errors.Wrap(err, "failed to insert tag")
	}
	return r.GetByID(ctx, id)
}

func (r *TagRepository) queryTags(ctx context.Context, query string, args ...interface{}) ([]tag.Tag, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query tags")
	}
	defer rows.Close()

	var tags []tag.Tag
	for rows.Next() {
		var m models.Tag
		if err := rows.Scan(&m.ID, &m.VendorID, &m.ParentID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan tag row")
		}
		tags = append(tags, toDomainTag(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return tags, nil
}
