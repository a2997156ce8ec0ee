package tag

import (
	"strings"
	"time"
)

type Tag struct {
	id        int64
	vendorID  int64
	parentID  *int64
	name      string
	createdAt time.Time
	updatedAt time.Time
}

func New(vendorID int64, name string, parentID *int64) Tag {
	return Tag{vendorID: vendorID, name: NormalizeName(name), parentID: parentID}
}

func Hydrate(id, vendorID int64, parentID *int64, name string, createdAt, updatedAt time.Time) Tag {
	return Tag{
		id:        id,
		vendorID:  vendorID,
		parentID:  parentID,
		name:      name,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (t Tag) ID() int64            { return t.id }
func (t Tag) VendorID() int64      { return t.vendorID }
func (t Tag) ParentID() *int64     { return t.parentID }
func (t Tag) Name() string         { return t.name }
func (t Tag) CreatedAt() time.Time { return t.createdAt }
func (t Tag) UpdatedAt() time.Time { return t.updatedAt }
func (t Tag) IsZero() bool         { return t.id == 0 && t.name == "" }

// NormalizeName trims the name and collapses interior whitespace runs to a
// single space, so "A   B" and "A B" address the same tag.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
