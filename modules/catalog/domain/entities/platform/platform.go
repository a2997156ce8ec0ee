package platform

import (
	"strings"
	"time"
)

type Platform struct {
	id        int64
	vendorID  int64
	name      string
	createdAt time.Time
	updatedAt time.Time
}

func New(vendorID int64, name string) Platform {
	return Platform{vendorID: vendorID, name: strings.TrimSpace(name)}
}

func Hydrate(id, vendorID int64, name string, createdAt, updatedAt time.Time) Platform {
	return Platform{
		id:        id,
		vendorID:  vendorID,
		name:      name,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (p Platform) ID() int64            { return p.id }
func (p Platform) VendorID() int64      { return p.vendorID }
func (p Platform) Name() string         { return p.name }
func (p Platform) CreatedAt() time.Time { return p.createdAt }
func (p Platform) UpdatedAt() time.Time { return p.updatedAt }
