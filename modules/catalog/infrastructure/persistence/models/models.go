package models

import (
	"database/sql"
	"time"
)

type Vendor struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Platform struct {
	ID        int64
	VendorID  int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Tag struct {
	ID        int64
	VendorID  int64
	ParentID  sql.NullInt64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Command struct {
	ID          int64
	VendorID    int64
	PlatformID  sql.NullInt64
	TagID       sql.NullInt64
	Command     string
	Description sql.NullString
	Example     sql.NullString
	Version     sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CommandWithNames carries the joined vendor/platform/tag names alongside a
// command row for the listing endpoints.
type CommandWithNames struct {
	Command
	VendorName   string
	PlatformName sql.NullString
	TagName      sql.NullString
}
