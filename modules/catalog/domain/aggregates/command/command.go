package command

import (
	"strings"
	"time"
)

// Command is identified within a vendor by its exact text; that pair is the
// reconciliation key for both the single-command and the batch paths.
type Command struct {
	id          int64
	vendorID    int64
	platformID  *int64
	tagID       *int64
	text        string
	description *string
	example     *string
	version     *string
	createdAt   time.Time
	updatedAt   time.Time
}

type Option func(*Command)

func WithPlatformID(id *int64) Option {
	return func(c *Command) { c.platformID = id }
}

func WithTagID(id *int64) Option {
	return func(c *Command) { c.tagID = id }
}

func WithDescription(v *string) Option {
	return func(c *Command) { c.description = v }
}

func WithExample(v *string) Option {
	return func(c *Command) { c.example = v }
}

func WithVersion(v *string) Option {
	return func(c *Command) { c.version = v }
}

func New(vendorID int64, text string, opts ...Option) Command {
	c := Command{vendorID: vendorID, text: strings.TrimSpace(text)}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func Hydrate(
	id, vendorID int64,
	platformID, tagID *int64,
	text string,
	description, example, version *string,
	createdAt, updatedAt time.Time,
) Command {
	return Command{
		id:          id,
		vendorID:    vendorID,
		platformID:  platformID,
		tagID:       tagID,
		text:        text,
		description: description,
		example:     example,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (c Command) ID() int64            { return c.id }
func (c Command) VendorID() int64      { return c.vendorID }
func (c Command) PlatformID() *int64   { return c.platformID }
func (c Command) TagID() *int64        { return c.tagID }
func (c Command) Text() string         { return c.text }
func (c Command) Description() *string { return c.description }
func (c Command) Example() *string     { return c.example }
func (c Command) Version() *string     { return c.version }
func (c Command) CreatedAt() time.Time { return c.createdAt }
func (c Command) UpdatedAt() time.Time { return c.updatedAt }
func (c Command) IsZero() bool         { return c.id == 0 && c.text == "" }

// Overwritten returns a copy with the given fields replaced. Nil incoming
// description/example/version values clear the stored field; the tag is
// always replaced. Platform is intentionally untouched: sheet rows never
// carry one.
func (c Command) Overwritten(description, example, version *string, tagID *int64) Command {
	out := c
	out.description = description
	out.example = example
	out.version = version
	out.tagID = tagID
	return out
}
