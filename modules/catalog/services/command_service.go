package services

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/aggregates/command"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/platform"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/tag"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/vendor"
)

// CommandUpdateDTO carries a partial update. Nil pointers leave the stored
// field unchanged; an explicitly provided empty string (or zero id) clears
// the field.
type CommandUpdateDTO struct {
	Text        *string
	Description *string
	Example     *string
	Version     *string
	PlatformID  *int64
	TagID       *int64
}

type CommandService struct {
	repo      command.Repository
	vendors   vendor.Repository
	platforms platform.Repository
	tags      tag.Repository
}

func NewCommandService(
	repo command.Repository,
	vendors vendor.Repository,
	platforms platform.Repository,
	tags tag.Repository,
) *CommandService {
	return &CommandService{repo: repo, vendors: vendors, platforms: platforms, tags: tags}
}

func (s *CommandService) GetPaginated(ctx context.Context, params *command.FindParams) ([]command.WithNames, int64, error) {
	if params != nil {
		params.Search = strings.TrimSpace(params.Search)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *CommandService) GetByID(ctx context.Context, id int64) (command.Command, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CommandService) GetWithNames(ctx context.Context, id int64) (command.WithNames, error) {
	return s.repo.GetWithNamesByID(ctx, id)
}

// CheckExistence is the pure lookup behind the add-command form; it never
// writes.
func (s *CommandService) CheckExistence(ctx context.Context, vendorID int64, text string) (command.Command, bool, error) {
	c, err := s.repo.FindByText(ctx, vendorID, strings.TrimSpace(text))
	if errors.Is(err, command.ErrNotFound) {
		return command.Command{}, false, nil
	}
	if err != nil {
		return command.Command{}, false, err
	}
	return c, true, nil
}

func (s *CommandService) Create(ctx context.Context, c command.Command) (command.Command, error) {
	if err := s.validateReferences(ctx, c); err != nil {
		return command.Command{}, err
	}
	return s.repo.Create(ctx, c)
}

func (s *CommandService) Update(ctx context.Context, id int64, dto CommandUpdateDTO) (command.Command, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return command.Command{}, err
	}

	text := existing.Text()
	if dto.Text != nil && strings.TrimSpace(*dto.Text) != "" {
		text = strings.TrimSpace(*dto.Text)
	}
	description := mergeText(existing.Description(), dto.Description)
	example := mergeText(existing.Example(), dto.Example)
	version := mergeText(existing.Version(), dto.Version)
	platformID := mergeRef(existing.PlatformID(), dto.PlatformID)
	tagID := mergeRef(existing.TagID(), dto.TagID)

	updated := command.Hydrate(
		existing.ID(),
		existing.VendorID(),
		platformID,
		tagID,
		text,
		description,
		example,
		version,
		existing.CreatedAt(),
		existing.UpdatedAt(),
	)
	if err := s.validateReferences(ctx, updated); err != nil {
		return command.Command{}, err
	}
	return s.repo.Update(ctx, updated)
}

// validateReferences checks that the vendor exists and that platform and
// tag, when set, belong to the same vendor as the command.
func (s *CommandService) validateReferences(ctx context.Context, c command.Command) error {
	if _, err := s.vendors.GetByID(ctx, c.VendorID()); err != nil {
		return command.ErrBadReference
	}
	if c.PlatformID() != nil {
		p, err := s.platforms.GetByID(ctx, *c.PlatformID())
		if err != nil || p.VendorID() != c.VendorID() {
			return command.ErrBadReference
		}
	}
	if c.TagID() != nil {
		t, err := s.tags.GetByID(ctx, *c.TagID())
		if err != nil || t.VendorID() != c.VendorID() {
			return command.ErrBadReference
		}
	}
	return nil
}

func mergeText(current, incoming *string) *string {
	if incoming == nil {
		return current
	}
	trimmed := strings.TrimSpace(*incoming)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mergeRef(current, incoming *int64) *int64 {
	if incoming == nil {
		return current
	}
	if *incoming == 0 {
		return nil
	}
	return incoming
}
