package services

import (
	"context"
	"errors"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/tag"
)

// ErrEmptyPath is returned when a tag path has no usable segments and there
// is no root to fall back to.
var ErrEmptyPath = errors.New("tag path has no segments and no root")

// CreatedTag pairs a resolver-created tag with the name of its parent at
// creation time; nil parent means the tag is a forest root.
type CreatedTag struct {
	Tag        tag.Tag
	ParentName *string
}

type TagService struct {
	repo tag.Repository
}

func NewTagService(repo tag.Repository) *TagService {
	return &TagService{repo: repo}
}

func (s *TagService) GetForest(ctx context.Context, vendorID *int64) ([]tag.Tag, error) {
	return s.repo.GetForest(ctx, vendorID)
}

func (s *TagService) GetByID(ctx context.Context, id int64) (tag.Tag, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TagService) Create(ctx context.Context, vendorID int64, name string, parentID *int64) (tag.Tag, error) {
	return s.repo.Create(ctx, tag.New(vendorID, name, parentID))
}

// ResolvePath walks path segments from the given root (nil meaning the
// vendor's forest root), creating missing tags along the way. It implements
// create-or-get: when an insert loses a uniqueness race the resolver re-reads
// and adopts the winner's row instead of failing. The returned leaf is the
// tag of the final segment; created lists the tags this call inserted, in
// path order.
func (s *TagService) ResolvePath(ctx context.Context, vendorID int64, rootID *int64, segments []string) (tag.Tag, []CreatedTag, error) {
	var (
		current    tag.Tag
		parentID   *int64
		parentName *string
	)
	if rootID != nil {
		root, err := s.repo.GetByID(ctx, *rootID)
		if err != nil {
			return tag.Tag{}, nil, err
		}
		if root.VendorID() != vendorID {
			return tag.Tag{}, nil, tag.ErrParentVendorMismatch
		}
		current = root
		id := root.ID()
		name := root.Name()
		parentID, parentName = &id, &name
	}

	var created []CreatedTag
	walked := false
	for _, segment := range segments {
		name := tag.NormalizeName(segment)
		if name == "" {
			continue
		}
		walked = true

		node, err := s.repo.FindSibling(ctx, vendorID, parentID, name)
		if errors.Is(err, tag.ErrNotFound) {
			node, err = s.repo.Create(ctx, tag.New(vendorID, name, parentID))
			if errors.Is(err, tag.ErrDuplicateSibling) {
				// Lost the race against a concurrent resolver; adopt
				// the winner's tag.
				node, err = s.repo.FindSibling(ctx, vendorID, parentID, name)
				if err != nil {
					return tag.Tag{}, nil, err
				}
			} else if err != nil {
				return tag.Tag{}, nil, err
			} else {
				created = append(created, CreatedTag{Tag: node, ParentName: parentName})
			}
		} else if err != nil {
			return tag.Tag{}, nil, err
		}

		current = node
		id := node.ID()
		nodeName := node.Name()
		parentID, parentName = &id, &nodeName
	}

	if !walked && rootID == nil {
		return tag.Tag{}, nil, ErrEmptyPath
	}
	return current, created, nil
}
