package services

import (
	"context"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/platform"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/vendor"
)

type PlatformService struct {
	repo    platform.Repository
	vendors vendor.Repository
}

func NewPlatformService(repo platform.Repository, vendors vendor.Repository) *PlatformService {
	return &PlatformService{repo: repo, vendors: vendors}
}

func (s *PlatformService) GetAll(ctx context.Context, vendorID *int64) ([]platform.Platform, error) {
	return s.repo.GetAll(ctx, vendorID)
}

func (s *PlatformService) GetByID(ctx context.Context, id int64) (platform.Platform, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PlatformService) Create(ctx context.Context, vendorID int64, name string) (platform.Platform, error) {
	if _, err := s.vendors.GetByID(ctx, vendorID); err != nil {
		return platform.Platform{}, platform.ErrUnknownVendor
	}
	return s.repo.Create(ctx, platform.New(vendorID, name))
}
