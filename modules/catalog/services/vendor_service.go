package services

import (
	"context"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/vendor"
)

type VendorService struct {
	repo vendor.Repository
}

func NewVendorService(repo vendor.Repository) *VendorService {
	return &VendorService{repo: repo}
}

func (s *VendorService) GetAll(ctx context.Context) ([]vendor.Vendor, error) {
	return s.repo.GetAll(ctx)
}

func (s *VendorService) GetByID(ctx context.Context, id int64) (vendor.Vendor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *VendorService) Create(ctx context.Context, name string) (vendor.Vendor, error) {
	return s.repo.Create(ctx, vendor.New(name))
}
