package persistence

import (
	"github.com/cmdvault/cmdvault/modules/catalog/domain/aggregates/command"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/platform"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/tag"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/vendor"
	"github.com/cmdvault/cmdvault/modules/catalog/infrastructure/persistence/models"
	"github.com/cmdvault/cmdvault/pkg/mapping"
)

func toDomainVendor(m *models.Vendor) vendor.Vendor {
	return vendor.Hydrate(m.ID, m.Name, m.CreatedAt, m.UpdatedAt)
}

func toDomainPlatform(m *models.Platform) platform.Platform {
	return platform.Hydrate(m.ID, m.VendorID, m.Name, m.CreatedAt, m.UpdatedAt)
}

func toDomainTag(m *models.Tag) tag.Tag {
	return tag.Hydrate(
		m.ID,
		m.VendorID,
		mapping.SQLNullInt64ToPointer(m.ParentID),
		m.Name,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainCommand(m *models.Command) command.Command {
	return command.Hydrate(
		m.ID,
		m.VendorID,
		mapping.SQLNullInt64ToPointer(m.PlatformID),
		mapping.SQLNullInt64ToPointer(m.TagID),
		m.Command,
		mapping.SQLNullStringToPointer(m.Description),
		mapping.SQLNullStringToPointer(m.Example),
		mapping.SQLNullStringToPointer(m.Version),
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainCommandWithNames(m *models.CommandWithNames) command.WithNames {
	return command.WithNames{
		Command:      toDomainCommand(&m.Command),
		VendorName:   m.VendorName,
		PlatformName: mapping.SQLNullStringToPointer(m.PlatformName),
		TagName:      mapping.SQLNullStringToPointer(m.TagName),
	}
}
