package mappers

import (
	"github.com/cmdvault/cmdvault/modules/catalog/domain/aggregates/command"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/platform"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/tag"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/vendor"
	"github.com/cmdvault/cmdvault/modules/catalog/presentation/viewmodels"
)

func VendorToDropdown(v vendor.Vendor) viewmodels.DropdownItem {
	return viewmodels.DropdownItem{ID: v.ID(), Name: v.Name()}
}

func VendorToViewModel(v vendor.Vendor) viewmodels.Vendor {
	return viewmodels.Vendor{ID: v.ID(), Name: v.Name()}
}

func PlatformToDropdown(p platform.Platform) viewmodels.DropdownItem {
	return viewmodels.DropdownItem{ID: p.ID(), Name: p.Name()}
}

func PlatformToViewModel(p platform.Platform) viewmodels.Platform {
	return viewmodels.Platform{ID: p.ID(), Name: p.Name(), Vendor: p.VendorID()}
}

func TagToViewModel(t tag.Tag) viewmodels.Tag {
	return viewmodels.Tag{ID: t.ID(), Name: t.Name(), Vendor: t.VendorID(), Parent: t.ParentID()}
}

func CommandToViewModel(c command.WithNames) viewmodels.Command {
	return viewmodels.Command{
		ID:          c.ID(),
		Command:     c.Text(),
		Description: c.Description(),
		Example:     c.Example(),
		Version:     c.Version(),
		Vendor:      c.VendorName,
		Platform:    c.PlatformName,
		Tag:         c.TagName,
	}
}

// TagsToForest materializes the flat tag list into the nested tree the
// pickers render. Input order (roots first, siblings by name) carries over
// to the output, so the rendering is stable.
func TagsToForest(tags []tag.Tag) []*viewmodels.TagTreeItem {
	nodes := make(map[int64]*viewmodels.TagTreeItem, len(tags))
	for _, t := range tags {
		nodes[t.ID()] = &viewmodels.TagTreeItem{
			ID:       t.ID(),
			Name:     t.Name(),
			Children: []*viewmodels.TagTreeItem{},
		}
	}

	forest := make([]*viewmodels.TagTreeItem, 0)
	for _, t := range tags {
		node := nodes[t.ID()]
		if t.ParentID() == nil {
			forest = append(forest, node)
			continue
		}
		if parent, ok := nodes[*t.ParentID()]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			// Orphan (parent filtered out); surface it as a root rather
			// than dropping it.
			forest = append(forest, node)
		}
	}
	return forest
}
