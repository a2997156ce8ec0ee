package mappers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/tag"
)

func TestTagsToForest(t *testing.T) {
	now := time.Now()
	rootID := int64(1)
	routingID := int64(2)

	// Repository order: roots first, then children grouped by parent,
	// siblings by name.
	tags := []tag.Tag{
		tag.Hydrate(1, 1, nil, "Diagnostics", now, now),
		tag.Hydrate(2, 1, nil, "Routing", now, now),
		tag.Hydrate(3, 1, &rootID, "Memory", now, now),
		tag.Hydrate(4, 1, &routingID, "IPv4", now, now),
		tag.Hydrate(5, 1, &routingID, "IPv6", now, now),
	}

	forest := TagsToForest(tags)
	require.Len(t, forest, 2)

	require.Equal(t, "Diagnostics", forest[0].Name)
	require.Len(t, forest[0].Children, 1)
	require.Equal(t, "Memory", forest[0].Children[0].Name)

	require.Equal(t, "Routing", forest[1].Name)
	require.Len(t, forest[1].Children, 2)
	require.Equal(t, "IPv4", forest[1].Children[0].Name)
	require.Equal(t, "IPv6", forest[1].Children[1].Name)

	// Leaves carry an empty slice, not nil, so the wire shape is stable.
	require.NotNil(t, forest[1].Children[0].Children)
	require.Empty(t, forest[1].Children[0].Children)
}

func TestTagsToForest_Empty(t *testing.T) {
	require.Empty(t, TagsToForest(nil))
	require.NotNil(t, TagsToForest(nil))
}
