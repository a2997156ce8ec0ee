package viewmodels

// DropdownItem populates the vendor and platform selectors.
type DropdownItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TagTreeItem is one node of the tag forest rendered by the tree pickers.
// Children is never null on the wire.
type TagTreeItem struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Children []*TagTreeItem `json:"children"`
}

// Command is the denormalized listing shape: names, not ids, for vendor,
// platform and tag.
type Command struct {
	ID          int64   `json:"id"`
	Command     string  `json:"command"`
	Description *string `json:"description"`
	Example     *string `json:"example"`
	Version     *string `json:"version"`
	Vendor      string  `json:"vendor"`
	Platform    *string `json:"platform"`
	Tag         *string `json:"tag"`
}

// PagedResponse mirrors the Django-style envelope the console expects.
type PagedResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type Vendor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Platform struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Vendor int64  `json:"vendor"`
}

type Tag struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Vendor int64  `json:"vendor"`
	Parent *int64 `json:"parent"`
}
