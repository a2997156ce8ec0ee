package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/aggregates/command"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/platform"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/tag"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/vendor"
)

// In-memory repositories backing the service tests. They enforce the same
// uniqueness rules and sentinel errors as the pgx implementations.

type memVendorRepo struct {
	seq     int64
	vendors map[int64]vendor.Vendor
}

func newMemVendorRepo() *memVendorRepo {
	return &memVendorRepo{vendors: map[int64]vendor.Vendor{}}
}

func (r *memVendorRepo) GetAll(_ context.Context) ([]vendor.Vendor, error) {
	out := make([]vendor.Vendor, 0, len(r.vendors))
	for _, v := range r.vendors {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (r *memVendorRepo) GetByID(_ context.Context, id int64) (vendor.Vendor, error) {
	v, ok := r.vendors[id]
	if !ok {
		return vendor.Vendor{}, vendor.ErrNotFound
	}
	return v, nil
}

func (r *memVendorRepo) Create(_ context.Context, v vendor.Vendor) (vendor.Vendor, error) {
	for _, existing := range r.vendors {
		if existing.Name() == v.Name() {
			return vendor.Vendor{}, vendor.ErrDuplicateName
		}
	}
	r.seq++
	created := vendor.Hydrate(r.seq, v.Name(), time.Now(), time.Now())
	r.vendors[r.seq] = created
	return created, nil
}

type memPlatformRepo struct {
	seq       int64
	platforms map[int64]platform.Platform
}

func newMemPlatformRepo() *memPlatformRepo {
	return &memPlatformRepo{platforms: map[int64]platform.Platform{}}
}

func (r *memPlatformRepo) GetAll(_ context.Context, vendorID *int64) ([]platform.Platform, error) {
	out := make([]platform.Platform, 0, len(r.platforms))
	for _, p := range r.platforms {
		if vendorID != nil && p.VendorID() != *vendorID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (r *memPlatformRepo) GetByID(_ context.Context, id int64) (platform.Platform, error) {
	p, ok := r.platforms[id]
	if !ok {
		return platform.Platform{}, platform.ErrNotFound
	}
	return p, nil
}

func (r *memPlatformRepo) Create(_ context.Context, p platform.Platform) (platform.Platform, error) {
	for _, existing := range r.platforms {
		if existing.VendorID() == p.VendorID() && existing.Name() == p.Name() {
			return platform.Platform{}, platform.ErrDuplicateName
		}
	}
	r.seq++
	created := platform.Hydrate(r.seq, p.VendorID(), p.Name(), time.Now(), time.Now())
	r.platforms[r.seq] = created
	return created, nil
}

type memTagRepo struct {
	seq  int64
	tags map[int64]tag.Tag
	// beforeCreate, when set, runs ahead of every insert; tests use it to
	// inject a concurrent winner for the race-adoption path.
	beforeCreate func(t tag.Tag)
}

func newMemTagRepo() *memTagRepo {
	return &memTagRepo{tags: map[int64]tag.Tag{}}
}

func (r *memTagRepo) GetForest(_ context.Context, vendorID *int64) ([]tag.Tag, error) {
	out := make([]tag.Tag, 0, len(r.tags))
	for _, t := range r.tags {
		if vendorID != nil && t.VendorID() != *vendorID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := int64(-1), int64(-1)
		if out[i].ParentID() != nil {
			pi = *out[i].ParentID()
		}
		if out[j].ParentID() != nil {
			pj = *out[j].ParentID()
		}
		if pi != pj {
			return pi < pj
		}
		return out[i].Name() < out[j].Name()
	})
	return out, nil
}

func (r *memTagRepo) GetByID(_ context.Context, id int64) (tag.Tag, error) {
	t, ok := r.tags[id]
	if !ok {
		return tag.Tag{}, tag.ErrNotFound
	}
	return t, nil
}

func (r *memTagRepo) FindSibling(_ context.Context, vendorID int64, parentID *int64, name string) (tag.Tag, error) {
	for _, t := range r.tags {
		if t.VendorID() != vendorID || t.Name() != name {
			continue
		}
		if sameParent(t.ParentID(), parentID) {
			return t, nil
		}
	}
	return tag.Tag{}, tag.ErrNotFound
}

func (r *memTagRepo) Create(ctx context.Context, t tag.Tag) (tag.Tag, error) {
	if r.beforeCreate != nil {
		hook := r.beforeCreate
		r.beforeCreate = nil
		hook(t)
	}
	if t.ParentID() != nil {
		parent, ok := r.tags[*t.ParentID()]
		if !ok {
			return tag.Tag{}, tag.ErrNotFound
		}
		if parent.VendorID() != t.VendorID() {
			return tag.Tag{}, tag.ErrParentVendorMismatch
		}
	}
	if _, err := r.FindSibling(ctx, t.VendorID(), t.ParentID(), t.Name()); err == nil {
		return tag.Tag{}, tag.ErrDuplicateSibling
	}
	r.seq++
	created := tag.Hydrate(r.seq, t.VendorID(), t.ParentID(), t.Name(), time.Now(), time.Now())
	r.tags[r.seq] = created
	return created, nil
}

type memCommandRepo struct {
	seq      int64
	commands map[int64]command.Command
	vendors  *memVendorRepo
	tags     *memTagRepo
	// failOnCreate, when positive, fails the Nth insert; tests use it to
	// abort an ingest mid-batch.
	failOnCreate int
	createCount  int
	failErr      error
	// beforeCreate, when set, runs ahead of every insert; tests use it to
	// inject a concurrent winner for the race fall-through.
	beforeCreate func(c command.Command)
}

func newMemCommandRepo(vendors *memVendorRepo, tags *memTagRepo) *memCommandRepo {
	return &memCommandRepo{commands: map[int64]command.Command{}, vendors: vendors, tags: tags}
}

func (r *memCommandRepo) GetPaginated(ctx context.Context, params *command.FindParams) ([]command.WithNames, int64, error) {
	ids := make([]int64, 0, len(r.commands))
	for id := range r.commands {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	matched := make([]command.WithNames, 0)
	for _, id := range ids {
		wn, err := r.GetWithNamesByID(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		if params.Search != "" && !strings.Contains(wn.Text(), params.Search) {
			continue
		}
		if params.VendorName != "" && wn.VendorName != params.VendorName {
			continue
		}
		if params.TagName != "" && (wn.TagName == nil || *wn.TagName != params.TagName) {
			continue
		}
		if params.Version != "" && (wn.Version() == nil || *wn.Version() != params.Version) {
			continue
		}
		matched = append(matched, wn)
	}

	total := int64(len(matched))
	if params.Offset > 0 {
		if params.Offset >= len(matched) {
			return []command.WithNames{}, total, nil
		}
		matched = matched[params.Offset:]
	}
	if params.Limit > 0 && params.Limit < len(matched) {
		matched = matched[:params.Limit]
	}
	return matched, total, nil
}

func (r *memCommandRepo) GetByID(_ context.Context, id int64) (command.Command, error) {
	c, ok := r.commands[id]
	if !ok {
		return command.Command{}, command.ErrNotFound
	}
	return c, nil
}

func (r *memCommandRepo) GetWithNamesByID(ctx context.Context, id int64) (command.WithNames, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return command.WithNames{}, err
	}
	v, err := r.vendors.GetByID(ctx, c.VendorID())
	if err != nil {
		return command.WithNames{}, err
	}
	wn := command.WithNames{Command: c, VendorName: v.Name()}
	if c.TagID() != nil {
		if t, err := r.tags.GetByID(ctx, *c.TagID()); err == nil {
			name := t.Name()
			wn.TagName = &name
		}
	}
	return wn, nil
}

func (r *memCommandRepo) FindByText(_ context.Context, vendorID int64, text string) (command.Command, error) {
	for _, c := range r.commands {
		if c.VendorID() == vendorID && c.Text() == text {
			return c, nil
		}
	}
	return command.Command{}, command.ErrNotFound
}

func (r *memCommandRepo) Create(ctx context.Context, c command.Command) (command.Command, error) {
	if r.beforeCreate != nil {
		hook := r.beforeCreate
		r.beforeCreate = nil
		hook(c)
	}
	r.createCount++
	if r.failOnCreate > 0 && r.createCount >= r.failOnCreate {
		return command.Command{}, r.failErr
	}
	if _, err := r.FindByText(ctx, c.VendorID(), c.Text()); err == nil {
		return command.Command{}, command.ErrDuplicate
	}
	r.seq++
	created := command.Hydrate(
		r.seq, c.VendorID(), c.PlatformID(), c.TagID(), c.Text(),
		c.Description(), c.Example(), c.Version(), time.Now(), time.Now(),
	)
	r.commands[r.seq] = created
	return created, nil
}

func (r *memCommandRepo) Update(_ context.Context, c command.Command) (command.Command, error) {
	if _, ok := r.commands[c.ID()]; !ok {
		return command.Command{}, command.ErrNotFound
	}
	r.commands[c.ID()] = c
	return c, nil
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
