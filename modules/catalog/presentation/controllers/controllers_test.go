package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/aggregates/command"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/platform"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/tag"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/vendor"
	"github.com/cmdvault/cmdvault/modules/catalog/services"
	"github.com/cmdvault/cmdvault/pkg/application"
	"github.com/cmdvault/cmdvault/pkg/eventbus"
)

// Compact in-memory repositories for routing-level tests; uniqueness and
// sentinel errors mirror the pgx implementations.

type stubVendorRepo struct {
	seq     int64
	vendors map[int64]vendor.Vendor
}

func (r *stubVendorRepo) GetAll(_ context.Context) ([]vendor.Vendor, error) {
	out := make([]vendor.Vendor, 0, len(r.vendors))
	for _, v := range r.vendors {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (r *stubVendorRepo) GetByID(_ context.Context, id int64) (vendor.Vendor, error) {
	v, ok := r.vendors[id]
	if !ok {
		return vendor.Vendor{}, vendor.ErrNotFound
	}
	return v, nil
}

func (r *stubVendorRepo) Create(_ context.Context, v vendor.Vendor) (vendor.Vendor, error) {
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

type stubPlatformRepo struct{}

func (r *stubPlatformRepo) GetAll(_ context.Context, _ *int64) ([]platform.Platform, error) {
	return nil, nil
}

func (r *stubPlatformRepo) GetByID(_ context.Context, _ int64) (platform.Platform, error) {
	return platform.Platform{}, platform.ErrNotFound
}

func (r *stubPlatformRepo) Create(_ context.Context, _ platform.Platform) (platform.Platform, error) {
	return platform.Platform{}, platform.ErrNotFound
}

type stubTagRepo struct {
	seq  int64
	tags map[int64]tag.Tag
}

func (r *stubTagRepo) GetForest(_ context.Context, vendorID *int64) ([]tag.Tag, error) {
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

func (r *stubTagRepo) GetByID(_ context.Context, id int64) (tag.Tag, error) {
	t, ok := r.tags[id]
	if !ok {
		return tag.Tag{}, tag.ErrNotFound
	}
	return t, nil
}

func (r *stubTagRepo) FindSibling(_ context.Context, vendorID int64, parentID *int64, name string) (tag.Tag, error) {
	for _, t := range r.tags {
		if t.VendorID() != vendorID || t.Name() != name {
			continue
		}
		a, b := t.ParentID(), parentID
		if (a == nil && b == nil) || (a != nil && b != nil && *a == *b) {
			return t, nil
		}
	}
	return tag.Tag{}, tag.ErrNotFound
}

func (r *stubTagRepo) Create(ctx context.Context, t tag.Tag) (tag.Tag, error) {
	if _, err := r.FindSibling(ctx, t.VendorID(), t.ParentID(), t.Name()); err == nil {
		return tag.Tag{}, tag.ErrDuplicateSibling
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
	r.seq++
	created := tag.Hydrate(r.seq, t.VendorID(), t.ParentID(), t.Name(), time.Now(), time.Now())
	r.tags[r.seq] = created
	return created, nil
}

type stubCommandRepo struct {
	seq      int64
	commands map[int64]command.Command
	vendors  *stubVendorRepo
	tags     *stubTagRepo
}

func (r *stubCommandRepo) GetPaginated(ctx context.Context, params *command.FindParams) ([]command.WithNames, int64, error) {
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

func (r *stubCommandRepo) GetByID(_ context.Context, id int64) (command.Command, error) {
	c, ok := r.commands[id]
	if !ok {
		return command.Command{}, command.ErrNotFound
	}
	return c, nil
}

func (r *stubCommandRepo) GetWithNamesByID(ctx context.Context, id int64) (command.WithNames, error) {
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

func (r *stubCommandRepo) FindByText(_ context.Context, vendorID int64, text string) (command.Command, error) {
	for _, c := range r.commands {
		if c.VendorID() == vendorID && c.Text() == text {
			return c, nil
		}
	}
	return command.Command{}, command.ErrNotFound
}

func (r *stubCommandRepo) Create(ctx context.Context, c command.Command) (command.Command, error) {
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

func (r *stubCommandRepo) Update(_ context.Context, c command.Command) (command.Command, error) {
	if _, ok := r.commands[c.ID()]; !ok {
		return command.Command{}, command.ErrNotFound
	}
	r.commands[c.ID()] = c
	return c, nil
}

type controllerFixture struct {
	router   *mux.Router
	vendors  *stubVendorRepo
	tags     *stubTagRepo
	commands *stubCommandRepo
	vendorID int64
}

func newControllerFixture(t *testing.T) *controllerFixture {
	t.Helper()

	vendors := &stubVendorRepo{vendors: map[int64]vendor.Vendor{}}
	tags := &stubTagRepo{tags: map[int64]tag.Tag{}}
	platforms := &stubPlatformRepo{}
	commands := &stubCommandRepo{commands: map[int64]command.Command{}, vendors: vendors, tags: tags}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	app := application.New(&application.ApplicationOptions{
		Pool:     (*pgxpool.Pool)(nil),
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	tagService := services.NewTagService(tags)
	app.RegisterServices(
		services.NewVendorService(vendors),
		services.NewPlatformService(platforms, vendors),
		tagService,
		services.NewCommandService(commands, vendors, platforms, tags),
		services.NewIngestService(vendors, tagService, commands, services.NewSheetParser(), app.EventPublisher()),
	)

	router := mux.NewRouter()
	for _, c := range []application.Controller{
		NewVendorsController(app),
		NewPlatformsController(app),
		NewTagsController(app),
		NewCommandsController(app),
		NewUploadController(app),
	} {
		c.Register(router)
	}

	v, err := vendors.Create(context.Background(), vendor.New("cisco"))
	require.NoError(t, err)

	return &controllerFixture{
		router:   router,
		vendors:  vendors,
		tags:     tags,
		commands: commands,
		vendorID: v.ID(),
	}
}

func (f *controllerFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestVendorsController(t *testing.T) {
	f := newControllerFixture(t)

	t.Run("get-all lists vendors as dropdown items", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/vendors/get-all/", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var items []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Len(t, items, 1)
		require.Equal(t, "cisco", items[0]["name"])
	})

	t.Run("create returns 201 with the new vendor", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/vendors/create/", map[string]string{"name": "juniper"})
		require.Equal(t, http.StatusCreated, rec.Code)

		var created map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		require.Equal(t, "juniper", created["name"])
		require.NotZero(t, created["id"])
	})

	t.Run("create rejects an empty name with a field-keyed body", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/vendors/create/", map[string]string{"name": "  "})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var fields map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
		require.Contains(t, fields, "name")
	})

	t.Run("create rejects a duplicate name", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/vendors/create/", map[string]string{"name": "cisco"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTagsController_Tree(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	root, err := f.tags.Create(ctx, tag.New(f.vendorID, "Routing", nil))
	require.NoError(t, err)
	rootID := root.ID()
	_, err = f.tags.Create(ctx, tag.New(f.vendorID, "IPv4", &rootID))
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/tags/get-all-tree/?vendor_id=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var forest []struct {
		Name     string `json:"name"`
		Children []struct {
			Name string `json:"name"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &forest))
	require.Len(t, forest, 1)
	require.Equal(t, "Routing", forest[0].Name)
	require.Len(t, forest[0].Children, 1)
	require.Equal(t, "IPv4", forest[0].Children[0].Name)
}

func TestCommandsController(t *testing.T) {
	f := newControllerFixture(t)

	t.Run("create then check existence", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/commands/create/", map[string]interface{}{
			"command": "show version",
			"vendor":  f.vendorID,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var created map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		require.Equal(t, "show version", created["command"])
		require.Equal(t, "cisco", created["vendor"])

		rec = f.do(t, http.MethodGet, "/commands/check-existence/?command_name=show%20version&vendor_id=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var probe map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &probe))
		require.Equal(t, true, probe["exists"])
		require.NotZero(t, probe["id"])

		rec = f.do(t, http.MethodGet, "/commands/check-existence/?command_name=no%20such&vendor_id=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		probe = nil
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &probe))
		require.Equal(t, false, probe["exists"])
		require.NotContains(t, probe, "id")
	})

	t.Run("duplicate create is a field-keyed 400", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/commands/create/", map[string]interface{}{
			"command": "show version",
			"vendor":  f.vendorID,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update of an unknown id is 404", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/commands/update/404/", map[string]interface{}{
			"description": "x",
		})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("get-filtered pages with next and previous links", func(t *testing.T) {
		for _, text := range []string{"show ip route", "show clock"} {
			rec := f.do(t, http.MethodPost, "/commands/create/", map[string]interface{}{
				"command": text,
				"vendor":  f.vendorID,
			})
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := f.do(t, http.MethodGet, "/commands/get-filtered/?page=1&page_size=2", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page struct {
			Count    int64                    `json:"count"`
			Next     *string                  `json:"next"`
			Previous *string                  `json:"previous"`
			Results  []map[string]interface{} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		require.EqualValues(t, 3, page.Count)
		require.Len(t, page.Results, 2)
		require.NotNil(t, page.Next)
		require.Nil(t, page.Previous)
		require.Contains(t, *page.Next, "page=2")

		rec = f.do(t, http.MethodGet, "/commands/get-filtered/?page=2&page_size=2", nil)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		require.Len(t, page.Results, 1)
		require.Nil(t, page.Next)
		require.NotNil(t, page.Previous)
	})
}

func TestUploadController_Validation(t *testing.T) {
	f := newControllerFixture(t)

	t.Run("missing file and vendor are field-keyed errors", func(t *testing.T) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/commands/csv-upload", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var fields map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
		require.Contains(t, fields, "vendor")
		require.Contains(t, fields, "csv_file")
	})

	t.Run("missing vendor with a valid file is keyed to vendor only", func(t *testing.T) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("csv_file", "commands.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte("command\nshow version\n"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/commands/csv-upload", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var fields map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
		require.Contains(t, fields, "vendor")
		require.NotContains(t, fields, "csv_file")
	})

	t.Run("non-multipart body is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/commands/csv-upload", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
