package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/tag"
	"github.com/cmdvault/cmdvault/modules/catalog/presentation/mappers"
	"github.com/cmdvault/cmdvault/modules/catalog/services"
	"github.com/cmdvault/cmdvault/pkg/application"
)

type TagsController struct {
	app        application.Application
	tagService *services.TagService
	basePath   string
}

func NewTagsController(app application.Application) application.Controller {
	return &TagsController{
		app:        app,
		tagService: app.Service(services.TagService{}).(*services.TagService),
		basePath:   "/tags",
	}
}

func (c *TagsController) Key() string {
	return c.basePath
}

func (c *TagsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/get-all-tree/", c.GetAllTree).Methods(http.MethodGet)
	router.HandleFunc("/create/", c.Create).Methods(http.MethodPost)
}

func (c *TagsController) GetAllTree(w http.ResponseWriter, r *http.Request) {
	var vendorID *int64
	if raw := r.URL.Query().Get("vendor_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeFieldErrors(w, map[string]string{"vendor_id": "must be an integer"})
			return
		}
		vendorID = &id
	}

	tags, err := c.tagService.GetForest(r.Context(), vendorID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.TagsToForest(tags))
}

func (c *TagsController) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name   string `json:"name"`
		Vendor int64  `json:"vendor"`
		Parent *int64 `json:"parent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	fields := map[string]string{}
	if strings.TrimSpace(body.Name) == "" {
		fields["name"] = "name is required"
	}
	if body.Vendor == 0 {
		fields["vendor"] = "vendor is required"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	created, err := c.tagService.Create(r.Context(), body.Vendor, body.Name, body.Parent)
	switch {
	case errors.Is(err, tag.ErrDuplicateSibling):
		writeFieldErrors(w, map[string]string{"name": "tag name already exists under this parent"})
		return
	case errors.Is(err, tag.ErrParentVendorMismatch):
		writeFieldErrors(w, map[string]string{"parent": "parent tag belongs to another vendor"})
		return
	case errors.Is(err, tag.ErrUnknownVendor):
		writeFieldErrors(w, map[string]string{"vendor": "unknown vendor"})
		return
	case errors.Is(err, tag.ErrNotFound):
		writeFieldErrors(w, map[string]string{"parent": "unknown parent tag"})
		return
	case err != nil:
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.TagToViewModel(created))
}
