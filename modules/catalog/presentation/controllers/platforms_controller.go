package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/platform"
	"github.com/cmdvault/cmdvault/modules/catalog/presentation/mappers"
	"github.com/cmdvault/cmdvault/modules/catalog/presentation/viewmodels"
	"github.com/cmdvault/cmdvault/modules/catalog/services"
	"github.com/cmdvault/cmdvault/pkg/application"
)

type PlatformsController struct {
	app             application.Application
	platformService *services.PlatformService
	basePath        string
}

func NewPlatformsController(app application.Application) application.Controller {
	return &PlatformsController{
		app:             app,
		platformService: app.Service(services.PlatformService{}).(*services.PlatformService),
		basePath:        "/platform",
	}
}

func (c *PlatformsController) Key() string {
	return c.basePath
}

func (c *PlatformsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/get-all/", c.GetAll).Methods(http.MethodGet)
	router.HandleFunc("/create/", c.Create).Methods(http.MethodPost)
}

func (c *PlatformsController) GetAll(w http.ResponseWriter, r *http.Request) {
	var vendorID *int64
	if raw := r.URL.Query().Get("vendor_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeFieldErrors(w, map[string]string{"vendor_id": "must be an integer"})
			return
		}
		vendorID = &id
	}

	platforms, err := c.platformService.GetAll(r.Context(), vendorID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	items := make([]viewmodels.DropdownItem, 0, len(platforms))
	for _, p := range platforms {
		items = append(items, mappers.PlatformToDropdown(p))
	}
	writeJSON(w, http.StatusOK, items)
}

func (c *PlatformsController) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name   string `json:"name"`
		Vendor int64  `json:"vendor"`
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

	created, err := c.platformService.Create(r.Context(), body.Vendor, body.Name)
	switch {
	case errors.Is(err, platform.ErrDuplicateName):
		writeFieldErrors(w, map[string]string{"name": "platform name already exists for vendor"})
		return
	case errors.Is(err, platform.ErrUnknownVendor):
		writeFieldErrors(w, map[string]string{"vendor": "unknown vendor"})
		return
	case err != nil:
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.PlatformToViewModel(created))
}
