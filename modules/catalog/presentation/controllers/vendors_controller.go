package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/vendor"
	"github.com/cmdvault/cmdvault/modules/catalog/presentation/mappers"
	"github.com/cmdvault/cmdvault/modules/catalog/presentation/viewmodels"
	"github.com/cmdvault/cmdvault/modules/catalog/services"
	"github.com/cmdvault/cmdvault/pkg/application"
)

type VendorsController struct {
	app           application.Application
	vendorService *services.VendorService
	basePath      string
}

func NewVendorsController(app application.Application) application.Controller {
	return &VendorsController{
		app:           app,
		vendorService: app.Service(services.VendorService{}).(*services.VendorService),
		basePath:      "/vendors",
	}
}

func (c *VendorsController) Key() string {
	return c.basePath
}

func (c *VendorsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/get-all/", c.GetAll).Methods(http.MethodGet)
	router.HandleFunc("/create/", c.Create).Methods(http.MethodPost)
}

func (c *VendorsController) GetAll(w http.ResponseWriter, r *http.Request) {
	vendors, err := c.vendorService.GetAll(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	items := make([]viewmodels.DropdownItem, 0, len(vendors))
	for _, v := range vendors {
		items = append(items, mappers.VendorToDropdown(v))
	}
	writeJSON(w, http.StatusOK, items)
}

func (c *VendorsController) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeFieldErrors(w, map[string]string{"name": "name is required"})
		return
	}

	created, err := c.vendorService.Create(r.Context(), body.Name)
	if errors.Is(err, vendor.ErrDuplicateName) {
		writeFieldErrors(w, map[string]string{"name": "vendor name already exists"})
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.VendorToViewModel(created))
}
