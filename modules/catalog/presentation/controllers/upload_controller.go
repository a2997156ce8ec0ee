package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/tag"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/vendor"
	"github.com/cmdvault/cmdvault/modules/catalog/services"
	"github.com/cmdvault/cmdvault/pkg/application"
	"github.com/cmdvault/cmdvault/pkg/configuration"
)

type UploadController struct {
	app           application.Application
	ingestService *services.IngestService
	basePath      string
}

func NewUploadController(app application.Application) application.Controller {
	return &UploadController{
		app:           app,
		ingestService: app.Service(services.IngestService{}).(*services.IngestService),
		basePath:      "/commands/csv-upload",
	}
}

func (c *UploadController) Key() string {
	return c.basePath
}

func (c *UploadController) Register(r *mux.Router) {
	// Deployed clients call this path without a trailing slash, unlike the
	// rest of the surface.
	r.HandleFunc(c.basePath, c.Upload).Methods(http.MethodPost)
}

func (c *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	// MaxUploadSize caps the whole body; MaxUploadMemory is the threshold
	// past which multipart parts spill to temp files.
	r.Body = http.MaxBytesReader(w, r.Body, conf.MaxUploadSize)
	if err := r.ParseMultipartForm(conf.MaxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart body or sheet too large")
		return
	}

	fields := map[string]string{}
	vendorID, err := strconv.ParseInt(r.FormValue("vendor"), 10, 64)
	if err != nil {
		fields["vendor"] = "vendor id is required"
	}

	file, header, err := r.FormFile("csv_file")
	if err != nil {
		fields["csv_file"] = "sheet file is required"
	} else {
		defer func() { _ = file.Close() }()
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	override, _ := strconv.ParseBool(r.FormValue("override"))

	// main_tag carries either an existing tag id or a tag name to find or
	// create at the vendor's forest root.
	var mainTag services.MainTagRef
	if raw := strings.TrimSpace(r.FormValue("main_tag")); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			mainTag.ID = &id
		} else {
			mainTag.Name = raw
		}
	}

	report, err := c.ingestService.Ingest(r.Context(), vendorID, mainTag, override, header.Filename, file)
	switch {
	case errors.Is(err, vendor.ErrNotFound):
		writeFieldErrors(w, map[string]string{"vendor": "unknown vendor"})
		return
	case errors.Is(err, tag.ErrNotFound):
		writeFieldErrors(w, map[string]string{"main_tag": "unknown main tag"})
		return
	case errors.Is(err, services.ErrMainTagVendorMismatch):
		writeFieldErrors(w, map[string]string{"main_tag": "main tag belongs to another vendor"})
		return
	case errors.Is(err, services.ErrEmptySheet):
		writeFieldErrors(w, map[string]string{"csv_file": "sheet contains no data rows"})
		return
	case errors.Is(err, services.ErrMissingCommandColumn):
		writeFieldErrors(w, map[string]string{"csv_file": "sheet is missing the required 'command' column"})
		return
	case err != nil:
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "File uploaded and processed successfully!",
		"data":    report,
	})
}
