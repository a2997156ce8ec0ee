package controllers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/aggregates/command"
	"github.com/cmdvault/cmdvault/modules/catalog/presentation/mappers"
	"github.com/cmdvault/cmdvault/modules/catalog/presentation/viewmodels"
	"github.com/cmdvault/cmdvault/modules/catalog/services"
	"github.com/cmdvault/cmdvault/pkg/application"
	"github.com/cmdvault/cmdvault/pkg/configuration"
)

type CommandsController struct {
	app            application.Application
	commandService *services.CommandService
	basePath       string
}

func NewCommandsController(app application.Application) application.Controller {
	return &CommandsController{
		app:            app,
		commandService: app.Service(services.CommandService{}).(*services.CommandService),
		basePath:       "/commands",
	}
}

func (c *CommandsController) Key() string {
	return c.basePath
}

func (c *CommandsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/get-filtered/", c.GetFiltered).Methods(http.MethodGet)
	router.HandleFunc("/check-existence/", c.CheckExistence).Methods(http.MethodGet)
	router.HandleFunc("/create/", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/update/{id:[0-9]+}/", c.Update).Methods(http.MethodPatch)
}

func (c *CommandsController) GetFiltered(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize < 1 {
		pageSize = conf.PageSize
	}
	if pageSize > conf.MaxPageSize {
		pageSize = conf.MaxPageSize
	}

	params := &command.FindParams{
		Search:       q.Get("search"),
		VendorName:   q.Get("vendor__name"),
		PlatformName: q.Get("platform__name"),
		TagName:      q.Get("tag__name"),
		Version:      q.Get("version"),
		Limit:        pageSize,
		Offset:       (page - 1) * pageSize,
	}
	commands, total, err := c.commandService.GetPaginated(r.Context(), params)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	results := make([]viewmodels.Command, 0, len(commands))
	for _, cmd := range commands {
		results = append(results, mappers.CommandToViewModel(cmd))
	}
	writeJSON(w, http.StatusOK, viewmodels.PagedResponse[viewmodels.Command]{
		Count:    total,
		Next:     pageURL(r, page+1, int64(params.Offset+pageSize) < total),
		Previous: pageURL(r, page-1, page > 1),
		Results:  results,
	})
}

func (c *CommandsController) CheckExistence(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := strings.TrimSpace(q.Get("command_name"))
	vendorID, err := strconv.ParseInt(q.Get("vendor_id"), 10, 64)
	if text == "" || err != nil {
		fields := map[string]string{}
		if text == "" {
			fields["command_name"] = "command_name is required"
		}
		if err != nil {
			fields["vendor_id"] = "must be an integer"
		}
		writeFieldErrors(w, fields)
		return
	}

	existing, exists, err := c.commandService.CheckExistence(r.Context(), vendorID, text)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if exists {
		writeJSON(w, http.StatusOK, map[string]interface{}{"exists": true, "id": existing.ID()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"exists": false})
}

type commandPayload struct {
	Command     *string `json:"command"`
	Vendor      *int64  `json:"vendor"`
	Platform    *int64  `json:"platform"`
	Tag         *int64  `json:"tag"`
	Description *string `json:"description"`
	Example     *string `json:"example"`
	Version     *string `json:"version"`
}

func (c *CommandsController) Create(w http.ResponseWriter, r *http.Request) {
	var body commandPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	fields := map[string]string{}
	if body.Command == nil || strings.TrimSpace(*body.Command) == "" {
		fields["command"] = "command is required"
	}
	if body.Vendor == nil || *body.Vendor == 0 {
		fields["vendor"] = "vendor is required"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	created, err := c.commandService.Create(r.Context(), command.New(
		*body.Vendor,
		*body.Command,
		command.WithPlatformID(body.Platform),
		command.WithTagID(body.Tag),
		command.WithDescription(trimmed(body.Description)),
		command.WithExample(trimmed(body.Example)),
		command.WithVersion(trimmed(body.Version)),
	))
	switch {
	case errors.Is(err, command.ErrDuplicate):
		writeFieldErrors(w, map[string]string{"command": "command already exists for vendor"})
		return
	case errors.Is(err, command.ErrBadReference):
		writeError(w, http.StatusBadRequest, "vendor, platform or tag reference is invalid")
		return
	case err != nil:
		writeInternalError(w, r, err)
		return
	}
	c.writeCommand(w, r, http.StatusCreated, created)
}

func (c *CommandsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid command id")
		return
	}
	var body commandPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := c.commandService.Update(r.Context(), id, services.CommandUpdateDTO{
		Text:        body.Command,
		Description: body.Description,
		Example:     body.Example,
		Version:     body.Version,
		PlatformID:  body.Platform,
		TagID:       body.Tag,
	})
	switch {
	case errors.Is(err, command.ErrNotFound):
		writeError(w, http.StatusNotFound, "command not found")
		return
	case errors.Is(err, command.ErrDuplicate):
		writeFieldErrors(w, map[string]string{"command": "command already exists for vendor"})
		return
	case errors.Is(err, command.ErrBadReference):
		writeError(w, http.StatusBadRequest, "vendor, platform or tag reference is invalid")
		return
	case err != nil:
		writeInternalError(w, r, err)
		return
	}
	c.writeCommand(w, r, http.StatusOK, updated)
}

// writeCommand renders a single command in the same denormalized shape the
// listing uses, via a one-row filtered read.
func (c *CommandsController) writeCommand(w http.ResponseWriter, r *http.Request, status int, cmd command.Command) {
	withNames, err := c.commandService.GetWithNames(r.Context(), cmd.ID())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, status, mappers.CommandToViewModel(withNames))
}

func pageURL(r *http.Request, page int, ok bool) *string {
	if !ok {
		return nil
	}
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	u := url.URL{
		Scheme:   requestScheme(r),
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: q.Encode(),
	}
	s := u.String()
	return &s
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
