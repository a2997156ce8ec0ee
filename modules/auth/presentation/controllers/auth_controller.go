package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/cmdvault/cmdvault/modules/auth/domain/entities/user"
	"github.com/cmdvault/cmdvault/modules/auth/services"
	"github.com/cmdvault/cmdvault/pkg/application"
)

type AuthController struct {
	app         application.Application
	authService *services.AuthService
}

func NewAuthController(app application.Application) application.Controller {
	return &AuthController{
		app:         app,
		authService: app.Service(services.AuthService{}).(*services.AuthService),
	}
}

func (c *AuthController) Key() string {
	return "/auth"
}

func (c *AuthController) Register(r *mux.Router) {
	r.HandleFunc("/token/", c.Token).Methods(http.MethodPost)
	r.HandleFunc("/refresh", c.Refresh).Methods(http.MethodPost)
	r.HandleFunc("/register/", c.RegisterUser).Methods(http.MethodPost)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *AuthController) Token(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
		return
	}

	pair, err := c.authService.Login(r.Context(), body.Username, body.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid username or password"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": pair.Access, "refresh": pair.Refresh})
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
		return
	}

	access, err := c.authService.Refresh(r.Context(), body.Refresh)
	if errors.Is(err, services.ErrInvalidToken) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid or expired refresh token"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (c *AuthController) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(body.Username) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"username": "username is required"})
		return
	}

	created, err := c.authService.Register(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, services.ErrWeakPassword):
		writeJSON(w, http.StatusBadRequest, map[string]string{"password": "password must be at least 8 characters"})
		return
	case errors.Is(err, user.ErrDuplicateUsername):
		writeJSON(w, http.StatusBadRequest, map[string]string{"username": "username already taken"})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"id": created.ID(), "username": created.Username()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
