package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gorilla/mux"
)

const (
	MinPasswordLength = 8
	maxDisplayName    = 80
	maxBodyBytes      = 1 << 16
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts register and login on public and the account endpoint on
// api, which must already run AuthMiddleware.
func (h *Handler) Routes(public, api *mux.Router) {
	public.HandleFunc("/auth/register", h.Register).Methods("POST", "OPTIONS")
	public.HandleFunc("/auth/login", h.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/me", h.Me).Methods("GET")
}

type credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// decodeCredentials reads the body and normalizes the email, which is
// matched case-insensitively.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var c credentials
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return c, false
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.DisplayName = strings.TrimSpace(c.DisplayName)
	return c, true
}

func (c credentials) validateRegistration() string {
	switch {
	case c.Email == "" || c.Password == "" || c.DisplayName == "":
		return "email, password, and displayName are required"
	case !validEmail(c.Email):
		return "email is not a valid address"
	case len(c.Password) < MinPasswordLength:
		return "password must be at least 8 characters"
	case len([]rune(c.DisplayName)) > maxDisplayName:
		return "displayName is too long"
	}
	return ""
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	if msg := c.validateRegistration(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	result, err := h.service.Register(r.Context(), c.Email, c.Password, c.DisplayName)
	if err != nil {
		writeServiceError(w, "register", err)
		return
	}
	slog.Info("user registered", "user", result.User.ID)
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	if c.Email == "" || c.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.service.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		writeServiceError(w, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// writeServiceError maps service sentinels to statuses. Anything else is
// logged and reported as an internal error.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	default:
		slog.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
