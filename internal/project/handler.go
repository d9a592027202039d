package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/auro-editor/auro/internal/auth"
	"github.com/auro-editor/auro/internal/document"
	"github.com/auro-editor/auro/internal/export"
)

const maxDocumentSize = 32 << 20 // 32MB

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes registers the document endpoints on an authenticated router.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/documents", h.List).Methods("GET")
	r.HandleFunc("/documents", h.Create).Methods("POST")
	r.HandleFunc("/documents/{documentId}", h.Get).Methods("GET")
	r.HandleFunc("/documents/{documentId}", h.Delete).Methods("DELETE")
	r.HandleFunc("/documents/{documentId}/content", h.GetContent).Methods("GET")
	r.HandleFunc("/documents/{documentId}/content", h.PutContent).Methods("PUT")
	r.HandleFunc("/documents/{documentId}/export/{format}", h.Export).Methods("GET")
}

type createRequest struct {
	Name     string `json:"name"`
	Template string `json:"template"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	meta, err := h.service.Create(r.Context(), req.Name, req.Template, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, meta)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	documentID := mux.Vars(r)["documentId"]

	meta, err := h.service.Get(r.Context(), documentID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, meta)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	docs, err := h.service.List(r.Context(), userID)
	if err != nil {
		slog.Error("list documents failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, docs)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	documentID := mux.Vars(r)["documentId"]

	if err := h.service.Delete(r.Context(), documentID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	documentID := mux.Vars(r)["documentId"]

	d, version, err := h.service.Load(r.Context(), documentID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	blob, err := document.Encode(d)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", fmt.Sprintf(`"v%d"`, version))
	w.WriteHeader(http.StatusOK)
	w.Write(blob)
}

func (h *Handler) PutContent(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	documentID := mux.Vars(r)["documentId"]

	blob, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "document too large"})
		return
	}

	version, err := h.service.SaveRaw(r.Context(), documentID, userID, blob)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"version": version})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	vars := mux.Vars(r)
	format := export.Format(vars["format"])

	out, page, err := h.service.Export(r.Context(), vars["documentId"], userID, format)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	export.WriteFile(w, format, page, out)
}

func handleServiceError(w http.ResponseWriter, err error) {
	var dataErr *document.DataError
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, ErrUnknownTemplate):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &dataErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": dataErr.Error()})
	case errors.Is(err, export.ErrUnsupportedFormat):
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": err.Error()})
	case errors.Is(err, export.ErrUnknownFormat):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
