package session

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/auro-editor/auro/internal/project"
)

// Authenticator resolves the user behind an upgrade request.
type Authenticator interface {
	Authenticate(r *http.Request, allowQuery bool) (string, error)
}

// Handler upgrades /ws/documents/{documentId} to an editing session.
type Handler struct {
	hub            *Hub
	auth           Authenticator
	originPatterns []string
}

func NewHandler(hub *Hub, auth Authenticator, originPatterns []string) *Handler {
	return &Handler{hub: hub, auth: auth, originPatterns: originPatterns}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["documentId"]

	userID, err := h.auth.Authenticate(r, true)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	s, err := h.hub.Open(r.Context(), documentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, project.ErrNotFound):
			http.Error(w, "document not found", http.StatusNotFound)
		case errors.Is(err, project.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		case errors.Is(err, ErrBusy):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, ErrClosed):
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
		default:
			slog.Error("open session", "document", documentID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		s.Close()
		return
	}

	client := NewClient(conn, userID, uuid.New().String())
	if err := s.Attach(client, client.ClientID); err != nil {
		conn.Close(websocket.StatusPolicyViolation, err.Error())
		s.Close()
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx, s)
}
