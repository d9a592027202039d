package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/auro-editor/auro/internal/export"
	"github.com/auro-editor/auro/internal/typeid"
)

// Hub owns the open sessions, at most one per document.
type Hub struct {
	store    Store
	exporter *export.Exporter
	autosave time.Duration

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	sessions map[string]*Session // documentID -> session, nil while opening
}

func NewHub(store Store, exporter *export.Exporter, autosave time.Duration) *Hub {
	base, cancel := context.WithCancel(context.Background())
	return &Hub{
		store:    store,
		exporter: exporter,
		autosave: autosave,
		base:     base,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}
}

// Open loads documentID for userID and starts a session for it.
func (h *Hub) Open(ctx context.Context, documentID, userID string) (*Session, error) {
	if h.base.Err() != nil {
		return nil, ErrClosed
	}

	h.mu.Lock()
	if _, ok := h.sessions[documentID]; ok {
		h.mu.Unlock()
		return nil, ErrBusy
	}
	h.sessions[documentID] = nil
	h.mu.Unlock()

	d, version, err := h.store.Load(ctx, documentID, userID)
	if err != nil {
		h.release(documentID, nil)
		return nil, err
	}

	s := newSession(typeid.NewSessionID(), documentID, userID, d, version, h.store, h.exporter, h.autosave)

	h.mu.Lock()
	h.sessions[documentID] = s
	h.mu.Unlock()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		s.Run(h.base)
		h.release(documentID, s)
		slog.Info("session closed", "session", s.ID, "document", documentID)
	}()

	slog.Info("session opened", "session", s.ID, "document", documentID, "user", userID, "version", version)
	return s, nil
}

// release frees the document slot if it still belongs to s.
func (h *Hub) release(documentID string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.sessions[documentID]; ok && cur == s {
		delete(h.sessions, documentID)
	}
}

// Session returns the open session for documentID, if any.
func (h *Hub) Session(documentID string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[documentID]
	return s, ok && s != nil
}

// Len returns the number of open sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Run blocks until ctx ends, then stops every session and waits for their
// final saves.
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()
	slog.Info("stopping sessions", "open", h.Len())
	h.cancel()
	h.wg.Wait()
	return nil
}
