package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/auro-editor/auro/internal/document"
	"github.com/auro-editor/auro/internal/engine"
	"github.com/auro-editor/auro/internal/export"
	"github.com/auro-editor/auro/internal/interaction"
)

const saveTimeout = 10 * time.Second

var (
	ErrBusy   = errors.New("document is already open in another session")
	ErrClosed = errors.New("session hub is closed")
)

// Store loads and saves the documents sessions edit.
type Store interface {
	Load(ctx context.Context, id, userID string) (*document.Data, int, error)
	Save(ctx context.Context, id, userID string, d *document.Data) (int, error)
}

// Peer receives the messages a session produces.
type Peer interface {
	Send(msg *Message)
}

// Session is one editing surface over one document. All engine access
// happens on the goroutine running Run.
type Session struct {
	ID         string
	DocumentID string
	UserID     string

	store    Store
	exporter *export.Exporter
	autosave time.Duration
	logger   *slog.Logger

	eng     *engine.Engine
	ctrl    *interaction.Controller
	input   *interaction.Dispatcher
	editing string

	version       int
	savedRevision uint64
	changed       bool

	inbox     chan *Message
	closed    chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	mu   sync.Mutex
	peer Peer
}

func newSession(id, documentID, userID string, d *document.Data, version int, store Store, exporter *export.Exporter, autosave time.Duration) *Session {
	logger := slog.Default().With("session", id, "document", documentID)
	s := &Session{
		ID:         id,
		DocumentID: documentID,
		UserID:     userID,
		store:      store,
		exporter:   exporter,
		autosave:   autosave,
		logger:     logger,
		eng:        engine.NewEngine(engine.WithLogger(logger)),
		input:      interaction.NewDispatcher(),
		version:    version,
		inbox:      make(chan *Message, 64),
		closed:     make(chan struct{}),
		done:       make(chan struct{}),
	}
	s.eng.Load(d)
	s.savedRevision = s.eng.Revision()
	s.ctrl = interaction.NewController(s.eng,
		interaction.WithEditSession(s),
		interaction.WithControllerLogger(logger),
		interaction.OnChange(func() { s.changed = true }),
		interaction.OnWarning(s.warn),
	)
	s.ctrl.Attach(s.input)
	return s
}

// Attach connects the peer and sends it the welcome and initial state.
func (s *Session) Attach(p Peer, clientID string) error {
	s.mu.Lock()
	if s.peer != nil {
		s.mu.Unlock()
		return ErrBusy
	}
	s.peer = p
	s.mu.Unlock()

	welcome, err := newMessage(TypeWelcome, WelcomePayload{
		SessionID:  s.ID,
		ClientID:   clientID,
		DocumentID: s.DocumentID,
		Version:    s.version,
	})
	if err != nil {
		return err
	}
	p.Send(welcome)
	// The initial state is produced on the session goroutine.
	s.Post(context.Background(), &Message{Type: TypeState})
	return nil
}

// Detach disconnects p and ends the session.
func (s *Session) Detach(p Peer) {
	s.mu.Lock()
	if s.peer == p {
		s.peer = nil
	}
	s.mu.Unlock()
	s.Close()
}

// Close asks the session to save and stop.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} { return s.done }

// Post queues a message for the session goroutine. It reports false once
// the session has stopped.
func (s *Session) Post(ctx context.Context, msg *Message) bool {
	select {
	case s.inbox <- msg:
		return true
	case <-s.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// Run processes messages until ctx ends or the session is closed, then
// saves any unsaved changes.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)
	defer s.save(ctx, "close")
	// Runs before the save so that an open gesture is rolled back first.
	defer s.ctrl.Close()

	var tick <-chan time.Time
	if s.autosave > 0 {
		ticker := time.NewTicker(s.autosave)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.closed:
			return
		case msg := <-s.inbox:
			s.handle(ctx, msg)
		case <-tick:
			s.save(ctx, "autosave")
		}
	}
}

func (s *Session) send(msg *Message) {
	s.mu.Lock()
	p := s.peer
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (s *Session) sendPayload(typ string, payload any) {
	msg, err := newMessage(typ, payload)
	if err != nil {
		s.logger.Error("marshal message", "type", typ, "error", err)
		return
	}
	s.send(msg)
}

func (s *Session) warn(err error) {
	s.sendPayload(TypeWarning, NoticePayload{Message: err.Error()})
}

func (s *Session) fail(err error) {
	s.sendPayload(TypeError, NoticePayload{Message: err.Error()})
}

func (s *Session) handle(ctx context.Context, msg *Message) {
	s.changed = false
	switch msg.Type {
	case TypeState:
		s.changed = true
	case TypePointer:
		var ev PointerPayload
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			s.fail(fmt.Errorf("invalid pointer payload: %w", err))
			return
		}
		s.input.Pointer(ev)
	case TypeKey:
		var ev KeyPayload
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			s.fail(fmt.Errorf("invalid key payload: %w", err))
			return
		}
		s.input.Key(ev)
	case TypeViewport:
		var vp ViewportPayload
		if err := json.Unmarshal(msg.Payload, &vp); err != nil {
			s.fail(fmt.Errorf("invalid viewport payload: %w", err))
			return
		}
		s.ctrl.SetZoom(vp.Zoom)
		s.ctrl.SetOrigin(vp.OriginX, vp.OriginY)
		s.changed = true
	case TypeEditBegin, TypeEditContent, TypeEditEnd:
		s.handleEdit(msg)
	case TypeCommand:
		var cmd CommandPayload
		if err := json.Unmarshal(msg.Payload, &cmd); err != nil {
			s.fail(fmt.Errorf("invalid command payload: %w", err))
			return
		}
		s.runCommand(ctx, cmd)
	default:
		s.logger.Warn("unknown message type", "type", msg.Type)
		s.fail(fmt.Errorf("unknown message type %q", msg.Type))
		return
	}
	if s.changed {
		s.pushState()
	}
}

func (s *Session) handleEdit(msg *Message) {
	var p EditPayload
	if msg.Type != TypeEditEnd {
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.fail(fmt.Errorf("invalid edit payload: %w", err))
			return
		}
	}
	var err error
	switch msg.Type {
	case TypeEditBegin:
		if err = s.eng.BeginTextEdit(p.ID); err == nil {
			s.editing = p.ID
		}
	case TypeEditContent:
		err = s.eng.SetTextContent(p.ID, p.Content)
	case TypeEditEnd:
		s.editing = ""
		s.eng.EndTextEdit()
	}
	s.report(err)
	s.changed = true
}

// report sends err to the peer as a warning or an error.
func (s *Session) report(err error) {
	switch {
	case err == nil:
	case engine.IsWarning(err):
		s.warn(err)
	default:
		s.logger.Error("operation failed", "error", err)
		s.fail(err)
	}
}

// ActiveEdit implements interaction.EditSession.
func (s *Session) ActiveEdit() (string, bool) {
	return s.editing, s.editing != ""
}

// ExitEdit implements interaction.EditSession. The peer is told to blur
// its text surface.
func (s *Session) ExitEdit() {
	id := s.editing
	s.editing = ""
	s.sendPayload(TypeEditExit, EditPayload{ID: id})
}

func (s *Session) pushState() {
	sel := s.eng.Selection()
	st := StatePayload{
		Objects:     s.eng.Objects(),
		Selection:   sel.IDs(),
		Primary:     sel.Primary(),
		Mode:        s.ctrl.Mode().String(),
		Page:        s.eng.CurrentPage(),
		PageCount:   s.eng.PageCount(),
		CanUndo:     s.eng.History().UndoDepth() > 0,
		CanRedo:     s.eng.History().RedoDepth() > 0,
		CanPaste:    s.eng.HasClipboard(),
		Zoom:        s.ctrl.Zoom(),
		Editing:     s.editing,
		Dirty:       s.dirty(),
		MultiSelect: s.ctrl.MultiSelect(),
	}
	s.sendPayload(TypeState, st)
}

func (s *Session) dirty() bool {
	return s.eng.Revision() != s.savedRevision
}

// save writes the document when it has unsaved changes. It keeps working
// after ctx is cancelled so that shutdown does not lose edits.
func (s *Session) save(ctx context.Context, reason string) {
	if !s.dirty() {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	rev := s.eng.Revision()
	version, err := s.store.Save(saveCtx, s.DocumentID, s.UserID, s.eng.Serialize())
	if err != nil {
		s.logger.Error("save failed", "reason", reason, "error", err)
		s.fail(fmt.Errorf("save failed: %w", err))
		return
	}
	s.version = version
	s.savedRevision = rev
	s.logger.Info("document saved", "reason", reason, "version", version)
	s.sendPayload(TypeSaved, SavedPayload{Version: version})
}
