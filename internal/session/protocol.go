package session

import (
	"encoding/json"

	"github.com/auro-editor/auro/internal/document"
	"github.com/auro-editor/auro/internal/interaction"
)

type Message struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client to server
	TypePointer     = "pointer"
	TypeKey         = "key"
	TypeCommand     = "command"
	TypeViewport    = "viewport"
	TypeEditBegin   = "edit.begin"
	TypeEditContent = "edit.content"
	TypeEditEnd     = "edit.end"

	// Server to client
	TypeWelcome  = "welcome"
	TypeState    = "state"
	TypeWarning  = "warning"
	TypeError    = "error"
	TypeSaved    = "saved"
	TypeExport   = "export"
	TypeEditExit = "edit.exit"
)

type CommandPayload struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type ViewportPayload struct {
	Zoom    float64 `json:"zoom"`
	OriginX float64 `json:"originX"`
	OriginY float64 `json:"originY"`
}

type EditPayload struct {
	ID      string `json:"id"`
	Content string `json:"content,omitempty"`
}

type WelcomePayload struct {
	SessionID  string `json:"sessionId"`
	ClientID   string `json:"clientId"`
	DocumentID string `json:"documentId"`
	Version    int    `json:"version"`
}

// StatePayload is the full view of the editing surface after an event.
type StatePayload struct {
	Objects     []*document.Object `json:"objects"`
	Selection   []string           `json:"selection"`
	Primary     string             `json:"primary,omitempty"`
	Mode        string             `json:"mode"`
	Page        int                `json:"page"`
	PageCount   int                `json:"pageCount"`
	CanUndo     bool               `json:"canUndo"`
	CanRedo     bool               `json:"canRedo"`
	CanPaste    bool               `json:"canPaste"`
	Zoom        float64            `json:"zoom"`
	Editing     string             `json:"editing,omitempty"`
	Dirty       bool               `json:"dirty"`
	MultiSelect bool               `json:"multiSelect"`
}

type NoticePayload struct {
	Message string `json:"message"`
}

type SavedPayload struct {
	Version int `json:"version"`
}

type ExportPayload struct {
	Format      string `json:"format"`
	ContentType string `json:"contentType"`
	Filename    string `json:"filename"`
	Data        string `json:"data"`
}

// Input payloads reuse the interaction event types.
type (
	PointerPayload = interaction.PointerEvent
	KeyPayload     = interaction.KeyEvent
)

func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
