package interaction

import "slices"

type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// Handle names the affordance a pointer went down on.
type Handle string

const (
	HandleNone   Handle = ""
	HandleN      Handle = "n"
	HandleNE     Handle = "ne"
	HandleE      Handle = "e"
	HandleSE     Handle = "se"
	HandleS      Handle = "s"
	HandleSW     Handle = "sw"
	HandleW      Handle = "w"
	HandleNW     Handle = "nw"
	HandleRotate Handle = "rotate"
)

// IsResize reports whether h is one of the eight resize handles.
func (h Handle) IsResize() bool {
	switch h {
	case HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW, HandleNW:
		return true
	}
	return false
}

// PointerEvent is a pointer sample in client (screen pixel) coordinates.
type PointerEvent struct {
	Kind    PointerKind `json:"kind"`
	ClientX float64     `json:"clientX"`
	ClientY float64     `json:"clientY"`
	Button  int         `json:"button"`
	Shift   bool        `json:"shift"`
	// Handle is set when the host drew an affordance under the pointer.
	Handle Handle `json:"handle,omitempty"`
	// ObjectID optionally names the object under the pointer. When empty
	// the controller hit-tests the scene itself.
	ObjectID string `json:"objectId,omitempty"`
}

type KeyKind int

const (
	KeyDown KeyKind = iota
	KeyUp
)

// KeyEvent is a key press or release. Key uses DOM key names
// ("Delete", "Escape", "Shift", "z", ...).
type KeyEvent struct {
	Kind  KeyKind `json:"kind"`
	Key   string  `json:"key"`
	Ctrl  bool    `json:"ctrl"`
	Shift bool    `json:"shift"`
}

// Listener receives input events.
type Listener interface {
	HandlePointer(ev PointerEvent)
	HandleKey(ev KeyEvent)
}

// InputSource delivers events to subscribed listeners until the returned
// function is called.
type InputSource interface {
	Subscribe(l Listener) (unsubscribe func())
}

// Dispatcher is an InputSource fed by its owner. It is not safe for
// concurrent use; the owner pushes events from a single goroutine.
type Dispatcher struct {
	listeners []*subscription
}

type subscription struct {
	l Listener
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Subscribe(l Listener) func() {
	sub := &subscription{l: l}
	d.listeners = append(d.listeners, sub)
	return func() {
		d.listeners = slices.DeleteFunc(d.listeners, func(s *subscription) bool { return s == sub })
	}
}

// Pointer delivers ev to every listener.
func (d *Dispatcher) Pointer(ev PointerEvent) {
	for _, s := range slices.Clone(d.listeners) {
		s.l.HandlePointer(ev)
	}
}

// Key delivers ev to every listener.
func (d *Dispatcher) Key(ev KeyEvent) {
	for _, s := range slices.Clone(d.listeners) {
		s.l.HandleKey(ev)
	}
}

// Len returns the number of subscribed listeners.
func (d *Dispatcher) Len() int { return len(d.listeners) }
