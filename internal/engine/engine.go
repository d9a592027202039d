package engine

import (
	"log/slog"
	"reflect"
	"slices"

	"github.com/auro-editor/auro/internal/document"
)

// PageAnchors are the page-relative coordinates a single selected object
// is aligned to.
type PageAnchors struct {
	Left   float64
	Center float64
	Right  float64
	Top    float64
	Middle float64
	Bottom float64
}

// DefaultPageAnchors match an A4 page at 96 dpi with a 10 unit margin.
var DefaultPageAnchors = PageAnchors{
	Left:   10,
	Center: 397,
	Right:  784,
	Top:    10,
	Middle: 561.5,
	Bottom: 1113,
}

// PasteOffset is how far duplicated and pasted objects are shifted.
const PasteOffset = 20.0

// Engine owns a document, the live scene of its current page, the
// selection, history and clipboard.
//
// An Engine is not safe for concurrent use. All calls happen on the
// goroutine that dispatches input for one editing surface.
type Engine struct {
	doc     *document.Data
	objects []*document.Object

	selection Selection
	history   *History
	clipboard *document.Object

	// Set while a text edit session is open.
	textEdit *Checkpoint

	// revision counts content changes; see Revision.
	revision uint64

	anchors PageAnchors
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for warnings and invariant violations.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithPageAnchors overrides the single-object alignment anchors.
func WithPageAnchors(a PageAnchors) Option {
	return func(e *Engine) { e.anchors = a }
}

// WithHistoryDepth overrides the undo depth.
func WithHistoryDepth(depth int) Option {
	return func(e *Engine) { e.history = NewHistory(depth) }
}

// NewEngine creates an engine holding an empty one-page document.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		doc:     document.NewEmptyDocument(),
		objects: []*document.Object{},
		history: NewHistory(DefaultHistoryDepth),
		anchors: DefaultPageAnchors,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Objects returns the live scene in insertion order. Callers may mutate
// object fields in place (the interaction controller does) but must not
// retain the slice across mutating engine calls.
func (e *Engine) Objects() []*document.Object {
	return e.objects
}

// Object returns the top-level object with the given id.
func (e *Engine) Object(id string) *document.Object {
	if i := e.indexOf(id); i >= 0 {
		return e.objects[i]
	}
	return nil
}

func (e *Engine) indexOf(id string) int {
	return slices.IndexFunc(e.objects, func(o *document.Object) bool { return o.ID == id })
}

// newID hands out the next id. The counter only grows.
func (e *Engine) newID() string {
	id := document.FormatID(e.doc.NextID)
	e.doc.NextID++
	return id
}

// maxZ returns the highest zIndex in the scene, never below 0.
func (e *Engine) maxZ() int {
	z := 0
	for _, o := range e.objects {
		z = max(z, o.ZIndex)
	}
	return z
}

// minZ returns the lowest zIndex in the scene, never above 0.
func (e *Engine) minZ() int {
	z := 0
	for _, o := range e.objects {
		z = min(z, o.ZIndex)
	}
	return z
}

// mutate runs fn against the live scene and records the pre-image in
// history when fn succeeds. fn must check its preconditions before
// touching any object so that a failure leaves the scene unchanged.
func (e *Engine) mutate(fn func() error) error {
	pre := document.CloneObjects(e.objects)
	if err := fn(); err != nil {
		if IsWarning(err) {
			e.logger.Debug("operation declined", "reason", err.Error())
		}
		return err
	}
	e.history.push(pre)
	e.revision++
	return nil
}

// Checkpoint is a saved copy of the scene taken before a continuous edit.
type Checkpoint struct {
	scene []*document.Object
}

// Checkpoint copies the live scene.
func (e *Engine) Checkpoint() Checkpoint {
	return Checkpoint{scene: document.CloneObjects(e.objects)}
}

// Commit records cp as one undo step.
func (e *Engine) Commit(cp Checkpoint) {
	e.history.Snapshot(cp.scene)
	e.revision++
}

// Restore replaces the live scene with a copy of cp without touching
// history.
func (e *Engine) Restore(cp Checkpoint) {
	e.objects = document.CloneObjects(cp.scene)
	e.selection.retain(e.objects)
}

// Undo restores the scene before the last recorded mutation.
func (e *Engine) Undo() error {
	prev, err := e.history.Undo(e.objects)
	if err != nil {
		return err
	}
	e.objects = prev
	e.textEdit = nil
	e.revision++
	e.ClearSelection()
	return nil
}

// Redo reapplies the last undone mutation.
func (e *Engine) Redo() error {
	next, err := e.history.Redo(e.objects)
	if err != nil {
		return err
	}
	e.objects = next
	e.textEdit = nil
	e.revision++
	e.ClearSelection()
	return nil
}

// Revision increases whenever the document content may have changed:
// every recorded mutation, undo, redo, page switch and load. Callers
// compare revisions to decide whether a save is due.
func (e *Engine) Revision() uint64 { return e.revision }

// History exposes the undo/redo stacks for inspection.
func (e *Engine) History() *History { return e.history }

// HitTest returns the topmost object containing the document point, or
// nil. Ties in zIndex go to the later inserted object.
func (e *Engine) HitTest(x, y float64) *document.Object {
	var hit *document.Object
	for _, o := range e.objects {
		if !PointInObject(x, y, o) {
			continue
		}
		if hit == nil || o.ZIndex >= hit.ZIndex {
			hit = o
		}
	}
	return hit
}

// SelectionBounds returns the visual bounds of the co-selection, or an
// empty rect when nothing is selected.
func (e *Engine) SelectionBounds() Rect {
	var r Rect
	for _, o := range e.Selected() {
		r = r.Union(VisualBounds(o))
	}
	return r
}

// sceneEqual compares two scenes field by field.
func sceneEqual(a, b []*document.Object) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
