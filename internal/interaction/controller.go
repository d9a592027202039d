package interaction

import (
	"log/slog"
	"math"
	"strings"

	"github.com/auro-editor/auro/internal/document"
	"github.com/auro-editor/auro/internal/engine"
)

// Mode is the gesture the controller is in. Exactly one is active.
type Mode int

const (
	Idle Mode = iota
	Dragging
	Resizing
	Rotating
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	case Rotating:
		return "rotating"
	default:
		return "unknown"
	}
}

// Zoom limits, in percent.
const (
	MinZoom     = 10.0
	MaxZoom     = 200.0
	DefaultZoom = 100.0
)

// RotationSnap is the increment rotation snaps to while Shift is held.
const RotationSnap = 15.0

// EditSession is the rich-text surface. ActiveEdit reports the text object
// being edited inline, if any.
type EditSession interface {
	ActiveEdit() (id string, ok bool)
	ExitEdit()
}

type point struct{ x, y float64 }

// gesture holds the transient bookkeeping of the active gesture.
type gesture struct {
	target   string
	handle   Handle
	startX   float64
	startY   float64
	starts   map[string]point
	startBox engine.Rect
	// refAngle is the pointer angle, in degrees, at rotate start.
	refAngle float64
	pre      engine.Checkpoint
	moved    bool
}

// Controller turns pointer and key events into engine mutations for one
// editing surface.
type Controller struct {
	eng  *engine.Engine
	edit EditSession

	zoom    float64
	originX float64
	originY float64

	mode    Mode
	multi   bool
	g       gesture
	cursorX float64
	cursorY float64

	unsubscribe func()
	onChange    func()
	onWarning   func(error)
	logger      *slog.Logger
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithEditSession connects the rich-text surface.
func WithEditSession(s EditSession) ControllerOption {
	return func(c *Controller) { c.edit = s }
}

// OnChange registers a callback run after every event that changed the
// scene, the selection or the mode.
func OnChange(fn func()) ControllerOption {
	return func(c *Controller) { c.onChange = fn }
}

// OnWarning registers a callback for declined commands.
func OnWarning(fn func(error)) ControllerOption {
	return func(c *Controller) { c.onWarning = fn }
}

func WithControllerLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

func NewController(eng *engine.Engine, opts ...ControllerOption) *Controller {
	c := &Controller{
		eng:    eng,
		zoom:   DefaultZoom,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach subscribes the controller to src. A previous source is detached.
func (c *Controller) Attach(src InputSource) {
	c.Close()
	c.unsubscribe = src.Subscribe(c)
}

// Close detaches from the input source and cancels any gesture in
// progress.
func (c *Controller) Close() {
	if c.mode != Idle {
		c.cancel()
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Controller) Mode() Mode { return c.mode }

// MultiSelect reports whether the additive selection modifier is held.
func (c *Controller) MultiSelect() bool { return c.multi }

func (c *Controller) Zoom() float64 { return c.zoom }

// SetZoom sets the zoom percentage, clamped to [MinZoom, MaxZoom].
func (c *Controller) SetZoom(z float64) {
	c.zoom = min(MaxZoom, max(MinZoom, z))
}

// SetOrigin sets the client position of the page's top-left corner.
func (c *Controller) SetOrigin(x, y float64) {
	c.originX, c.originY = x, y
}

// RotationReference returns the pointer angle recorded when the current
// rotate gesture started.
func (c *Controller) RotationReference() (float64, bool) {
	return c.g.refAngle, c.mode == Rotating
}

func (c *Controller) scale() float64 { return c.zoom / 100 }

// toDocument maps client coordinates into the page frame.
func (c *Controller) toDocument(cx, cy float64) (float64, float64) {
	s := c.scale()
	return (cx - c.originX) / s, (cy - c.originY) / s
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Controller) report(err error) {
	if err == nil {
		return
	}
	if engine.IsWarning(err) {
		if c.onWarning != nil {
			c.onWarning(err)
		}
		return
	}
	c.logger.Error("command failed", "error", err)
}

// HandlePointer implements Listener.
func (c *Controller) HandlePointer(ev PointerEvent) {
	c.cursorX, c.cursorY = c.toDocument(ev.ClientX, ev.ClientY)
	switch ev.Kind {
	case PointerDown:
		c.pointerDown(ev)
	case PointerMove:
		c.pointerMove(ev)
	case PointerUp:
		c.pointerUp()
	}
}

func (c *Controller) pointerDown(ev PointerEvent) {
	if c.mode != Idle || ev.Button != 0 {
		return
	}

	if ev.Handle.IsResize() || ev.Handle == HandleRotate {
		c.beginTransform(ev)
		return
	}

	var target *document.Object
	if ev.ObjectID != "" {
		target = c.eng.Object(ev.ObjectID)
	} else {
		target = c.eng.HitTest(c.cursorX, c.cursorY)
	}
	if target == nil {
		if !c.multi && c.eng.Selection().Len() > 0 {
			c.eng.ClearSelection()
			c.changed()
		}
		return
	}

	if c.edit != nil {
		if id, ok := c.edit.ActiveEdit(); ok && id == target.ID {
			return
		}
	}

	var err error
	if c.multi {
		err = c.eng.ToggleSelect(target.ID)
	} else {
		err = c.eng.Select(target.ID)
	}
	if err != nil {
		c.report(err)
		return
	}

	// The pre-image is taken before raising so that undoing a drag also
	// restores the stacking order.
	pre := c.eng.Checkpoint()
	if err := c.eng.Raise(target.ID); err != nil {
		c.report(err)
		return
	}

	starts := make(map[string]point)
	for _, o := range c.eng.Selected() {
		starts[o.ID] = point{o.X, o.Y}
	}
	c.g = gesture{
		target: target.ID,
		startX: ev.ClientX,
		startY: ev.ClientY,
		starts: starts,
		pre:    pre,
	}
	c.mode = Dragging
	c.changed()
}

// beginTransform starts a resize or rotate of the primary selection.
func (c *Controller) beginTransform(ev PointerEvent) {
	o := c.eng.Primary()
	if o == nil || c.eng.Selection().Len() != 1 {
		return
	}
	c.g = gesture{
		target:   o.ID,
		handle:   ev.Handle,
		startX:   ev.ClientX,
		startY:   ev.ClientY,
		startBox: engine.Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height},
		pre:      c.eng.Checkpoint(),
	}
	if ev.Handle == HandleRotate {
		cx, cy := o.Center()
		c.g.refAngle = pointerAngle(cx, cy, c.cursorX, c.cursorY)
		c.mode = Rotating
	} else {
		c.mode = Resizing
	}
	c.changed()
}

func (c *Controller) pointerMove(ev PointerEvent) {
	switch c.mode {
	case Dragging:
		c.drag(ev)
	case Resizing:
		c.resize(ev)
	case Rotating:
		c.rotate(ev)
	default:
		return
	}
	c.changed()
}

func (c *Controller) drag(ev PointerEvent) {
	s := c.scale()
	dx := (ev.ClientX - c.g.startX) / s
	dy := (ev.ClientY - c.g.startY) / s
	if dx != 0 || dy != 0 {
		c.g.moved = true
	}
	for id, start := range c.g.starts {
		o := c.eng.Object(id)
		if o == nil {
			continue
		}
		o.X = start.x + dx
		o.Y = start.y + dy
	}
}

func (c *Controller) resize(ev PointerEvent) {
	o := c.eng.Object(c.g.target)
	if o == nil {
		return
	}
	s := c.scale()
	dx := (ev.ClientX - c.g.startX) / s
	dy := (ev.ClientY - c.g.startY) / s
	c.g.moved = true
	ResizeBox(o, c.g.startBox, c.g.handle, dx, dy)
}

// ResizeBox applies a handle drag of (dx, dy) document units to o, starting
// from box. West and north handles move the origin; the opposite edge stays
// put, including when the size hits the document.MinSize floor.
func ResizeBox(o *document.Object, box engine.Rect, h Handle, dx, dy float64) {
	x, y, w, ht := box.X, box.Y, box.Width, box.Height
	switch h {
	case HandleE, HandleNE, HandleSE:
		w = max(document.MinSize, box.Width+dx)
	case HandleW, HandleNW, HandleSW:
		w = max(document.MinSize, box.Width-dx)
		x = box.X + box.Width - w
	}
	switch h {
	case HandleS, HandleSE, HandleSW:
		ht = max(document.MinSize, box.Height+dy)
	case HandleN, HandleNE, HandleNW:
		ht = max(document.MinSize, box.Height-dy)
		y = box.Y + box.Height - ht
	}
	o.X, o.Y, o.Width, o.Height = x, y, w, ht
}

func (c *Controller) rotate(ev PointerEvent) {
	o := c.eng.Object(c.g.target)
	if o == nil {
		return
	}
	cx, cy := o.Center()
	deg := pointerAngle(cx, cy, c.cursorX, c.cursorY)
	if ev.Shift {
		deg = SnapAngle(deg, RotationSnap)
	}
	c.g.moved = true
	o.Rotation = deg
}

// pointerAngle is the clockwise angle from straight up, in [0, 360), of
// the point (px, py) seen from (cx, cy).
func pointerAngle(cx, cy, px, py float64) float64 {
	deg := math.Atan2(py-cy, px-cx)*180/math.Pi + 90
	return document.NormalizeRotation(deg)
}

// SnapAngle rounds deg to the nearest multiple of step, in [0, 360).
func SnapAngle(deg, step float64) float64 {
	return document.NormalizeRotation(math.Round(deg/step) * step)
}

func (c *Controller) pointerUp() {
	switch c.mode {
	case Dragging:
		if c.g.moved {
			c.eng.Commit(c.g.pre)
		}
	case Resizing, Rotating:
		c.eng.Commit(c.g.pre)
	default:
		return
	}
	c.mode = Idle
	c.g = gesture{}
	c.changed()
}

// cancel abandons the gesture and puts the scene back as it was at
// pointer down. Nothing is recorded.
func (c *Controller) cancel() {
	c.eng.Restore(c.g.pre)
	c.mode = Idle
	c.g = gesture{}
}

// HandleKey implements Listener.
func (c *Controller) HandleKey(ev KeyEvent) {
	if ev.Kind == KeyUp {
		if ev.Key == "Shift" {
			c.multi = false
		}
		return
	}

	if c.edit != nil {
		if _, ok := c.edit.ActiveEdit(); ok {
			if ev.Key == "Escape" {
				c.edit.ExitEdit()
				c.eng.EndTextEdit()
				c.changed()
			}
			return
		}
	}

	c.multi = ev.Shift

	if c.mode != Idle {
		if ev.Key == "Escape" {
			c.cancel()
			c.changed()
		}
		return
	}

	c.report(c.command(ev))
}

func (c *Controller) command(ev KeyEvent) error {
	var err error
	switch {
	case ev.Key == "Delete" || ev.Key == "Backspace":
		err = c.eng.Delete()
	case ev.Ctrl && keyIs(ev.Key, "c"):
		err = c.eng.Copy()
	case ev.Ctrl && keyIs(ev.Key, "v"):
		_, err = c.eng.Paste()
	case ev.Ctrl && keyIs(ev.Key, "d"):
		err = c.eng.Duplicate()
	case ev.Ctrl && ev.Shift && keyIs(ev.Key, "z"):
		err = c.eng.Redo()
	case ev.Ctrl && keyIs(ev.Key, "z"):
		err = c.eng.Undo()
	case ev.Ctrl && keyIs(ev.Key, "y"):
		err = c.eng.Redo()
	default:
		return nil
	}
	if err == nil {
		c.changed()
	}
	return err
}

func keyIs(key, want string) bool {
	return strings.EqualFold(key, want)
}
