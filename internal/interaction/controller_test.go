package interaction

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/auro-editor/auro/internal/document"
	"github.com/auro-editor/auro/internal/engine"
)

type fakeEdit struct {
	id     string
	exited int
}

func (f *fakeEdit) ActiveEdit() (string, bool) { return f.id, f.id != "" }
func (f *fakeEdit) ExitEdit()                  { f.id = ""; f.exited++ }

type harness struct {
	eng      *engine.Engine
	ctrl     *Controller
	in       *Dispatcher
	changes  int
	warnings []error
}

func newHarness(t *testing.T, opts ...ControllerOption) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &harness{
		eng: engine.NewEngine(engine.WithLogger(logger)),
		in:  NewDispatcher(),
	}
	opts = append([]ControllerOption{
		WithControllerLogger(logger),
		OnChange(func() { h.changes++ }),
		OnWarning(func(err error) { h.warnings = append(h.warnings, err) }),
	}, opts...)
	h.ctrl = NewController(h.eng, opts...)
	h.ctrl.Attach(h.in)
	return h
}

func (h *harness) rect(t *testing.T, x, y, w, ht float64) *document.Object {
	t.Helper()
	o, err := h.eng.AddShape(document.ShapeRectangle)
	if err != nil {
		t.Fatal(err)
	}
	o.X, o.Y, o.Width, o.Height = x, y, w, ht
	return o
}

func (h *harness) down(x, y float64) {
	h.in.Pointer(PointerEvent{Kind: PointerDown, ClientX: x, ClientY: y})
}

func (h *harness) handle(x, y float64, hd Handle) {
	h.in.Pointer(PointerEvent{Kind: PointerDown, ClientX: x, ClientY: y, Handle: hd})
}

func (h *harness) move(x, y float64, shift bool) {
	h.in.Pointer(PointerEvent{Kind: PointerMove, ClientX: x, ClientY: y, Shift: shift})
}

func (h *harness) up(x, y float64) {
	h.in.Pointer(PointerEvent{Kind: PointerUp, ClientX: x, ClientY: y})
}

func (h *harness) key(k string, ctrl, shift bool) {
	h.in.Key(KeyEvent{Kind: KeyDown, Key: k, Ctrl: ctrl, Shift: shift})
}

func TestDragAtZoom(t *testing.T) {
	h := newHarness(t)
	o := h.rect(t, 100, 100, 200, 150)
	h.ctrl.SetZoom(200)
	depth := h.eng.History().UndoDepth()

	h.down(300, 300)
	if h.ctrl.Mode() != Dragging {
		t.Fatalf("mode = %v, want dragging", h.ctrl.Mode())
	}
	h.move(340, 320, false)
	if o.X != 120 || o.Y != 110 {
		t.Fatalf("during drag at (%v,%v), want (120,110)", o.X, o.Y)
	}
	h.up(340, 320)

	if h.ctrl.Mode() != Idle {
		t.Errorf("mode = %v after release", h.ctrl.Mode())
	}
	if got := h.eng.History().UndoDepth(); got != depth+1 {
		t.Errorf("undo depth = %d, want %d", got, depth+1)
	}
}

func TestClickWithoutMoveRecordsNothing(t *testing.T) {
	h := newHarness(t)
	h.rect(t, 0, 0, 100, 100)
	depth := h.eng.History().UndoDepth()

	h.down(50, 50)
	h.up(50, 50)
	if got := h.eng.History().UndoDepth(); got != depth {
		t.Errorf("undo depth = %d, want %d", got, depth)
	}
}

func TestUndoAfterDragRestoresStacking(t *testing.T) {
	h := newHarness(t)
	a := h.rect(t, 0, 0, 100, 100)
	h.rect(t, 200, 200, 100, 100)

	h.down(50, 50)
	if a.ZIndex != 3 {
		t.Fatalf("pressed object z = %d, want 3", a.ZIndex)
	}
	h.move(60, 50, false)
	h.up(60, 50)

	h.key("z", true, false)
	got := h.eng.Object(a.ID)
	if got.X != 0 || got.ZIndex != 1 {
		t.Errorf("after undo x=%v z=%d, want x=0 z=1", got.X, got.ZIndex)
	}
}

func TestEscapeCancelsDrag(t *testing.T) {
	h := newHarness(t)
	o := h.rect(t, 0, 0, 100, 100)
	depth := h.eng.History().UndoDepth()

	h.down(50, 50)
	h.move(90, 90, false)
	h.key("Escape", false, false)

	if h.ctrl.Mode() != Idle {
		t.Fatalf("mode = %v, want idle", h.ctrl.Mode())
	}
	got := h.eng.Object(o.ID)
	if got.X != 0 || got.Y != 0 || got.ZIndex != 1 {
		t.Errorf("object at (%v,%v) z=%d, want the pre-drag state", got.X, got.Y, got.ZIndex)
	}
	h.up(90, 90)
	if h.eng.History().UndoDepth() != depth {
		t.Error("cancelled drag recorded history")
	}
}

func TestSecondaryButtonIgnored(t *testing.T) {
	h := newHarness(t)
	h.rect(t, 0, 0, 100, 100)
	h.in.Pointer(PointerEvent{Kind: PointerDown, ClientX: 50, ClientY: 50, Button: 2})
	if h.ctrl.Mode() != Idle {
		t.Fatalf("mode = %v, want idle", h.ctrl.Mode())
	}
}

func TestResizeBox(t *testing.T) {
	box := engine.Rect{X: 100, Y: 100, Width: 100, Height: 100}
	tests := []struct {
		handle Handle
		dx, dy float64
		want   engine.Rect
	}{
		{HandleE, 50, 0, engine.Rect{X: 100, Y: 100, Width: 150, Height: 100}},
		{HandleE, -500, 0, engine.Rect{X: 100, Y: 100, Width: 20, Height: 100}},
		{HandleW, 30, 0, engine.Rect{X: 130, Y: 100, Width: 70, Height: 100}},
		{HandleW, 500, 0, engine.Rect{X: 180, Y: 100, Width: 20, Height: 100}},
		{HandleS, 0, -500, engine.Rect{X: 100, Y: 100, Width: 100, Height: 20}},
		{HandleN, 0, 500, engine.Rect{X: 100, Y: 180, Width: 100, Height: 20}},
		{HandleSE, 50, 50, engine.Rect{X: 100, Y: 100, Width: 150, Height: 150}},
		{HandleNW, 10, 10, engine.Rect{X: 110, Y: 110, Width: 90, Height: 90}},
		{HandleNE, 500, 500, engine.Rect{X: 100, Y: 180, Width: 600, Height: 20}},
		{HandleSW, 500, 500, engine.Rect{X: 180, Y: 100, Width: 20, Height: 600}},
	}
	for _, tt := range tests {
		t.Run(string(tt.handle), func(t *testing.T) {
			o := &document.Object{}
			ResizeBox(o, box, tt.handle, tt.dx, tt.dy)
			got := engine.Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
			if got != tt.want {
				t.Fatalf("ResizeBox(%s, %v, %v) = %+v, want %+v", tt.handle, tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestResizeGesture(t *testing.T) {
	h := newHarness(t)
	o := h.rect(t, 100, 100, 200, 150)
	depth := h.eng.History().UndoDepth()

	h.handle(300, 250, HandleSE)
	if h.ctrl.Mode() != Resizing {
		t.Fatalf("mode = %v, want resizing", h.ctrl.Mode())
	}
	h.move(0, 0, false)
	if o.Width != document.MinSize || o.Height != document.MinSize {
		t.Errorf("size = %vx%v, want the floor", o.Width, o.Height)
	}
	h.up(0, 0)
	if h.eng.History().UndoDepth() != depth+1 {
		t.Error("resize not recorded")
	}
}

func TestTransformNeedsSingleSelection(t *testing.T) {
	h := newHarness(t)
	a := h.rect(t, 0, 0, 10, 10)
	b := h.rect(t, 50, 0, 10, 10)
	h.eng.SetSelection([]string{a.ID, b.ID})

	h.handle(10, 10, HandleSE)
	if h.ctrl.Mode() != Idle {
		t.Fatalf("mode = %v, want idle with two selected", h.ctrl.Mode())
	}
}

func TestRotateGesture(t *testing.T) {
	h := newHarness(t)
	o := h.rect(t, 100, 100, 200, 150) // center (200, 175)

	h.handle(200, 50, HandleRotate)
	if h.ctrl.Mode() != Rotating {
		t.Fatalf("mode = %v, want rotating", h.ctrl.Mode())
	}
	if ref, ok := h.ctrl.RotationReference(); !ok || math.Abs(math.Remainder(ref, 360)) > 1e-9 {
		t.Errorf("reference = %v, %v, want 0", ref, ok)
	}

	h.move(300, 175, false)
	if o.Rotation != 90 {
		t.Errorf("rotation = %v, want 90", o.Rotation)
	}
	h.move(300, 170, false)
	if o.Rotation == 90 {
		t.Errorf("rotation without shift should not snap")
	}
	h.move(300, 170, true)
	if o.Rotation != 90 {
		t.Errorf("snapped rotation = %v, want 90", o.Rotation)
	}
	h.up(300, 170)
	if h.ctrl.Mode() != Idle {
		t.Errorf("mode = %v after release", h.ctrl.Mode())
	}
}

func TestSnapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{37, 30},
		{38, 45},
		{353, 0},
		{-8, 345},
		{180, 180},
	}
	for _, tt := range tests {
		if got := SnapAngle(tt.in, RotationSnap); got != tt.want {
			t.Errorf("SnapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBackgroundClick(t *testing.T) {
	h := newHarness(t)
	h.rect(t, 0, 0, 10, 10)

	h.key("Shift", false, true)
	h.down(500, 500)
	if h.eng.Selection().Len() != 1 {
		t.Fatal("background click with shift should keep the selection")
	}

	h.in.Key(KeyEvent{Kind: KeyUp, Key: "Shift"})
	h.down(500, 500)
	if h.eng.Selection().Len() != 0 {
		t.Fatal("background click should clear the selection")
	}
}

func TestShiftClickToggles(t *testing.T) {
	h := newHarness(t)
	a := h.rect(t, 0, 0, 10, 10)
	b := h.rect(t, 100, 0, 10, 10)
	h.eng.Select(a.ID)

	h.key("Shift", false, true)
	if !h.ctrl.MultiSelect() {
		t.Fatal("multi-select not engaged")
	}
	h.down(105, 5)
	h.up(105, 5)
	sel := h.eng.Selection()
	if sel.Len() != 2 || sel.Primary() != a.ID {
		t.Fatalf("selection = %v primary %q", sel.IDs(), sel.Primary())
	}

	h.down(105, 5)
	h.up(105, 5)
	if sel := h.eng.Selection(); sel.Len() != 1 || sel.Contains(b.ID) {
		t.Fatalf("second shift click should deselect, got %v", sel.IDs())
	}
}

func TestShortcuts(t *testing.T) {
	h := newHarness(t)
	a := h.rect(t, 0, 0, 10, 10)

	h.key("c", true, false)
	h.key("V", true, false)
	if len(h.eng.Objects()) != 2 {
		t.Fatalf("paste: objects = %d", len(h.eng.Objects()))
	}
	h.key("d", true, false)
	if len(h.eng.Objects()) != 3 {
		t.Fatalf("duplicate: objects = %d", len(h.eng.Objects()))
	}
	h.key("Delete", false, false)
	if len(h.eng.Objects()) != 2 {
		t.Fatalf("delete: objects = %d", len(h.eng.Objects()))
	}
	h.key("z", true, false)
	if len(h.eng.Objects()) != 3 {
		t.Fatalf("undo: objects = %d", len(h.eng.Objects()))
	}
	h.key("z", true, true)
	if len(h.eng.Objects()) != 2 {
		t.Fatalf("redo: objects = %d", len(h.eng.Objects()))
	}
	if h.eng.Object(a.ID) == nil {
		t.Error("original removed")
	}

	h.key("Escape", false, false)
	h.eng.ClearSelection()
	h.key("c", true, false)
	if len(h.warnings) == 0 {
		t.Error("copy with nothing selected should warn")
	}
}

func TestKeysSuppressedWhileEditing(t *testing.T) {
	edit := &fakeEdit{}
	h := newHarness(t, WithEditSession(edit))
	txt := h.eng.AddText()
	edit.id = txt.ID

	h.key("Delete", false, false)
	h.key("z", true, false)
	if len(h.eng.Objects()) != 1 {
		t.Fatal("shortcut reached the scene during a text edit")
	}

	h.down(150, 110)
	if h.ctrl.Mode() != Idle {
		t.Error("pressing the object being edited should not start a drag")
	}

	h.key("Escape", false, false)
	if edit.exited != 1 {
		t.Fatalf("ExitEdit calls = %d, want 1", edit.exited)
	}
	h.key("Delete", false, false)
	if len(h.eng.Objects()) != 0 {
		t.Error("Delete ignored after the edit ended")
	}
}

func TestZoomClamp(t *testing.T) {
	h := newHarness(t)
	h.ctrl.SetZoom(5)
	if h.ctrl.Zoom() != MinZoom {
		t.Errorf("zoom = %v, want %v", h.ctrl.Zoom(), MinZoom)
	}
	h.ctrl.SetZoom(500)
	if h.ctrl.Zoom() != MaxZoom {
		t.Errorf("zoom = %v, want %v", h.ctrl.Zoom(), MaxZoom)
	}
}

func TestCloseDetachesAndCancels(t *testing.T) {
	h := newHarness(t)
	o := h.rect(t, 0, 0, 100, 100)
	h.down(50, 50)
	h.move(80, 50, false)

	h.ctrl.Close()
	if h.in.Len() != 0 {
		t.Errorf("listeners = %d after close", h.in.Len())
	}
	if got := h.eng.Object(o.ID); got.X != 0 {
		t.Errorf("x = %v, want the gesture undone", got.X)
	}
	h.down(50, 50)
	if h.ctrl.Mode() != Idle {
		t.Error("closed controller still handles input")
	}
}
