package engine

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/auro-editor/auro/internal/document"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

// addRect inserts a rectangle and moves it to the given box.
func addRect(t *testing.T, e *Engine, x, y, w, h float64) *document.Object {
	t.Helper()
	o, err := e.AddShape(document.ShapeRectangle)
	if err != nil {
		t.Fatalf("AddShape: %v", err)
	}
	o.X, o.Y, o.Width, o.Height = x, y, w, h
	return o
}

func TestHitTestRotated(t *testing.T) {
	e := newTestEngine(t)
	o := addRect(t, e, 100, 100, 200, 100)
	o.Rotation = 90

	tests := []struct {
		name   string
		x, y   float64
		wantID string
	}{
		{"center", 200, 150, o.ID},
		{"inside only after rotation", 200, 60, o.ID},
		{"inside only before rotation", 120, 110, ""},
		{"far away", 600, 600, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.HitTest(tt.x, tt.y)
			gotID := ""
			if got != nil {
				gotID = got.ID
			}
			if gotID != tt.wantID {
				t.Fatalf("HitTest(%v, %v) = %q, want %q", tt.x, tt.y, gotID, tt.wantID)
			}
		})
	}
}

func TestHitTestEdgesAreInside(t *testing.T) {
	e := newTestEngine(t)
	o := addRect(t, e, 0, 0, 100, 50)

	for _, p := range [][2]float64{{0, 0}, {100, 50}, {100, 25}, {50, 0}} {
		if e.HitTest(p[0], p[1]) != o {
			t.Errorf("edge point %v missed", p)
		}
	}
	for _, p := range [][2]float64{{100.01, 25}, {50, -0.01}} {
		if e.HitTest(p[0], p[1]) != nil {
			t.Errorf("outside point %v hit", p)
		}
	}
}

func TestHitTestPrefersTopmost(t *testing.T) {
	e := newTestEngine(t)
	low := addRect(t, e, 0, 0, 100, 100)
	high := addRect(t, e, 50, 50, 100, 100)

	if got := e.HitTest(75, 75); got != high {
		t.Fatalf("overlap hit = %v, want the later object", got.ID)
	}
	low.ZIndex = high.ZIndex + 1
	if got := e.HitTest(75, 75); got != low {
		t.Fatalf("overlap hit = %v, want the higher z", got.ID)
	}
	high.ZIndex = low.ZIndex
	if got := e.HitTest(75, 75); got != high {
		t.Fatalf("tie = %v, want the later object", got.ID)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	e.AddText()
	if err := e.SetFontSize(30); err != nil {
		t.Fatal(err)
	}

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := e.Objects()[0].Text.FontSize; got != 18 {
		t.Fatalf("after undo font size = %v, want 18", got)
	}
	if e.Selection().Len() != 0 {
		t.Error("undo should clear the selection")
	}
	if err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	if got := e.Objects()[0].Text.FontSize; got != 30 {
		t.Fatalf("after redo font size = %v, want 30", got)
	}

	e.Undo()
	e.Undo()
	if len(e.Objects()) != 0 {
		t.Fatalf("scene not empty after undoing everything")
	}
	if err := e.Undo(); !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("err = %v, want ErrEmptyHistory", err)
	}
}

func TestNewMutationClearsRedo(t *testing.T) {
	e := newTestEngine(t)
	e.AddText()
	e.Undo()
	e.AddText()
	if err := e.Redo(); !errors.Is(err, ErrEmptyRedo) {
		t.Fatalf("err = %v, want ErrEmptyRedo", err)
	}
}

func TestHistoryIsBounded(t *testing.T) {
	e := newTestEngine(t)
	for range 25 {
		e.AddText()
	}
	if got := e.History().UndoDepth(); got != DefaultHistoryDepth {
		t.Fatalf("undo depth = %d, want %d", got, DefaultHistoryDepth)
	}
	for range DefaultHistoryDepth {
		if err := e.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(e.Objects()); got != 5 {
		t.Fatalf("objects after full undo = %d, want 5", got)
	}
}

func TestDuplicate(t *testing.T) {
	e := newTestEngine(t)
	a := addRect(t, e, 100, 100, 50, 50)
	addRect(t, e, 300, 300, 50, 50)
	e.Select(a.ID)

	if err := e.Duplicate(); err != nil {
		t.Fatal(err)
	}
	clone := e.Primary()
	if clone.ID == a.ID {
		t.Fatal("duplicate reused the id")
	}
	if clone.X != 120 || clone.Y != 120 {
		t.Errorf("clone at (%v,%v), want (120,120)", clone.X, clone.Y)
	}
	for _, o := range e.Objects() {
		if o != clone && o.ZIndex >= clone.ZIndex {
			t.Errorf("clone z %d not above %s z %d", clone.ZIndex, o.ID, o.ZIndex)
		}
	}

	e.ClearSelection()
	if err := e.Duplicate(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("err = %v, want ErrNoSelection", err)
	}
}

func TestGroupUngroupRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	a := addRect(t, e, 100, 100, 200, 150)
	b := addRect(t, e, 300, 200, 200, 150)
	e.SetSelection([]string{a.ID, b.ID})

	if err := e.Group(); err != nil {
		t.Fatal(err)
	}
	if len(e.Objects()) != 1 {
		t.Fatalf("objects after group = %d, want 1", len(e.Objects()))
	}
	g := e.Objects()[0]
	if g.X != 100 || g.Y != 100 || g.Width != 400 || g.Height != 250 {
		t.Errorf("group box = %v,%v %vx%v", g.X, g.Y, g.Width, g.Height)
	}
	if c := g.Group.Objects[1]; c.X != 200 || c.Y != 100 {
		t.Errorf("child offset = (%v,%v), want (200,100)", c.X, c.Y)
	}
	if g.ZIndex <= b.ZIndex {
		t.Errorf("group z %d not above children", g.ZIndex)
	}

	if err := e.Ungroup(); err != nil {
		t.Fatal(err)
	}
	objs := e.Objects()
	if len(objs) != 2 {
		t.Fatalf("objects after ungroup = %d, want 2", len(objs))
	}
	if objs[0].X != 100 || objs[0].Y != 100 || objs[1].X != 300 || objs[1].Y != 200 {
		t.Errorf("children not restored: (%v,%v) (%v,%v)", objs[0].X, objs[0].Y, objs[1].X, objs[1].Y)
	}
	if objs[0].ID == a.ID || objs[1].ID == b.ID {
		t.Error("ungroup should issue fresh ids")
	}
	if e.Selection().Len() != 2 {
		t.Errorf("selection = %v, want both children", e.Selection().IDs())
	}
}

func TestGroupPreconditions(t *testing.T) {
	e := newTestEngine(t)
	a := addRect(t, e, 0, 0, 10, 10)
	depth := e.History().UndoDepth()

	if err := e.Group(); !errors.Is(err, ErrGroupNeedsTwo) {
		t.Fatalf("err = %v, want ErrGroupNeedsTwo", err)
	}
	if err := e.Ungroup(); !errors.Is(err, ErrNotAGroup) {
		t.Fatalf("err = %v, want ErrNotAGroup", err)
	}
	if e.History().UndoDepth() != depth {
		t.Error("declined operation recorded history")
	}
	if !IsWarning(ErrGroupNeedsTwo) || e.Primary() != a {
		t.Error("selection changed by a declined operation")
	}
}

func TestUngroupAddsRotation(t *testing.T) {
	e := newTestEngine(t)
	a := addRect(t, e, 0, 0, 10, 10)
	b := addRect(t, e, 20, 0, 10, 10)
	b.Rotation = 350
	e.SetSelection([]string{a.ID, b.ID})
	e.Group()
	e.Objects()[0].Rotation = 30

	if err := e.Ungroup(); err != nil {
		t.Fatal(err)
	}
	if got := e.Objects()[1].Rotation; got != 20 {
		t.Errorf("rotation = %v, want 20", got)
	}
}

func TestAlign(t *testing.T) {
	t.Run("several objects", func(t *testing.T) {
		e := newTestEngine(t)
		a := addRect(t, e, 50, 0, 10, 10)
		b := addRect(t, e, 100, 40, 30, 10)
		e.SetSelection([]string{a.ID, b.ID})

		if err := e.Align(AlignLeft); err != nil {
			t.Fatal(err)
		}
		if a.X != 50 || b.X != 50 {
			t.Errorf("left = %v, %v, want 50", a.X, b.X)
		}
		if err := e.Align(AlignRight); err != nil {
			t.Fatal(err)
		}
		if a.X+a.Width != 80 || b.X+b.Width != 80 {
			t.Errorf("right edges = %v, %v, want 80", a.X+a.Width, b.X+b.Width)
		}
	})

	t.Run("single object uses page anchors", func(t *testing.T) {
		e := newTestEngine(t)
		a := addRect(t, e, 300, 300, 100, 50)
		if err := e.Align(AlignLeft); err != nil {
			t.Fatal(err)
		}
		if a.X != DefaultPageAnchors.Left {
			t.Errorf("x = %v, want %v", a.X, DefaultPageAnchors.Left)
		}
		if err := e.Align(AlignBottom); err != nil {
			t.Fatal(err)
		}
		if a.Y+a.Height != DefaultPageAnchors.Bottom {
			t.Errorf("bottom = %v, want %v", a.Y+a.Height, DefaultPageAnchors.Bottom)
		}
	})

	t.Run("unknown position", func(t *testing.T) {
		e := newTestEngine(t)
		addRect(t, e, 0, 0, 10, 10)
		if err := e.Align("diagonal"); !errors.Is(err, ErrUnknownAlignment) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestDistribute(t *testing.T) {
	e := newTestEngine(t)
	a := addRect(t, e, 0, 0, 20, 10)
	b := addRect(t, e, 100, 0, 20, 10)
	c := addRect(t, e, 10, 0, 20, 10)
	e.SetSelection([]string{a.ID, b.ID, c.ID})

	if err := e.Distribute(AxisHorizontal); err != nil {
		t.Fatal(err)
	}
	if a.X != 0 || c.X != 50 || b.X != 100 {
		t.Errorf("x = %v, %v, %v, want 0, 50, 100", a.X, c.X, b.X)
	}

	e.SetSelection([]string{a.ID, b.ID})
	if err := e.Distribute(AxisHorizontal); !errors.Is(err, ErrDistributeNeedsThree) {
		t.Fatalf("err = %v, want ErrDistributeNeedsThree", err)
	}
}

func TestDistributeWithoutRoom(t *testing.T) {
	e := newTestEngine(t)
	a := addRect(t, e, 0, 0, 50, 10)
	b := addRect(t, e, 10, 0, 50, 10)
	c := addRect(t, e, 20, 0, 50, 10)
	e.SetSelection([]string{a.ID, b.ID, c.ID})
	depth := e.History().UndoDepth()

	if err := e.Distribute(AxisHorizontal); !errors.Is(err, ErrNoSpace) {
		t.Fatalf("err = %v, want ErrNoSpace", err)
	}
	if b.X != 10 {
		t.Errorf("b moved to %v", b.X)
	}
	if e.History().UndoDepth() != depth {
		t.Error("failed distribute recorded history")
	}
}

func TestStackOrder(t *testing.T) {
	e := newTestEngine(t)
	a := addRect(t, e, 0, 0, 10, 10)
	b := addRect(t, e, 0, 0, 10, 10)

	if err := e.BringToFront(a.ID); err != nil {
		t.Fatal(err)
	}
	if a.ZIndex <= b.ZIndex {
		t.Errorf("a z %d not above b z %d", a.ZIndex, b.ZIndex)
	}
	if err := e.SendToBack(a.ID); err != nil {
		t.Fatal(err)
	}
	if a.ZIndex >= 0 {
		t.Errorf("send to back z = %d, want below 0", a.ZIndex)
	}
	if err := e.BringToFront("obj-99"); !errors.Is(err, ErrUnknownObject) {
		t.Fatalf("err = %v, want ErrUnknownObject", err)
	}
}

func TestUnknownIDsAreWarnings(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, 0, 0, 100, 100)
	rev, depth := e.Revision(), e.History().UndoDepth()

	tests := []struct {
		name string
		call func() error
	}{
		{"bring to front", func() error { return e.BringToFront("nope") }},
		{"send to back", func() error { return e.SendToBack("nope") }},
		{"select", func() error { return e.Select("nope") }},
		{"set selection", func() error { return e.SetSelection([]string{"obj-1", "nope"}) }},
		{"cell content", func() error { return e.SetCellContent("nope", 0, 0, "x") }},
		{"begin edit", func() error { return e.BeginTextEdit("nope") }},
		{"set content", func() error { return e.SetTextContent("nope", "x") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, ErrUnknownObject) || !IsWarning(err) {
				t.Fatalf("err = %v, want an ErrUnknownObject warning", err)
			}
			if errors.Is(err, ErrInvariant) {
				t.Fatal("caller input reported as an invariant violation")
			}
		})
	}
	if e.Revision() != rev || e.History().UndoDepth() != depth {
		t.Error("declined calls changed the document")
	}
	if sel := e.Selection(); sel.Len() != 1 || sel.Primary() != "obj-1" {
		t.Errorf("selection = %v", sel.IDs())
	}
}

func TestClipboard(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.Paste(); !errors.Is(err, ErrEmptyClipboard) {
		t.Fatalf("err = %v, want ErrEmptyClipboard", err)
	}
	a := addRect(t, e, 100, 100, 10, 10)
	if err := e.Copy(); err != nil {
		t.Fatal(err)
	}
	a.X = 500

	pasted, err := e.Paste()
	if err != nil {
		t.Fatal(err)
	}
	if pasted.X != 120 || pasted.ID == a.ID {
		t.Errorf("pasted = %s at %v", pasted.ID, pasted.X)
	}

	e.Load(document.NewEmptyDocument())
	if !e.HasClipboard() {
		t.Fatal("clipboard should survive a load")
	}
	again, _ := e.Paste()
	if again.ID == pasted.ID {
		t.Error("id reused after load")
	}
}

func TestDeleteEmptySelection(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, 0, 0, 10, 10)
	e.ClearSelection()
	depth := e.History().UndoDepth()
	if err := e.Delete(); err != nil {
		t.Fatal(err)
	}
	if e.History().UndoDepth() != depth || len(e.Objects()) != 1 {
		t.Error("empty delete changed something")
	}
}

func TestPages(t *testing.T) {
	e := newTestEngine(t)
	a := addRect(t, e, 0, 0, 10, 10)

	e.AddPage()
	if e.PageCount() != 2 || e.CurrentPage() != 1 {
		t.Fatalf("pages = %d current = %d", e.PageCount(), e.CurrentPage())
	}
	if len(e.Objects()) != 0 || e.History().UndoDepth() != 0 {
		t.Error("new page should start empty with no history")
	}
	e.AddText()

	if !e.NavigatePage(-1) {
		t.Fatal("navigate back failed")
	}
	if len(e.Objects()) != 1 || e.Objects()[0].ID != a.ID {
		t.Fatalf("page 1 not restored: %v", e.Objects())
	}
	if e.NavigatePage(-1) || e.NavigatePage(5) {
		t.Error("navigating past the ends should fail")
	}

	d := e.Serialize()
	if len(d.Pages) != 2 || len(d.Pages[1]) != 1 {
		t.Fatalf("serialized pages = %v", d.Pages)
	}
	d.Pages[0][0].X = 999
	if e.Objects()[0].X == 999 {
		t.Error("Serialize shares objects with the live scene")
	}
}

func TestLoadJSONRejectsBadDocument(t *testing.T) {
	e := newTestEngine(t)
	a := addRect(t, e, 0, 0, 10, 10)
	err := e.LoadJSON([]byte(`{"pages":"nope"}`))
	var dataErr *document.DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("err = %v, want *document.DataError", err)
	}
	if e.Object(a.ID) == nil {
		t.Error("failed load replaced the scene")
	}
}

func TestTable(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.InsertTable(0, 3); !errors.Is(err, ErrInvalidTableSize) {
		t.Fatalf("err = %v, want ErrInvalidTableSize", err)
	}

	tbl, err := e.InsertTable(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Width != 160 || tbl.Height != 120 {
		t.Errorf("table size = %vx%v, want 160x120", tbl.Width, tbl.Height)
	}
	if len(tbl.Table.RowHeights) != 4 {
		t.Errorf("row heights = %v, want header plus 3 rows", tbl.Table.RowHeights)
	}

	if err := e.SetColumnWidth(tbl.ID, 0, 5); err != nil {
		t.Fatal(err)
	}
	if got := tbl.Table.ColumnWidths[0]; got != document.MinSize {
		t.Errorf("column width = %v, want %v", got, document.MinSize)
	}
	if tbl.Width != document.MinSize+80 {
		t.Errorf("table width = %v, want %v", tbl.Width, document.MinSize+80)
	}

	if err := e.SetCellContent(tbl.ID, 3, 1, "done"); err != nil {
		t.Fatal(err)
	}
	if got := tbl.Table.Cell(3, 1); got != "done" {
		t.Errorf("cell = %q", got)
	}
	if err := e.SetCellContent(tbl.ID, 4, 0, "x"); !errors.Is(err, ErrCellOutOfRange) {
		t.Errorf("err = %v, want ErrCellOutOfRange", err)
	}

	e.SetCustomCellSize(tbl.ID, 1, 1, 50, 50)
	e.SetCustomCellSize(tbl.ID, 1, 1, 60, 10)
	if len(tbl.Table.CustomCells) != 1 {
		t.Fatalf("custom cells = %v", tbl.Table.CustomCells)
	}
	if cc := tbl.Table.CustomCells[0]; cc.Width != 60 || cc.Height != document.MinSize {
		t.Errorf("custom cell = %+v", cc)
	}
}

func TestTextFormatting(t *testing.T) {
	e := newTestEngine(t)
	txt := e.AddText()

	e.ToggleBold()
	e.ToggleItalic()
	e.ToggleList(document.ListOrdered)
	if txt.Text.FontWeight != "bold" || txt.Text.FontStyle != "italic" || txt.Text.ListType != document.ListOrdered {
		t.Errorf("text = %+v", txt.Text)
	}
	e.ToggleBold()
	e.ToggleList(document.ListOrdered)
	if txt.Text.FontWeight != "normal" || txt.Text.ListType != document.ListNone {
		t.Errorf("text = %+v", txt.Text)
	}
	if err := e.SetTextAlign("justify"); !errors.Is(err, ErrUnknownAlignment) {
		t.Errorf("err = %v", err)
	}

	addRect(t, e, 0, 0, 10, 10)
	if err := e.ToggleBold(); !errors.Is(err, ErrNotText) {
		t.Errorf("err = %v, want ErrNotText", err)
	}
	if err := e.SetShapeFill("#000000"); err != nil {
		t.Errorf("SetShapeFill: %v", err)
	}
}

func TestTextEditIsOneUndoStep(t *testing.T) {
	e := newTestEngine(t)
	txt := e.AddText()
	depth := e.History().UndoDepth()

	if err := e.BeginTextEdit(txt.ID); err != nil {
		t.Fatal(err)
	}
	e.SetTextContent(txt.ID, "H")
	e.SetTextContent(txt.ID, "Hello")
	if e.History().UndoDepth() != depth {
		t.Fatal("keystrokes recorded history")
	}
	e.EndTextEdit()
	if e.History().UndoDepth() != depth+1 {
		t.Fatalf("undo depth = %d, want %d", e.History().UndoDepth(), depth+1)
	}

	e.BeginTextEdit(txt.ID)
	e.EndTextEdit()
	if e.History().UndoDepth() != depth+1 {
		t.Error("an edit without changes recorded history")
	}

	e.Undo()
	if got := e.Objects()[0].Text.Text; got != "Edit this text" {
		t.Errorf("after undo text = %q", got)
	}
}

func TestRevision(t *testing.T) {
	e := newTestEngine(t)
	r0 := e.Revision()
	a := addRect(t, e, 0, 0, 10, 10)
	r1 := e.Revision()
	if r1 == r0 {
		t.Fatal("mutation did not bump the revision")
	}
	e.Select(a.ID)
	e.Copy()
	if e.Revision() != r1 {
		t.Error("selection or copy bumped the revision")
	}
	e.Undo()
	if e.Revision() == r1 {
		t.Error("undo did not bump the revision")
	}
}

func TestCheckpointRestore(t *testing.T) {
	e := newTestEngine(t)
	a := addRect(t, e, 0, 0, 10, 10)
	cp := e.Checkpoint()
	a.X = 50
	e.Restore(cp)
	if got := e.Objects()[0].X; got != 0 {
		t.Fatalf("restored x = %v", got)
	}
	if e.Primary() == nil {
		t.Error("restore dropped a selection that still resolves")
	}
}
