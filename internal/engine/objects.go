package engine

import (
	"slices"

	"github.com/auro-editor/auro/internal/document"
)

// Default placement for inserted objects.
const (
	insertX = 100.0
	insertY = 100.0
)

// Table sizing used by InsertTable.
const (
	tableCellWidth  = 80.0
	tableCellHeight = 30.0
	tableMaxWidth   = 400.0
	tableMaxHeight  = 300.0
)

// insert appends obj on top of the stack order and makes it the sole
// selection. The caller wraps it in mutate.
func (e *Engine) insert(obj *document.Object) {
	obj.ID = e.newID()
	obj.ZIndex = len(e.objects) + 1
	e.objects = append(e.objects, obj)
	e.selection.replace(obj.ID)
}

func defaultText(content, color string) *document.TextData {
	return &document.TextData{
		Text:           content,
		FontSize:       18,
		FontFamily:     "Inter",
		FontWeight:     "normal",
		FontStyle:      "normal",
		TextDecoration: "none",
		Color:          color,
		TextAlign:      "left",
	}
}

// AddText inserts a text box with placeholder content.
func (e *Engine) AddText() *document.Object {
	obj := &document.Object{
		Type: document.ObjectTypeText,
		X:    insertX, Y: insertY, Width: 200, Height: 40,
		Text: defaultText("Edit this text", "#000000"),
	}
	_ = e.mutate(func() error {
		e.insert(obj)
		return nil
	})
	return obj
}

// AddField inserts a text box holding a {{field}} merge placeholder.
func (e *Engine) AddField(field string) *document.Object {
	obj := &document.Object{
		Type: document.ObjectTypeText,
		X:    insertX, Y: insertY, Width: 200, Height: 40,
		Text: defaultText("{{"+field+"}}", "#1976d2"),
	}
	_ = e.mutate(func() error {
		e.insert(obj)
		return nil
	})
	return obj
}

// AddShape inserts a shape. Lines are drawn thin with a transparent fill.
func (e *Engine) AddShape(kind document.ShapeType) (*document.Object, error) {
	obj := &document.Object{
		Type: document.ObjectTypeShape,
		X:    insertX, Y: insertY, Width: 200, Height: 150,
		Shape: &document.ShapeData{
			ShapeType:   kind,
			FillColor:   "#4361ee",
			StrokeColor: "#3f37c9",
			StrokeWidth: 1,
		},
	}
	switch kind {
	case document.ShapeRectangle, document.ShapeCircle:
	case document.ShapeVLine:
		obj.Width = 4
		obj.Shape.FillColor = "transparent"
		obj.Shape.StrokeWidth = 2
	case document.ShapeHLine:
		obj.Height = 4
		obj.Shape.FillColor = "transparent"
		obj.Shape.StrokeWidth = 2
	default:
		return nil, ErrUnknownShape
	}
	err := e.mutate(func() error {
		e.insert(obj)
		return nil
	})
	return obj, err
}

// AddImage inserts an image referencing src, a URL or data URI.
func (e *Engine) AddImage(src string) *document.Object {
	obj := &document.Object{
		Type: document.ObjectTypeImage,
		X:    insertX, Y: insertY, Width: 200, Height: 150,
		Image: &document.ImageData{Src: src},
	}
	_ = e.mutate(func() error {
		e.insert(obj)
		return nil
	})
	return obj
}

// InsertTable inserts a rows x cols table with an extra header row.
func (e *Engine) InsertTable(rows, cols int) (*document.Object, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidTableSize
	}
	width := min(tableMaxWidth, float64(cols)*tableCellWidth)
	height := min(tableMaxHeight, float64(rows+1)*tableCellHeight)
	cellWidth := width / float64(cols)

	columnWidths := make([]float64, cols)
	for i := range columnWidths {
		columnWidths[i] = cellWidth
	}
	rowHeights := make([]float64, rows+1)
	for i := range rowHeights {
		rowHeights[i] = tableCellHeight
	}

	obj := &document.Object{
		Type: document.ObjectTypeTable,
		X:    insertX, Y: insertY, Width: width, Height: height,
		Table: &document.TableData{
			Rows:         rows,
			Cols:         cols,
			CellWidth:    cellWidth,
			CellHeight:   tableCellHeight,
			CustomCells:  []document.CustomCell{},
			ColumnWidths: columnWidths,
			RowHeights:   rowHeights,
		},
	}
	err := e.mutate(func() error {
		e.insert(obj)
		return nil
	})
	return obj, err
}

// Duplicate clones every co-selected object, offset by PasteOffset and
// stacked above the current maximum, and selects the clones.
func (e *Engine) Duplicate() error {
	if e.selection.Len() == 0 {
		return ErrNoSelection
	}
	selected, err := e.resolveSelection()
	if err != nil {
		return err
	}
	return e.mutate(func() error {
		ids := make([]string, 0, len(selected))
		for _, o := range selected {
			clone := o.Clone()
			clone.ID = e.newID()
			clone.X += PasteOffset
			clone.Y += PasteOffset
			clone.ZIndex = e.maxZ() + 1
			e.objects = append(e.objects, clone)
			ids = append(ids, clone.ID)
		}
		e.selection.replace(ids...)
		return nil
	})
}

// Delete removes every co-selected object. It does nothing, and records
// nothing, when the selection is empty.
func (e *Engine) Delete() error {
	if e.selection.Len() == 0 {
		return nil
	}
	if _, err := e.resolveSelection(); err != nil {
		return err
	}
	return e.mutate(func() error {
		e.objects = slices.DeleteFunc(e.objects, func(o *document.Object) bool {
			return e.selection.Contains(o.ID)
		})
		e.ClearSelection()
		return nil
	})
}

// BringToFront stacks the object above every other object.
func (e *Engine) BringToFront(id string) error {
	o := e.Object(id)
	if o == nil {
		return unknownObject(id)
	}
	return e.mutate(func() error {
		o.ZIndex = e.maxZ() + 1
		return nil
	})
}

// Raise stacks the object on top without recording history. Pointer-down
// uses it so that clicking an object does not create an undo step.
func (e *Engine) Raise(id string) error {
	o := e.Object(id)
	if o == nil {
		return invariant(e.logger, "raise unknown object %q", id)
	}
	o.ZIndex = e.maxZ() + 1
	return nil
}

// SendToBack stacks the object below every other object.
func (e *Engine) SendToBack(id string) error {
	o := e.Object(id)
	if o == nil {
		return unknownObject(id)
	}
	return e.mutate(func() error {
		o.ZIndex = e.minZ() - 1
		return nil
	})
}

// Copy places a copy of the primary selection on the clipboard,
// replacing whatever was there.
func (e *Engine) Copy() error {
	o, err := e.resolvePrimary()
	if err != nil {
		return err
	}
	e.clipboard = o.Clone()
	return nil
}

// HasClipboard reports whether Paste has something to paste.
func (e *Engine) HasClipboard() bool { return e.clipboard != nil }

// Paste inserts a fresh copy of the clipboard object, offset and stacked
// on top, and selects it.
func (e *Engine) Paste() (*document.Object, error) {
	if e.clipboard == nil {
		return nil, ErrEmptyClipboard
	}
	clone := e.clipboard.Clone()
	err := e.mutate(func() error {
		clone.ID = e.newID()
		clone.X += PasteOffset
		clone.Y += PasteOffset
		clone.ZIndex = e.maxZ() + 1
		e.objects = append(e.objects, clone)
		e.selection.replace(clone.ID)
		return nil
	})
	return clone, err
}
