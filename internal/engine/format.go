package engine

import (
	"github.com/auro-editor/auro/internal/document"
)

// primaryText returns the primary selection if it is a text object.
func (e *Engine) primaryText() (*document.Object, error) {
	o, err := e.resolvePrimary()
	if err != nil {
		return nil, err
	}
	if o.Type != document.ObjectTypeText || o.Text == nil {
		return nil, ErrNotText
	}
	return o, nil
}

func (e *Engine) primaryShape() (*document.Object, error) {
	o, err := e.resolvePrimary()
	if err != nil {
		return nil, err
	}
	if o.Type != document.ObjectTypeShape || o.Shape == nil {
		return nil, ErrNotShape
	}
	return o, nil
}

func (e *Engine) table(id string) (*document.Object, error) {
	o := e.Object(id)
	if o == nil {
		return nil, unknownObject(id)
	}
	if o.Type != document.ObjectTypeTable || o.Table == nil {
		return nil, ErrNotTable
	}
	return o, nil
}

func (e *Engine) formatText(fn func(t *document.TextData)) error {
	o, err := e.primaryText()
	if err != nil {
		return err
	}
	return e.mutate(func() error {
		fn(o.Text)
		return nil
	})
}

// BeginTextEdit opens an inline edit of a text object. Content changes
// reported through SetTextContent until EndTextEdit form one undo step.
func (e *Engine) BeginTextEdit(id string) error {
	o := e.Object(id)
	if o == nil {
		return unknownObject(id)
	}
	if o.Type != document.ObjectTypeText {
		return ErrNotText
	}
	if e.textEdit == nil {
		cp := e.Checkpoint()
		e.textEdit = &cp
	}
	return nil
}

// SetTextContent stores the latest markup reported by the rich-text
// surface. Inside an edit session this records nothing; outside one it is
// a single undoable change.
func (e *Engine) SetTextContent(id, content string) error {
	o := e.Object(id)
	if o == nil {
		return unknownObject(id)
	}
	if o.Type != document.ObjectTypeText || o.Text == nil {
		return ErrNotText
	}
	if o.Text.Text == content {
		return nil
	}
	if e.textEdit != nil {
		o.Text.Text = content
		return nil
	}
	return e.mutate(func() error {
		o.Text.Text = content
		return nil
	})
}

// EndTextEdit closes the edit session, recording one undo step if the
// scene changed while it was open.
func (e *Engine) EndTextEdit() {
	if e.textEdit == nil {
		return
	}
	cp := *e.textEdit
	e.textEdit = nil
	if !sceneEqual(cp.scene, e.objects) {
		e.Commit(cp)
	}
}

// TextEditing reports whether a text edit session is open.
func (e *Engine) TextEditing() bool { return e.textEdit != nil }

// ToggleBold flips the primary text object between bold and normal.
func (e *Engine) ToggleBold() error {
	return e.formatText(func(t *document.TextData) {
		t.FontWeight = toggle(t.FontWeight, "bold", "normal")
	})
}

// ToggleItalic flips the primary text object between italic and normal.
func (e *Engine) ToggleItalic() error {
	return e.formatText(func(t *document.TextData) {
		t.FontStyle = toggle(t.FontStyle, "italic", "normal")
	})
}

// ToggleUnderline flips the primary text object's underline.
func (e *Engine) ToggleUnderline() error {
	return e.formatText(func(t *document.TextData) {
		t.TextDecoration = toggle(t.TextDecoration, "underline", "none")
	})
}

// ToggleList switches the list style to kind, or off if already kind.
func (e *Engine) ToggleList(kind document.ListType) error {
	return e.formatText(func(t *document.TextData) {
		if t.ListType == kind {
			t.ListType = document.ListNone
		} else {
			t.ListType = kind
		}
	})
}

func (e *Engine) SetTextColor(color string) error {
	return e.formatText(func(t *document.TextData) { t.Color = color })
}

func (e *Engine) SetFontSize(size float64) error {
	return e.formatText(func(t *document.TextData) { t.FontSize = size })
}

func (e *Engine) SetFontFamily(family string) error {
	return e.formatText(func(t *document.TextData) { t.FontFamily = family })
}

// SetTextAlign sets paragraph alignment: left, center or right.
func (e *Engine) SetTextAlign(align string) error {
	switch align {
	case "left", "center", "right":
	default:
		return ErrUnknownAlignment
	}
	return e.formatText(func(t *document.TextData) { t.TextAlign = align })
}

func (e *Engine) formatShape(fn func(s *document.ShapeData)) error {
	o, err := e.primaryShape()
	if err != nil {
		return err
	}
	return e.mutate(func() error {
		fn(o.Shape)
		return nil
	})
}

func (e *Engine) SetShapeFill(color string) error {
	return e.formatShape(func(s *document.ShapeData) { s.FillColor = color })
}

func (e *Engine) SetShapeStroke(color string) error {
	return e.formatShape(func(s *document.ShapeData) { s.StrokeColor = color })
}

func (e *Engine) SetShapeStrokeWidth(width float64) error {
	return e.formatShape(func(s *document.ShapeData) { s.StrokeWidth = width })
}

// SetCellContent writes the text of one cell. Row 0 is the header.
func (e *Engine) SetCellContent(id string, row, col int, text string) error {
	o, err := e.table(id)
	if err != nil {
		return err
	}
	t := o.Table
	if row < 0 || row > t.Rows || col < 0 || col >= t.Cols {
		return ErrCellOutOfRange
	}
	return e.mutate(func() error {
		t.SetCell(row, col, text)
		return nil
	})
}

// SetColumnWidth resizes a column, floored at document.MinSize, and
// recomputes the table width.
func (e *Engine) SetColumnWidth(id string, col int, width float64) error {
	o, err := e.table(id)
	if err != nil {
		return err
	}
	t := o.Table
	if col < 0 || col >= t.Cols {
		return ErrCellOutOfRange
	}
	return e.mutate(func() error {
		if len(t.ColumnWidths) != t.Cols {
			t.ColumnWidths = filled(t.Cols, t.CellWidth)
		}
		t.ColumnWidths[col] = max(document.MinSize, width)
		o.Width = sum(t.ColumnWidths)
		return nil
	})
}

// SetRowHeight resizes a row (0 = header), floored at document.MinSize,
// and recomputes the table height.
func (e *Engine) SetRowHeight(id string, row int, height float64) error {
	o, err := e.table(id)
	if err != nil {
		return err
	}
	t := o.Table
	if row < 0 || row > t.Rows {
		return ErrCellOutOfRange
	}
	return e.mutate(func() error {
		if len(t.RowHeights) != t.Rows+1 {
			t.RowHeights = filled(t.Rows+1, t.CellHeight)
		}
		t.RowHeights[row] = max(document.MinSize, height)
		o.Height = sum(t.RowHeights)
		return nil
	})
}

// SetCustomCellSize overrides the size of a single cell.
func (e *Engine) SetCustomCellSize(id string, row, col int, width, height float64) error {
	o, err := e.table(id)
	if err != nil {
		return err
	}
	t := o.Table
	if row < 0 || row > t.Rows || col < 0 || col >= t.Cols {
		return ErrCellOutOfRange
	}
	cell := document.CustomCell{
		Row: row, Col: col,
		Width:  max(document.MinSize, width),
		Height: max(document.MinSize, height),
	}
	return e.mutate(func() error {
		for i, cc := range t.CustomCells {
			if cc.Row == row && cc.Col == col {
				t.CustomCells[i] = cell
				return nil
			}
		}
		t.CustomCells = append(t.CustomCells, cell)
		return nil
	})
}

func toggle(v, on, off string) string {
	if v == on {
		return off
	}
	return on
}

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func sum(vs []float64) float64 {
	total := 0.0
	for _, v := range vs {
		total += v
	}
	return total
}
