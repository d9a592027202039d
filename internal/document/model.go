package document

import (
	"fmt"
	"math"
)

// MinSize is the smallest width or height an object may be resized to.
// Line shapes are created thinner than this and keep that thickness.
const MinSize = 20.0

// NormalizeRotation maps an angle in degrees into [0, 360).
func NormalizeRotation(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

type ObjectType string

const (
	ObjectTypeText  ObjectType = "text"
	ObjectTypeShape ObjectType = "shape"
	ObjectTypeImage ObjectType = "image"
	ObjectTypeTable ObjectType = "table"
	ObjectTypeGroup ObjectType = "group"
)

type ShapeType string

const (
	ShapeRectangle ShapeType = "rectangle"
	ShapeCircle    ShapeType = "circle"
	ShapeVLine     ShapeType = "vline"
	ShapeHLine     ShapeType = "hline"
)

type ListType string

const (
	ListNone      ListType = ""
	ListOrdered   ListType = "ordered"
	ListUnordered ListType = "unordered"
)

// Object is a positioned, stackable entity on a page.
// Exactly one of the variant payloads is set, selected by Type.
type Object struct {
	ID       string
	Type     ObjectType
	X        float64
	Y        float64
	Width    float64
	Height   float64
	ZIndex   int
	Rotation float64

	Text  *TextData
	Shape *ShapeData
	Image *ImageData
	Table *TableData
	Group *GroupData
}

type TextData struct {
	Text           string   `json:"text"`
	FontSize       float64  `json:"fontSize"`
	FontFamily     string   `json:"fontFamily"`
	FontWeight     string   `json:"fontWeight"`
	FontStyle      string   `json:"fontStyle"`
	TextDecoration string   `json:"textDecoration"`
	Color          string   `json:"color"`
	TextAlign      string   `json:"textAlign"`
	ListType       ListType `json:"listType,omitempty"`
}

type ShapeData struct {
	ShapeType   ShapeType `json:"shapeType"`
	FillColor   string    `json:"fillColor"`
	StrokeColor string    `json:"strokeColor"`
	StrokeWidth float64   `json:"strokeWidth"`
}

type ImageData struct {
	Src string `json:"src"`
}

// CustomCell overrides the size of a single table cell.
type CustomCell struct {
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TableData describes a grid with a header row. RowHeights has Rows+1
// entries, index 0 being the header.
type TableData struct {
	Rows         int          `json:"rows"`
	Cols         int          `json:"cols"`
	CellWidth    float64      `json:"cellWidth"`
	CellHeight   float64      `json:"cellHeight"`
	CustomCells  []CustomCell `json:"customCells"`
	ColumnWidths []float64    `json:"columnWidths,omitempty"`
	RowHeights   []float64    `json:"rowHeights,omitempty"`
	CellData     [][]string   `json:"cellData,omitempty"`
}

// GroupData holds children positioned relative to the group's origin.
type GroupData struct {
	Objects []*Object `json:"objects"`
}

// Page is a saved scene.
type Page []*Object

// Data is the persisted form of a whole document.
type Data struct {
	Pages       []Page `json:"pages"`
	CurrentPage int    `json:"currentPage"`
	NextID      int    `json:"nextId"`
}

// Center returns the geometric center of the object.
func (o *Object) Center() (float64, float64) {
	return o.X + o.Width/2, o.Y + o.Height/2
}

// Validate checks that the variant payload matches Type, recursing into
// group children.
func (o *Object) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("object has no id")
	}
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("object %s: negative size %vx%v", o.ID, o.Width, o.Height)
	}
	var ok bool
	switch o.Type {
	case ObjectTypeText:
		ok = o.Text != nil
	case ObjectTypeShape:
		ok = o.Shape != nil
		if ok {
			switch o.Shape.ShapeType {
			case ShapeRectangle, ShapeCircle, ShapeVLine, ShapeHLine:
			default:
				return fmt.Errorf("object %s: unknown shape type %q", o.ID, o.Shape.ShapeType)
			}
		}
	case ObjectTypeImage:
		ok = o.Image != nil
	case ObjectTypeTable:
		ok = o.Table != nil
		if ok && (o.Table.Rows <= 0 || o.Table.Cols <= 0) {
			return fmt.Errorf("object %s: table must have rows and columns", o.ID)
		}
	case ObjectTypeGroup:
		ok = o.Group != nil
		if ok {
			for _, child := range o.Group.Objects {
				if child == nil {
					return fmt.Errorf("object %s: nil group child", o.ID)
				}
				if err := child.Validate(); err != nil {
					return fmt.Errorf("group %s: %w", o.ID, err)
				}
			}
		}
	default:
		return fmt.Errorf("object %s: unknown type %q", o.ID, o.Type)
	}
	if !ok {
		return fmt.Errorf("object %s: missing %s payload", o.ID, o.Type)
	}
	return nil
}

// ColumnWidth returns the width of column c, falling back to CellWidth.
func (t *TableData) ColumnWidth(c int) float64 {
	if c >= 0 && c < len(t.ColumnWidths) {
		return t.ColumnWidths[c]
	}
	return t.CellWidth
}

// RowHeight returns the height of row r (0 = header), falling back to
// CellHeight.
func (t *TableData) RowHeight(r int) float64 {
	if r >= 0 && r < len(t.RowHeights) {
		return t.RowHeights[r]
	}
	return t.CellHeight
}

// Cell returns the text of a cell, or "" when it was never written.
func (t *TableData) Cell(r, c int) string {
	if r < 0 || r >= len(t.CellData) {
		return ""
	}
	row := t.CellData[r]
	if c < 0 || c >= len(row) {
		return ""
	}
	return row[c]
}

// SetCell writes the text of a cell, allocating the grid on first use.
func (t *TableData) SetCell(r, c int, text string) {
	if t.CellData == nil {
		t.CellData = make([][]string, t.Rows+1)
		for i := range t.CellData {
			t.CellData[i] = make([]string, t.Cols)
		}
	}
	for len(t.CellData) <= r {
		t.CellData = append(t.CellData, make([]string, t.Cols))
	}
	for len(t.CellData[r]) <= c {
		t.CellData[r] = append(t.CellData[r], "")
	}
	t.CellData[r][c] = text
}
