package export

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"slices"
	"strconv"
	"strings"

	"github.com/auro-editor/auro/internal/document"
)

// A4 at 96 dpi.
const (
	DefaultPageWidth  = 794.0
	DefaultPageHeight = 1123.0
)

type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

var (
	ErrUnsupportedFormat = errors.New("export format not implemented")
	ErrUnknownFormat     = errors.New("invalid export format")
)

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// Filename is the download name for an export of page (zero based).
func (f Format) Filename(page int) string {
	switch f {
	case FormatSVG:
		return fmt.Sprintf("auro-export-page%d.svg", page+1)
	case FormatJSON:
		return "auro-project.json"
	default:
		return "auro-export." + string(f)
	}
}

// Exporter renders scenes as vector markup.
type Exporter struct {
	width  float64
	height float64
}

func New(width, height float64) *Exporter {
	if width <= 0 {
		width = DefaultPageWidth
	}
	if height <= 0 {
		height = DefaultPageHeight
	}
	return &Exporter{width: width, height: height}
}

// Export renders d in the given format. SVG renders the current page.
func (x *Exporter) Export(f Format, d *document.Data) ([]byte, error) {
	switch f {
	case FormatSVG:
		var scene []*document.Object
		if d.CurrentPage >= 0 && d.CurrentPage < len(d.Pages) {
			scene = d.Pages[d.CurrentPage]
		}
		return []byte(x.SVG(scene)), nil
	case FormatJSON:
		return JSON(d)
	case FormatHTML:
		return []byte(x.HTML(d.Pages)), nil
	case FormatPNG:
		return nil, ErrUnsupportedFormat
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// JSON is the project file: the persisted document, indented.
func JSON(d *document.Data) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// SVG renders one scene as a standalone page.
func (x *Exporter) SVG(scene []*document.Object) string {
	var b strings.Builder
	w, h := num(x.width), num(x.height)
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`, w, h, w, h)
	b.WriteString("\n")
	fmt.Fprintf(&b, `<rect width="%s" height="%s" fill="white"/>`, w, h)
	b.WriteString("\n")
	for _, o := range byZ(scene) {
		writeObject(&b, o)
	}
	b.WriteString("</svg>")
	return b.String()
}

// byZ returns the objects in paint order. Equal zIndex keeps scene order.
func byZ(objs []*document.Object) []*document.Object {
	sorted := slices.Clone(objs)
	slices.SortStableFunc(sorted, func(a, b *document.Object) int {
		return cmp.Compare(a.ZIndex, b.ZIndex)
	})
	return sorted
}

func writeObject(b *strings.Builder, o *document.Object) {
	if o.Rotation != 0 {
		cx, cy := o.Center()
		fmt.Fprintf(b, `<g transform="rotate(%s %s %s)">`, num(o.Rotation), num(cx), num(cy))
		defer b.WriteString("</g>\n")
	}

	switch o.Type {
	case document.ObjectTypeText:
		writeText(b, o)
	case document.ObjectTypeShape:
		writeShape(b, o)
	case document.ObjectTypeImage:
		fmt.Fprintf(b, `<image x="%s" y="%s" width="%s" height="%s" href="%s" preserveAspectRatio="xMidYMid meet"/>`,
			num(o.X), num(o.Y), num(o.Width), num(o.Height), attr(o.Image.Src))
		b.WriteString("\n")
	case document.ObjectTypeTable:
		writeTable(b, o)
	case document.ObjectTypeGroup:
		fmt.Fprintf(b, `<g transform="translate(%s, %s)">`, num(o.X), num(o.Y))
		b.WriteString("\n")
		for _, child := range byZ(o.Group.Objects) {
			writeObject(b, child)
		}
		b.WriteString("</g>\n")
	}
}

func writeText(b *strings.Builder, o *document.Object) {
	t := o.Text
	fmt.Fprintf(b, `<foreignObject x="%s" y="%s" width="%s" height="%s">`, num(o.X), num(o.Y), num(o.Width), num(o.Height))
	style := []string{
		"font-family: " + t.FontFamily,
		"font-size: " + num(t.FontSize) + "px",
		"font-weight: " + t.FontWeight,
		"font-style: " + t.FontStyle,
		"text-decoration: " + t.TextDecoration,
		"color: " + t.Color,
		"text-align: " + t.TextAlign,
		"width: 100%",
		"height: 100%",
		"overflow: hidden",
	}
	fmt.Fprintf(b, `<div xmlns="http://www.w3.org/1999/xhtml" style="%s;">%s</div>`, attr(strings.Join(style, "; ")), listMarkup(t))
	b.WriteString("</foreignObject>\n")
}

// listMarkup wraps text content in a list element when a list style is set.
func listMarkup(t *document.TextData) string {
	switch t.ListType {
	case document.ListOrdered:
		return "<ol><li>" + t.Text + "</li></ol>"
	case document.ListUnordered:
		return "<ul><li>" + t.Text + "</li></ul>"
	default:
		return t.Text
	}
}

func writeShape(b *strings.Builder, o *document.Object) {
	s := o.Shape
	stroke := fmt.Sprintf(`stroke="%s" stroke-width="%s"`, attr(s.StrokeColor), num(s.StrokeWidth))
	switch s.ShapeType {
	case document.ShapeRectangle:
		fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" %s/>`,
			num(o.X), num(o.Y), num(o.Width), num(o.Height), attr(s.FillColor), stroke)
	case document.ShapeCircle:
		cx, cy := o.Center()
		r := min(o.Width, o.Height) / 2
		fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%s" fill="%s" %s/>`,
			num(cx), num(cy), num(r), attr(s.FillColor), stroke)
	case document.ShapeVLine:
		mx := o.X + o.Width/2
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" %s/>`,
			num(mx), num(o.Y), num(mx), num(o.Y+o.Height), stroke)
	case document.ShapeHLine:
		my := o.Y + o.Height/2
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" %s/>`,
			num(o.X), num(my), num(o.X+o.Width), num(my), stroke)
	}
	b.WriteString("\n")
}

const (
	tableStroke     = "#333"
	tableBackground = "#f8f9fa"
	tableHeaderFill = "#e9ecef"
	cellPadding     = 5.0
)

func writeTable(b *strings.Builder, o *document.Object) {
	t := o.Table
	headerHeight := t.RowHeight(0)

	b.WriteString("<g>\n")
	fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="1"/>`,
		num(o.X), num(o.Y), num(o.Width), num(o.Height), tableBackground, tableStroke)
	b.WriteString("\n")
	fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="1"/>`,
		num(o.X), num(o.Y), num(o.Width), num(headerHeight), tableHeaderFill, tableStroke)
	b.WriteString("\n")

	colX := make([]float64, t.Cols)
	x := o.X
	for c := range t.Cols {
		colX[c] = x
		if c > 0 {
			fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`,
				num(x), num(o.Y), num(x), num(o.Y+o.Height), tableStroke)
			b.WriteString("\n")
		}
		x += t.ColumnWidth(c)
	}

	y := o.Y
	for r := 0; r <= t.Rows; r++ {
		rowHeight := t.RowHeight(r)
		if r > 0 {
			fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`,
				num(o.X), num(y), num(o.X+o.Width), num(y), tableStroke)
			b.WriteString("\n")
		}
		baseline := y + rowHeight/2 + cellPadding
		for c := range t.Cols {
			text := t.Cell(r, c)
			weight := ""
			if r == 0 {
				weight = ` font-weight="bold"`
				if text == "" {
					text = "Header " + strconv.Itoa(c+1)
				}
			}
			if text == "" {
				continue
			}
			fmt.Fprintf(b, `<text x="%s" y="%s" font-family="Inter" font-size="14px"%s>%s</text>`,
				num(colX[c]+cellPadding), num(baseline), weight, html.EscapeString(text))
			b.WriteString("\n")
		}
		y += rowHeight
	}
	b.WriteString("</g>\n")
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func attr(s string) string {
	return html.EscapeString(s)
}
