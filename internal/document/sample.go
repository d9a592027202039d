package document

// NewEmptyDocument creates a document with a single blank page.
func NewEmptyDocument() *Data {
	return &Data{
		Pages:       []Page{{}},
		CurrentPage: 0,
		NextID:      1,
	}
}

// NewSampleDocument creates a one-page report template: a header band, a
// title, two merge fields and a small results table.
func NewSampleDocument() *Data {
	header := &Object{
		ID: FormatID(1), Type: ObjectTypeShape,
		X: 0, Y: 0, Width: 794, Height: 90, ZIndex: 1,
		Shape: &ShapeData{
			ShapeType:   ShapeRectangle,
			FillColor:   "#4361ee",
			StrokeColor: "#3f37c9",
			StrokeWidth: 1,
		},
	}

	title := &Object{
		ID: FormatID(2), Type: ObjectTypeText,
		X: 40, Y: 25, Width: 400, Height: 40, ZIndex: 2,
		Text: &TextData{
			Text:           "Procedure Report",
			FontSize:       28,
			FontFamily:     "Montserrat",
			FontWeight:     "bold",
			FontStyle:      "normal",
			TextDecoration: "none",
			Color:          "#ffffff",
			TextAlign:      "left",
		},
	}

	nameField := &Object{
		ID: FormatID(3), Type: ObjectTypeText,
		X: 40, Y: 120, Width: 200, Height: 40, ZIndex: 3,
		Text: &TextData{
			Text:           "{{name}}",
			FontSize:       18,
			FontFamily:     "Inter",
			FontWeight:     "normal",
			FontStyle:      "normal",
			TextDecoration: "none",
			Color:          "#1976d2",
			TextAlign:      "left",
		},
	}

	dateField := &Object{
		ID: FormatID(4), Type: ObjectTypeText,
		X: 554, Y: 120, Width: 200, Height: 40, ZIndex: 4,
		Text: &TextData{
			Text:           "{{date}}",
			FontSize:       18,
			FontFamily:     "Inter",
			FontWeight:     "normal",
			FontStyle:      "normal",
			TextDecoration: "none",
			Color:          "#1976d2",
			TextAlign:      "right",
		},
	}

	results := &Object{
		ID: FormatID(5), Type: ObjectTypeTable,
		X: 40, Y: 200, Width: 240, Height: 90, ZIndex: 5,
		Table: &TableData{
			Rows:         2,
			Cols:         3,
			CellWidth:    80,
			CellHeight:   30,
			CustomCells:  []CustomCell{},
			ColumnWidths: []float64{80, 80, 80},
			RowHeights:   []float64{30, 30, 30},
			CellData: [][]string{
				{"Eye", "Before", "After"},
				{"Left", "6/18", "6/6"},
				{"Right", "6/24", "6/9"},
			},
		},
	}

	return &Data{
		Pages:       []Page{{header, title, nameField, dateField, results}},
		CurrentPage: 0,
		NextID:      6,
	}
}
