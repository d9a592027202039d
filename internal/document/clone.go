package document

// Clone returns a deep copy of the object. Copies share no slices, maps or
// payload pointers with the original, so history entries and clipboard
// contents stay independent of later in-place edits.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := *o
	switch o.Type {
	case ObjectTypeText:
		if o.Text != nil {
			t := *o.Text
			c.Text = &t
		}
	case ObjectTypeShape:
		if o.Shape != nil {
			s := *o.Shape
			c.Shape = &s
		}
	case ObjectTypeImage:
		if o.Image != nil {
			img := *o.Image
			c.Image = &img
		}
	case ObjectTypeTable:
		c.Table = o.Table.clone()
	case ObjectTypeGroup:
		if o.Group != nil {
			c.Group = &GroupData{Objects: CloneObjects(o.Group.Objects)}
		}
	}
	return &c
}

func (t *TableData) clone() *TableData {
	if t == nil {
		return nil
	}
	c := *t
	if t.CustomCells != nil {
		c.CustomCells = append([]CustomCell(nil), t.CustomCells...)
	}
	if t.ColumnWidths != nil {
		c.ColumnWidths = append([]float64(nil), t.ColumnWidths...)
	}
	if t.RowHeights != nil {
		c.RowHeights = append([]float64(nil), t.RowHeights...)
	}
	if t.CellData != nil {
		c.CellData = make([][]string, len(t.CellData))
		for i, row := range t.CellData {
			c.CellData[i] = append([]string(nil), row...)
		}
	}
	return &c
}

// CloneObjects deep copies a list of objects, preserving order.
func CloneObjects(objs []*Object) []*Object {
	if objs == nil {
		return nil
	}
	out := make([]*Object, len(objs))
	for i, o := range objs {
		out[i] = o.Clone()
	}
	return out
}

// Clone deep copies the whole document.
func (d *Data) Clone() *Data {
	c := &Data{
		CurrentPage: d.CurrentPage,
		NextID:      d.NextID,
		Pages:       make([]Page, len(d.Pages)),
	}
	for i, p := range d.Pages {
		c.Pages[i] = Page(CloneObjects(p))
		if c.Pages[i] == nil {
			c.Pages[i] = Page{}
		}
	}
	return c
}
