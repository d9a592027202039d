package engine

import (
	"github.com/auro-editor/auro/internal/document"
)

// SavePage stores a copy of the live scene as the current page, growing
// the page list when the index is past its end.
func (e *Engine) SavePage() {
	page := document.Page(document.CloneObjects(e.objects))
	if page == nil {
		page = document.Page{}
	}
	if e.doc.CurrentPage < len(e.doc.Pages) {
		e.doc.Pages[e.doc.CurrentPage] = page
		return
	}
	e.doc.Pages = append(e.doc.Pages, page)
}

// AddPage saves the current page, appends a blank one and switches to it.
func (e *Engine) AddPage() {
	e.SavePage()
	e.doc.Pages = append(e.doc.Pages, document.Page{})
	e.doc.CurrentPage = len(e.doc.Pages) - 1
	e.objects = []*document.Object{}
	e.ClearSelection()
	e.resetPageState()
}

// NavigatePage moves delta pages away from the current one. It returns
// false, doing nothing, when the target does not exist.
func (e *Engine) NavigatePage(delta int) bool {
	target := e.doc.CurrentPage + delta
	if target < 0 || target >= len(e.doc.Pages) {
		return false
	}
	e.SavePage()
	e.doc.CurrentPage = target
	e.objects = document.CloneObjects(e.doc.Pages[target])
	if e.objects == nil {
		e.objects = []*document.Object{}
	}
	e.ClearSelection()
	e.resetPageState()
	return true
}

// resetPageState drops history and any open text edit, both of which
// describe the page being left.
func (e *Engine) resetPageState() {
	e.history.Clear()
	e.textEdit = nil
	e.revision++
}

// PageCount returns the number of pages.
func (e *Engine) PageCount() int { return len(e.doc.Pages) }

// CurrentPage returns the zero-based index of the page being edited.
func (e *Engine) CurrentPage() int { return e.doc.CurrentPage }

// Serialize returns a deep copy of the document with the live scene in
// place of the current page. The engine is not modified.
func (e *Engine) Serialize() *document.Data {
	d := e.doc.Clone()
	page := document.Page(document.CloneObjects(e.objects))
	if page == nil {
		page = document.Page{}
	}
	if d.CurrentPage < len(d.Pages) {
		d.Pages[d.CurrentPage] = page
	} else {
		d.Pages = append(d.Pages, page)
	}
	return d
}

// Load replaces the whole document. History, selection and any open text
// edit are reset; the clipboard survives. The id counter never moves
// backwards, so ids issued before the load are not handed out again.
func (e *Engine) Load(d *document.Data) {
	next := max(d.NextID, e.doc.NextID)
	e.doc = d.Clone()
	if len(e.doc.Pages) == 0 {
		e.doc.Pages = []document.Page{{}}
	}
	e.doc.CurrentPage = min(max(e.doc.CurrentPage, 0), len(e.doc.Pages)-1)
	e.doc.NextID = next
	e.objects = document.CloneObjects(e.doc.Pages[e.doc.CurrentPage])
	if e.objects == nil {
		e.objects = []*document.Object{}
	}
	e.ClearSelection()
	e.resetPageState()
}

// LoadJSON decodes and loads a persisted document. A *document.DataError
// leaves the engine untouched.
func (e *Engine) LoadJSON(blob []byte) error {
	d, err := document.Decode(blob)
	if err != nil {
		return err
	}
	e.Load(d)
	return nil
}
