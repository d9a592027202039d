package engine

import (
	"slices"

	"github.com/auro-editor/auro/internal/document"
)

// Selection is a primary object plus the ordered set of co-selected
// objects. The primary is always a member of the set when the set is not
// empty.
type Selection struct {
	primary string
	ids     []string
}

// Primary returns the primary id, or "".
func (s Selection) Primary() string { return s.primary }

// IDs returns a copy of the co-selected ids in selection order.
func (s Selection) IDs() []string { return slices.Clone(s.ids) }

// Len returns the number of co-selected objects.
func (s Selection) Len() int { return len(s.ids) }

// Contains reports whether id is co-selected.
func (s Selection) Contains(id string) bool { return slices.Contains(s.ids, id) }

func (s *Selection) replace(ids ...string) {
	s.ids = slices.Clone(ids)
	s.primary = ""
	if len(s.ids) > 0 {
		s.primary = s.ids[0]
	}
}

// toggle adds id when absent and removes it when present. Removing the
// primary promotes the first remaining member.
func (s *Selection) toggle(id string) {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		if s.primary == id {
			s.primary = ""
			if len(s.ids) > 0 {
				s.primary = s.ids[0]
			}
		}
		return
	}
	s.ids = append(s.ids, id)
	if s.primary == "" {
		s.primary = id
	}
}

// retain drops ids that are no longer in scene.
func (s *Selection) retain(scene []*document.Object) {
	s.ids = slices.DeleteFunc(s.ids, func(id string) bool {
		return !slices.ContainsFunc(scene, func(o *document.Object) bool { return o.ID == id })
	})
	if !slices.Contains(s.ids, s.primary) {
		s.primary = ""
		if len(s.ids) > 0 {
			s.primary = s.ids[0]
		}
	}
}

// Selection returns the current selection.
func (e *Engine) Selection() Selection {
	return Selection{primary: e.selection.primary, ids: e.selection.IDs()}
}

// Select makes id the sole selection.
func (e *Engine) Select(id string) error {
	if e.Object(id) == nil {
		return unknownObject(id)
	}
	e.selection.replace(id)
	return nil
}

// ToggleSelect adds or removes id from the co-selection.
func (e *Engine) ToggleSelect(id string) error {
	if e.Object(id) == nil {
		return invariant(e.logger, "toggle unknown object %q", id)
	}
	e.selection.toggle(id)
	return nil
}

// SetSelection replaces the co-selection; the first id becomes primary.
// Unknown ids are rejected.
func (e *Engine) SetSelection(ids []string) error {
	for _, id := range ids {
		if e.Object(id) == nil {
			return unknownObject(id)
		}
	}
	e.selection.replace(ids...)
	return nil
}

// ClearSelection empties the selection.
func (e *Engine) ClearSelection() {
	e.selection = Selection{}
}

// Primary returns the primary selected object, or nil.
func (e *Engine) Primary() *document.Object {
	if e.selection.primary == "" {
		return nil
	}
	return e.Object(e.selection.primary)
}

// Selected returns the co-selected objects in selection order. Ids that no
// longer resolve are skipped.
func (e *Engine) Selected() []*document.Object {
	out := make([]*document.Object, 0, len(e.selection.ids))
	for _, id := range e.selection.ids {
		if o := e.Object(id); o != nil {
			out = append(out, o)
		}
	}
	return out
}

// resolveSelection returns the co-selected objects, failing loudly when an
// id has gone missing from the scene.
func (e *Engine) resolveSelection() ([]*document.Object, error) {
	out := make([]*document.Object, 0, len(e.selection.ids))
	for _, id := range e.selection.ids {
		o := e.Object(id)
		if o == nil {
			return nil, invariant(e.logger, "selected object %q is not in the scene", id)
		}
		out = append(out, o)
	}
	return out, nil
}

// resolvePrimary returns the primary object, ErrNoSelection when there is
// none, and an invariant violation when it no longer resolves.
func (e *Engine) resolvePrimary() (*document.Object, error) {
	if e.selection.primary == "" {
		return nil, ErrNoSelection
	}
	o := e.Object(e.selection.primary)
	if o == nil {
		return nil, invariant(e.logger, "primary object %q is not in the scene", e.selection.primary)
	}
	return o, nil
}
