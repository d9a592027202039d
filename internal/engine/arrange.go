package engine

import (
	"slices"

	"github.com/auro-editor/auro/internal/document"
)

// Group replaces the co-selected objects with a single group sized to
// their bounding box. Children keep their look; their coordinates become
// relative to the group origin.
func (e *Engine) Group() error {
	if e.selection.Len() < 2 {
		return ErrGroupNeedsTwo
	}
	selected, err := e.resolveSelection()
	if err != nil {
		return err
	}
	box, _ := BoundingBox(selected)

	return e.mutate(func() error {
		topZ := 0
		children := make([]*document.Object, 0, len(selected))
		for _, o := range selected {
			topZ = max(topZ, o.ZIndex)
			child := o.Clone()
			child.X -= box.X
			child.Y -= box.Y
			children = append(children, child)
		}

		group := &document.Object{
			ID:     e.newID(),
			Type:   document.ObjectTypeGroup,
			X:      box.X,
			Y:      box.Y,
			Width:  box.Width,
			Height: box.Height,
			ZIndex: topZ + 1,
			Group:  &document.GroupData{Objects: children},
		}

		e.objects = slices.DeleteFunc(e.objects, func(o *document.Object) bool {
			return e.selection.Contains(o.ID)
		})
		e.objects = append(e.objects, group)
		e.selection.replace(group.ID)
		return nil
	})
}

// Ungroup expands the selected group back into top-level objects with
// fresh ids. The group's rotation is added to each child's own rotation.
func (e *Engine) Ungroup() error {
	if e.selection.Len() != 1 {
		return ErrNotAGroup
	}
	group, err := e.resolvePrimary()
	if err != nil {
		return err
	}
	if group.Type != document.ObjectTypeGroup || group.Group == nil {
		return ErrNotAGroup
	}

	return e.mutate(func() error {
		ids := make([]string, 0, len(group.Group.Objects))
		expanded := make([]*document.Object, 0, len(group.Group.Objects))
		for _, child := range group.Group.Objects {
			o := child.Clone()
			o.ID = e.newID()
			o.X = group.X + child.X
			o.Y = group.Y + child.Y
			if group.Rotation != 0 {
				o.Rotation = document.NormalizeRotation(o.Rotation + group.Rotation)
			}
			expanded = append(expanded, o)
			ids = append(ids, o.ID)
		}

		e.objects = slices.DeleteFunc(e.objects, func(o *document.Object) bool {
			return o.ID == group.ID
		})
		e.objects = append(e.objects, expanded...)
		e.selection.replace(ids...)
		return nil
	})
}

// Align lines up the selection. A single object aligns to the page
// anchors; several objects align relative to each other.
func (e *Engine) Align(pos AlignPosition) error {
	switch pos {
	case AlignLeft, AlignCenter, AlignRight, AlignTop, AlignMiddle, AlignBottom:
	default:
		return ErrUnknownAlignment
	}
	if e.selection.Len() == 0 {
		return ErrNoSelection
	}
	selected, err := e.resolveSelection()
	if err != nil {
		return err
	}

	return e.mutate(func() error {
		if len(selected) > 1 {
			return AlignObjects(selected, pos)
		}
		alignTo(selected[0], pos, e.anchors.target(pos))
		return nil
	})
}

func (a PageAnchors) target(pos AlignPosition) float64 {
	switch pos {
	case AlignLeft:
		return a.Left
	case AlignCenter:
		return a.Center
	case AlignRight:
		return a.Right
	case AlignTop:
		return a.Top
	case AlignMiddle:
		return a.Middle
	default:
		return a.Bottom
	}
}

// Distribute spaces the selection evenly along axis. It needs at least
// three objects and enough room to avoid overlap.
func (e *Engine) Distribute(axis Axis) error {
	if axis != AxisHorizontal && axis != AxisVertical {
		return ErrUnknownAxis
	}
	if e.selection.Len() < 3 {
		return ErrDistributeNeedsThree
	}
	selected, err := e.resolveSelection()
	if err != nil {
		return err
	}
	return e.mutate(func() error {
		return DistributeObjects(selected, axis)
	})
}
