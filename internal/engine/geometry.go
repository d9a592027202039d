package engine

import (
	"cmp"
	"math"
	"slices"

	"github.com/auro-editor/auro/internal/document"
)

// hitEpsilon absorbs rounding from the rotation so that points on an edge
// stay inside after a round trip through sin/cos.
const hitEpsilon = 1e-9

type AlignPosition string

const (
	AlignLeft   AlignPosition = "left"
	AlignCenter AlignPosition = "center"
	AlignRight  AlignPosition = "right"
	AlignTop    AlignPosition = "top"
	AlignMiddle AlignPosition = "middle"
	AlignBottom AlignPosition = "bottom"
)

type Axis string

const (
	AxisHorizontal Axis = "horizontal"
	AxisVertical   Axis = "vertical"
)

// PointInObject reports whether (px, py) lies inside the object's box,
// taking its rotation about the center into account. Edges are inside.
func PointInObject(px, py float64, o *document.Object) bool {
	if o.Rotation == 0 {
		return Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}.Outset(hitEpsilon).Contains(px, py)
	}

	cx, cy := o.Center()
	lx, ly := RotateDegrees(-o.Rotation).TransformPoint(px-cx, py-cy)
	local := Rect{X: -o.Width / 2, Y: -o.Height / 2, Width: o.Width, Height: o.Height}
	return local.Outset(hitEpsilon).Contains(lx, ly)
}

// BoundingBox returns the union of the objects' unrotated boxes. It
// returns false for an empty set.
func BoundingBox(objs []*document.Object) (Rect, bool) {
	if len(objs) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, o := range objs {
		minX = min(minX, o.X)
		minY = min(minY, o.Y)
		maxX = max(maxX, o.X+o.Width)
		maxY = max(maxY, o.Y+o.Height)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// VisualBounds returns the axis-aligned box that encloses the object as
// drawn, i.e. after rotation.
func VisualBounds(o *document.Object) Rect {
	r := Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
	if o.Rotation == 0 {
		return r
	}
	return ObjectMatrix(o).TransformRect(r)
}

// AlignTarget computes the shared coordinate that AlignObjects moves every
// object's edge or center onto.
func AlignTarget(objs []*document.Object, pos AlignPosition) (float64, error) {
	if len(objs) == 0 {
		return 0, ErrNoSelection
	}
	switch pos {
	case AlignLeft:
		v := math.Inf(1)
		for _, o := range objs {
			v = min(v, o.X)
		}
		return v, nil
	case AlignRight:
		v := math.Inf(-1)
		for _, o := range objs {
			v = max(v, o.X+o.Width)
		}
		return v, nil
	case AlignCenter:
		sum := 0.0
		for _, o := range objs {
			sum += o.X + o.Width/2
		}
		return sum / float64(len(objs)), nil
	case AlignTop:
		v := math.Inf(1)
		for _, o := range objs {
			v = min(v, o.Y)
		}
		return v, nil
	case AlignBottom:
		v := math.Inf(-1)
		for _, o := range objs {
			v = max(v, o.Y+o.Height)
		}
		return v, nil
	case AlignMiddle:
		sum := 0.0
		for _, o := range objs {
			sum += o.Y + o.Height/2
		}
		return sum / float64(len(objs)), nil
	default:
		return 0, ErrUnknownAlignment
	}
}

// alignTo moves o so that the edge or center named by pos sits on target.
func alignTo(o *document.Object, pos AlignPosition, target float64) {
	switch pos {
	case AlignLeft:
		o.X = target
	case AlignCenter:
		o.X = target - o.Width/2
	case AlignRight:
		o.X = target - o.Width
	case AlignTop:
		o.Y = target
	case AlignMiddle:
		o.Y = target - o.Height/2
	case AlignBottom:
		o.Y = target - o.Height
	}
}

// AlignObjects aligns the objects relative to each other.
func AlignObjects(objs []*document.Object, pos AlignPosition) error {
	target, err := AlignTarget(objs, pos)
	if err != nil {
		return err
	}
	for _, o := range objs {
		alignTo(o, pos, target)
	}
	return nil
}

// DistributeObjects spaces the interior objects evenly between the first
// and last along axis. The outermost objects do not move. Nothing is
// mutated when the objects cannot fit without overlapping.
func DistributeObjects(objs []*document.Object, axis Axis) error {
	if len(objs) < 3 {
		return ErrDistributeNeedsThree
	}

	var lead func(*document.Object) float64
	var size func(*document.Object) float64
	var set func(*document.Object, float64)
	switch axis {
	case AxisHorizontal:
		lead = func(o *document.Object) float64 { return o.X }
		size = func(o *document.Object) float64 { return o.Width }
		set = func(o *document.Object, v float64) { o.X = v }
	case AxisVertical:
		lead = func(o *document.Object) float64 { return o.Y }
		size = func(o *document.Object) float64 { return o.Height }
		set = func(o *document.Object, v float64) { o.Y = v }
	default:
		return ErrUnknownAxis
	}

	sorted := slices.Clone(objs)
	slices.SortStableFunc(sorted, func(a, b *document.Object) int {
		return cmp.Compare(lead(a), lead(b))
	})

	first, last := sorted[0], sorted[len(sorted)-1]
	span := lead(last) + size(last) - lead(first)
	total := 0.0
	for _, o := range sorted {
		total += size(o)
	}
	spacing := (span - total) / float64(len(sorted)-1)
	if spacing < 0 {
		return ErrNoSpace
	}

	trailing := lead(first) + size(first)
	for _, o := range sorted[1 : len(sorted)-1] {
		set(o, trailing+spacing)
		trailing = lead(o) + size(o)
	}
	return nil
}
