package engine

import (
	"errors"
	"fmt"
	"log/slog"
)

// Warning is an operation declined because a precondition was not met.
// Nothing is mutated and no history entry is recorded when one is returned.
type Warning struct {
	msg string
}

func (w *Warning) Error() string { return w.msg }

func newWarning(msg string) *Warning { return &Warning{msg: msg} }

var (
	ErrEmptyHistory         = newWarning("nothing to undo")
	ErrEmptyRedo            = newWarning("nothing to redo")
	ErrEmptyClipboard       = newWarning("nothing to paste")
	ErrNoSelection          = newWarning("nothing selected")
	ErrNotAGroup            = newWarning("select a group to ungroup")
	ErrGroupNeedsTwo        = newWarning("select multiple objects to group")
	ErrDistributeNeedsThree = newWarning("select at least 3 objects to distribute")
	ErrNoSpace              = newWarning("not enough space to distribute objects")
	ErrInvalidTableSize     = newWarning("please select table dimensions")
	ErrNotText              = newWarning("selection is not a text object")
	ErrNotShape             = newWarning("selection is not a shape")
	ErrNotTable             = newWarning("selection is not a table")
	ErrCellOutOfRange       = newWarning("table cell out of range")
	ErrUnknownAlignment     = newWarning("unknown alignment")
	ErrUnknownAxis          = newWarning("unknown distribution axis")
	ErrUnknownShape         = newWarning("unknown shape type")
	ErrUnknownObject        = newWarning("object not found")
)

// ErrInvariant marks a broken store invariant, such as a selection that
// references an id missing from the scene.
var ErrInvariant = errors.New("scene invariant violated")

// IsWarning reports whether err is a user-facing precondition failure.
func IsWarning(err error) bool {
	var w *Warning
	return errors.As(err, &w)
}

// unknownObject reports an id supplied by a caller that names no object
// in the scene.
func unknownObject(id string) error {
	return fmt.Errorf("%w: %q", ErrUnknownObject, id)
}

// invariant logs and returns a violation. Builds with the debug tag panic
// instead.
func invariant(logger *slog.Logger, format string, args ...any) error {
	err := fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
	logger.Error("invariant violation", "error", err)
	if panicOnInvariant {
		panic(err)
	}
	return err
}
