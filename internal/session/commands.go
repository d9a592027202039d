package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/auro-editor/auro/internal/document"
	"github.com/auro-editor/auro/internal/engine"
	"github.com/auro-editor/auro/internal/export"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errEditing        = errors.New("finish editing text first")
)

// editLocked names the commands that share a keyboard shortcut. Like the
// shortcuts, they are declined while an inline text edit is open.
var editLocked = map[string]bool{
	"delete": true, "duplicate": true, "copy": true, "paste": true,
	"undo": true, "redo": true, "group": true, "ungroup": true,
}

type commandFunc func(ctx context.Context, s *Session, args json.RawMessage) error

// commands maps command names to handlers. Every handler runs on the
// session goroutine.
var commands = map[string]commandFunc{
	"addText": func(_ context.Context, s *Session, _ json.RawMessage) error {
		s.eng.AddText()
		return nil
	},
	"addField": withArgs(func(s *Session, a struct {
		Field string `json:"field"`
	}) error {
		if a.Field == "" {
			return errors.New("field name is required")
		}
		s.eng.AddField(a.Field)
		return nil
	}),
	"addShape": withArgs(func(s *Session, a struct {
		Shape document.ShapeType `json:"shape"`
	}) error {
		_, err := s.eng.AddShape(a.Shape)
		return err
	}),
	"addImage": withArgs(func(s *Session, a struct {
		Src string `json:"src"`
	}) error {
		if a.Src == "" {
			return errors.New("image source is required")
		}
		s.eng.AddImage(a.Src)
		return nil
	}),
	"insertTable": withArgs(func(s *Session, a struct {
		Rows int `json:"rows"`
		Cols int `json:"cols"`
	}) error {
		_, err := s.eng.InsertTable(a.Rows, a.Cols)
		return err
	}),
	"duplicate": simple((*engine.Engine).Duplicate),
	"delete":    simple((*engine.Engine).Delete),
	"group":     simple((*engine.Engine).Group),
	"ungroup":   simple((*engine.Engine).Ungroup),
	"copy":      simple((*engine.Engine).Copy),
	"undo":      simple((*engine.Engine).Undo),
	"redo":      simple((*engine.Engine).Redo),
	"paste": func(_ context.Context, s *Session, _ json.RawMessage) error {
		_, err := s.eng.Paste()
		return err
	},
	"bringToFront": withArgs(func(s *Session, a idArgs) error { return s.eng.BringToFront(a.ID) }),
	"sendToBack":   withArgs(func(s *Session, a idArgs) error { return s.eng.SendToBack(a.ID) }),
	"select": withArgs(func(s *Session, a struct {
		IDs []string `json:"ids"`
	}) error {
		return s.eng.SetSelection(a.IDs)
	}),
	"clearSelection": func(_ context.Context, s *Session, _ json.RawMessage) error {
		s.eng.ClearSelection()
		return nil
	},
	"align": withArgs(func(s *Session, a struct {
		Position engine.AlignPosition `json:"position"`
	}) error {
		return s.eng.Align(a.Position)
	}),
	"distribute": withArgs(func(s *Session, a struct {
		Axis engine.Axis `json:"axis"`
	}) error {
		return s.eng.Distribute(a.Axis)
	}),
	"addPage": func(_ context.Context, s *Session, _ json.RawMessage) error {
		s.endEdit()
		s.eng.AddPage()
		return nil
	},
	"navigatePage": withArgs(func(s *Session, a struct {
		Delta int `json:"delta"`
	}) error {
		s.endEdit()
		s.eng.NavigatePage(a.Delta)
		return nil
	}),
	"toggleBold":      simple((*engine.Engine).ToggleBold),
	"toggleItalic":    simple((*engine.Engine).ToggleItalic),
	"toggleUnderline": simple((*engine.Engine).ToggleUnderline),
	"toggleList": withArgs(func(s *Session, a struct {
		Kind document.ListType `json:"kind"`
	}) error {
		return s.eng.ToggleList(a.Kind)
	}),
	"setTextColor":  withArgs(func(s *Session, a valueArgs[string]) error { return s.eng.SetTextColor(a.Value) }),
	"setFontSize":   withArgs(func(s *Session, a valueArgs[float64]) error { return s.eng.SetFontSize(a.Value) }),
	"setFontFamily": withArgs(func(s *Session, a valueArgs[string]) error { return s.eng.SetFontFamily(a.Value) }),
	"setTextAlign":  withArgs(func(s *Session, a valueArgs[string]) error { return s.eng.SetTextAlign(a.Value) }),
	"setShapeFill":  withArgs(func(s *Session, a valueArgs[string]) error { return s.eng.SetShapeFill(a.Value) }),
	"setShapeStroke": withArgs(func(s *Session, a valueArgs[string]) error {
		return s.eng.SetShapeStroke(a.Value)
	}),
	"setShapeStrokeWidth": withArgs(func(s *Session, a valueArgs[float64]) error {
		return s.eng.SetShapeStrokeWidth(a.Value)
	}),
	"setCellContent": withArgs(func(s *Session, a cellArgs) error {
		return s.eng.SetCellContent(a.ID, a.Row, a.Col, a.Text)
	}),
	"setColumnWidth": withArgs(func(s *Session, a cellArgs) error {
		return s.eng.SetColumnWidth(a.ID, a.Col, a.Width)
	}),
	"setRowHeight": withArgs(func(s *Session, a cellArgs) error {
		return s.eng.SetRowHeight(a.ID, a.Row, a.Height)
	}),
	"setCustomCellSize": withArgs(func(s *Session, a cellArgs) error {
		return s.eng.SetCustomCellSize(a.ID, a.Row, a.Col, a.Width, a.Height)
	}),
	"zoom": withArgs(func(s *Session, a valueArgs[float64]) error {
		s.ctrl.SetZoom(a.Value)
		return nil
	}),
	"load": func(_ context.Context, s *Session, args json.RawMessage) error {
		var a struct {
			Document json.RawMessage `json:"document"`
		}
		if err := json.Unmarshal(args, &a); err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		s.endEdit()
		return s.eng.LoadJSON(a.Document)
	},
	"save": func(ctx context.Context, s *Session, _ json.RawMessage) error {
		s.endEdit()
		s.save(ctx, "command")
		return nil
	},
	"export": func(_ context.Context, s *Session, args json.RawMessage) error {
		var a struct {
			Format export.Format `json:"format"`
		}
		if err := json.Unmarshal(args, &a); err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		d := s.eng.Serialize()
		out, err := s.exporter.Export(a.Format, d)
		if err != nil {
			return err
		}
		s.sendPayload(TypeExport, ExportPayload{
			Format:      string(a.Format),
			ContentType: a.Format.ContentType(),
			Filename:    a.Format.Filename(d.CurrentPage),
			Data:        string(out),
		})
		return nil
	},
}

type idArgs struct {
	ID string `json:"id"`
}

type valueArgs[T any] struct {
	Value T `json:"value"`
}

type cellArgs struct {
	ID     string  `json:"id"`
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	Text   string  `json:"text"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func simple(fn func(*engine.Engine) error) commandFunc {
	return func(_ context.Context, s *Session, _ json.RawMessage) error {
		return fn(s.eng)
	}
}

func withArgs[A any](fn func(*Session, A) error) commandFunc {
	return func(_ context.Context, s *Session, raw json.RawMessage) error {
		var a A
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &a); err != nil {
				return fmt.Errorf("invalid arguments: %w", err)
			}
		}
		return fn(s, a)
	}
}

// endEdit closes an inline text edit before a command that replaces the
// scene.
func (s *Session) endEdit() {
	if s.editing != "" {
		s.ExitEdit()
	}
	s.eng.EndTextEdit()
}

func (s *Session) runCommand(ctx context.Context, cmd CommandPayload) {
	fn, ok := commands[cmd.Name]
	if !ok {
		s.fail(fmt.Errorf("%w: %q", errUnknownCommand, cmd.Name))
		return
	}
	if s.editing != "" && editLocked[cmd.Name] {
		s.warn(fmt.Errorf("%w: %s", errEditing, cmd.Name))
		return
	}
	err := fn(ctx, s, cmd.Args)
	if s.editing != "" && s.eng.Object(s.editing) == nil {
		s.endEdit()
	}
	var dataErr *document.DataError
	switch {
	case err == nil:
		s.changed = true
	case errors.As(err, &dataErr):
		s.fail(err)
	case errors.Is(err, export.ErrUnsupportedFormat), errors.Is(err, export.ErrUnknownFormat):
		s.warn(err)
	default:
		s.report(err)
	}
}
