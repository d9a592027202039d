//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/auro-editor/auro/internal/document"
	"github.com/auro-editor/auro/internal/engine"
	"github.com/auro-editor/auro/internal/export"
	"github.com/auro-editor/auro/internal/interaction"
)

var (
	eng      *engine.Engine
	ctrl     *interaction.Controller
	input    *interaction.Dispatcher
	exporter *export.Exporter
	edit     = &editState{}

	// onChange is the JS callback registered through setChangeListener.
	onChange js.Value
)

// editState tracks the text object the page is editing inline.
type editState struct {
	id string
}

func (s *editState) ActiveEdit() (string, bool) { return s.id, s.id != "" }

func (s *editState) ExitEdit() {
	id := s.id
	s.id = ""
	if fn := js.Global().Get("auroExitEdit"); fn.Type() == js.TypeFunction {
		fn.Invoke(id)
	}
}

func main() {
	eng = engine.NewEngine()
	input = interaction.NewDispatcher()
	exporter = export.New(export.DefaultPageWidth, export.DefaultPageHeight)
	ctrl = interaction.NewController(eng,
		interaction.WithEditSession(edit),
		interaction.OnChange(notify),
		interaction.OnWarning(func(err error) { js.Global().Get("console").Call("warn", err.Error()) }),
	)
	ctrl.Attach(input)

	auroEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	auroEngine.Set("loadDocument", js.FuncOf(loadDocument))
	auroEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	auroEngine.Set("pointer", js.FuncOf(pointer))
	auroEngine.Set("key", js.FuncOf(key))
	auroEngine.Set("setZoom", js.FuncOf(setZoom))
	auroEngine.Set("setSelection", js.FuncOf(setSelection))
	auroEngine.Set("beginTextEdit", js.FuncOf(beginTextEdit))
	auroEngine.Set("setTextContent", js.FuncOf(setTextContent))
	auroEngine.Set("endTextEdit", js.FuncOf(endTextEdit))
	auroEngine.Set("addText", js.FuncOf(func(this js.Value, args []js.Value) any {
		eng.AddText()
		notify()
		return ok()
	}))
	auroEngine.Set("addShape", js.FuncOf(addShape))
	auroEngine.Set("addPage", js.FuncOf(func(this js.Value, args []js.Value) any {
		eng.AddPage()
		notify()
		return ok()
	}))
	auroEngine.Set("navigatePage", js.FuncOf(navigatePage))
	auroEngine.Set("undo", js.FuncOf(call(eng.Undo)))
	auroEngine.Set("redo", js.FuncOf(call(eng.Redo)))
	auroEngine.Set("group", js.FuncOf(call(eng.Group)))
	auroEngine.Set("ungroup", js.FuncOf(call(eng.Ungroup)))
	auroEngine.Set("duplicate", js.FuncOf(call(eng.Duplicate)))
	auroEngine.Set("delete", js.FuncOf(call(eng.Delete)))
	auroEngine.Set("setChangeListener", js.FuncOf(setChangeListener))

	// --- Queries (frontend ← engine) ---
	auroEngine.Set("getScene", js.FuncOf(getScene))
	auroEngine.Set("getDocument", js.FuncOf(getDocument))
	auroEngine.Set("getSelection", js.FuncOf(getSelection))
	auroEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	auroEngine.Set("hitTest", js.FuncOf(hitTest))
	auroEngine.Set("getMode", js.FuncOf(func(this js.Value, args []js.Value) any {
		return ctrl.Mode().String()
	}))
	auroEngine.Set("export", js.FuncOf(exportScene))

	js.Global().Set("auroEngine", auroEngine)
	js.Global().Set("auroWasmReady", js.ValueOf(true))

	select {}
}

func notify() {
	if onChange.Type() == js.TypeFunction {
		onChange.Invoke()
	}
}

func ok() any { return js.ValueOf(map[string]any{"ok": true}) }

func fail(err error) any { return js.ValueOf(map[string]any{"error": err.Error()}) }

func missing(what string) any { return js.ValueOf(map[string]any{"error": "missing " + what}) }

func call(fn func() error) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if err := fn(); err != nil {
			return fail(err)
		}
		notify()
		return ok()
	}
}

func toJSON(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return fail(err)
	}
	return string(data)
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return missing("document JSON")
	}
	edit.id = ""
	if err := eng.LoadJSON([]byte(args[0].String())); err != nil {
		return fail(err)
	}
	notify()
	return ok()
}

func loadSampleDocument(this js.Value, args []js.Value) any {
	edit.id = ""
	eng.Load(document.NewSampleDocument())
	notify()
	return ok()
}

func pointer(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return missing("pointer event")
	}
	var ev interaction.PointerEvent
	if err := json.Unmarshal([]byte(args[0].String()), &ev); err != nil {
		return fail(err)
	}
	input.Pointer(ev)
	return ok()
}

func key(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return missing("key event")
	}
	var ev interaction.KeyEvent
	if err := json.Unmarshal([]byte(args[0].String()), &ev); err != nil {
		return fail(err)
	}
	input.Key(ev)
	return ok()
}

func setZoom(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return missing("zoom")
	}
	ctrl.SetZoom(args[0].Float())
	if len(args) >= 3 {
		ctrl.SetOrigin(args[1].Float(), args[2].Float())
	}
	notify()
	return ok()
}

func setSelection(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return missing("selection JSON")
	}
	var ids []string
	if err := json.Unmarshal([]byte(args[0].String()), &ids); err != nil {
		return fail(err)
	}
	if err := eng.SetSelection(ids); err != nil {
		return fail(err)
	}
	notify()
	return ok()
}

func beginTextEdit(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return missing("object id")
	}
	id := args[0].String()
	if err := eng.BeginTextEdit(id); err != nil {
		return fail(err)
	}
	edit.id = id
	return ok()
}

func setTextContent(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return missing("object id and content")
	}
	if err := eng.SetTextContent(args[0].String(), args[1].String()); err != nil {
		return fail(err)
	}
	return ok()
}

func endTextEdit(this js.Value, args []js.Value) any {
	edit.id = ""
	eng.EndTextEdit()
	notify()
	return ok()
}

func addShape(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return missing("shape type")
	}
	if _, err := eng.AddShape(document.ShapeType(args[0].String())); err != nil {
		return fail(err)
	}
	notify()
	return ok()
}

func navigatePage(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return missing("delta")
	}
	edit.id = ""
	eng.EndTextEdit()
	if eng.NavigatePage(args[0].Int()) {
		notify()
	}
	return ok()
}

func setChangeListener(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return missing("callback")
	}
	onChange = args[0]
	return ok()
}

// --- Query Handlers ---

func getScene(this js.Value, args []js.Value) any {
	return toJSON(eng.Objects())
}

func getDocument(this js.Value, args []js.Value) any {
	return toJSON(eng.Serialize())
}

func getSelection(this js.Value, args []js.Value) any {
	sel := eng.Selection()
	return toJSON(map[string]any{"ids": sel.IDs(), "primary": sel.Primary()})
}

func getSelectionBounds(this js.Value, args []js.Value) any {
	return toJSON(eng.SelectionBounds())
}

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.Null()
	}
	if o := eng.HitTest(args[0].Float(), args[1].Float()); o != nil {
		return o.ID
	}
	return js.Null()
}

func exportScene(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return missing("format")
	}
	out, err := exporter.Export(export.Format(args[0].String()), eng.Serialize())
	if err != nil {
		return fail(err)
	}
	return string(out)
}
