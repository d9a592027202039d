package document

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DataError reports a persisted document that failed shape validation.
type DataError struct {
	Reason string
	Err    error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid document: %s: %v", e.Reason, e.Err)
	}
	return "invalid document: " + e.Reason
}

func (e *DataError) Unwrap() error { return e.Err }

// IDPrefix precedes the counter value in every object id.
const IDPrefix = "obj-"

// FormatID renders the id for counter value n.
func FormatID(n int) string {
	return IDPrefix + strconv.Itoa(n)
}

// parseID returns the counter value encoded in id, if it has one.
func parseID(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, IDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

type objectBase struct {
	ID       string     `json:"id"`
	Type     ObjectType `json:"type"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	ZIndex   int        `json:"zIndex"`
	Rotation float64    `json:"rotation"`
}

// MarshalJSON writes the base and variant fields side by side.
func (o Object) MarshalJSON() ([]byte, error) {
	base := objectBase{
		ID: o.ID, Type: o.Type,
		X: o.X, Y: o.Y, Width: o.Width, Height: o.Height,
		ZIndex: o.ZIndex, Rotation: o.Rotation,
	}
	switch o.Type {
	case ObjectTypeText:
		return json.Marshal(struct {
			objectBase
			*TextData
		}{base, o.Text})
	case ObjectTypeShape:
		return json.Marshal(struct {
			objectBase
			*ShapeData
		}{base, o.Shape})
	case ObjectTypeImage:
		return json.Marshal(struct {
			objectBase
			*ImageData
		}{base, o.Image})
	case ObjectTypeTable:
		return json.Marshal(struct {
			objectBase
			*TableData
		}{base, o.Table})
	case ObjectTypeGroup:
		return json.Marshal(struct {
			objectBase
			*GroupData
		}{base, o.Group})
	default:
		return nil, fmt.Errorf("marshal object %s: unknown type %q", o.ID, o.Type)
	}
}

// UnmarshalJSON reads the flat wire form, switching on "type" to decode
// the variant payload.
func (o *Object) UnmarshalJSON(data []byte) error {
	var base objectBase
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	*o = Object{
		ID: base.ID, Type: base.Type,
		X: base.X, Y: base.Y, Width: base.Width, Height: base.Height,
		ZIndex: base.ZIndex, Rotation: base.Rotation,
	}

	switch base.Type {
	case ObjectTypeText:
		o.Text = &TextData{}
		return json.Unmarshal(data, o.Text)
	case ObjectTypeShape:
		o.Shape = &ShapeData{}
		return json.Unmarshal(data, o.Shape)
	case ObjectTypeImage:
		o.Image = &ImageData{}
		return json.Unmarshal(data, o.Image)
	case ObjectTypeTable:
		o.Table = &TableData{}
		return json.Unmarshal(data, o.Table)
	case ObjectTypeGroup:
		o.Group = &GroupData{}
		return json.Unmarshal(data, o.Group)
	default:
		return fmt.Errorf("unknown object type %q", base.Type)
	}
}

// Encode serializes the document into its persisted form.
func Encode(d *Data) ([]byte, error) {
	return json.Marshal(d)
}

// Decode parses and validates a persisted document. Any failure is a
// *DataError. A missing or zero nextId is raised above every id in use.
func Decode(blob []byte) (*Data, error) {
	var raw struct {
		Pages       json.RawMessage `json:"pages"`
		CurrentPage int             `json:"currentPage"`
		NextID      int             `json:"nextId"`
	}
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, &DataError{Reason: "malformed json", Err: err}
	}
	trimmed := strings.TrimSpace(string(raw.Pages))
	if !strings.HasPrefix(trimmed, "[") {
		return nil, &DataError{Reason: "pages must be an array"}
	}

	var pages []Page
	if err := json.Unmarshal(raw.Pages, &pages); err != nil {
		return nil, &DataError{Reason: "malformed pages", Err: err}
	}
	if len(pages) == 0 {
		pages = []Page{{}}
	}

	maxID := 0
	for i, page := range pages {
		if page == nil {
			pages[i] = Page{}
			continue
		}
		seen := make(map[string]bool, len(page))
		for _, obj := range page {
			if obj == nil {
				return nil, &DataError{Reason: fmt.Sprintf("page %d has a null object", i+1)}
			}
			if err := obj.Validate(); err != nil {
				return nil, &DataError{Reason: fmt.Sprintf("page %d", i+1), Err: err}
			}
			if seen[obj.ID] {
				return nil, &DataError{Reason: fmt.Sprintf("page %d has duplicate id %q", i+1, obj.ID)}
			}
			seen[obj.ID] = true
			normalizeRotations(obj)
			maxID = max(maxID, highestID(obj))
		}
	}

	d := &Data{
		Pages:       pages,
		CurrentPage: min(max(raw.CurrentPage, 0), len(pages)-1),
		NextID:      max(raw.NextID, maxID+1, 1),
	}
	return d, nil
}

func normalizeRotations(o *Object) {
	o.Rotation = NormalizeRotation(o.Rotation)
	if o.Type == ObjectTypeGroup && o.Group != nil {
		for _, child := range o.Group.Objects {
			normalizeRotations(child)
		}
	}
}

func highestID(o *Object) int {
	n, _ := parseID(o.ID)
	if o.Type == ObjectTypeGroup && o.Group != nil {
		for _, child := range o.Group.Objects {
			n = max(n, highestID(child))
		}
	}
	return n
}
