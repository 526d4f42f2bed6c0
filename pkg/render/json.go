package render

import (
	"encoding/json"

	"github.com/flexkit/flexer/pkg/errors"
	"github.com/flexkit/flexer/pkg/flex"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	names   map[flex.ElementID]string
	compact bool
}

// WithJSONNames attaches human-readable element names to the output. Elements
// absent from the mapping are emitted without a name field.
func WithJSONNames(names map[flex.ElementID]string) JSONOption {
	return func(r *jsonRenderer) { r.names = names }
}

// WithJSONCompact disables indentation, for machine consumers and cache
// storage where byte size matters more than readability.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Frame    flex.Rect     `json:"frame"`
	Elements []jsonElement `json:"elements"`
}

type jsonElement struct {
	ID       uint64   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Parent   uint64   `json:"parent,omitempty"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Children []uint64 `json:"children,omitempty"`
}

// RenderJSON exports the computed layout as a JSON document. This is the
// primary interchange format, enabling:
//
//   - Host integration (the host reads rectangles and positions its widgets)
//   - Caching computed layouts for fast re-rendering
//   - Diffing two layouts of the same tree
//
// Elements are emitted in ascending identifier order, so output for a given
// tree is deterministic. Elements the layout never reached (unlinked to the
// root) carry the zero rectangle.
func RenderJSON(e *flex.Engine, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Frame:    e.Rect(e.Root()),
		Elements: buildJSONElements(e, r.names),
	}

	var (
		data []byte
		err  error
	)
	if r.compact {
		data, err = json.Marshal(out)
	} else {
		data, err = json.MarshalIndent(out, "", "  ")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}
	return data, nil
}

func buildJSONElements(e *flex.Engine, names map[flex.ElementID]string) []jsonElement {
	elements := make([]jsonElement, 0, e.Len())
	for _, id := range e.IDs() {
		el, ok := e.Element(id)
		if !ok {
			continue
		}
		rect := e.Rect(id)
		je := jsonElement{
			ID:     uint64(id),
			Name:   names[id],
			Parent: uint64(el.Parent),
			X:      rect.X,
			Y:      rect.Y,
			Width:  rect.Width,
			Height: rect.Height,
		}
		for _, c := range el.Children {
			je.Children = append(je.Children, uint64(c))
		}
		elements = append(elements, je)
	}
	return elements
}

// MarshalLayout serializes a result mapping for cache storage. The inverse is
// [UnmarshalLayout]; the pair round-trips exactly since all fields are ints.
func MarshalLayout(rects map[flex.ElementID]flex.Rect) ([]byte, error) {
	data, err := json.Marshal(rects)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal rects")
	}
	return data, nil
}

// UnmarshalLayout restores a result mapping serialized by [MarshalLayout].
func UnmarshalLayout(data []byte) (map[flex.ElementID]flex.Rect, error) {
	var rects map[flex.ElementID]flex.Rect
	if err := json.Unmarshal(data, &rects); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "unmarshal rects")
	}
	return rects, nil
}
