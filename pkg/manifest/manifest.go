// Package manifest loads layout-tree definitions from TOML files.
//
// A manifest declares the root frame and an ordered list of named elements,
// each referencing its parent by name. Element order in the file is layout
// order along the parent's growth axis. Parsing is strict - duplicate names,
// unknown parents, and bad axis strings are rejected with coded errors -
// while the engine the manifest builds into stays permissive per its own
// contract.
//
// # Format
//
//	name = "dashboard"
//
//	[frame]
//	width = 800
//	height = 600
//	axis = "horizontal"
//	border = 0
//	spacing = 4
//
//	[[element]]
//	name = "sidebar"
//	proportion = 0
//	width = 200
//	axis = "vertical"
//
//	[[element]]
//	name = "nav"
//	parent = "sidebar"
//
// Omitted attributes fall back to the engine defaults (proportion 1,
// border 3, spacing 3, 100x100 bounds, horizontal axis); the frame defaults
// to 800x600. Attributes are pointers in the decoded form so an explicit 0
// (meaningful for proportion, border, and spacing) is distinguishable from
// an omitted field.
package manifest

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/flexkit/flexer/pkg/errors"
	"github.com/flexkit/flexer/pkg/flex"
)

// Frame defaults applied when the manifest omits them.
const (
	DefaultFrameWidth  = 800
	DefaultFrameHeight = 600
)

// Manifest is a decoded layout definition.
type Manifest struct {
	// Name labels the layout; used in logs and artifact metadata.
	Name string `toml:"name"`

	// Frame is the root element: the externally supplied viewport.
	Frame Frame `toml:"frame"`

	// Elements in declaration order. Order is layout order.
	Elements []ElementDef `toml:"element"`
}

// Frame declares the root element's absolute bounds and container attributes.
type Frame struct {
	X       int    `toml:"x"`
	Y       int    `toml:"y"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Axis    string `toml:"axis"`
	Border  *int   `toml:"border"`
	Spacing *int   `toml:"spacing"`
}

// ElementDef declares one element of the tree.
type ElementDef struct {
	Name       string `toml:"name"`
	Parent     string `toml:"parent"` // empty = child of the frame
	Proportion *int   `toml:"proportion"`
	Width      *int   `toml:"width"`
	Height     *int   `toml:"height"`
	Axis       string `toml:"axis"`
	Border     *int   `toml:"border"`
	Spacing    *int   `toml:"spacing"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read manifest %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates a manifest from TOML bytes.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks structural rules: unique non-empty element names, parents
// declared before their children, known axis strings, and non-negative
// attributes.
func (m *Manifest) Validate() error {
	if _, err := parseAxis(m.Frame.Axis); err != nil {
		return err
	}
	if err := checkNonNegative("frame", m.Frame.Border, m.Frame.Spacing, nil); err != nil {
		return err
	}

	seen := make(map[string]bool, len(m.Elements))
	for _, el := range m.Elements {
		if el.Name == "" {
			return errors.New(errors.ErrCodeInvalidManifest, "element without a name")
		}
		if seen[el.Name] {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate element name %q", el.Name)
		}
		if el.Parent != "" && !seen[el.Parent] {
			return errors.New(errors.ErrCodeInvalidManifest,
				"element %q references unknown parent %q (parents must be declared first)", el.Name, el.Parent)
		}
		if _, err := parseAxis(el.Axis); err != nil {
			return err
		}
		if err := checkNonNegative(el.Name, el.Border, el.Spacing, el.Proportion); err != nil {
			return err
		}
		seen[el.Name] = true
	}
	return nil
}

// Build instantiates the manifest into a fresh engine. The returned mapping
// associates element names with their engine identifiers; the frame is
// registered under the manifest name (or "frame" when unnamed).
func (m *Manifest) Build() (*flex.Engine, map[string]flex.ElementID, error) {
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}

	e := flex.NewEngine()
	ids := make(map[string]flex.ElementID, len(m.Elements)+1)

	rootName := m.Name
	if rootName == "" {
		rootName = "frame"
	}
	ids[rootName] = e.CreateElement(m.Frame.options()...)

	for _, el := range m.Elements {
		parent := ids[rootName]
		if el.Parent != "" {
			parent = ids[el.Parent]
		}
		ids[el.Name] = e.CreateElement(el.options(parent)...)
	}
	return e, ids, nil
}

// options converts the frame declaration into engine options.
func (f Frame) options() []flex.ElementOption {
	w, h := f.Width, f.Height
	if w == 0 {
		w = DefaultFrameWidth
	}
	if h == 0 {
		h = DefaultFrameHeight
	}
	opts := []flex.ElementOption{
		flex.WithBounds(flex.Rect{X: f.X, Y: f.Y, Width: w, Height: h}),
	}
	axis, _ := parseAxis(f.Axis)
	opts = append(opts, flex.WithAxis(axis))
	if f.Border != nil {
		opts = append(opts, flex.WithBorder(*f.Border))
	}
	if f.Spacing != nil {
		opts = append(opts, flex.WithSpacing(*f.Spacing))
	}
	return opts
}

// options converts an element declaration into engine options.
func (el ElementDef) options(parent flex.ElementID) []flex.ElementOption {
	opts := []flex.ElementOption{flex.WithParent(parent)}
	if el.Width != nil || el.Height != nil {
		bounds := flex.DefaultBounds
		if el.Width != nil {
			bounds.Width = *el.Width
		}
		if el.Height != nil {
			bounds.Height = *el.Height
		}
		opts = append(opts, flex.WithBounds(bounds))
	}
	if el.Proportion != nil {
		opts = append(opts, flex.WithProportion(*el.Proportion))
	}
	if el.Border != nil {
		opts = append(opts, flex.WithBorder(*el.Border))
	}
	if el.Spacing != nil {
		opts = append(opts, flex.WithSpacing(*el.Spacing))
	}
	if el.Axis != "" {
		axis, _ := parseAxis(el.Axis)
		opts = append(opts, flex.WithAxis(axis))
	}
	return opts
}

// parseAxis maps an axis string to its engine value. Empty means horizontal.
func parseAxis(s string) (flex.Axis, error) {
	switch s {
	case "", "horizontal":
		return flex.AxisHorizontal, nil
	case "vertical":
		return flex.AxisVertical, nil
	default:
		return flex.AxisHorizontal, errors.New(errors.ErrCodeInvalidAxis,
			"unknown axis %q (must be %q or %q)", s, "horizontal", "vertical")
	}
}

// checkNonNegative rejects negative border/spacing/proportion declarations.
func checkNonNegative(name string, border, spacing, proportion *int) error {
	if border != nil && *border < 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "%s: negative border %d", name, *border)
	}
	if spacing != nil && *spacing < 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "%s: negative spacing %d", name, *spacing)
	}
	if proportion != nil && *proportion < 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "%s: negative proportion %d", name, *proportion)
	}
	return nil
}
