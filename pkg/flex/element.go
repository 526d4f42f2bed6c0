package flex

// ElementID is a stable handle for an element. IDs are assigned by the
// engine at creation time, start at 1, and are never reused.
type ElementID uint64

// NoParent is the sentinel parent value for root-level elements.
const NoParent ElementID = 0

// Default attribute values applied by CreateElement when no option overrides
// them.
const (
	DefaultProportion = 1
	DefaultBorder     = 3
	DefaultSpacing    = 3
)

// DefaultBounds is the bounds an element receives when none are specified.
var DefaultBounds = Rect{Width: 100, Height: 100}

// Element is a node in the layout tree.
//
// Before layout, Bounds carries the element's size hints: Width/Height supply
// the fixed growth-axis extent when Proportion is 0. X and Y are ignored as
// input for non-root elements. The root's Bounds are absolute and are copied
// into the result mapping unchanged.
type Element struct {
	// Parent is the containing element, or NoParent for the root.
	// Established at creation time and immutable thereafter.
	Parent ElementID

	// Bounds are the element's declared bounds (see type comment).
	Bounds Rect

	// Proportion controls how much of the container's remaining growth-axis
	// space this element claims relative to its siblings. 0 means "use the
	// declared fixed size instead".
	Proportion int

	// Border is the inner padding this element applies on all four sides of
	// its own content area when laying out its children.
	Border int

	// Spacing is the gap between consecutive children along the growth axis.
	// It is not applied after the last child.
	Spacing int

	// Axis is the growth direction used when this element acts as a container.
	Axis Axis

	// Children holds child IDs in creation order, which is also layout order
	// along the growth axis. Mutated only by Engine.CreateElement.
	Children []ElementID
}

// ElementOption configures an element at creation time.
type ElementOption func(*Element)

// WithParent attaches the new element under the given container. The default
// is NoParent, making the element a root.
func WithParent(id ElementID) ElementOption {
	return func(e *Element) { e.Parent = id }
}

// WithBounds sets the element's declared bounds. For roots this is the
// absolute viewport rectangle; for children it supplies size hints.
func WithBounds(r Rect) ElementOption {
	return func(e *Element) { e.Bounds = r }
}

// WithProportion sets the element's growth weight. 0 pins the element to its
// declared fixed size along the container's growth axis.
func WithProportion(p int) ElementOption {
	return func(e *Element) { e.Proportion = p }
}

// WithBorder sets the inner padding the element applies as a container.
func WithBorder(b int) ElementOption {
	return func(e *Element) { e.Border = b }
}

// WithSpacing sets the gap between the element's consecutive children.
func WithSpacing(s int) ElementOption {
	return func(e *Element) { e.Spacing = s }
}

// WithAxis sets the element's growth direction.
func WithAxis(a Axis) ElementOption {
	return func(e *Element) { e.Axis = a }
}
