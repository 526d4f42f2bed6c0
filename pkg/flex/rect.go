package flex

// Axis is the direction along which a container distributes its children.
type Axis int

const (
	// AxisHorizontal lays children out left to right along x/width.
	AxisHorizontal Axis = iota
	// AxisVertical lays children out top to bottom along y/height.
	AxisVertical
)

// String returns "horizontal" or "vertical".
func (a Axis) String() string {
	if a == AxisVertical {
		return "vertical"
	}
	return "horizontal"
}

// Rect is an axis-aligned rectangle in integer pixel coordinates.
//
// No sign invariant is enforced: negative widths and heights can appear
// transiently during layout (e.g. when fixed children overflow their
// container) and are propagated rather than rejected.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsZero reports whether r is the zero rectangle.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// extent returns the rectangle's size along the given axis.
func (r Rect) extent(a Axis) int {
	if a == AxisVertical {
		return r.Height
	}
	return r.Width
}

// origin returns the rectangle's position along the given axis.
func (r Rect) origin(a Axis) int {
	if a == AxisVertical {
		return r.Y
	}
	return r.X
}
