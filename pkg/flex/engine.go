package flex

import "slices"

// Engine owns the element tree and the layout result mapping.
//
// Elements are created once and live for the lifetime of the engine: there is
// no delete or reparent operation, so the topology only ever grows and cycles
// cannot arise through this API. The zero Engine is not usable; call
// [NewEngine].
type Engine struct {
	nextID   ElementID
	rootID   ElementID
	elements map[ElementID]*Element
	rects    map[ElementID]Rect
}

// NewEngine creates an empty layout engine. The first element created with no
// parent becomes the layout root.
func NewEngine() *Engine {
	return &Engine{
		nextID:   1,
		elements: make(map[ElementID]*Element),
		rects:    make(map[ElementID]Rect),
	}
}

// CreateElement allocates a fresh identifier, stores an element built from
// the defaults plus the given options, and links it under its parent.
//
// The link is established only if the referenced parent exists; a dangling
// parent reference is silently ignored and the element is stored unlinked.
// The new identifier is returned unconditionally.
func (e *Engine) CreateElement(opts ...ElementOption) ElementID {
	el := &Element{
		Bounds:     DefaultBounds,
		Proportion: DefaultProportion,
		Border:     DefaultBorder,
		Spacing:    DefaultSpacing,
		Axis:       AxisHorizontal,
	}
	for _, opt := range opts {
		opt(el)
	}
	// Children are append-only through this method; any slice smuggled in via
	// an option would break the one-parent invariant.
	el.Children = nil

	id := e.nextID
	e.nextID++

	parent := el.Parent
	el.Parent = NoParent
	e.elements[id] = el
	e.link(id, parent)
	return id
}

// link records the parent/child relationship for a freshly created element.
// A parent of NoParent makes the element a root candidate; the first such
// element becomes the layout root.
func (e *Engine) link(id, parent ElementID) {
	if parent == NoParent {
		if e.rootID == NoParent {
			e.rootID = id
		}
		return
	}
	p, ok := e.elements[parent]
	if !ok {
		return
	}
	e.elements[id].Parent = parent
	p.Children = append(p.Children, id)
}

// Element returns the stored element for id. Absence is a valid, expected
// outcome (ok == false), not an error.
func (e *Engine) Element(id ElementID) (*Element, bool) {
	el, ok := e.elements[id]
	return el, ok
}

// Root returns the identifier of the layout root, or NoParent if no root
// element has been created yet.
func (e *Engine) Root() ElementID {
	return e.rootID
}

// Len returns the number of stored elements.
func (e *Engine) Len() int {
	return len(e.elements)
}

// IDs returns all element identifiers in ascending order.
func (e *Engine) IDs() []ElementID {
	ids := make([]ElementID, 0, len(e.elements))
	for id := range e.elements {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Rect returns the rectangle computed for id by the last PerformLayout call.
// Unknown identifiers yield the zero Rect rather than an error.
func (e *Engine) Rect(id ElementID) Rect {
	return e.rects[id]
}

// Rects returns the full identifier-to-rectangle result mapping. The mapping
// is replaced wholesale by each PerformLayout call; callers must treat it as
// read-only.
func (e *Engine) Rects() map[ElementID]Rect {
	return e.rects
}

// RestoreRects replaces the result mapping wholesale, for callers restoring a
// previously computed layout (e.g. from a cache) without rerunning
// PerformLayout. The mapping is copied.
func (e *Engine) RestoreRects(rects map[ElementID]Rect) {
	e.rects = make(map[ElementID]Rect, len(rects))
	for id, r := range rects {
		e.rects[id] = r
	}
}

// SetRootBounds replaces the root element's declared bounds, typically after
// a window resize. The change is reflected by the next PerformLayout call.
// It is a no-op when no root exists.
func (e *Engine) SetRootBounds(r Rect) {
	if root, ok := e.elements[e.rootID]; ok {
		root.Bounds = r
	}
}
