package flex

// PerformLayout recomputes the absolute rectangle of every element reachable
// from the root. The result mapping is replaced in full; entries for elements
// not yet reached by the walk are absent until their ancestor container is
// processed. Calling PerformLayout again without mutating the tree produces
// an identical mapping.
func (e *Engine) PerformLayout() {
	e.rects = make(map[ElementID]Rect, len(e.elements))
	e.layoutContainer(e.rootID)
}

// layoutContainer assigns rectangles to the children of id and recurses,
// pre-order. An unknown identifier is a silent no-op.
//
// All arithmetic is integer with division truncating toward zero. Shares are
// computed per child from a content extent and share total captured once per
// container, so truncation remainders are not redistributed: the children of
// a container may occupy strictly less than its content extent.
func (e *Engine) layoutContainer(id ElementID) {
	el, ok := e.elements[id]
	if !ok {
		return
	}

	// Seed case: the root's rectangle is exactly its declared bounds. Every
	// other element had its rectangle assigned by its parent before the
	// recursive call below.
	if el.Parent == NoParent {
		e.rects[id] = el.Bounds
	}
	if len(el.Children) == 0 {
		return
	}

	totalShares := 0
	for _, cid := range el.Children {
		if c, ok := e.elements[cid]; ok {
			totalShares += c.Proportion
		}
	}
	if totalShares <= 0 {
		totalShares = 1
	}

	bounds := e.rects[id]

	// Fixed-size children reserve their declared growth-axis extent up front,
	// before the content extent is captured.
	remaining := bounds.extent(el.Axis)
	for _, cid := range el.Children {
		c, ok := e.elements[cid]
		if !ok {
			continue
		}
		if c.Proportion == 0 {
			remaining -= c.Bounds.extent(el.Axis)
		}
	}
	contentExtent := remaining - el.Border*2

	cursor := bounds.origin(el.Axis) + el.Border
	last := len(el.Children) - 1

	for i, cid := range el.Children {
		c, ok := e.elements[cid]
		if !ok {
			continue
		}

		var r Rect
		switch el.Axis {
		case AxisHorizontal:
			r.Width = c.Bounds.Width
			// The subtraction inside the share keeps the source's integer
			// division order; the proportion guard below makes it dead in
			// practice.
			share := (contentExtent - fixedExtent(c, r.Width)) / totalShares
			if c.Proportion >= 1 {
				r.Width = share * c.Proportion
			}
			r.X = cursor
			r.Y = bounds.Y + el.Border
			r.Height = bounds.Height - el.Border*2
			cursor += r.Width
			remaining -= r.Width
			if i != last {
				r.Width -= el.Spacing
			}
		case AxisVertical:
			r.Height = c.Bounds.Height
			share := (contentExtent - fixedExtent(c, r.Height)) / totalShares
			if c.Proportion >= 1 {
				r.Height = share * c.Proportion
			}
			r.Y = cursor
			r.X = bounds.X + el.Border
			r.Width = bounds.Width - el.Border*2
			cursor += r.Height
			remaining -= r.Height
			if i != last {
				r.Height -= el.Spacing
			}
		}

		e.rects[cid] = r
		e.layoutContainer(cid)
	}
}

// fixedExtent returns own for zero-proportion children and 0 otherwise.
func fixedExtent(c *Element, own int) int {
	if c.Proportion <= 0 {
		return own
	}
	return 0
}
