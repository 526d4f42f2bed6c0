package flex

import "testing"

func TestCreateElementAssignsMonotonicIDs(t *testing.T) {
	e := NewEngine()
	for want := ElementID(1); want <= 5; want++ {
		if got := e.CreateElement(); got != want {
			t.Fatalf("CreateElement() = %d, want %d", got, want)
		}
	}
	if e.Len() != 5 {
		t.Errorf("Len() = %d, want 5", e.Len())
	}
}

func TestCreateElementDefaults(t *testing.T) {
	e := NewEngine()
	id := e.CreateElement()

	el, ok := e.Element(id)
	if !ok {
		t.Fatal("Element() reported missing element after create")
	}
	if el.Proportion != DefaultProportion {
		t.Errorf("Proportion = %d, want %d", el.Proportion, DefaultProportion)
	}
	if el.Border != DefaultBorder {
		t.Errorf("Border = %d, want %d", el.Border, DefaultBorder)
	}
	if el.Spacing != DefaultSpacing {
		t.Errorf("Spacing = %d, want %d", el.Spacing, DefaultSpacing)
	}
	if el.Axis != AxisHorizontal {
		t.Errorf("Axis = %v, want %v", el.Axis, AxisHorizontal)
	}
	if el.Bounds != DefaultBounds {
		t.Errorf("Bounds = %+v, want %+v", el.Bounds, DefaultBounds)
	}
	if el.Parent != NoParent {
		t.Errorf("Parent = %d, want NoParent", el.Parent)
	}
	if len(el.Children) != 0 {
		t.Errorf("Children = %v, want empty", el.Children)
	}
}

func TestCreateElementOptions(t *testing.T) {
	e := NewEngine()
	root := e.CreateElement()
	id := e.CreateElement(
		WithParent(root),
		WithBounds(Rect{Width: 42, Height: 24}),
		WithProportion(0),
		WithBorder(1),
		WithSpacing(2),
		WithAxis(AxisVertical),
	)

	el, _ := e.Element(id)
	want := Element{
		Parent:     root,
		Bounds:     Rect{Width: 42, Height: 24},
		Proportion: 0,
		Border:     1,
		Spacing:    2,
		Axis:       AxisVertical,
	}
	if el.Parent != want.Parent || el.Bounds != want.Bounds ||
		el.Proportion != want.Proportion || el.Border != want.Border ||
		el.Spacing != want.Spacing || el.Axis != want.Axis {
		t.Errorf("element = %+v, want %+v", *el, want)
	}
}

func TestCreateElementLinksChildrenInOrder(t *testing.T) {
	e := NewEngine()
	root := e.CreateElement()
	a := e.CreateElement(WithParent(root))
	b := e.CreateElement(WithParent(root))
	c := e.CreateElement(WithParent(root))

	el, _ := e.Element(root)
	want := []ElementID{a, b, c}
	if len(el.Children) != len(want) {
		t.Fatalf("Children = %v, want %v", el.Children, want)
	}
	for i, id := range want {
		if el.Children[i] != id {
			t.Errorf("Children[%d] = %d, want %d", i, el.Children[i], id)
		}
	}
}

func TestCreateElementDanglingParentIsIgnored(t *testing.T) {
	e := NewEngine()
	id := e.CreateElement(WithParent(42))
	if id != 1 {
		t.Fatalf("CreateElement() = %d, want 1 even with a dangling parent", id)
	}

	el, ok := e.Element(id)
	if !ok {
		t.Fatal("element not stored")
	}
	// The link is a no-op: the element stays unparented.
	if el.Parent != NoParent {
		t.Errorf("Parent = %d, want NoParent", el.Parent)
	}
}

func TestRootIsFirstParentlessElement(t *testing.T) {
	e := NewEngine()
	if e.Root() != NoParent {
		t.Errorf("Root() = %d on empty engine, want NoParent", e.Root())
	}

	root := e.CreateElement()
	e.CreateElement(WithParent(root))
	orphan := e.CreateElement() // second parentless element, not the root
	_ = orphan

	if e.Root() != root {
		t.Errorf("Root() = %d, want %d", e.Root(), root)
	}
}

func TestElementLookupAbsent(t *testing.T) {
	e := NewEngine()
	if _, ok := e.Element(7); ok {
		t.Error("Element(7) ok = true on empty engine, want false")
	}
}

func TestRectUnknownIDReturnsZero(t *testing.T) {
	e := NewEngine()
	e.CreateElement(WithBounds(Rect{Width: 10, Height: 10}))
	e.PerformLayout()

	if got := e.Rect(999); !got.IsZero() {
		t.Errorf("Rect(999) = %+v, want zero rect", got)
	}
}

func TestIDsSorted(t *testing.T) {
	e := NewEngine()
	root := e.CreateElement()
	e.CreateElement(WithParent(root))
	e.CreateElement(WithParent(root))

	ids := e.IDs()
	if len(ids) != 3 {
		t.Fatalf("IDs() returned %d ids, want 3", len(ids))
	}
	for i, id := range ids {
		if id != ElementID(i+1) {
			t.Errorf("IDs()[%d] = %d, want %d", i, id, i+1)
		}
	}
}

func TestSetRootBounds(t *testing.T) {
	e := NewEngine()
	root := e.CreateElement(WithBounds(Rect{Width: 100, Height: 100}), WithBorder(0), WithSpacing(0))
	child := e.CreateElement(WithParent(root))
	e.PerformLayout()

	e.SetRootBounds(Rect{Width: 200, Height: 80})
	e.PerformLayout()

	if got := e.Rect(root); got != (Rect{Width: 200, Height: 80}) {
		t.Errorf("root rect after resize = %+v, want {0 0 200 80}", got)
	}
	if got := e.Rect(child); got.Width != 200 || got.Height != 80 {
		t.Errorf("child rect after resize = %+v, want 200x80", got)
	}
}

func TestSetRootBoundsNoRoot(t *testing.T) {
	e := NewEngine()
	// Must not panic on an empty engine.
	e.SetRootBounds(Rect{Width: 10, Height: 10})
}

func TestRestoreRects(t *testing.T) {
	e := NewEngine()
	id := e.CreateElement()

	restored := map[ElementID]Rect{id: {X: 5, Y: 6, Width: 7, Height: 8}}
	e.RestoreRects(restored)

	if got := e.Rect(id); got != restored[id] {
		t.Errorf("Rect = %+v, want %+v", got, restored[id])
	}

	// The engine must own its copy: mutating the argument afterwards
	// does not leak into the result mapping.
	restored[id] = Rect{}
	if got := e.Rect(id); got == (Rect{}) {
		t.Error("RestoreRects aliased the caller's map")
	}
}
