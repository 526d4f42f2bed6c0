// Package flex implements a flexbox-style layout engine for rectangular
// elements.
//
// A host application builds a tree of elements once, then calls
// [Engine.PerformLayout] on every tick to recompute an absolute pixel
// rectangle for each element. The host reads the rectangles back via
// [Engine.Rect] or [Engine.Rects] and uses them for drawing and hit testing.
// The engine owns no rendering or event handling.
//
// Each container splits its own rectangle among its children along one axis.
// A child with proportion 0 keeps its declared fixed size; children with
// proportion >= 1 share the remaining space by weight. Borders inset the
// container's content area on all four sides and spacing separates
// consecutive children along the growth axis.
//
// # Usage
//
//	e := flex.NewEngine()
//	root := e.CreateElement(flex.WithBounds(flex.Rect{Width: 800, Height: 600}))
//	e.CreateElement(flex.WithParent(root), flex.WithProportion(0), flex.WithBounds(flex.Rect{Width: 200}))
//	e.CreateElement(flex.WithParent(root))
//
//	e.PerformLayout()
//	sidebar := e.Rect(2)
//
// The engine is not safe for concurrent use; callers drive it from a single
// goroutine (typically the render loop) or serialize access externally.
package flex
