package render

import (
	"bytes"
	"fmt"

	"github.com/flexkit/flexer/pkg/flex"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	names  map[flex.ElementID]string
	labels bool
	scale  int
}

// WithSVGNames attaches element names, used by [WithSVGLabels] in place of
// bare identifiers.
func WithSVGNames(names map[flex.ElementID]string) SVGOption {
	return func(r *svgRenderer) { r.names = names }
}

// WithSVGLabels draws each element's name (or #id) at the center of its
// rectangle.
func WithSVGLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithSVGScale multiplies all coordinates by k. Useful for terminal-sized
// frames (say 90x30) that would otherwise produce a postage-stamp image.
// Values below 1 are ignored.
func WithSVGScale(k int) SVGOption { return func(r *svgRenderer) { r.scale = k } }

// Fill colors cycle by tree depth so nested containers stay distinguishable.
var depthFills = []string{"#eceff4", "#d8dee9", "#c3ccdb", "#aebccd", "#99abbf"}

// RenderSVG draws one rectangle per laid-out element. Parents are drawn
// before their children (identifier order guarantees this, since a parent is
// always created before its children), so nested rectangles paint on top of
// their containers.
//
// Elements with a degenerate rectangle (zero or negative extent, possible
// with undersized frames) are skipped rather than emitted as invalid SVG.
func RenderSVG(e *flex.Engine, opts ...SVGOption) []byte {
	r := svgRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale < 1 {
		r.scale = 1
	}

	frame := e.Rect(e.Root())
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%d %d %d %d" width="%d" height="%d">`+"\n",
		frame.X*r.scale, frame.Y*r.scale, frame.Width*r.scale, frame.Height*r.scale,
		frame.Width*r.scale, frame.Height*r.scale)

	for _, id := range e.IDs() {
		rect := e.Rect(id)
		if rect.Width <= 0 || rect.Height <= 0 {
			continue
		}
		renderRect(&buf, &r, e, id, rect)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderRect(buf *bytes.Buffer, r *svgRenderer, e *flex.Engine, id flex.ElementID, rect flex.Rect) {
	fill := depthFills[depth(e, id)%len(depthFills)]
	fmt.Fprintf(buf, `  <rect id="el-%d" x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="#2e3440" stroke-width="1"/>`+"\n",
		id, rect.X*r.scale, rect.Y*r.scale, rect.Width*r.scale, rect.Height*r.scale, fill)

	if !r.labels {
		return
	}
	label := r.names[id]
	if label == "" {
		label = fmt.Sprintf("#%d", id)
	}
	cx := (rect.X + rect.Width/2) * r.scale
	cy := (rect.Y + rect.Height/2) * r.scale
	fmt.Fprintf(buf, `  <text x="%d" y="%d" text-anchor="middle" dominant-baseline="middle" font-family="monospace" font-size="%d" fill="#2e3440">%s</text>`+"\n",
		cx, cy, 6*r.scale, label)
}

// depth counts parent links up to the root.
func depth(e *flex.Engine, id flex.ElementID) int {
	d := 0
	for {
		el, ok := e.Element(id)
		if !ok || el.Parent == flex.NoParent {
			return d
		}
		id = el.Parent
		d++
	}
}
