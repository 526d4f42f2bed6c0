package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/flexkit/flexer/pkg/errors"
	"github.com/flexkit/flexer/pkg/flex"
)

// DOTOptions configures tree-diagram rendering.
type DOTOptions struct {
	// Detailed includes the computed rectangle and container attributes in
	// node labels. When false, only the element name (or #id) is shown.
	Detailed bool

	// Names maps identifiers to human-readable labels.
	Names map[flex.ElementID]string
}

// ToDOT converts the element tree to Graphviz DOT format. Unlike the SVG
// sink, which draws geometry, this shows structure: one node per element,
// one edge per parent link. The resulting string can be rasterized with
// [RenderDOTSVG] or [RenderDOTPNG].
//
// Fixed-size elements (proportion 0) are drawn with dashed outlines to
// distinguish reservations from flexible shares.
func ToDOT(e *flex.Engine, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layout {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range e.IDs() {
		el, ok := e.Element(id)
		if !ok {
			continue
		}
		label := dotLabel(e, id, opts)
		attrs := dotAttrs(el, label)
		fmt.Fprintf(&buf, "  %d [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range e.IDs() {
		el, ok := e.Element(id)
		if !ok {
			continue
		}
		for _, c := range el.Children {
			fmt.Fprintf(&buf, "  %d -> %d;\n", id, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(e *flex.Engine, id flex.ElementID, opts DOTOptions) string {
	name := opts.Names[id]
	if name == "" {
		name = fmt.Sprintf("#%d", id)
	}
	if !opts.Detailed {
		return name
	}

	el, _ := e.Element(id)
	rect := e.Rect(id)
	parts := []string{
		fmt.Sprintf("rect: %d,%d %dx%d", rect.X, rect.Y, rect.Width, rect.Height),
		fmt.Sprintf("proportion: %d", el.Proportion),
	}
	if len(el.Children) > 0 {
		parts = append(parts,
			fmt.Sprintf("axis: %s", el.Axis),
			fmt.Sprintf("border: %d", el.Border),
			fmt.Sprintf("spacing: %d", el.Spacing))
	}
	return name + "\n" + strings.Join(parts, "\n")
}

func dotAttrs(el *flex.Element, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if el.Proportion <= 0 {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderDOTSVG rasterizes a DOT graph to SVG using Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderDOTPNG rasterizes a DOT graph to PNG using Graphviz.
func RenderDOTPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's point-based svg element into a plain
// zero-origin viewBox so browsers scale the image predictably.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
