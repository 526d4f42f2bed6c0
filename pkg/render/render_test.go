package render

import (
	"encoding/json"
	"maps"
	"strings"
	"testing"

	"github.com/flexkit/flexer/pkg/flex"
)

// column builds a small tree: a 90x30 frame with a fixed sidebar and two
// flexible panels.
func column(t *testing.T) (*flex.Engine, map[flex.ElementID]string) {
	t.Helper()
	e := flex.NewEngine()
	frame := e.CreateElement(
		flex.WithBounds(flex.Rect{Width: 90, Height: 30}),
		flex.WithBorder(0), flex.WithSpacing(0),
	)
	sidebar := e.CreateElement(flex.WithParent(frame), flex.WithProportion(0),
		flex.WithBounds(flex.Rect{Width: 20, Height: 30}))
	main := e.CreateElement(flex.WithParent(frame))
	panel := e.CreateElement(flex.WithParent(frame))
	e.PerformLayout()

	return e, map[flex.ElementID]string{
		frame: "frame", sidebar: "sidebar", main: "main", panel: "panel",
	}
}

func TestRenderJSON(t *testing.T) {
	e, names := column(t)

	data, err := RenderJSON(e, WithJSONNames(names))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Frame != (flex.Rect{Width: 90, Height: 30}) {
		t.Errorf("frame = %+v", out.Frame)
	}
	if len(out.Elements) != 4 {
		t.Fatalf("elements = %d, want 4", len(out.Elements))
	}

	// Ascending identifier order keeps output deterministic.
	for i := 1; i < len(out.Elements); i++ {
		if out.Elements[i].ID <= out.Elements[i-1].ID {
			t.Fatalf("elements not sorted by id: %d after %d", out.Elements[i].ID, out.Elements[i-1].ID)
		}
	}

	sidebar := out.Elements[1]
	if sidebar.Name != "sidebar" || sidebar.Width != 20 || sidebar.Parent != 1 {
		t.Errorf("sidebar = %+v", sidebar)
	}
	if len(out.Elements[0].Children) != 3 {
		t.Errorf("frame children = %v, want 3 entries", out.Elements[0].Children)
	}
}

func TestRenderJSONCompact(t *testing.T) {
	e, _ := column(t)

	data, err := RenderJSON(e, WithJSONCompact())
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if strings.Contains(string(data), "\n") {
		t.Error("compact output contains newlines")
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	e, _ := column(t)

	data, err := MarshalLayout(e.Rects())
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if !maps.Equal(got, e.Rects()) {
		t.Errorf("round trip changed the mapping:\n got %v\nwant %v", got, e.Rects())
	}
}

func TestRenderSVG(t *testing.T) {
	e, names := column(t)

	svg := string(RenderSVG(e, WithSVGNames(names), WithSVGLabels()))
	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 90 30"`) {
		t.Errorf("unexpected svg header: %.80s", svg)
	}
	if got := strings.Count(svg, "<rect"); got != 4 {
		t.Errorf("rect count = %d, want 4", got)
	}
	for _, label := range []string{">sidebar<", ">main<", ">panel<"} {
		if !strings.Contains(svg, label) {
			t.Errorf("svg missing label %s", label)
		}
	}
}

func TestRenderSVGScale(t *testing.T) {
	e, _ := column(t)

	svg := string(RenderSVG(e, WithSVGScale(10)))
	if !strings.Contains(svg, `viewBox="0 0 900 300"`) {
		t.Errorf("scale not applied: %.80s", svg)
	}
}

func TestRenderSVGSkipsDegenerateRects(t *testing.T) {
	e := flex.NewEngine()
	frame := e.CreateElement(flex.WithBounds(flex.Rect{Width: 4, Height: 10}), flex.WithSpacing(0))
	// Border 3 on both sides leaves negative content extent.
	e.CreateElement(flex.WithParent(frame))
	e.PerformLayout()

	svg := string(RenderSVG(e))
	if got := strings.Count(svg, "<rect"); got != 1 {
		t.Errorf("rect count = %d, want 1 (frame only)", got)
	}
}

func TestToDOT(t *testing.T) {
	e, names := column(t)

	dot := ToDOT(e, DOTOptions{Names: names})
	if !strings.HasPrefix(dot, "digraph layout {") {
		t.Errorf("unexpected dot header: %.40s", dot)
	}
	for _, want := range []string{`1 [label="frame"]`, "1 -> 2;", "1 -> 3;", "1 -> 4;"} {
		if !strings.Contains(dot, want) {
			t.Errorf("dot missing %q", want)
		}
	}
	// The fixed-size sidebar is rendered dashed.
	if !strings.Contains(dot, "dashed") {
		t.Error("fixed-size element not rendered dashed")
	}
}

func TestToDOTDetailed(t *testing.T) {
	e, _ := column(t)

	dot := ToDOT(e, DOTOptions{Detailed: true})
	for _, want := range []string{"rect: 0,0 90x30", "proportion: 1", "axis: horizontal", "#2"} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed dot missing %q", want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`
	if got != want {
		t.Errorf("normalizeViewBox:\n got %s\nwant %s", got, want)
	}
}

func TestNormalizeViewBoxNoMatch(t *testing.T) {
	in := []byte("<svg>plain</svg>")
	if got := normalizeViewBox(in); string(got) != string(in) {
		t.Errorf("input without viewBox was modified: %s", got)
	}
}
