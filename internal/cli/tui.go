package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/flexkit/flexer/pkg/flex"
	"github.com/flexkit/flexer/pkg/manifest"
)

// previewCommand creates the preview command for interactive terminal preview.
func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [manifest.toml]",
		Short: "Explore a layout interactively in the terminal",
		Long: `Explore a layout interactively in the terminal.

The frame is resized to the terminal window and re-laid-out on every resize,
so this doubles as a live demonstration of proportional distribution. Use
tab / shift+tab to cycle through elements; the selected element is drawn with
double borders and its rectangle shown in the footer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}
			engine, ids, err := m.Build()
			if err != nil {
				return err
			}

			model := newPreviewModel(engine, ids)
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
}

// footerHeight is the number of terminal rows reserved below the canvas.
const footerHeight = 2

// previewModel is the bubbletea model for interactive layout preview.
type previewModel struct {
	engine *flex.Engine
	ids    []flex.ElementID
	names  map[flex.ElementID]string
	cursor int
	width  int
	height int
}

func newPreviewModel(engine *flex.Engine, ids map[string]flex.ElementID) previewModel {
	names := make(map[flex.ElementID]string, len(ids))
	for name, id := range ids {
		names[id] = name
	}
	return previewModel{
		engine: engine,
		ids:    engine.IDs(),
		names:  names,
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down", "j":
			m.cursor = (m.cursor + 1) % len(m.ids)
		case "shift+tab", "up", "k":
			m.cursor = (m.cursor - 1 + len(m.ids)) % len(m.ids)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height - footerHeight
		if m.height < 3 {
			m.height = 3
		}
		m.engine.SetRootBounds(flex.Rect{Width: m.width, Height: m.height})
		m.engine.PerformLayout()
	}
	return m, nil
}

func (m previewModel) View() string {
	if m.width == 0 {
		return "loading..."
	}

	canvas := newCanvas(m.width, m.height)
	for i, id := range m.ids {
		rect := m.engine.Rect(id)
		canvas.drawRect(rect, m.names[id], i == m.cursor)
	}

	selected := m.ids[m.cursor]
	rect := m.engine.Rect(selected)
	name := m.names[selected]
	if name == "" {
		name = fmt.Sprintf("#%d", selected)
	}

	var b strings.Builder
	b.WriteString(canvas.String())
	b.WriteString("\n")
	b.WriteString(StyleTitle.Render(name) + StyleDim.Render(
		fmt.Sprintf("  x=%d y=%d w=%d h=%d", rect.X, rect.Y, rect.Width, rect.Height)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab/shift+tab select  q quit"))
	return b.String()
}

// canvas is a rune grid for drawing rectangles at terminal resolution.
type canvas struct {
	cells  [][]rune
	width  int
	height int
}

func newCanvas(width, height int) *canvas {
	cells := make([][]rune, height)
	for y := range cells {
		cells[y] = make([]rune, width)
		for x := range cells[y] {
			cells[y][x] = ' '
		}
	}
	return &canvas{cells: cells, width: width, height: height}
}

// drawRect draws the outline of r, with a label on the top border when it
// fits. Degenerate rectangles are skipped; out-of-canvas parts are clipped.
func (c *canvas) drawRect(r flex.Rect, label string, selected bool) {
	if r.Width < 2 || r.Height < 2 {
		return
	}

	h, v := '─', '│'
	tl, tr, bl, br := '┌', '┐', '└', '┘'
	if selected {
		h, v = '═', '║'
		tl, tr, bl, br = '╔', '╗', '╚', '╝'
	}

	x1, y1 := r.X, r.Y
	x2, y2 := r.X+r.Width-1, r.Y+r.Height-1

	for x := x1 + 1; x < x2; x++ {
		c.set(x, y1, h)
		c.set(x, y2, h)
	}
	for y := y1 + 1; y < y2; y++ {
		c.set(x1, y, v)
		c.set(x2, y, v)
	}
	c.set(x1, y1, tl)
	c.set(x2, y1, tr)
	c.set(x1, y2, bl)
	c.set(x2, y2, br)

	if label != "" && len(label)+4 <= r.Width {
		for i, ch := range label {
			c.set(x1+2+i, y1, ch)
		}
	}
}

func (c *canvas) set(x, y int, ch rune) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y][x] = ch
}

func (c *canvas) String() string {
	lines := make([]string, c.height)
	for y, row := range c.cells {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}
