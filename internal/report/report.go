// Package report prints sampled colors to the console.
package report

import (
	"fmt"
	"image"
	"io"

	"colorpick/internal/classify"
	"colorpick/internal/sample"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes one block per sample. Terminals that support color also get
// a swatch line; plain writers get text only.
type Printer struct {
	w        io.Writer
	renderer *lipgloss.Renderer
	label    lipgloss.Style
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:        w,
		renderer: r,
		label:    r.NewStyle().Bold(true),
	}
}

// Sample prints the clicked position, the classified color and the window stats.
func (p *Printer) Sample(pt image.Point, c classify.Color, res sample.Result) error {
	h, s, v := c.Sample.HSV()
	swatch := p.renderer.NewStyle().
		Background(lipgloss.Color(c.Hex)).
		Render("      ")

	_, err := fmt.Fprintf(p.w,
		"%s (%d, %d)\n%s %s\n%s %s\n%s %s\n%s (%.0f, %.0f, %.0f)\n%s %d px, spread (%.1f, %.1f, %.1f)\n%s\n",
		p.label.Render("Clicked Position:"), pt.X, pt.Y,
		p.label.Render("Color Name:"), c.Name,
		p.label.Render("Color HEX:"), c.Hex,
		p.label.Render("RGB:"), c.Sample,
		p.label.Render("HSV:"), h, s, v,
		p.label.Render("Window:"), res.Pixels, res.Spread[0], res.Spread[1], res.Spread[2],
		swatch,
	)
	return err
}
