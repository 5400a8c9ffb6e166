package layout

import (
	"math"
	"strings"

	"github.com/lvillar/weeklyreport/wrap"
)

// Cell is one rectangular piece of a table row. It is created per draw call.
type Cell struct {
	Text string

	// Lines, when not nil, are drawn as given instead of wrapping Text.
	Lines []string

	Width  float64
	Height float64
	Align  string
	Border string // BorderNone, BorderBox or a combination of "L", "T", "R", "B"
	Fill   *Color
}

// CellRenderer draws bordered cells with wrapped, vertically centered text.
type CellRenderer struct {
	Surface Surface

	Padding         float64 // horizontal, on each side
	VerticalPadding float64 // total, top plus bottom
	LineHeight      float64

	// MaxChars caps text before wrapping; see wrap.Wrapper.
	MaxChars int
}

// Wrapper returns the wrapper used for text set in ctx.Font.
func (r *CellRenderer) Wrapper(ctx RenderContext) wrap.Wrapper {
	w := wrap.New(r.Surface, ctx.Font)
	w.MaxChars = r.MaxChars
	return w
}

// TextWidth is the usable text width of a cell that is width wide.
func (r *CellRenderer) TextWidth(width float64) float64 {
	return width - 2*r.Padding
}

// Wrap wraps text for a cell that is width wide.
func (r *CellRenderer) Wrap(ctx RenderContext, text string, width float64) []string {
	return r.Wrapper(ctx).Wrap(text, r.TextWidth(width))
}

// MaxLines is the number of lines that fit a cell of the given height, at least one.
func (r *CellRenderer) MaxLines(height float64) int {
	n := int(math.Floor((height-r.VerticalPadding)/r.LineHeight + epsilon))
	if n < 1 {
		n = 1
	}
	return n
}

// Render draws c with its top left corner at the cursor and returns the cursor moved to
// the right edge of the cell, together with the wrapped lines that did not fit.
// The cursor is never moved vertically.
func (r *CellRenderer) Render(ctx RenderContext, at Cursor, c Cell) (Cursor, []string) {
	lines := c.Lines
	if lines == nil {
		lines = r.Wrap(ctx, c.Text, c.Width)
	}
	return r.RenderLines(ctx, at, c, lines)
}

// RenderLines is Render for text that has already been wrapped.
func (r *CellRenderer) RenderLines(ctx RenderContext, at Cursor, c Cell, lines []string) (Cursor, []string) {
	s := r.Surface
	if c.Fill != nil {
		s.FillRect(at.X, at.Y, c.Width, c.Height, *c.Fill)
	}
	r.border(ctx, at, c)

	n := r.MaxLines(c.Height)
	drawn, overflow := lines, []string(nil)
	if len(lines) > n {
		drawn, overflow = lines[:n], lines[n:]
	}

	offset := (c.Height - float64(len(drawn))*r.LineHeight) / 2
	align := c.Align
	if align == "" {
		align = AlignLeft
	}
	st := ctx.TextStyle(align)
	textW := r.TextWidth(c.Width)
	for i, line := range drawn {
		if line == "" {
			continue
		}
		y := at.Y + offset + float64(i)*r.LineHeight
		s.Text(at.X+r.Padding, y, textW, r.LineHeight, line, st)
	}

	at.X += c.Width
	return at, overflow
}

func (r *CellRenderer) border(ctx RenderContext, at Cursor, c Cell) {
	b := strings.ToUpper(c.Border)
	if b == BorderNone {
		return
	}
	s := r.Surface
	x1, y1, x2, y2 := at.X, at.Y, at.X+c.Width, at.Y+c.Height
	if b == BorderBox {
		s.StrokeRect(x1, y1, c.Width, c.Height, ctx.Border)
		return
	}
	if strings.Contains(b, "L") {
		s.Line(x1, y1, x1, y2, ctx.Border)
	}
	if strings.Contains(b, "T") {
		s.Line(x1, y1, x2, y1, ctx.Border)
	}
	if strings.Contains(b, "R") {
		s.Line(x2, y1, x2, y2, ctx.Border)
	}
	if strings.Contains(b, "B") {
		s.Line(x1, y2, x2, y2, ctx.Border)
	}
}
