package layout

import (
	"github.com/lvillar/weeklyreport/fontmetrics"
)

// Horizontal alignments, using the single letter codes of the PDF writer.
const (
	AlignLeft   = "L"
	AlignCenter = "C"
	AlignRight  = "R"
)

// Border specifications: none, a full box, or any combination of "L", "T", "R", "B".
const (
	BorderNone = ""
	BorderBox  = "1"
)

// Color is an RGB color.
type Color struct {
	R int `yaml:"r"`
	G int `yaml:"g"`
	B int `yaml:"b"`
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// Stroke describes a line.
type Stroke struct {
	Width float64 `yaml:"width"`
	Color Color   `yaml:"color"`
}

// TextStyle is everything needed to draw one piece of text.
type TextStyle struct {
	Font  fontmetrics.Font
	Color Color
	Align string
}

// RenderContext carries the drawing style of one call. It is passed by value so a style
// change never leaks into later drawing operations.
type RenderContext struct {
	Font   fontmetrics.Font
	Text   Color
	Border Stroke
}

// TextStyle returns the text style of ctx with the given alignment.
func (ctx RenderContext) TextStyle(align string) TextStyle {
	return TextStyle{Font: ctx.Font, Color: ctx.Text, Align: align}
}

// WithFont returns a copy of ctx using font f.
func (ctx RenderContext) WithFont(f fontmetrics.Font) RenderContext {
	ctx.Font = f
	return ctx
}
