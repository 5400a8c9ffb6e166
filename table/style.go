// Package table composes bordered tables onto a layout.Flow.
//
// A table draws its header band, streams data rows through the cell renderer and ends
// with an optional total row. Rows that do not fit the rest of the page are split: all
// columns are cut to the same partial height, the undrawn lines continue on the next
// page below a repeated header band.
package table

import (
	"github.com/lvillar/weeklyreport/fontmetrics"
	"github.com/lvillar/weeklyreport/layout"
	"github.com/lvillar/weeklyreport/wrap"
)

// TableStyle defines the appearance and spacing of a table. Lengths are millimeters.
type TableStyle struct {
	HeaderFont fontmetrics.Font `yaml:"headerFont"`
	CellFont   fontmetrics.Font `yaml:"cellFont"`
	TotalFont  fontmetrics.Font `yaml:"totalFont"`

	TextColor  layout.Color `yaml:"textColor"`
	HeaderFill layout.Color `yaml:"headerFill"`
	TotalFill  layout.Color `yaml:"totalFill"`

	Grid layout.Stroke `yaml:"grid"` // cell borders
	Rule layout.Stroke `yaml:"rule"` // top of the header band, bottom of the total row

	Padding         float64 `yaml:"padding"`
	VerticalPadding float64 `yaml:"verticalPadding"`
	LineHeight      float64 `yaml:"lineHeight"`

	// RowLineHeight is the height budget per line of a full data row.
	RowLineHeight float64 `yaml:"rowLineHeight"`

	// SplitPadding is kept free below the partial part of a split row.
	SplitPadding float64 `yaml:"splitPadding"`

	// HeaderSpace, MinRowSpace and TotalSpace are the room required before the header
	// band, each data row and the total row, respectively.
	HeaderSpace float64 `yaml:"headerSpace"`
	MinRowSpace float64 `yaml:"minRowSpace"`
	TotalSpace  float64 `yaml:"totalSpace"`

	// TotalAdvance is the distance from the top of the total row to the next block.
	TotalAdvance float64 `yaml:"totalAdvance"`

	MaxChars int `yaml:"maxChars"`
}

var (
	lightGray  = layout.Color{R: 200, G: 200, B: 200}
	headerGray = layout.Color{R: 240, G: 240, B: 240}
)

// DefaultStyle returns the style of the weekly report tables.
func DefaultStyle() TableStyle {
	body := fontmetrics.Font{Family: "Helvetica", Size: 10}
	return TableStyle{
		HeaderFont:      body.Bold(),
		CellFont:        body,
		TotalFont:       body.Bold(),
		TextColor:       layout.Black,
		HeaderFill:      headerGray,
		TotalFill:       headerGray,
		Grid:            layout.Stroke{Width: 0.25, Color: lightGray},
		Rule:            layout.Stroke{Width: 0.45, Color: layout.Black},
		Padding:         2,
		VerticalPadding: 2,
		LineHeight:      4,
		RowLineHeight:   6,
		SplitPadding:    4,
		HeaderSpace:     20,
		MinRowSpace:     12,
		TotalSpace:      12,
		TotalAdvance:    10,
		MaxChars:        wrap.DefaultMaxChars,
	}
}

// WithFamily returns a copy of s with every font set in family.
func (s TableStyle) WithFamily(family string) TableStyle {
	s.HeaderFont.Family = family
	s.CellFont.Family = family
	s.TotalFont.Family = family
	return s
}
