// Package layout implements fixed-page layout primitives: page geometry, the page flow
// controller that owns the vertical cursor and decides page breaks, and the bordered
// cell renderer that draws wrapped, vertically centered text and reports overflow.
//
// Drawing goes through the Surface interface so that the same layout can be rendered
// to a PDF or recorded by a pure simulation (see package record).
package layout

import (
	"fmt"
	"math"
)

// epsilon absorbs floating point noise in height and width comparisons.
const epsilon = 1e-9

// Geometry describes the fixed page frame in millimeters.
type Geometry struct {
	PageWidth  float64 `yaml:"pageWidth"`
	PageHeight float64 `yaml:"pageHeight"`

	// LeftMargin and RightMargin are x coordinates of the content frame.
	LeftMargin  float64 `yaml:"leftMargin"`
	RightMargin float64 `yaml:"rightMargin"`

	// FooterReserve is kept free at the bottom of every page; nothing but the
	// page footer is drawn below PageHeight-FooterReserve.
	FooterReserve float64 `yaml:"footerReserve"`

	// BodyTop is where the cursor restarts after a page break, below the
	// repeating page header.
	BodyTop float64 `yaml:"bodyTop"`

	// BandHeight is the height of table header bands and total rows.
	BandHeight float64 `yaml:"bandHeight"`
}

// A4 returns the portrait A4 frame of the weekly report.
func A4() Geometry {
	return Geometry{
		PageWidth:     210,
		PageHeight:    297,
		LeftMargin:    20,
		RightMargin:   190,
		FooterReserve: 40,
		BodyTop:       55,
		BandHeight:    8,
	}
}

// ContentWidth is the usable width between the margins.
func (g Geometry) ContentWidth() float64 {
	return g.RightMargin - g.LeftMargin
}

// BreakLine is the lowest y coordinate body content may reach.
func (g Geometry) BreakLine() float64 {
	return g.PageHeight - g.FooterReserve
}

// Validate reports configuration defects that would otherwise produce clipped or
// overlapping pages.
func (g Geometry) Validate() error {
	switch {
	case g.PageWidth <= 0 || g.PageHeight <= 0:
		return &GeometryError{Problem: fmt.Sprintf("page size %vx%v must be positive", g.PageWidth, g.PageHeight)}
	case g.LeftMargin < 0 || g.RightMargin > g.PageWidth+epsilon:
		return &GeometryError{Problem: fmt.Sprintf("margins [%v, %v] outside page width %v", g.LeftMargin, g.RightMargin, g.PageWidth)}
	case g.ContentWidth() <= 0:
		return &GeometryError{Problem: fmt.Sprintf("content width %v must be positive", g.ContentWidth())}
	case g.FooterReserve < 0 || g.FooterReserve >= g.PageHeight:
		return &GeometryError{Problem: fmt.Sprintf("footer reserve %v must be within page height %v", g.FooterReserve, g.PageHeight)}
	case g.BandHeight <= 0:
		return &GeometryError{Problem: fmt.Sprintf("band height %v must be positive", g.BandHeight)}
	case g.BodyTop < 0 || g.BodyTop+g.BandHeight > g.BreakLine():
		return &GeometryError{Problem: fmt.Sprintf("body top %v leaves no room above break line %v", g.BodyTop, g.BreakLine())}
	}
	return nil
}

// CheckWidths verifies that a column set fits the content width and that each column
// has room for text after padding on both sides.
func (g Geometry) CheckWidths(table string, widths []float64, padding float64) error {
	if len(widths) == 0 {
		return &GeometryError{Table: table, Problem: "no columns"}
	}
	sum := 0.0
	for i, w := range widths {
		if w-2*padding <= 0 {
			return &GeometryError{Table: table, Problem: fmt.Sprintf("column %d: usable width %v is not positive", i, w-2*padding)}
		}
		sum += w
	}
	if sum > g.ContentWidth()+epsilon {
		return &GeometryError{Table: table, Problem: fmt.Sprintf("column widths sum to %v, content width is %v", sum, g.ContentWidth())}
	}
	return nil
}

// CheckExactWidths is CheckWidths plus the requirement that the columns span the whole
// content width.
func (g Geometry) CheckExactWidths(table string, widths []float64, padding float64) error {
	if err := g.CheckWidths(table, widths, padding); err != nil {
		return err
	}
	sum := 0.0
	for _, w := range widths {
		sum += w
	}
	if math.Abs(sum-g.ContentWidth()) > 1e-6 {
		return &GeometryError{Table: table, Problem: fmt.Sprintf("column widths sum to %v, expected content width %v", sum, g.ContentWidth())}
	}
	return nil
}
