package layout

import (
	"github.com/lvillar/weeklyreport/fontmetrics"
)

// PageCountAlias is replaced by the total number of pages when a document is finalized.
const PageCountAlias = "{nb}"

// Surface is a paginated drawing target. Coordinates are millimeters from the top left
// corner of the current page. Implementations measure text with the same metrics they
// draw with.
type Surface interface {
	fontmetrics.Provider

	// AddPage starts a new, empty page.
	AddPage()

	// Text draws s inside the box (x, y, w, h), aligned horizontally per st.Align and
	// centered vertically. Text is not clipped to the box.
	Text(x, y, w, h float64, s string, st TextStyle)

	FillRect(x, y, w, h float64, c Color)
	StrokeRect(x, y, w, h float64, s Stroke)
	Line(x1, y1, x2, y2 float64, s Stroke)

	// Image draws a previously registered image. A zero h keeps the aspect ratio.
	Image(name string, x, y, w, h float64)
}

// BarcodeSurface is implemented by surfaces that can draw machine readable codes.
type BarcodeSurface interface {
	Barcode(kind, code string, x, y, w, h float64) error
}

// Decorator draws the repeating parts of every page.
type Decorator interface {
	Header(s Surface, page int)
	Footer(s Surface, page int)
}
