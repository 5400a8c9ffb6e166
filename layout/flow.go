package layout

// State is the state of a Flow.
type State int

const (
	// OnPage means the cursor is on a page with room left for the next block.
	OnPage State = iota
	// AtBreakThreshold means the last requested block did not fit and a page break
	// is in progress.
	AtBreakThreshold
)

func (s State) String() string {
	switch s {
	case OnPage:
		return "OnPage"
	case AtBreakThreshold:
		return "AtBreakThreshold"
	}
	return "unknown"
}

// Cursor is a position on a page. Drawing functions take a Cursor and return the
// advanced one; the vertical position of a document is owned by its Flow.
type Cursor struct {
	X, Y float64
	Page int
}

// Flow controls the page sequence of one document. It owns the vertical cursor and
// decides page breaks. A Flow must not be shared between documents or goroutines.
type Flow struct {
	geo       Geometry
	surface   Surface
	decorator Decorator

	cursor Cursor
	state  State
	band   func(*Flow)

	// top is the y position below the page header and any re-emitted band.
	top      float64
	started  bool
	finished bool
}

// NewFlow returns a flow over s. The decorator may be nil.
func NewFlow(s Surface, g Geometry, d Decorator) *Flow {
	return &Flow{geo: g, surface: s, decorator: d}
}

// Surface returns the drawing target.
func (f *Flow) Surface() Surface { return f.surface }

// Geometry returns the page frame.
func (f *Flow) Geometry() Geometry { return f.geo }

// State returns the current state.
func (f *Flow) State() State { return f.state }

// Cursor returns the current position.
func (f *Flow) Cursor() Cursor { return f.cursor }

// Start adds the first page. It is called implicitly by the first Ensure and is a
// no-op once the flow has started.
func (f *Flow) Start() {
	if f.started {
		return
	}
	f.started = true
	f.newPage()
}

// Ensure makes room for a block of height h. If the block does not fit above the
// break line, Ensure breaks the page and returns true. A block that does not fit even
// on a fresh page is left to the caller; Ensure breaks at most once per call.
func (f *Flow) Ensure(h float64) bool {
	f.Start()
	if f.cursor.Y+h <= f.geo.BreakLine()+epsilon {
		return false
	}
	f.state = AtBreakThreshold
	f.Break()
	return true
}

// Break finishes the current page and starts the next one: the page footer and header
// are drawn, the cursor is reset to the body top, and the active band is re-emitted.
func (f *Flow) Break() {
	f.Start()
	if f.decorator != nil {
		f.decorator.Footer(f.surface, f.cursor.Page)
	}
	f.newPage()
	if f.band != nil {
		f.band(f)
	}
	f.top = f.cursor.Y
	f.state = OnPage
}

func (f *Flow) newPage() {
	f.surface.AddPage()
	f.cursor = Cursor{X: f.geo.LeftMargin, Y: f.geo.BodyTop, Page: f.cursor.Page + 1}
	f.top = f.cursor.Y
	if f.decorator != nil {
		f.decorator.Header(f.surface, f.cursor.Page)
	}
}

// AtTop reports whether nothing has been drawn on the current page below the page
// header and the re-emitted band.
func (f *Flow) AtTop() bool {
	return f.cursor.Y <= f.top+epsilon
}

// Available is the height left above the break line.
func (f *Flow) Available() float64 {
	return f.geo.BreakLine() - f.cursor.Y
}

// Advance moves the cursor down by dy and back to the left margin.
func (f *Flow) Advance(dy float64) Cursor {
	f.Start()
	f.cursor.Y += dy
	f.cursor.X = f.geo.LeftMargin
	return f.cursor
}

// MoveTo places the cursor at y on the current page, at the left margin.
func (f *Flow) MoveTo(y float64) Cursor {
	f.Start()
	f.cursor.Y = y
	f.cursor.X = f.geo.LeftMargin
	return f.cursor
}

// SetBand sets the band re-emitted at the top of every continuation page, usually a
// table header, and returns the previous one. A nil band clears it.
func (f *Flow) SetBand(band func(*Flow)) func(*Flow) {
	prev := f.band
	f.band = band
	return prev
}

// Finish draws the footer of the last page and returns the number of pages.
// The flow must not be used afterwards.
func (f *Flow) Finish() int {
	f.Start()
	if !f.finished {
		f.finished = true
		if f.decorator != nil {
			f.decorator.Footer(f.surface, f.cursor.Page)
		}
	}
	return f.cursor.Page
}
