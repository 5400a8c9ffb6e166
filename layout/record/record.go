// Package record provides a layout.Surface that records drawing operations instead of
// rendering them. It is the pure simulation target of the layout engine: two runs over
// the same input produce equal recordings.
package record

import (
	"strconv"
	"strings"

	"github.com/lvillar/weeklyreport/fontmetrics"
	"github.com/lvillar/weeklyreport/layout"
)

// Kind identifies a recorded operation.
type Kind string

const (
	KindText    Kind = "text"
	KindFill    Kind = "fill"
	KindStroke  Kind = "stroke"
	KindLine    Kind = "line"
	KindImage   Kind = "image"
	KindBarcode Kind = "barcode"
)

// Op is one recorded drawing operation. Fields not used by its Kind are zero.
type Op struct {
	Kind Kind

	X, Y, W, H float64
	X2, Y2     float64 // line end point

	Text   string // text, image name or barcode content
	Style  layout.TextStyle
	Color  layout.Color
	Stroke layout.Stroke
}

// Page is a recorded page.
type Page struct {
	Number int
	Ops    []Op
}

// Recorder implements layout.Surface and layout.BarcodeSurface.
type Recorder struct {
	metrics fontmetrics.Provider
	pages   []Page
}

// New returns an empty recorder that measures text with m.
func New(m fontmetrics.Provider) *Recorder {
	return &Recorder{metrics: m}
}

// Width implements fontmetrics.Provider.
func (r *Recorder) Width(text string, f fontmetrics.Font) float64 {
	return r.metrics.Width(text, f)
}

// AddPage implements layout.Surface.
func (r *Recorder) AddPage() {
	r.pages = append(r.pages, Page{Number: len(r.pages) + 1})
}

func (r *Recorder) record(op Op) {
	if len(r.pages) == 0 {
		r.AddPage()
	}
	p := &r.pages[len(r.pages)-1]
	p.Ops = append(p.Ops, op)
}

// Text implements layout.Surface.
func (r *Recorder) Text(x, y, w, h float64, s string, st layout.TextStyle) {
	r.record(Op{Kind: KindText, X: x, Y: y, W: w, H: h, Text: s, Style: st})
}

// FillRect implements layout.Surface.
func (r *Recorder) FillRect(x, y, w, h float64, c layout.Color) {
	r.record(Op{Kind: KindFill, X: x, Y: y, W: w, H: h, Color: c})
}

// StrokeRect implements layout.Surface.
func (r *Recorder) StrokeRect(x, y, w, h float64, s layout.Stroke) {
	r.record(Op{Kind: KindStroke, X: x, Y: y, W: w, H: h, Stroke: s})
}

// Line implements layout.Surface.
func (r *Recorder) Line(x1, y1, x2, y2 float64, s layout.Stroke) {
	r.record(Op{Kind: KindLine, X: x1, Y: y1, X2: x2, Y2: y2, Stroke: s})
}

// Image implements layout.Surface.
func (r *Recorder) Image(name string, x, y, w, h float64) {
	r.record(Op{Kind: KindImage, X: x, Y: y, W: w, H: h, Text: name})
}

// Barcode implements layout.BarcodeSurface.
func (r *Recorder) Barcode(kind, code string, x, y, w, h float64) error {
	r.record(Op{Kind: KindBarcode, X: x, Y: y, W: w, H: h, Text: kind + ":" + code})
	return nil
}

// Finish replaces the page count alias in every recorded text.
func (r *Recorder) Finish() {
	nb := strconv.Itoa(len(r.pages))
	for i := range r.pages {
		for j := range r.pages[i].Ops {
			op := &r.pages[i].Ops[j]
			if op.Kind == KindText {
				op.Text = strings.ReplaceAll(op.Text, layout.PageCountAlias, nb)
			}
		}
	}
}

// Pages returns the recorded pages.
func (r *Recorder) Pages() []Page {
	return r.pages
}

// PageCount returns the number of pages.
func (r *Recorder) PageCount() int {
	return len(r.pages)
}

// Texts returns the text operations of page n (1-based) in drawing order.
func (r *Recorder) Texts(n int) []Op {
	if n < 1 || n > len(r.pages) {
		return nil
	}
	var out []Op
	for _, op := range r.pages[n-1].Ops {
		if op.Kind == KindText {
			out = append(out, op)
		}
	}
	return out
}

// Find returns every text operation whose text equals s, on any page, with the page
// number it was drawn on.
func (r *Recorder) Find(s string) (ops []Op, pages []int) {
	for _, p := range r.pages {
		for _, op := range p.Ops {
			if op.Kind == KindText && op.Text == s {
				ops = append(ops, op)
				pages = append(pages, p.Number)
			}
		}
	}
	return ops, pages
}
