// Package pdfsurface implements layout.Surface on top of github.com/go-pdf/fpdf.
//
// Pages are never broken automatically: the layout flow decides where pages end and
// calls AddPage itself. Text is measured with the same font tables fpdf draws with, so
// wrapping decisions made with Width match the rendered output.
package pdfsurface

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"

	"github.com/lvillar/weeklyreport/fontmetrics"
	"github.com/lvillar/weeklyreport/layout"
	"github.com/lvillar/weeklyreport/logging"
)

// ErrOutput is returned when the document could not be finalized.
var ErrOutput = errors.New("pdfsurface: output failed")

// Option configures a Surface.
type Option func(*config)

type config struct {
	fontDir  string
	fallback string
	logger   logging.Logger
	created  time.Time
	title    string
	author   string
	compress bool
}

// WithFontDir sets the directory searched for TrueType files. A family "Calibri" is
// loaded from calibri.ttf and calibrib.ttf.
func WithFontDir(dir string) Option {
	return func(c *config) {
		c.fontDir = dir
	}
}

// WithFallbackFamily sets the family used for fonts that cannot be loaded. It is either
// a core PDF font or "Go" for the embedded Go fonts.
func WithFallbackFamily(family string) Option {
	return func(c *config) {
		c.fallback = family
	}
}

// WithLogger sets the logger receiving resource warnings.
func WithLogger(l logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithTimestamp fixes the creation and modification dates written to the document.
func WithTimestamp(t time.Time) Option {
	return func(c *config) {
		c.created = t
	}
}

// WithInfo sets the document title and author.
func WithInfo(title, author string) Option {
	return func(c *config) {
		c.title = title
		c.author = author
	}
}

// WithCompression toggles stream compression. It is on by default.
func WithCompression(on bool) Option {
	return func(c *config) {
		c.compress = on
	}
}

// Surface draws on a single fpdf document. It is not safe for concurrent use.
type Surface struct {
	pdf *fpdf.Fpdf
	geo layout.Geometry
	cfg config
	log logging.Logger

	faces   map[string]face
	current fontmetrics.Font
	hasFont bool

	imp       *gofpdi.Importer
	templates map[string]int

	warnings []string
}

// New returns a surface with pages of geo's size and no pages yet.
func New(geo layout.Geometry, opts ...Option) *Surface {
	cfg := config{fallback: "Helvetica", compress: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.logger
	if log == nil {
		log = logging.NewNoOpLogger()
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: geo.PageWidth, Ht: geo.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(geo.LeftMargin, geo.BodyTop, geo.PageWidth-geo.RightMargin)
	pdf.SetCellMargin(0)
	pdf.AliasNbPages(layout.PageCountAlias)
	pdf.SetCompression(cfg.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreator("weeklyreport", false)
	if cfg.title != "" {
		pdf.SetTitle(cfg.title, true)
	}
	if cfg.author != "" {
		pdf.SetAuthor(cfg.author, true)
	}
	if !cfg.created.IsZero() {
		pdf.SetCreationDate(cfg.created)
		pdf.SetModificationDate(cfg.created)
	}

	return &Surface{
		pdf:       pdf,
		geo:       geo,
		cfg:       cfg,
		log:       log,
		faces:     make(map[string]face),
		templates: make(map[string]int),
	}
}

// AddPage implements layout.Surface.
func (s *Surface) AddPage() {
	s.pdf.AddPage()
}

// Width implements fontmetrics.Provider.
func (s *Surface) Width(text string, f fontmetrics.Font) float64 {
	fc := s.setFont(f)
	return s.pdf.GetStringWidth(fc.encode(text))
}

// Text implements layout.Surface.
func (s *Surface) Text(x, y, w, h float64, text string, st layout.TextStyle) {
	if text == "" {
		return
	}
	fc := s.setFont(st.Font)
	s.pdf.SetTextColor(st.Color.R, st.Color.G, st.Color.B)
	if w <= 0 {
		w = s.pdf.GetStringWidth(fc.encode(text))
	}
	align := st.Align
	if align == "" {
		align = layout.AlignLeft
	}
	s.pdf.SetXY(x, y)
	s.pdf.CellFormat(w, h, fc.encode(text), "", 0, align+"M", false, 0, "")
}

// FillRect implements layout.Surface.
func (s *Surface) FillRect(x, y, w, h float64, c layout.Color) {
	s.pdf.SetFillColor(c.R, c.G, c.B)
	s.pdf.Rect(x, y, w, h, "F")
}

// StrokeRect implements layout.Surface.
func (s *Surface) StrokeRect(x, y, w, h float64, st layout.Stroke) {
	s.stroke(st)
	s.pdf.Rect(x, y, w, h, "D")
}

// Line implements layout.Surface.
func (s *Surface) Line(x1, y1, x2, y2 float64, st layout.Stroke) {
	s.stroke(st)
	s.pdf.Line(x1, y1, x2, y2)
}

func (s *Surface) stroke(st layout.Stroke) {
	s.pdf.SetDrawColor(st.Color.R, st.Color.G, st.Color.B)
	s.pdf.SetLineWidth(st.Width)
}

// PageCount returns the number of pages added so far.
func (s *Surface) PageCount() int {
	return s.pdf.PageCount()
}

// Warnings returns the resource problems met so far, such as missing fonts.
func (s *Surface) Warnings() []string {
	return append([]string(nil), s.warnings...)
}

func (s *Surface) warn(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	s.warnings = append(s.warnings, msg)
	s.log.Warn("%s", msg)
}

// Err returns the first error recorded by the underlying document, if any.
func (s *Surface) Err() error {
	return s.pdf.Error()
}

// Output finalizes the document, resolving the page count alias, and writes it to w.
// The surface cannot be drawn on afterwards.
func (s *Surface) Output(w io.Writer) error {
	if err := s.pdf.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}
	if s.pdf.PageCount() == 0 {
		return fmt.Errorf("%w: document has no pages", ErrOutput)
	}
	if err := s.pdf.Output(w); err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return nil
}
