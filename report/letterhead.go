package report

import (
	"strconv"
	"strings"

	"github.com/lvillar/weeklyreport/layout"
)

// LetterheadDecorator draws the company letterhead on every page: an optional page
// background, the logo with a rule below it, and the footer with contact lines and
// the page number.
type LetterheadDecorator struct {
	cfg    Letterhead
	geo    layout.Geometry
	margin float64

	// Logo and Background name images registered on the surface. An empty Logo
	// draws the text logo.
	Logo       string
	Background string
}

// NewLetterhead returns the decorator for cfg.
func NewLetterhead(cfg Config) *LetterheadDecorator {
	return &LetterheadDecorator{cfg: cfg.Letterhead, geo: cfg.Geometry, margin: cfg.CellMargin}
}

// Header implements layout.Decorator.
func (d *LetterheadDecorator) Header(s layout.Surface, page int) {
	if d.Background != "" {
		s.Image(d.Background, 0, 0, d.geo.PageWidth, d.geo.PageHeight)
	}
	c := d.cfg
	if d.Logo != "" {
		s.Image(d.Logo, c.LogoX, c.LogoY, c.LogoWidth, 0)
	} else if c.TextLogo != "" {
		s.Text(c.LogoX, c.TextLogoY, c.LogoWidth-d.margin, c.TextLogoHeight, c.TextLogo, layout.TextStyle{
			Font:  c.TextLogoFont,
			Color: c.TextLogoColor,
			Align: layout.AlignRight,
		})
	}
	s.Line(d.geo.LeftMargin, c.RuleY, d.geo.RightMargin, c.RuleY, c.Rule)
}

// Footer implements layout.Decorator.
func (d *LetterheadDecorator) Footer(s layout.Surface, page int) {
	c := d.cfg
	x, w := d.geo.LeftMargin, d.geo.ContentWidth()
	st := layout.TextStyle{Font: c.FooterFont, Color: c.FooterColor, Align: layout.AlignCenter}

	y := d.geo.PageHeight - c.FooterOffset
	for _, line := range c.FooterLines {
		s.Text(x, y, w, c.FooterLineHeight, line, st)
		y += c.FooterLineHeight
	}
	if c.PageLabel == "" {
		return
	}
	y += c.PageLabelGap
	st.Align = layout.AlignRight
	label := strings.ReplaceAll(c.PageLabel, "{page}", strconv.Itoa(page))
	s.Text(x, y, w-d.margin, c.FooterLineHeight, label, st)
}
