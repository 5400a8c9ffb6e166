// Package report composes the weekly customer timesheet report: address block, title
// and metadata grid, summary table and the detail tables grouped by classification.
package report

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lvillar/weeklyreport/layout"
	"github.com/lvillar/weeklyreport/table"
	"github.com/lvillar/weeklyreport/timesheet"
	"github.com/lvillar/weeklyreport/wrap"
)

// ErrNoCustomer is returned for a packet without customer id.
var ErrNoCustomer = errors.New("report: packet has no customer")

// Document is the input of one report.
type Document struct {
	Packet    timesheet.CustomerPacket
	WeekLabel string

	// IssueDate is printed in the metadata grid and the invoice number.
	IssueDate time.Time

	// Logo and Background name images registered on the surface; see
	// LetterheadDecorator.
	Logo       string
	Background string
}

// GroupResult summarizes one detail table.
type GroupResult struct {
	Classification timesheet.Classification
	Rows           int
	Hours          float64
	Total          string // the printed total
}

// Result summarizes a composed report.
type Result struct {
	Pages      int
	Rows       int // data rows drawn in detail tables
	Splits     int // rows split across pages
	TotalHours float64
	Groups     []GroupResult

	// Warnings lists recoverable problems, such as a barcode that could not be drawn.
	Warnings []string
}

// InvoiceNumber is the document number printed in the metadata grid.
func InvoiceNumber(prefix string, issued time.Time, customerID string) string {
	return fmt.Sprintf("%s-%s-%s", prefix, issued.Format("20060102"), customerID)
}

type composer struct {
	cfg  Config
	doc  Document
	s    layout.Surface
	flow *layout.Flow
	res  Result
}

// Compose lays out doc on s. The configuration is validated before anything is drawn.
// The surface receives the complete page sequence; finalizing the page count alias is
// left to the surface.
func Compose(s layout.Surface, cfg Config, doc Document) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if doc.Packet.CustomerID == "" {
		return Result{}, ErrNoCustomer
	}

	dec := NewLetterhead(cfg)
	dec.Logo = doc.Logo
	dec.Background = doc.Background

	c := &composer{cfg: cfg, doc: doc, s: s, flow: layout.NewFlow(s, cfg.Geometry, dec)}
	c.flow.Start()

	c.address()
	c.metadata()
	c.barcode()
	if err := c.summary(); err != nil {
		return Result{}, err
	}
	if err := c.details(); err != nil {
		return Result{}, err
	}

	c.res.Pages = c.flow.Finish()
	c.res.TotalHours = doc.Packet.TotalHours()
	return c.res, nil
}

func (c *composer) text(x, y, w, h float64, s string, st layout.TextStyle) {
	c.s.Text(x+c.cfg.CellMargin, y, w-2*c.cfg.CellMargin, h, s, st)
}

func (c *composer) style(st layout.TextStyle) layout.TextStyle {
	if st.Align == "" {
		st.Align = layout.AlignLeft
	}
	st.Color = c.cfg.Table.TextColor
	return st
}

// address draws the customer name, wrapped at the block width, and the address lines.
func (c *composer) address() {
	a := c.cfg.Address
	name := c.doc.Packet.CustomerName
	nameStyle := c.style(layout.TextStyle{Font: a.NameFont})
	lineStyle := c.style(layout.TextStyle{Font: a.LineFont})

	lines := []string{name}
	wrapped := c.s.Width(name, a.NameFont) > a.Width
	if wrapped {
		lines = wrap.Wrapper{Metrics: c.s, Font: a.NameFont}.Wrap(name, a.Width)
	}
	y := a.Y
	for _, l := range lines {
		c.text(a.X, y, a.Width, a.LineHeight, l, nameStyle)
		y += a.LineHeight
	}
	if wrapped {
		y += a.WrapGap
	}

	addr := c.doc.Packet.Address
	if len(addr) == 0 {
		addr = a.Placeholder
	}
	for _, l := range addr {
		c.text(a.X, y, a.Width, a.LineHeight, l, lineStyle)
		y += a.LineHeight
	}
}

type metaField struct {
	label, value string
}

func (c *composer) metaFields() []metaField {
	l := c.cfg.Labels
	p := c.doc.Packet
	return []metaField{
		{l.InvoiceNumber, InvoiceNumber(l.InvoicePrefix, c.doc.IssueDate, p.CustomerID)},
		{l.Description, l.DescriptionValue},
		{l.IssueDate, c.doc.IssueDate.Format(c.cfg.DateFormat)},
		{l.Source, l.SourceValue},
		{l.CustomerNumber, p.CustomerID},
		{l.Reference, c.doc.WeekLabel},
	}
}

// MetaLayout returns the x offset and width of each metadata field: each field is as
// wide as its label or value plus padding, and the space left is spread as equal gaps.
// Gaps never become negative.
func MetaLayout(widths []float64, contentWidth float64) (xs []float64, gap float64) {
	sum := 0.0
	for _, w := range widths {
		sum += w
	}
	if len(widths) > 1 {
		gap = math.Max(0, (contentWidth-sum)/float64(len(widths)-1))
	}
	xs = make([]float64, len(widths))
	x := 0.0
	for i, w := range widths {
		xs[i] = x
		x += w + gap
	}
	return xs, gap
}

// metadata draws the title and the six-field grid, labels above values.
func (c *composer) metadata() {
	sec := c.cfg.Sections
	geo := c.cfg.Geometry
	left := geo.LeftMargin

	c.text(left, sec.TitleY, geo.ContentWidth(), sec.TitleHeight, c.cfg.Labels.Title,
		c.style(layout.TextStyle{Font: sec.TitleFont}))
	y := c.flow.MoveTo(sec.TitleY + sec.TitleAdvance).Y

	fields := c.metaFields()
	widths := make([]float64, len(fields))
	for i, f := range fields {
		widths[i] = math.Max(c.s.Width(f.label, sec.MetaLabelFont), c.s.Width(f.value, sec.MetaValueFont)) + sec.MetaPadding
	}
	xs, _ := MetaLayout(widths, geo.ContentWidth())

	labelStyle := c.style(layout.TextStyle{Font: sec.MetaLabelFont})
	valueStyle := c.style(layout.TextStyle{Font: sec.MetaValueFont})
	for i, f := range fields {
		// Field widths are measured without the cell margin, so the boxes are not inset.
		c.s.Text(left+xs[i], y, widths[i], sec.MetaRowHeight, f.label, labelStyle)
		c.s.Text(left+xs[i], y+sec.MetaRowHeight, widths[i], sec.MetaRowHeight, f.value, valueStyle)
	}
	c.flow.MoveTo(y + sec.MetaAdvance)
}

// barcode draws the invoice number as a machine readable code when configured and
// supported by the surface.
func (c *composer) barcode() {
	b := c.cfg.Barcode
	if b.Kind == "" {
		return
	}
	bs, ok := c.s.(layout.BarcodeSurface)
	if !ok {
		c.res.Warnings = append(c.res.Warnings, "surface cannot draw barcodes")
		return
	}
	code := InvoiceNumber(c.cfg.Labels.InvoicePrefix, c.doc.IssueDate, c.doc.Packet.CustomerID)
	if err := bs.Barcode(b.Kind, code, b.X, b.Y, b.W, b.H); err != nil {
		c.res.Warnings = append(c.res.Warnings, fmt.Sprintf("barcode %s: %v", b.Kind, err))
	}
}

func (c *composer) heading(text string) {
	sec := c.cfg.Sections
	at := c.flow.Cursor()
	c.text(at.X, at.Y, c.cfg.Geometry.ContentWidth(), sec.HeadingHeight, text,
		c.style(layout.TextStyle{Font: sec.HeadingFont}))
	c.flow.Advance(sec.HeadingAdvance)
}

func (c *composer) newTable(name string, cols []table.Column) *table.Table {
	return table.New(c.flow, name).SetColumns(cols...).SetStyle(c.cfg.Table)
}

// summary draws one row per classification and the grand total.
func (c *composer) summary() error {
	c.heading(c.cfg.Labels.Summary)

	p := c.doc.Packet
	tbl := c.newTable("summary", c.cfg.SummaryColumns)
	for _, g := range p.ByClassification() {
		row := tbl.AddRow().SetMinHeight(c.cfg.Sections.SummaryRowHeight)
		row.AddCell(fmt.Sprintf("%s - %s", g.Classification, p.CustomerName))
		row.AddCell(timesheet.FormatHours(g.Hours()))
	}
	tbl.SetTotal(c.cfg.Labels.Total, timesheet.FormatHours(p.TotalHours()))
	if err := tbl.Render(); err != nil {
		return fmt.Errorf("report: summary: %w", err)
	}
	return nil
}

// details draws one heading and detail table per classification.
func (c *composer) details() error {
	sec := c.cfg.Sections
	c.flow.Ensure(sec.DetailsSpace)
	c.heading(c.cfg.Labels.Details)

	p := c.doc.Packet
	for _, g := range p.ByClassification() {
		if err := c.group(p.CustomerName, g); err != nil {
			return err
		}
	}
	return nil
}

func (c *composer) group(customer string, g timesheet.Group) error {
	sec := c.cfg.Sections
	cw := c.cfg.Geometry.ContentWidth()
	c.flow.Ensure(sec.GroupSpace)

	at := c.flow.Cursor()
	heading := wrap.Wrapper{Metrics: c.s, Font: sec.GroupFont}.
		Ellipsize(fmt.Sprintf("%s - %s", g.Classification, customer), cw, sec.GroupMinRunes)
	c.text(at.X, at.Y, cw, sec.GroupHeight, heading, c.style(layout.TextStyle{Font: sec.GroupFont}))
	at = c.flow.Advance(sec.GroupAdvance)

	if project := g.Rows[0].ProjectName; project != "" {
		line := wrap.Wrapper{Metrics: c.s, Font: sec.ProjectFont}.
			Ellipsize(c.cfg.Labels.OrderElement+project, cw, sec.ProjectMinRunes)
		c.text(at.X, at.Y, cw, sec.ProjectHeight, line, c.style(layout.TextStyle{Font: sec.ProjectFont}))
		c.flow.Advance(sec.ProjectAdvance)
	}

	tbl := c.newTable("details", c.cfg.DetailColumns)
	for _, r := range g.Rows {
		row := tbl.AddRow()
		row.AddCell(r.Date.Format(c.cfg.DateFormat))
		row.AddCell(r.User)
		row.AddCell(r.ProjectName)
		row.AddCell(r.TaskName)
		row.AddCell(r.Description)
		row.AddCell(timesheet.FormatHours(r.Hours))
	}
	total := timesheet.FormatHours(g.Hours())
	tbl.SetTotal(c.cfg.Labels.Total, total)
	if err := tbl.Render(); err != nil {
		return fmt.Errorf("report: details %s: %w", g.Classification, err)
	}
	c.flow.Advance(sec.TableAdvance)

	st := tbl.Stats()
	c.res.Rows += st.Rows
	c.res.Splits += st.Splits
	c.res.Groups = append(c.res.Groups, GroupResult{
		Classification: g.Classification,
		Rows:           st.Rows,
		Hours:          g.Hours(),
		Total:          total,
	})
	return nil
}
