package table

import (
	"errors"
	"fmt"
	"math"

	"github.com/lvillar/weeklyreport/layout"
)

// ErrRowShape is returned for a row that has more cells than the table has columns.
var ErrRowShape = errors.New("table: row has more cells than columns")

// Stats describes what a rendered table produced.
type Stats struct {
	Rows    int // data rows drawn
	Splits  int // page boundaries crossed inside a data row
	Headers int // header bands drawn, including repetitions
}

type totalRow struct {
	label, value string
}

// Table is a table builder that renders onto a page flow.
type Table struct {
	name    string
	flow    *layout.Flow
	columns []Column
	rows    []*Row
	style   TableStyle
	total   *totalRow
	stats   Stats
}

// New creates a table drawn through flow. The name identifies the table in
// validation errors.
func New(flow *layout.Flow, name string) *Table {
	return &Table{
		name:  name,
		flow:  flow,
		style: DefaultStyle(),
	}
}

// SetColumns sets the columns of the table.
func (t *Table) SetColumns(cols ...Column) *Table {
	t.columns = cols
	return t
}

// SetStyle sets the table-wide style.
func (t *Table) SetStyle(s TableStyle) *Table {
	t.style = s
	return t
}

// AddRow adds a new data row to the table and returns it for chaining.
func (t *Table) AddRow() *Row {
	r := &Row{}
	t.rows = append(t.rows, r)
	return r
}

// SetTotal appends a total row: label spans all columns but the last, value is
// right-aligned in the last column.
func (t *Table) SetTotal(label, value string) *Table {
	t.total = &totalRow{label: label, value: value}
	return t
}

// Stats returns the statistics of the last Render.
func (t *Table) Stats() Stats {
	return t.stats
}

// Validate checks the column set against the page geometry and the row shapes against
// the column set. Render calls it before drawing anything.
func (t *Table) Validate() error {
	geo := t.flow.Geometry()
	widths := make([]float64, len(t.columns))
	for i, c := range t.columns {
		widths[i] = c.Width
	}
	if err := geo.CheckWidths(t.name, widths, t.style.Padding); err != nil {
		return err
	}
	if t.style.LineHeight <= 0 || t.style.RowLineHeight < 0 {
		return &layout.GeometryError{Table: t.name, Problem: fmt.Sprintf("line height %v must be positive", t.style.LineHeight)}
	}
	for i, r := range t.rows {
		if r.Len() > len(t.columns) {
			return fmt.Errorf("%w: table %q row %d has %d cells for %d columns", ErrRowShape, t.name, i, r.Len(), len(t.columns))
		}
	}
	return nil
}

// Render draws the table at the flow's cursor.
func (t *Table) Render() error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.stats = Stats{}

	r := t.renderer()
	t.flow.Ensure(t.style.HeaderSpace)
	t.drawHeader(t.flow)
	prev := t.flow.SetBand(t.drawHeader)
	defer t.flow.SetBand(prev)

	for _, row := range t.rows {
		t.flow.Ensure(t.style.MinRowSpace)
		t.renderRow(r, row)
	}
	if t.total != nil {
		t.flow.Ensure(t.style.TotalSpace)
		t.drawTotal(r)
	}
	return nil
}

func (t *Table) renderer() *layout.CellRenderer {
	return &layout.CellRenderer{
		Surface:         t.flow.Surface(),
		Padding:         t.style.Padding,
		VerticalPadding: t.style.VerticalPadding,
		LineHeight:      t.style.LineHeight,
		MaxChars:        t.style.MaxChars,
	}
}

func (t *Table) left() float64 {
	return t.flow.Geometry().LeftMargin
}

func (t *Table) width() float64 {
	w := 0.0
	for _, c := range t.columns {
		w += c.Width
	}
	return w
}

func (t *Table) cellContext() layout.RenderContext {
	return layout.RenderContext{Font: t.style.CellFont, Text: t.style.TextColor, Border: t.style.Grid}
}

// RowHeight is the height of a full row whose tallest cell has n lines.
func (t *Table) RowHeight(n int, minH float64) float64 {
	s := t.style
	h := math.Max(s.RowLineHeight*float64(n), s.LineHeight*float64(n)+s.VerticalPadding)
	return math.Max(h, minH)
}

// renderRow draws one logical row, splitting it over as many pages as it needs.
func (t *Table) renderRow(r *layout.CellRenderer, row *Row) {
	ctx := t.cellContext()
	lines := make([][]string, len(t.columns))
	for i, col := range t.columns {
		lines[i] = r.Wrap(ctx, row.cell(i).text, col.Width)
	}
	minH := row.minH

	for {
		h := t.RowHeight(maxLen(lines), minH)
		avail := t.flow.Available()
		if h <= avail+1e-9 {
			t.drawRow(r, ctx, row, lines, h)
			t.stats.Rows++
			return
		}

		fit := int(math.Floor((avail-t.style.SplitPadding)/t.style.LineHeight + 1e-9))
		if fit < 1 {
			if !t.flow.AtTop() {
				t.flow.Break()
				continue
			}
			// Taller than an empty page allows; draw a line anyway so the row drains.
			fit = 1
		}
		partial := float64(fit)*t.style.LineHeight + t.style.VerticalPadding
		overflow := t.drawRow(r, ctx, row, lines, partial)
		if overflow == nil {
			t.stats.Rows++
			return
		}
		t.stats.Splits++
		t.flow.Break()
		lines, minH = overflow, 0
	}
}

// drawRow draws every column at height h and advances the flow. It returns the lines
// each column could not draw, or nil when all lines were drawn.
func (t *Table) drawRow(r *layout.CellRenderer, ctx layout.RenderContext, row *Row, lines [][]string, h float64) [][]string {
	at := t.flow.Cursor()
	at.X = t.left()

	overflow := make([][]string, len(t.columns))
	more := false
	for i, col := range t.columns {
		align := col.Align
		if a := row.cell(i).align; a != "" {
			align = a
		}
		var rest []string
		at, rest = r.RenderLines(ctx, at, layout.Cell{
			Width:  col.Width,
			Height: h,
			Align:  align,
			Border: layout.BorderBox,
		}, lines[i])
		if len(rest) > 0 {
			more = true
			overflow[i] = rest
		} else {
			overflow[i] = []string{""}
		}
	}
	t.flow.Advance(h)
	if !more {
		return nil
	}
	return overflow
}

// drawHeader draws the header band at the flow's cursor: filled cells with a heavy top
// rule, framed by the light grid on the left, right and bottom.
func (t *Table) drawHeader(f *layout.Flow) {
	r := t.renderer()
	band := f.Geometry().BandHeight
	at := f.Cursor()
	at.X = t.left()
	y0 := at.Y

	ctx := layout.RenderContext{Font: t.style.HeaderFont, Text: t.style.TextColor, Border: t.style.Rule}
	fill := t.style.HeaderFill
	for _, col := range t.columns {
		at, _ = r.RenderLines(ctx, at, layout.Cell{
			Width:  col.Width,
			Height: band,
			Align:  col.Align,
			Border: "T",
			Fill:   &fill,
		}, []string{col.Label})
	}

	frame := layout.RenderContext{Border: t.style.Grid}
	r.RenderLines(frame, layout.Cursor{X: t.left(), Y: y0, Page: at.Page}, layout.Cell{
		Width:  t.width(),
		Height: band,
		Border: "LRB",
	}, nil)

	f.Advance(band)
	t.stats.Headers++
}

// drawTotal draws the total row. It is never split.
func (t *Table) drawTotal(r *layout.CellRenderer) {
	s := t.flow.Surface()
	band := t.flow.Geometry().BandHeight
	at := t.flow.Cursor()
	at.X = t.left()
	y0 := at.Y

	ctx := layout.RenderContext{Font: t.style.TotalFont, Text: t.style.TextColor, Border: t.style.Grid}
	fill := t.style.TotalFill
	for _, col := range t.columns {
		at, _ = r.RenderLines(ctx, at, layout.Cell{
			Width:  col.Width,
			Height: band,
			Border: "LRT",
			Fill:   &fill,
		}, nil)
	}

	// The label sits half a millimeter left of the column text and one millimeter lower,
	// in line with the header labels.
	last := t.columns[len(t.columns)-1].Width
	labelW := t.width() - last
	pad := t.style.Padding
	s.Text(t.left()-0.5+pad, y0+1, labelW+0.5-2*pad, band, t.total.label, ctx.TextStyle(layout.AlignLeft))
	s.Text(t.left()+labelW+pad, y0+1, last-2*pad, band, t.total.value, ctx.TextStyle(layout.AlignRight))

	s.Line(t.left(), y0+band, t.left()+t.width(), y0+band, t.style.Rule)
	t.flow.Advance(t.style.TotalAdvance)
}

func maxLen(lines [][]string) int {
	n := 1
	for _, l := range lines {
		if len(l) > n {
			n = len(l)
		}
	}
	return n
}
