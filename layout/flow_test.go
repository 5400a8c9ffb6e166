package layout_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lvillar/weeklyreport/layout"
	"github.com/lvillar/weeklyreport/layout/record"
)

type traceDecorator struct {
	events []string
}

func (d *traceDecorator) Header(s layout.Surface, page int) {
	d.events = append(d.events, fmt.Sprintf("header %d", page))
}

func (d *traceDecorator) Footer(s layout.Surface, page int) {
	d.events = append(d.events, fmt.Sprintf("footer %d", page))
}

func TestFlowBreaksAtThreshold(t *testing.T) {
	geo := layout.A4()
	rec := record.New(mono)
	dec := &traceDecorator{}
	f := layout.NewFlow(rec, geo, dec)

	if f.Ensure(10) {
		t.Fatal("first block must fit on the first page")
	}
	if got := f.Cursor(); got.Page != 1 || got.Y != geo.BodyTop {
		t.Fatalf("cursor after start = %+v", got)
	}

	f.MoveTo(250)
	if got := f.Available(); got != 7 {
		t.Errorf("Available() = %v, want 7", got)
	}
	if f.Ensure(7) {
		t.Error("a block that ends exactly on the break line fits")
	}

	bands := 0
	f.SetBand(func(f *layout.Flow) {
		bands++
		f.Advance(geo.BandHeight)
	})
	if !f.Ensure(7.5) {
		t.Fatal("expected a page break")
	}
	if f.State() != layout.OnPage {
		t.Errorf("state after break = %v", f.State())
	}
	if bands != 1 {
		t.Errorf("band emitted %d times, want 1", bands)
	}
	if got, want := f.Cursor(), (layout.Cursor{X: geo.LeftMargin, Y: geo.BodyTop + geo.BandHeight, Page: 2}); got != want {
		t.Errorf("cursor after break = %+v, want %+v", got, want)
	}
	if !f.AtTop() {
		t.Error("nothing drawn below the band yet")
	}
	f.Advance(6)
	if f.AtTop() {
		t.Error("AtTop after advancing")
	}

	if n := f.Finish(); n != 2 {
		t.Errorf("Finish() = %d, want 2", n)
	}
	f.Finish()

	want := []string{"header 1", "footer 1", "header 2", "footer 2"}
	if diff := cmp.Diff(want, dec.events); diff != "" {
		t.Errorf("decorator calls (-want +got):\n%s", diff)
	}
	if rec.PageCount() != 2 {
		t.Errorf("surface has %d pages", rec.PageCount())
	}
}

func TestFlowSetBandRestores(t *testing.T) {
	f := layout.NewFlow(record.New(mono), layout.A4(), nil)
	first := func(*layout.Flow) {}
	if prev := f.SetBand(first); prev != nil {
		t.Error("new flow has no band")
	}
	if prev := f.SetBand(nil); prev == nil {
		t.Error("SetBand must return the previous band")
	}
}

func TestGeometryValidate(t *testing.T) {
	if err := layout.A4().Validate(); err != nil {
		t.Fatalf("A4: %v", err)
	}
	if got := layout.A4().ContentWidth(); got != 170 {
		t.Errorf("content width %v", got)
	}

	bad := layout.A4()
	bad.BodyTop = 260
	err := bad.Validate()
	if !errors.Is(err, layout.ErrGeometry) {
		t.Errorf("body top below break line: got %v", err)
	}

	bad = layout.A4()
	bad.RightMargin = 10
	if err := bad.Validate(); !errors.Is(err, layout.ErrGeometry) {
		t.Errorf("inverted margins: got %v", err)
	}
}

func TestGeometryCheckWidths(t *testing.T) {
	geo := layout.A4()
	if err := geo.CheckExactWidths("details", []float64{18, 28, 22, 37, 49, 16}, 2); err != nil {
		t.Errorf("details widths: %v", err)
	}
	if err := geo.CheckWidths("summary", []float64{154, 16}, 2); err != nil {
		t.Errorf("summary widths: %v", err)
	}

	err := geo.CheckWidths("wide", []float64{100, 80}, 2)
	var ge *layout.GeometryError
	if !errors.As(err, &ge) || ge.Table != "wide" {
		t.Fatalf("expected a GeometryError for table wide, got %v", err)
	}
	if !errors.Is(err, layout.ErrGeometry) {
		t.Error("GeometryError must match ErrGeometry")
	}

	if err := geo.CheckWidths("narrow", []float64{4, 50}, 2); err == nil {
		t.Error("a column without usable width must be rejected")
	}
	if err := geo.CheckExactWidths("short", []float64{18, 28, 20, 35, 49, 16}, 2); err == nil {
		t.Error("columns that do not span the content width must be rejected")
	}
}
