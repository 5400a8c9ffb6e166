package pdfsurface_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/bmp"

	"github.com/lvillar/weeklyreport/fontmetrics"
	"github.com/lvillar/weeklyreport/layout"
	logtest "github.com/lvillar/weeklyreport/logging/test"
	"github.com/lvillar/weeklyreport/pdfsurface"
	"github.com/lvillar/weeklyreport/report"
	"github.com/lvillar/weeklyreport/timesheet"
)

var stamp = time.Date(2025, 9, 10, 8, 0, 0, 0, time.UTC)

func document() report.Document {
	var rows []timesheet.ReportRow
	for i := 0; i < 45; i++ {
		class := timesheet.Service
		if i%3 == 0 {
			class = timesheet.Support
		}
		rows = append(rows, timesheet.ReportRow{
			Date:           timesheet.MustParseDate("2025-08-26"),
			User:           "Anna Schmidt",
			TaskName:       "Umstellung Mailserver",
			ProjectName:    "IT-Betreuung",
			Description:    strings.Repeat("Postfächer migriert und geprüft. ", 1+i%4),
			Hours:          1.5,
			Classification: class,
			CustomerID:     "4711",
			CustomerName:   "Müller & Söhne GmbH",
		})
	}
	return report.Document{
		Packet:    timesheet.GroupByCustomer(rows)[0],
		WeekLabel: "KW 35 (2025-08-25 – 2025-08-31)",
		IssueDate: stamp,
	}
}

func render(t *testing.T, opts ...pdfsurface.Option) (*pdfsurface.Surface, []byte) {
	t.Helper()
	cfg := report.DefaultConfig()
	s := pdfsurface.New(cfg.Geometry, append([]pdfsurface.Option{pdfsurface.WithTimestamp(stamp)}, opts...)...)
	res, err := report.Compose(s, cfg, document())
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	var buf bytes.Buffer
	if err := s.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
	if res.Pages != s.PageCount() {
		t.Errorf("composer counted %d pages, document has %d", res.Pages, s.PageCount())
	}
	return s, buf.Bytes()
}

func TestOutputIsPDF(t *testing.T) {
	s, data := render(t)
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("missing PDF header: %q", data[:min(len(data), 16)])
	}
	if s.PageCount() < 2 {
		t.Errorf("expected a multi-page document, got %d pages", s.PageCount())
	}
	t.Logf("rendered %d pages, %d bytes", s.PageCount(), len(data))
}

func TestOutputIsDeterministic(t *testing.T) {
	_, a := render(t)
	_, b := render(t)
	if !bytes.Equal(a, b) {
		t.Errorf("two renders of the same input differ (%d and %d bytes)", len(a), len(b))
	}
}

func TestOutputWithoutPages(t *testing.T) {
	s := pdfsurface.New(layout.A4())
	if err := s.Output(&bytes.Buffer{}); err == nil {
		t.Fatal("expected an error for an empty document")
	}
}

func TestMissingFontFallsBack(t *testing.T) {
	log := logtest.New()
	s := pdfsurface.New(layout.A4(), pdfsurface.WithFontDir(t.TempDir()), pdfsurface.WithLogger(log))
	s.LoadFonts("Calibri")

	if got := log.Warnings("Calibri"); len(got) != 1 {
		t.Fatalf("expected one warning about Calibri, got %q", got)
	}
	f := fontmetrics.Font{Family: "Calibri", Size: 10}
	h := fontmetrics.Font{Family: "Helvetica", Size: 10}
	if got, want := s.Width("Stundenübersicht", f), s.Width("Stundenübersicht", h); got != want {
		t.Errorf("fallback width = %v, want Helvetica width %v", got, want)
	}

	// Resolving again must not warn twice.
	s.Width("x", f)
	if got := log.Warnings("Calibri"); len(got) != 1 {
		t.Errorf("warnings after reuse = %q", got)
	}
}

func TestBrokenFontFallsBack(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"calibri.ttf", "calibrib.ttf"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("not a font"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	log := logtest.New()
	s := pdfsurface.New(layout.A4(), pdfsurface.WithFontDir(dir), pdfsurface.WithLogger(log))
	s.AddPage()
	s.Text(20, 20, 100, 5, "Grüße", layout.TextStyle{Font: fontmetrics.Font{Family: "Calibri", Size: 10}})
	if len(log.Warnings("Calibri")) == 0 {
		t.Error("expected a warning for the broken font")
	}
	if err := s.Output(&bytes.Buffer{}); err != nil {
		t.Errorf("a broken font must not fail the document: %v", err)
	}
}

func TestGoFallbackFamily(t *testing.T) {
	s := pdfsurface.New(layout.A4(), pdfsurface.WithFallbackFamily(pdfsurface.GoFamily))
	s.AddPage()
	f := fontmetrics.Font{Family: "Calibri", Size: 10}
	if w := s.Width("Grüße → Ω", f); w <= 0 {
		t.Errorf("width = %v", w)
	}
	if s.Width("Zeit", f.Bold()) <= s.Width("Zeit", f)*0.9 {
		t.Error("bold face should not be narrower than regular")
	}
	s.Text(20, 20, 100, 5, "Grüße → Ω", layout.TextStyle{Font: f})
	var buf bytes.Buffer
	if err := s.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
	if len(s.Warnings()) != 1 {
		t.Errorf("warnings = %q", s.Warnings())
	}
}

func TestWidthIsStable(t *testing.T) {
	s := pdfsurface.New(layout.A4())
	s.AddPage()
	f := fontmetrics.Font{Family: "Helvetica", Size: 10}
	before := s.Width("Beschreibung", f)
	s.Text(20, 20, 50, 5, "Titel", layout.TextStyle{Font: fontmetrics.Font{Family: "Times", Style: "B", Size: 14}})
	if after := s.Width("Beschreibung", f); after != before {
		t.Errorf("width changed after drawing: %v != %v", after, before)
	}
	if s.Width("Beschreibung", f.Bold()) <= before {
		t.Error("bold Helvetica must be wider")
	}
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: 80, B: 160, A: 255})
		}
	}
	return img
}

func TestRegisterImage(t *testing.T) {
	var pngData, bmpData bytes.Buffer
	if err := png.Encode(&pngData, testImage()); err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(&bmpData, testImage()); err != nil {
		t.Fatal(err)
	}

	log := logtest.New()
	s := pdfsurface.New(layout.A4(), pdfsurface.WithLogger(log))
	if err := s.RegisterImage("logo", &pngData); err != nil {
		t.Fatalf("png: %v", err)
	}
	if err := s.RegisterImage("stamp", &bmpData); err != nil {
		t.Fatalf("bmp: %v", err)
	}
	if err := s.RegisterImage("broken", strings.NewReader("GIF89a")); err == nil {
		t.Error("expected an error for a truncated image")
	}

	s.AddPage()
	s.Image("logo", 130, 10, 60, 0)
	s.Image("stamp", 20, 10, 20, 10)
	s.Image("missing", 20, 30, 20, 10)
	if got := log.Warnings("missing"); len(got) != 1 {
		t.Errorf("warnings = %q", got)
	}
	if err := s.Output(&bytes.Buffer{}); err != nil {
		t.Fatalf("output: %v", err)
	}
}

func TestRegisterBackground(t *testing.T) {
	// A one page PDF produced by another surface serves as letterhead.
	src := pdfsurface.New(layout.A4(), pdfsurface.WithTimestamp(stamp))
	src.AddPage()
	src.Text(20, 280, 170, 5, "Firma GmbH", layout.TextStyle{Font: fontmetrics.Font{Family: "Helvetica", Size: 8}, Align: layout.AlignCenter})
	var letterhead bytes.Buffer
	if err := src.Output(&letterhead); err != nil {
		t.Fatal(err)
	}

	s := pdfsurface.New(layout.A4())
	if err := s.RegisterBackground("bg", bytes.NewReader(letterhead.Bytes())); err != nil {
		t.Fatalf("register: %v", err)
	}
	s.AddPage()
	s.Image("bg", 0, 0, 210, 297)
	if err := s.Output(&bytes.Buffer{}); err != nil {
		t.Fatalf("output: %v", err)
	}
}

func TestRegisterBackgroundRejectsGarbage(t *testing.T) {
	s := pdfsurface.New(layout.A4())
	if err := s.RegisterBackground("junk", strings.NewReader("%PDF-1.4 garbage")); err == nil {
		t.Error("expected an error for a broken PDF")
	}
	s.AddPage()
	s.Image("junk", 0, 0, 210, 297)
	if len(s.Warnings()) != 1 {
		t.Errorf("warnings = %q", s.Warnings())
	}
}

func TestBarcode(t *testing.T) {
	s := pdfsurface.New(layout.A4())
	s.AddPage()
	for _, kind := range []string{pdfsurface.Code128, pdfsurface.QR} {
		if err := s.Barcode(kind, "AR-20250910-4711", 130, 35, 40, 12); err != nil {
			t.Errorf("%s: %v", kind, err)
		}
	}
	if err := s.Barcode(pdfsurface.Code128, "Rechnung €", 130, 35, 40, 12); err == nil {
		t.Error("expected an error for a code outside the code128 charset")
	}
	if err := s.Barcode("datamatrix", "x", 130, 35, 40, 12); err == nil {
		t.Error("expected an error for an unknown kind")
	}
	if err := s.Output(&bytes.Buffer{}); err != nil {
		t.Fatalf("failed barcodes must not fail the document: %v", err)
	}
}
