package weeklyreport_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/lvillar/weeklyreport"
	"github.com/lvillar/weeklyreport/internal/metrics"
	logtest "github.com/lvillar/weeklyreport/logging/test"
	"github.com/lvillar/weeklyreport/report"
	"github.com/lvillar/weeklyreport/timesheet"
)

var issued = time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)

const week = "KW 35 (2025-08-25 – 2025-08-31)"

func rows() []timesheet.ReportRow {
	base := timesheet.ReportRow{
		Date:        timesheet.MustParseDate("2025-08-27"),
		User:        "Jonas Weber",
		TaskName:    "Backup prüfen",
		ProjectName: "Wartungsvertrag",
	}
	var out []timesheet.ReportRow
	for i, c := range []struct {
		id, name string
		class    timesheet.Classification
		hours    float64
	}{
		{"100", "Bäckerei Krause", timesheet.Service, 1.5},
		{"200", "Stadtwerke Nord", timesheet.Support, 0.5},
		{"100", "Bäckerei Krause", timesheet.Kulanz, 0.25},
		{"200", "Stadtwerke Nord", timesheet.Support, 3},
	} {
		r := base
		r.WorklogID = i + 1
		r.CustomerID, r.CustomerName = c.id, c.name
		r.Classification, r.Hours = c.class, c.hours
		r.Description = "Sicherung kontrolliert, Protokolle archiviert."
		out = append(out, r)
	}
	return out
}

func newGenerator(t *testing.T, opts ...weeklyreport.Option) *weeklyreport.Generator {
	t.Helper()
	gen, err := weeklyreport.New(append([]weeklyreport.Option{weeklyreport.WithIssueDate(issued)}, opts...)...)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return gen
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := report.DefaultConfig()
	cfg.DetailColumns[4].Width += 30
	_, err := weeklyreport.New(weeklyreport.WithConfig(cfg))
	if !errors.Is(err, weeklyreport.ErrInvalidConfig) || !errors.Is(err, report.ErrConfig) {
		t.Fatalf("expected an invalid configuration error, got %v", err)
	}

	_, err = weeklyreport.New(weeklyreport.WithBarcode("datamatrix"))
	if !errors.Is(err, weeklyreport.ErrInvalidConfig) {
		t.Fatalf("expected an invalid configuration error for the barcode kind, got %v", err)
	}
}

func TestRender(t *testing.T) {
	gen := newGenerator(t, weeklyreport.WithBarcode("code128"))
	p := timesheet.GroupByCustomer(rows())[0]

	var buf bytes.Buffer
	res, err := gen.Render(&buf, p, week)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
	if res.Pages < 1 || res.Rows != 2 || res.TotalHours != 1.75 {
		t.Errorf("result = %+v", res)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %q", res.Warnings)
	}
	t.Logf("rendered %d pages, %d bytes", res.Pages, buf.Len())
}

func TestRenderRejectsIncompletePackets(t *testing.T) {
	gen := newGenerator(t)
	tests := map[string]struct {
		packet timesheet.CustomerPacket
		want   error
	}{
		"no customer": {timesheet.CustomerPacket{CustomerName: "Anonym", Rows: rows()}, weeklyreport.ErrNoCustomer},
		"no rows":     {timesheet.CustomerPacket{CustomerID: "100"}, weeklyreport.ErrNoRows},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := gen.Render(&buf, tc.packet, week)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			var re *weeklyreport.RenderError
			if !errors.As(err, &re) || re.Op != "compose" {
				t.Errorf("expected a compose RenderError, got %#v", err)
			}
			if buf.Len() != 0 {
				t.Error("nothing must be written for a rejected packet")
			}
		})
	}
}

func TestMissingResourcesFallBack(t *testing.T) {
	log := logtest.New()
	gen := newGenerator(t,
		weeklyreport.WithLogger(log),
		weeklyreport.WithLogo(filepath.Join(t.TempDir(), "logo.png")),
		weeklyreport.WithFontDir(t.TempDir()),
		weeklyreport.WithFontFamily("Calibri"),
	)
	p := timesheet.GroupByCustomer(rows())[1]
	res, err := gen.Render(&bytes.Buffer{}, p, week)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(log.Warnings("logo")) != 1 {
		t.Errorf("logo warnings = %q", log.Warnings("logo"))
	}
	if len(log.Warnings("Calibri")) != 1 {
		t.Errorf("font warnings = %q", log.Warnings("Calibri"))
	}
	if len(res.Warnings) != 1 {
		t.Errorf("result warnings = %q", res.Warnings)
	}
}

func TestRenderAll(t *testing.T) {
	m := metrics.New()
	gen := newGenerator(t, weeklyreport.WithMetrics(m), weeklyreport.WithConcurrency(2))
	dir := filepath.Join(t.TempDir(), "out")

	packets := timesheet.GroupByCustomer(rows())
	packets = append(packets, timesheet.CustomerPacket{CustomerID: "300", CustomerName: "Leer"})
	outcomes, err := gen.RenderAll(context.Background(), dir, packets, week)
	if !errors.Is(err, weeklyreport.ErrNoRows) {
		t.Fatalf("expected the empty packet to fail, got %v", err)
	}

	var names []string
	for _, o := range outcomes[:2] {
		if o.Err != nil {
			t.Fatalf("%s: %v", o.CustomerName, o.Err)
		}
		if _, err := os.Stat(o.Path); err != nil {
			t.Fatal(err)
		}
		names = append(names, filepath.Base(o.Path))
	}
	want := []string{
		"Arbeitszeitreport_Bäckerei_Krause_KW_35_(2025-08-25_–_2025-08-31).pdf",
		"Arbeitszeitreport_Stadtwerke_Nord_KW_35_(2025-08-25_–_2025-08-31).pdf",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}
	if outcomes[2].Path != "" {
		t.Errorf("failed report left a file: %s", outcomes[2].Path)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("expected 2 files, got %d", len(entries))
	}

	families, err := m.Gatherer().Gather()
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "weeklyreport_documents_total" {
			continue
		}
		for _, mm := range mf.GetMetric() {
			got[mm.GetLabel()[0].GetValue()] = mm.GetCounter().GetValue()
		}
	}
	if diff := cmp.Diff(map[string]float64{"rendered": 2, "failed": 1}, got); diff != "" {
		t.Errorf("documents (-want +got):\n%s", diff)
	}
}

func TestRenderAllCancelled(t *testing.T) {
	gen := newGenerator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	outcomes, err := gen.RenderAll(ctx, dir, timesheet.GroupByCustomer(rows()), week)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	for _, o := range outcomes {
		if !errors.Is(o.Err, context.Canceled) {
			t.Errorf("%s: %v", o.CustomerName, o.Err)
		}
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("no report must be written, found %d files", len(entries))
	}
}
