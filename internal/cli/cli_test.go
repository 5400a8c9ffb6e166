package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const export = `{
  "rows": [
    {"worklog_id": 1, "date": "2025-08-26", "user": "Anna Schmidt", "task_name": "Druckerproblem",
     "project_id": "P1", "project_name": "IT-Betreuung", "description": "Treiber aktualisiert",
     "hours": 1.5, "classification": "service", "customer_id": "4711", "customer_name": "Muster GmbH"},
    {"worklog_id": 2, "date": "2025-08-28", "user": "Jonas Weber", "task_name": "Backup",
     "project_id": "P2", "project_name": "Wartung", "description": "Sicherung geprüft",
     "hours": 0.5, "customer_id": "815", "customer_name": "Stadtwerke Nord"},
    {"worklog_id": 3, "date": "2025-09-02", "user": "Jonas Weber", "task_name": "Backup",
     "project_id": "P2", "project_name": "Wartung", "description": "außerhalb der Woche",
     "hours": 2, "customer_id": "815", "customer_name": "Stadtwerke Nord"}
  ],
  "customers": {"4711": {"address": ["Hauptstraße 1", "12345 Musterstadt"]}}
}`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worklogs.json")
	if err := os.WriteFile(path, []byte(export), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWeekCommand(t *testing.T) {
	out, _, err := execute(t, "week", "--reference-date", "2025-09-10")
	if err != nil {
		t.Fatal(err)
	}
	if want := "KW 35 (2025-08-25 – 2025-08-31)\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestWeekCommandFromEnvironment(t *testing.T) {
	t.Setenv("WEEKLYREPORT_WEEK_REFERENCE_DATE", "2025-09-10")
	t.Setenv("WEEKLYREPORT_WEEK_WEEK_OFFSET", "7")
	out, _, err := execute(t, "week")
	if err != nil {
		t.Fatal(err)
	}
	if want := "KW 36 (2025-09-01 – 2025-09-07)\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestFlagsWinOverEnvironment(t *testing.T) {
	t.Setenv("WEEKLYREPORT_WEEK_REFERENCE_DATE", "2025-01-01")
	out, _, err := execute(t, "week", "--reference-date", "2025-09-10")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "KW 35 ") {
		t.Errorf("got %q", out)
	}
}

func TestInvalidReferenceDate(t *testing.T) {
	if _, _, err := execute(t, "week", "--reference-date", "10.09.2025"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRenderRequiresInput(t *testing.T) {
	if _, _, err := execute(t, "render"); err == nil || !strings.Contains(err.Error(), "--input") {
		t.Fatalf("got %v", err)
	}
}

func TestRenderDryRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	out, _, err := execute(t, "render", "-i", writeExport(t), "-o", dir, "--reference-date", "2025-09-10", "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	want := "4711\tMuster GmbH\t1 rows\t1.5h\n815\tStadtwerke Nord\t1 rows\t0.5h\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("a dry run must not create %s", dir)
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	prom := filepath.Join(t.TempDir(), "weeklyreport.prom")
	out, logs, err := execute(t, "render",
		"--input", writeExport(t),
		"--output-dir", dir,
		"--reference-date", "2025-09-10",
		"--projects", "P2",
		"--metrics-textfile", prom,
		"--log-format", "json",
	)
	if err != nil {
		t.Fatalf("render: %v\n%s", err, logs)
	}

	want := filepath.Join(dir, "Arbeitszeitreport_Stadtwerke_Nord_KW_35_(2025-08-25_–_2025-08-31).pdf")
	if !strings.HasPrefix(out, want+"\t1 page(s)\t0.5h") {
		t.Errorf("output = %q", out)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("report is not a PDF")
	}
	if !strings.Contains(logs, `"run_id"`) {
		t.Errorf("logs lack the run id:\n%s", logs)
	}

	metrics, err := os.ReadFile(prom)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(metrics), `weeklyreport_documents_total{status="rendered"} 1`) {
		t.Errorf("metrics:\n%s", metrics)
	}
}
