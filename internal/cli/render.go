package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/lvillar/weeklyreport"
	"github.com/lvillar/weeklyreport/internal/metrics"
	"github.com/lvillar/weeklyreport/logging"
	"github.com/lvillar/weeklyreport/report"
	"github.com/lvillar/weeklyreport/timesheet"
)

type renderParams struct {
	input           string
	outputDir       string
	weekOffset      int
	referenceDate   string
	projects        []string
	config          string
	fontDir         string
	fontFamily      string
	fallbackFont    string
	logo            string
	letterhead      string
	barcode         string
	concurrency     int
	retentionDays   int
	dryRun          bool
	metricsTextfile string
}

func newRenderCommand(root *rootParams) *cobra.Command {
	params := &renderParams{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one report per customer for the reporting week",
		Long: `Render one PDF report per customer for the reporting week.

The reporting week is the Monday to Sunday week containing the reference date minus
--week-offset days. Rows outside that week are ignored. Reports are written to
--output-dir as Arbeitszeitreport_<customer>_<week>.pdf; reports older than
--retention-days are removed from there first.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkEnvironmentVariables(cmd); err != nil {
				return err
			}
			if params.input == "" {
				return errors.New("specify the worklog export with --input")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, runID, err := root.logger(cmd)
			if err != nil {
				return err
			}
			return runRender(cmd, params, log, runID)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&params.input, "input", "i", "", "set the JSON worklog export to read")
	f.StringVarP(&params.outputDir, "output-dir", "o", "reports", "set the directory reports are written to")
	f.IntVar(&params.weekOffset, "week-offset", timesheet.DefaultWeekOffset, "set how many days the reporting week lags behind the reference date")
	f.StringVar(&params.referenceDate, "reference-date", "", "set the reference date (YYYY-MM-DD, default today)")
	f.StringSliceVar(&params.projects, "projects", nil, "only report rows of these project ids")
	f.StringVarP(&params.config, "config", "c", "", "set the layout configuration file (YAML)")
	f.StringVar(&params.fontDir, "font-dir", "", "set the directory holding <family>.ttf and <family>b.ttf")
	f.StringVar(&params.fontFamily, "font-family", "", "set the font family of all text")
	f.StringVar(&params.fallbackFont, "fallback-font", "Helvetica", "set the family used when a font cannot be loaded (a core font or Go)")
	f.StringVar(&params.logo, "logo", "", "set the logo image drawn in the page header")
	f.StringVar(&params.letterhead, "letterhead", "", "set a PDF whose first page is drawn behind every page")
	f.StringVar(&params.barcode, "barcode", "", "print the invoice number as barcode (code128, qr, pdf417)")
	f.IntVar(&params.concurrency, "concurrency", 4, "set how many reports are rendered at once")
	f.IntVar(&params.retentionDays, "retention-days", int(timesheet.DefaultRetention/(24*time.Hour)), "remove reports older than this many days (0 keeps all)")
	f.BoolVar(&params.dryRun, "dry-run", false, "list the reports that would be rendered without writing them")
	f.StringVar(&params.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics of the run to this file")
	return cmd
}

func referenceDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	d, err := timesheet.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --reference-date: %w", err)
	}
	return d.Time, nil
}

// packets loads the export and returns the customer packets of week.
func packets(params *renderParams, week timesheet.Week) ([]timesheet.CustomerPacket, error) {
	ds, err := timesheet.LoadFile(params.input)
	if err != nil {
		return nil, err
	}
	rows := ds.InWeek(week)
	if len(params.projects) > 0 {
		rows = timesheet.FilterProjects(rows, params.projects)
	}
	weekly := &timesheet.Dataset{Rows: rows, Customers: ds.Customers}
	return weekly.Packets(), nil
}

func runRender(cmd *cobra.Command, params *renderParams, log logging.Logger, runID string) error {
	now := time.Now()
	ref, err := referenceDate(params.referenceDate, now)
	if err != nil {
		return err
	}
	week := timesheet.ReportingWeek(ref, params.weekOffset)
	log = log.WithFields(map[string]any{"week": week.Label()})

	cfg := report.DefaultConfig()
	if params.config != "" {
		if cfg, err = report.LoadConfigFile(params.config); err != nil {
			return err
		}
	}

	list, err := packets(params, week)
	if err != nil {
		return err
	}
	log.Info("%d customer(s) with worklogs in %s", len(list), week.Label())

	m := metrics.New()
	defer func() {
		m.Done(time.Now())
		if err := m.WriteTextfile(params.metricsTextfile); err != nil {
			log.Error("writing metrics: %v", err)
		}
	}()

	out := cmd.OutOrStdout()
	if params.dryRun {
		for _, p := range list {
			m.Skipped()
			fmt.Fprintf(out, "%s\t%s\t%d rows\t%s\n", p.CustomerID, p.CustomerName, len(p.Rows),
				timesheet.FormatHours(p.TotalHours()))
		}
		return nil
	}

	if params.retentionDays > 0 {
		removed, err := timesheet.CleanupOld(params.outputDir, time.Duration(params.retentionDays)*24*time.Hour, now)
		if err != nil {
			log.Warn("cleanup: %v", err)
		}
		for _, path := range removed {
			log.Debug("removed %s", path)
		}
	}

	gen, err := weeklyreport.New(
		weeklyreport.WithConfig(cfg),
		weeklyreport.WithFontDir(params.fontDir),
		weeklyreport.WithFontFamily(params.fontFamily),
		weeklyreport.WithFallbackFamily(params.fallbackFont),
		weeklyreport.WithLogo(params.logo),
		weeklyreport.WithLetterhead(params.letterhead),
		weeklyreport.WithBarcode(params.barcode),
		weeklyreport.WithIssueDate(now),
		weeklyreport.WithConcurrency(params.concurrency),
		weeklyreport.WithLogger(log),
		weeklyreport.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	outcomes, err := gen.RenderAll(cmd.Context(), params.outputDir, list, week.Label())
	printOutcomes(out, outcomes)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}
	return nil
}

func printOutcomes(w io.Writer, outcomes []weeklyreport.Outcome) {
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "FAILED\t%s\t%v\n", o.CustomerName, o.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%d page(s)\t%s\n", o.Path, o.Result.Pages, timesheet.FormatHours(o.Result.TotalHours))
	}
}
