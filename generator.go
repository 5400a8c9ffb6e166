// Package weeklyreport renders weekly customer timesheet reports as PDF.
//
// A Generator turns customer packets (the worklog rows of one customer in the reporting
// week) into paginated reports: address block, metadata grid, a summary of hours per
// classification and one detail table per classification, with rows that wrap,
// hyphenate and continue on the next page under a repeated header.
//
// Example:
//
//	gen, err := weeklyreport.New(
//	    weeklyreport.WithFontDir("fonts"),
//	    weeklyreport.WithFontFamily("Calibri"),
//	    weeklyreport.WithLogo("fonts/logo.png"),
//	)
//	if err != nil {
//	    return err
//	}
//	res, err := gen.Render(w, packet, week.Label())
package weeklyreport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lvillar/weeklyreport/internal/metrics"
	"github.com/lvillar/weeklyreport/logging"
	"github.com/lvillar/weeklyreport/pdfsurface"
	"github.com/lvillar/weeklyreport/report"
	"github.com/lvillar/weeklyreport/timesheet"
)

// Names under which the header images are registered on each surface.
const (
	logoImage       = "logo"
	letterheadImage = "letterhead"
)

// Generator renders reports. Its configuration and resources are read-only after New,
// so one Generator can render many reports concurrently.
type Generator struct {
	cfg         report.Config
	fontDir     string
	fallback    string
	issued      time.Time
	concurrency int
	log         logging.Logger
	metrics     *metrics.Recorder

	logo       []byte
	letterhead []byte
}

// New returns a Generator. The layout configuration is validated here, so a
// misconfigured geometry fails before any report is started. Missing logo or
// letterhead files are logged and ignored.
func New(opts ...Option) (*Generator, error) {
	c := generatorConfig{
		layout:      report.DefaultConfig(),
		fallback:    "Helvetica",
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = logging.NewNoOpLogger()
	}
	if c.family != "" {
		c.layout = c.layout.WithFontFamily(c.family)
	}
	if c.barcode != "" {
		c.layout.Barcode.Kind = c.barcode
	}
	if err := c.layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.concurrency < 1 {
		c.concurrency = 1
	}
	if c.issued.IsZero() {
		y, m, d := time.Now().Date()
		c.issued = time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	}

	g := &Generator{
		cfg:         c.layout,
		fontDir:     c.fontDir,
		fallback:    c.fallback,
		issued:      c.issued,
		concurrency: c.concurrency,
		log:         c.logger,
		metrics:     c.metrics,
	}
	g.logo = g.readResource("logo", c.logo)
	g.letterhead = g.readResource("letterhead", c.letterhead)
	return g, nil
}

func (g *Generator) readResource(kind, path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		g.log.Warn("%s %s not available: %v", kind, path, err)
		g.metrics.Warning(kind)
		return nil
	}
	return data
}

// Config returns the validated layout configuration.
func (g *Generator) Config() report.Config {
	return g.cfg
}

// IssueDate returns the date printed in the reports.
func (g *Generator) IssueDate() time.Time {
	return g.issued
}

// Render writes the report of p for the week labelled weekLabel to w.
func (g *Generator) Render(w io.Writer, p timesheet.CustomerPacket, weekLabel string) (report.Result, error) {
	start := time.Now()
	res, err := g.render(w, p, weekLabel)
	if err != nil {
		g.metrics.Failed()
		return res, err
	}
	g.metrics.Rendered(res.Pages, res.Rows, res.Splits, time.Since(start))
	return res, nil
}

func (g *Generator) render(w io.Writer, p timesheet.CustomerPacket, weekLabel string) (report.Result, error) {
	if p.CustomerID == "" {
		return report.Result{}, newRenderError("compose", p.CustomerName, ErrNoCustomer)
	}
	if len(p.Rows) == 0 {
		return report.Result{}, newRenderError("compose", p.CustomerID, ErrNoRows)
	}
	log := g.log.WithFields(map[string]any{"customer": p.CustomerID})

	s := pdfsurface.New(g.cfg.Geometry,
		pdfsurface.WithFontDir(g.fontDir),
		pdfsurface.WithFallbackFamily(g.fallback),
		pdfsurface.WithLogger(log),
		pdfsurface.WithTimestamp(g.issued),
		pdfsurface.WithInfo(fmt.Sprintf("%s %s", g.cfg.Labels.Title, weekLabel), p.CustomerName),
	)
	s.LoadFonts(g.cfg.FontFamilies()...)

	doc := report.Document{
		Packet:    p,
		WeekLabel: weekLabel,
		IssueDate: g.issued,
	}
	var warnings []string
	if g.logo != nil {
		if err := s.RegisterImage(logoImage, bytes.NewReader(g.logo)); err != nil {
			warnings = append(warnings, err.Error())
			g.metrics.Warning("logo")
		} else {
			doc.Logo = logoImage
		}
	}
	if g.letterhead != nil {
		if err := s.RegisterBackground(letterheadImage, bytes.NewReader(g.letterhead)); err != nil {
			warnings = append(warnings, err.Error())
			g.metrics.Warning("letterhead")
		} else {
			doc.Background = letterheadImage
		}
	}

	res, err := report.Compose(s, g.cfg, doc)
	if err != nil {
		return res, newRenderError("compose", p.CustomerID, err)
	}
	for _, msg := range res.Warnings {
		g.metrics.Warning("barcode")
		log.Warn("%s", msg)
	}
	for _, msg := range s.Warnings() {
		g.metrics.Warning(resourceOf(msg))
	}
	for _, msg := range warnings {
		log.Warn("%s", msg)
	}
	res.Warnings = append(append(warnings, s.Warnings()...), res.Warnings...)

	if err := s.Output(w); err != nil {
		return res, newRenderError("output", p.CustomerID, err)
	}
	log.Debug("rendered %d rows on %d pages (%d splits)", res.Rows, res.Pages, res.Splits)
	return res, nil
}

func resourceOf(warning string) string {
	if strings.Contains(warning, "font") {
		return "font"
	}
	return "image"
}

// RenderFile renders the report of p into dir, named after the customer and the week,
// and returns the path written. The file is removed again if rendering fails.
func (g *Generator) RenderFile(dir string, p timesheet.CustomerPacket, weekLabel string) (string, report.Result, error) {
	path := filepath.Join(dir, timesheet.Filename(p.CustomerName, weekLabel))
	f, err := os.Create(path)
	if err != nil {
		g.metrics.Failed()
		return "", report.Result{}, newRenderError("create", p.CustomerID, err)
	}
	res, err := g.Render(f, p, weekLabel)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = newRenderError("output", p.CustomerID, cerr)
	}
	if err != nil {
		os.Remove(path)
		return "", res, err
	}
	return path, res, nil
}

// Outcome is the result of rendering one packet with RenderAll.
type Outcome struct {
	CustomerID   string
	CustomerName string
	Path         string
	Result       report.Result
	Err          error
}

// RenderAll renders every packet into dir, up to the configured concurrency at a time.
// A failed report does not stop the others; the returned error joins all failures.
// Cancelling ctx stops starting new reports; reports already started are finished.
// Outcomes are returned in packet order.
func (g *Generator) RenderAll(ctx context.Context, dir string, packets []timesheet.CustomerPacket, weekLabel string) ([]Outcome, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("weeklyreport: %w", err)
	}

	outcomes := make([]Outcome, len(packets))
	var mu sync.Mutex
	var errs []error

	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for i, p := range packets {
		i, p := i, p
		outcomes[i] = Outcome{CustomerID: p.CustomerID, CustomerName: p.CustomerName}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				g.metrics.Skipped()
				return nil
			}
			path, res, err := g.RenderFile(dir, p, weekLabel)
			outcomes[i].Path, outcomes[i].Result, outcomes[i].Err = path, res, err
			if err != nil {
				g.log.Error("report for %s failed: %v", p.CustomerName, err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			g.log.Info("report for %s written to %s (%d pages)", p.CustomerName, path, res.Pages)
			return nil
		})
	}
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return outcomes, errors.Join(errs...)
}
