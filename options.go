package weeklyreport

import (
	"time"

	"github.com/lvillar/weeklyreport/internal/metrics"
	"github.com/lvillar/weeklyreport/logging"
	"github.com/lvillar/weeklyreport/report"
)

// Option configures a Generator created with New.
type Option func(*generatorConfig)

type generatorConfig struct {
	layout      report.Config
	fontDir     string
	family      string
	fallback    string
	logo        string
	letterhead  string
	barcode     string
	issued      time.Time
	concurrency int
	logger      logging.Logger
	metrics     *metrics.Recorder
}

// WithConfig sets the layout configuration. The default is report.DefaultConfig().
func WithConfig(cfg report.Config) Option {
	return func(c *generatorConfig) {
		c.layout = cfg
	}
}

// WithFontDir sets the directory holding TrueType files (<family>.ttf and <family>b.ttf).
func WithFontDir(dir string) Option {
	return func(c *generatorConfig) {
		c.fontDir = dir
	}
}

// WithFontFamily replaces the family of every font in the layout, keeping styles and sizes.
func WithFontFamily(family string) Option {
	return func(c *generatorConfig) {
		c.family = family
	}
}

// WithFallbackFamily sets the family used when a font cannot be loaded: a core PDF
// font such as "Helvetica" or "Go" for the embedded Go fonts.
func WithFallbackFamily(family string) Option {
	return func(c *generatorConfig) {
		c.fallback = family
	}
}

// WithLogo sets the logo image drawn in the page header. Without a logo the text logo
// of the letterhead configuration is drawn.
func WithLogo(path string) Option {
	return func(c *generatorConfig) {
		c.logo = path
	}
}

// WithLetterhead sets a PDF whose first page is drawn as background of every page.
func WithLetterhead(path string) Option {
	return func(c *generatorConfig) {
		c.letterhead = path
	}
}

// WithBarcode prints the invoice number as a barcode of the given kind
// ("code128", "qr" or "pdf417") on page one.
func WithBarcode(kind string) Option {
	return func(c *generatorConfig) {
		c.barcode = kind
	}
}

// WithIssueDate sets the issue date printed in the reports. It defaults to the day New
// was called.
func WithIssueDate(t time.Time) Option {
	return func(c *generatorConfig) {
		c.issued = t
	}
}

// WithConcurrency limits the number of reports RenderAll renders at once.
func WithConcurrency(n int) Option {
	return func(c *generatorConfig) {
		c.concurrency = n
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(c *generatorConfig) {
		c.logger = l
	}
}

// WithMetrics records per-document metrics in m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(c *generatorConfig) {
		c.metrics = m
	}
}
