package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lvillar/weeklyreport/fontmetrics"
	"github.com/lvillar/weeklyreport/layout"
	"github.com/lvillar/weeklyreport/table"
)

// ErrConfig is matched by every configuration error.
var ErrConfig = errors.New("report: invalid config")

// AddressBlock places the recipient address at the top right of the first page.
type AddressBlock struct {
	X          float64          `yaml:"x"`
	Y          float64          `yaml:"y"`
	Width      float64          `yaml:"width"`
	LineHeight float64          `yaml:"lineHeight"`
	NameFont   fontmetrics.Font `yaml:"nameFont"`
	LineFont   fontmetrics.Font `yaml:"lineFont"`

	// WrapGap separates a wrapped customer name from the address lines.
	WrapGap float64 `yaml:"wrapGap"`

	// Placeholder is printed when a packet carries no address.
	Placeholder []string `yaml:"placeholder"`
}

// Sections holds the positions, fonts and spacing of the headings and the metadata
// grid. Advance values are measured from the top of the block.
type Sections struct {
	TitleY       float64          `yaml:"titleY"`
	TitleFont    fontmetrics.Font `yaml:"titleFont"`
	TitleHeight  float64          `yaml:"titleHeight"`
	TitleAdvance float64          `yaml:"titleAdvance"`

	MetaLabelFont fontmetrics.Font `yaml:"metaLabelFont"`
	MetaValueFont fontmetrics.Font `yaml:"metaValueFont"`
	MetaRowHeight float64          `yaml:"metaRowHeight"`
	MetaPadding   float64          `yaml:"metaPadding"`
	MetaAdvance   float64          `yaml:"metaAdvance"`

	HeadingFont    fontmetrics.Font `yaml:"headingFont"`
	HeadingHeight  float64          `yaml:"headingHeight"`
	HeadingAdvance float64          `yaml:"headingAdvance"`

	SummaryRowHeight float64 `yaml:"summaryRowHeight"`
	DetailsSpace     float64 `yaml:"detailsSpace"`

	GroupSpace    float64          `yaml:"groupSpace"`
	GroupFont     fontmetrics.Font `yaml:"groupFont"`
	GroupHeight   float64          `yaml:"groupHeight"`
	GroupAdvance  float64          `yaml:"groupAdvance"`
	GroupMinRunes int              `yaml:"groupMinRunes"`

	ProjectFont     fontmetrics.Font `yaml:"projectFont"`
	ProjectHeight   float64          `yaml:"projectHeight"`
	ProjectAdvance  float64          `yaml:"projectAdvance"`
	ProjectMinRunes int              `yaml:"projectMinRunes"`

	// TableAdvance is the space after each detail table.
	TableAdvance float64 `yaml:"tableAdvance"`
}

// Labels are the fixed texts of the report.
type Labels struct {
	Title            string `yaml:"title"`
	InvoiceNumber    string `yaml:"invoiceNumber"`
	InvoicePrefix    string `yaml:"invoicePrefix"`
	Description      string `yaml:"description"`
	DescriptionValue string `yaml:"descriptionValue"`
	IssueDate        string `yaml:"issueDate"`
	Source           string `yaml:"source"`
	SourceValue      string `yaml:"sourceValue"`
	CustomerNumber   string `yaml:"customerNumber"`
	Reference        string `yaml:"reference"`
	Summary          string `yaml:"summary"`
	Details          string `yaml:"details"`
	Total            string `yaml:"total"`
	OrderElement     string `yaml:"orderElement"`
}

// Letterhead configures the repeating page header and footer.
type Letterhead struct {
	LogoX     float64 `yaml:"logoX"`
	LogoY     float64 `yaml:"logoY"`
	LogoWidth float64 `yaml:"logoWidth"`

	TextLogo       string           `yaml:"textLogo"`
	TextLogoFont   fontmetrics.Font `yaml:"textLogoFont"`
	TextLogoColor  layout.Color     `yaml:"textLogoColor"`
	TextLogoY      float64          `yaml:"textLogoY"`
	TextLogoHeight float64          `yaml:"textLogoHeight"`

	RuleY float64       `yaml:"ruleY"`
	Rule  layout.Stroke `yaml:"rule"`

	// FooterOffset is the distance of the first footer line from the page bottom.
	FooterOffset     float64          `yaml:"footerOffset"`
	FooterFont       fontmetrics.Font `yaml:"footerFont"`
	FooterColor      layout.Color     `yaml:"footerColor"`
	FooterLineHeight float64          `yaml:"footerLineHeight"`
	FooterLines      []string         `yaml:"footerLines"`

	// PageLabel is printed right-aligned below the footer lines. "{page}" is the
	// current page, "{nb}" the page count.
	PageLabel    string  `yaml:"pageLabel"`
	PageLabelGap float64 `yaml:"pageLabelGap"`
}

// Barcode configures the optional machine readable invoice number on page one.
type Barcode struct {
	Kind string  `yaml:"kind"` // "", "code128", "qr" or "pdf417"
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	W    float64 `yaml:"w"`
	H    float64 `yaml:"h"`
}

// Barcode kinds.
const (
	BarcodeCode128 = "code128"
	BarcodeQR      = "qr"
	BarcodePDF417  = "pdf417"
)

// Config parameterizes the weekly report layout.
type Config struct {
	Geometry layout.Geometry `yaml:"geometry"`

	// CellMargin insets text drawn outside tables from its box.
	CellMargin float64 `yaml:"cellMargin"`

	Table          table.TableStyle `yaml:"table"`
	SummaryColumns []table.Column   `yaml:"summaryColumns"`
	DetailColumns  []table.Column   `yaml:"detailColumns"`

	Address    AddressBlock `yaml:"address"`
	Sections   Sections     `yaml:"sections"`
	Labels     Labels       `yaml:"labels"`
	Letterhead Letterhead   `yaml:"letterhead"`
	Barcode    Barcode      `yaml:"barcode"`

	// DateFormat is a Go time layout for the issue date and row dates.
	DateFormat string `yaml:"dateFormat"`
}

// DefaultConfig returns the layout of the weekly customer report.
func DefaultConfig() Config {
	const family = "Helvetica"
	font := func(style string, size float64) fontmetrics.Font {
		return fontmetrics.Font{Family: family, Style: style, Size: size}
	}

	return Config{
		Geometry:   layout.A4(),
		CellMargin: 2,
		Table:      table.DefaultStyle(),
		SummaryColumns: []table.Column{
			{Label: "Aufgabe", Width: 154},
			{Label: "Zeit", Width: 16, Align: layout.AlignRight},
		},
		DetailColumns: []table.Column{
			{Label: "Datum", Width: 18},
			{Label: "Verantwortlicher", Width: 28},
			{Label: "Projekt", Width: 22},
			{Label: "Ticket", Width: 37},
			{Label: "Beschreibung", Width: 49},
			{Label: "Zeit", Width: 16, Align: layout.AlignRight},
		},
		Address: AddressBlock{
			X:           120,
			Y:           35,
			Width:       70,
			LineHeight:  4,
			NameFont:    font("B", 9),
			LineFont:    font("", 8),
			WrapGap:     2,
			Placeholder: []string{"Musterstraße 123", "12345 Musterstadt", "Deutschland"},
		},
		Sections: Sections{
			TitleY:           70,
			TitleFont:        font("B", 14),
			TitleHeight:      10,
			TitleAdvance:     20,
			MetaLabelFont:    font("B", 8),
			MetaValueFont:    font("", 8),
			MetaRowHeight:    4,
			MetaPadding:      2,
			MetaAdvance:      20,
			HeadingFont:      font("B", 14),
			HeadingHeight:    8,
			HeadingAdvance:   10,
			SummaryRowHeight: 8,
			DetailsSpace:     50,
			GroupSpace:       65,
			GroupFont:        font("B", 10),
			GroupHeight:      8,
			GroupAdvance:     8,
			GroupMinRunes:    10,
			ProjectFont:      font("B", 9),
			ProjectHeight:    6,
			ProjectAdvance:   8,
			ProjectMinRunes:  15,
			TableAdvance:     5,
		},
		Labels: Labels{
			Title:            "Arbeitszeitreport",
			InvoiceNumber:    "Rechnungsnummer:",
			InvoicePrefix:    "AR",
			Description:      "Beschreibung:",
			DescriptionValue: "Arbeitszeitreport",
			IssueDate:        "Rechn.Datum:",
			Source:           "Quelle:",
			SourceValue:      "Timesheet",
			CustomerNumber:   "Kunden-Nr.:",
			Reference:        "Referenz:",
			Summary:          "Übersicht",
			Details:          "Details",
			Total:            "Total",
			OrderElement:     "Auftragselement: ",
		},
		Letterhead: Letterhead{
			LogoX:            150,
			LogoY:            8,
			LogoWidth:        40,
			TextLogo:         "KIRATIK",
			TextLogoFont:     font("B", 16),
			TextLogoColor:    layout.Color{R: 0, G: 120, B: 180},
			TextLogoY:        10,
			TextLogoHeight:   10,
			RuleY:            25,
			Rule:             layout.Stroke{Width: 0.2, Color: layout.Color{R: 200, G: 200, B: 200}},
			FooterOffset:     30,
			FooterFont:       font("", 8),
			FooterColor:      layout.Color{R: 128, G: 128, B: 128},
			FooterLineHeight: 4,
			FooterLines: []string{
				"(+49) 7572 76 30 0    support@kiratik.de    https://www.kiratik.de    USt.: DE229024302",
				"KIRATIK GmbH, Sitz: Sigmaringen, Geschäftsführer: Sebastian Kiwitz, Amtsgericht Ulm HRB 560768, Steuer-Nr.: 81/060/08006",
				"Landesbank KSK Sigmaringen - IBAN DE31 6535 1050 0008 1955 15 - SWIFT-BIC SOLADES1SIG",
				"Volksbank Bad Saulgau eG - IBAN DE46 6509 3020 0401 6760 05 - SWIFT-BIC GENODES1SLG",
			},
			PageLabel:    "Seite: {page} of " + layout.PageCountAlias,
			PageLabelGap: 2,
		},
		Barcode: Barcode{
			X: 20,
			Y: 35,
			W: 60,
			H: 12,
		},
		DateFormat: "02.01.2006",
	}
}

// fonts returns pointers to every font of c.
func (c *Config) fonts() []*fontmetrics.Font {
	return []*fontmetrics.Font{
		&c.Table.HeaderFont, &c.Table.CellFont, &c.Table.TotalFont,
		&c.Address.NameFont, &c.Address.LineFont,
		&c.Sections.TitleFont, &c.Sections.MetaLabelFont, &c.Sections.MetaValueFont,
		&c.Sections.HeadingFont, &c.Sections.GroupFont, &c.Sections.ProjectFont,
		&c.Letterhead.TextLogoFont, &c.Letterhead.FooterFont,
	}
}

// WithFontFamily returns a copy of c with every font set in family.
func (c Config) WithFontFamily(family string) Config {
	c.SummaryColumns = append([]table.Column(nil), c.SummaryColumns...)
	c.DetailColumns = append([]table.Column(nil), c.DetailColumns...)
	for _, f := range c.fonts() {
		f.Family = family
	}
	return c
}

// FontFamilies returns the distinct font families c uses, in first-use order.
func (c Config) FontFamilies() []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range c.fonts() {
		if !seen[f.Family] {
			seen[f.Family] = true
			out = append(out, f.Family)
		}
	}
	return out
}

// Validate reports the first configuration defect. Geometry defects also match
// layout.ErrGeometry.
func (c Config) Validate() error {
	if err := c.Geometry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	pad := c.Table.Padding
	if len(c.SummaryColumns) != 2 {
		return fmt.Errorf("%w: summary table needs 2 columns, got %d", ErrConfig, len(c.SummaryColumns))
	}
	if len(c.DetailColumns) != 6 {
		return fmt.Errorf("%w: detail table needs 6 columns, got %d", ErrConfig, len(c.DetailColumns))
	}
	for _, set := range []struct {
		name string
		cols []table.Column
	}{{"summary", c.SummaryColumns}, {"details", c.DetailColumns}} {
		widths := make([]float64, len(set.cols))
		for i, col := range set.cols {
			widths[i] = col.Width
		}
		if err := c.Geometry.CheckExactWidths(set.name, widths, pad); err != nil {
			return fmt.Errorf("%w: %w", ErrConfig, err)
		}
	}
	if c.Table.LineHeight <= 0 || c.Table.RowLineHeight <= 0 {
		return fmt.Errorf("%w: table line heights must be positive", ErrConfig)
	}
	if c.Table.Padding < 0 || c.Table.VerticalPadding < 0 {
		return fmt.Errorf("%w: table paddings must not be negative", ErrConfig)
	}
	if c.Address.Width <= 0 || c.Address.LineHeight <= 0 {
		return fmt.Errorf("%w: address block needs a positive width and line height", ErrConfig)
	}
	for _, f := range c.fonts() {
		if f.Family == "" || f.Size <= 0 {
			return fmt.Errorf("%w: font %+v needs a family and a positive size", ErrConfig, *f)
		}
	}
	if strings.TrimSpace(c.DateFormat) == "" {
		return fmt.Errorf("%w: date format is empty", ErrConfig)
	}
	switch c.Barcode.Kind {
	case "", BarcodeCode128, BarcodeQR, BarcodePDF417:
	default:
		return fmt.Errorf("%w: unknown barcode kind %q", ErrConfig, c.Barcode.Kind)
	}
	if c.Barcode.Kind != "" && (c.Barcode.W <= 0 || c.Barcode.H <= 0) {
		return fmt.Errorf("%w: barcode needs a positive size", ErrConfig)
	}
	return nil
}

// LoadConfig reads a YAML layout from r over the defaults. Unknown keys are rejected.
// An empty document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML layout from path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("report: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}
