// Package fontmetrics measures rendered text widths.
//
// Every layout decision (wrapping, hyphenation, metadata column widths) is driven by
// repeated Width calls, so implementations must be deterministic and must not depend on
// any mutable drawing state. Widths are reported in millimeters.
package fontmetrics

import (
	"strings"
	"unicode/utf8"
)

// PointToMM converts a typographic point to millimeters.
const PointToMM = 25.4 / 72

// Font identifies a font face and size.
type Font struct {
	Family string  `yaml:"family"`
	Style  string  `yaml:"style"` // "" or "B"
	Size   float64 `yaml:"size"`  // in points
}

// Bold returns a copy of f with the bold style.
func (f Font) Bold() Font {
	f.Style = "B"
	return f
}

// Regular returns a copy of f without style.
func (f Font) Regular() Font {
	f.Style = ""
	return f
}

// WithSize returns a copy of f with the given size.
func (f Font) WithSize(size float64) Font {
	f.Size = size
	return f
}

// IsBold reports whether f is a bold face.
func (f Font) IsBold() bool {
	return strings.Contains(strings.ToUpper(f.Style), "B")
}

// Provider returns the rendered width of text set in font f.
type Provider interface {
	Width(text string, f Font) float64
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(text string, f Font) float64

// Width calls fn(text, f).
func (fn ProviderFunc) Width(text string, f Font) float64 {
	return fn(text, f)
}

// Monospace gives every rune the same advance of Ratio millimeters per point of font
// size. Bold faces are BoldFactor wider (0 means same width). It is useful wherever
// geometry has to be predictable, e.g. in tests and dry runs.
type Monospace struct {
	Ratio      float64
	BoldFactor float64
}

// Width implements Provider.
func (m Monospace) Width(text string, f Font) float64 {
	w := float64(utf8.RuneCountInString(text)) * m.Ratio * f.Size
	if f.IsBold() && m.BoldFactor > 0 {
		w *= m.BoldFactor
	}
	return w
}

// Family resolves a provider by font family and style and falls back to Fallback for
// any face it does not know. It is read-only after construction and safe for
// concurrent use.
type Family struct {
	faces    map[string]Provider
	Fallback Provider
}

// NewFamily creates a Family with the given fallback.
func NewFamily(fallback Provider) *Family {
	return &Family{faces: make(map[string]Provider), Fallback: fallback}
}

// Add registers p for family and style and returns the receiver for chaining.
func (fm *Family) Add(family, style string, p Provider) *Family {
	fm.faces[faceKey(family, style)] = p
	return fm
}

// Has reports whether a provider is registered for family and style.
func (fm *Family) Has(family, style string) bool {
	_, ok := fm.faces[faceKey(family, style)]
	return ok
}

// Width implements Provider.
func (fm *Family) Width(text string, f Font) float64 {
	if p, ok := fm.faces[faceKey(f.Family, f.Style)]; ok {
		return p.Width(text, f)
	}
	if fm.Fallback == nil {
		return 0
	}
	return fm.Fallback.Width(text, f)
}

func faceKey(family, style string) string {
	return strings.ToLower(family) + "/" + strings.ToUpper(style)
}
