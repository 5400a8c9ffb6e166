package fontmetrics

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// TrueType measures text with the horizontal metrics of a parsed TrueType/OpenType font.
type TrueType struct {
	font *sfnt.Font
	upem fixed.Int26_6
	name string
}

// ParseTrueType parses a TTF/OTF file. It is also used to validate font files before
// they are handed to a PDF writer, which would otherwise fail the whole document.
func ParseTrueType(data []byte) (*TrueType, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fontmetrics: parsing font: %w", err)
	}
	var buf sfnt.Buffer
	// Glyph 0 must exist in any usable font; probing it catches truncated hmtx tables.
	upem := fixed.I(int(f.UnitsPerEm()))
	if _, err := f.GlyphAdvance(&buf, 0, upem, font.HintingNone); err != nil {
		return nil, fmt.Errorf("fontmetrics: reading metrics: %w", err)
	}
	name, _ := f.Name(&buf, sfnt.NameIDFamily)
	return &TrueType{font: f, upem: upem, name: name}, nil
}

// Name returns the family name recorded in the font, if any.
func (t *TrueType) Name() string {
	return t.name
}

// Width implements Provider. Runes without a glyph are measured with the .notdef advance.
func (t *TrueType) Width(text string, f Font) float64 {
	var (
		buf   sfnt.Buffer
		total fixed.Int26_6
		prev  sfnt.GlyphIndex
		has   bool
	)
	for _, r := range text {
		gi, err := t.font.GlyphIndex(&buf, r)
		if err != nil {
			gi = 0
		}
		if has {
			if k, err := t.font.Kern(&buf, prev, gi, t.upem, font.HintingNone); err == nil {
				total += k
			}
		}
		adv, err := t.font.GlyphAdvance(&buf, gi, t.upem, font.HintingNone)
		if err == nil {
			total += adv
		}
		prev, has = gi, true
	}
	units := float64(total) / 64
	return units / float64(t.upem/64) * f.Size * PointToMM
}
