package pdfsurface

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/lvillar/weeklyreport/fontmetrics"
)

// GoFamily names the embedded Go fonts, usable as fallback when no core font fits.
const GoFamily = "Go"

var coreFamilies = map[string]bool{
	"courier":   true,
	"helvetica": true,
	"arial":     true,
	"times":     true,
}

// face is a family as it is known to fpdf.
type face struct {
	family string
	utf8   bool
}

// encode converts text into the byte encoding fpdf expects for the face. Core fonts
// use Windows-1252; runes outside it are drawn as '?'.
func (f face) encode(text string) string {
	text = norm.NFC.String(text)
	if f.utf8 {
		return text
	}
	return encodeCP1252(text)
}

func encodeCP1252(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < utf8.RuneSelf {
			b.WriteByte(byte(r))
			continue
		}
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// setFont selects f on the document, resolving its family on first use, and returns
// the resolved face.
func (s *Surface) setFont(f fontmetrics.Font) face {
	fc := s.resolve(f.Family)
	style := ""
	if f.IsBold() {
		style = "B"
	}
	want := fontmetrics.Font{Family: fc.family, Style: style, Size: f.Size}
	if !s.hasFont || s.current != want {
		s.pdf.SetFont(fc.family, style, f.Size)
		s.current, s.hasFont = want, true
	}
	return fc
}

// LoadFonts resolves the given families up front so that warnings about missing fonts
// are reported before the first page is drawn.
func (s *Surface) LoadFonts(families ...string) {
	for _, f := range families {
		s.resolve(f)
	}
}

func (s *Surface) resolve(family string) face {
	key := strings.ToLower(family)
	if fc, ok := s.faces[key]; ok {
		return fc
	}
	fc, ok := s.load(family)
	if !ok {
		fc = s.fallbackFace()
	}
	s.faces[key] = fc
	return fc
}

// load registers family from the core fonts, the embedded Go fonts or the font
// directory. Both the regular and the bold file must exist and parse.
func (s *Surface) load(family string) (face, bool) {
	key := strings.ToLower(family)
	switch {
	case coreFamilies[key]:
		return face{family: family}, true
	case key == strings.ToLower(GoFamily):
		return s.goFace(), true
	case family == "":
		s.warn("empty font family, using %s", s.cfg.fallback)
		return face{}, false
	case s.cfg.fontDir == "":
		s.warn("font %s: no font directory configured, using %s", family, s.cfg.fallback)
		return face{}, false
	}

	regular, err := s.readFont(filepath.Join(s.cfg.fontDir, key+".ttf"))
	if err != nil {
		s.warn("font %s: %v, using %s", family, err, s.cfg.fallback)
		return face{}, false
	}
	bold, err := s.readFont(filepath.Join(s.cfg.fontDir, key+"b.ttf"))
	if err != nil {
		s.warn("font %s bold: %v, using %s", family, err, s.cfg.fallback)
		return face{}, false
	}
	s.pdf.AddUTF8FontFromBytes(family, "", regular)
	s.pdf.AddUTF8FontFromBytes(family, "B", bold)
	s.log.Debug("font %s loaded from %s", family, s.cfg.fontDir)
	return face{family: family, utf8: true}, true
}

// readFont reads a font file and checks that its tables can be parsed, so that a broken
// file falls back instead of failing the whole document.
func (s *Surface) readFont(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if _, err := fontmetrics.ParseTrueType(data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Surface) goFace() face {
	key := strings.ToLower(GoFamily)
	if fc, ok := s.faces[key]; ok {
		return fc
	}
	s.pdf.AddUTF8FontFromBytes(GoFamily, "", goregular.TTF)
	s.pdf.AddUTF8FontFromBytes(GoFamily, "B", gobold.TTF)
	fc := face{family: GoFamily, utf8: true}
	s.faces[key] = fc
	return fc
}

func (s *Surface) fallbackFace() face {
	key := strings.ToLower(s.cfg.fallback)
	switch {
	case key == strings.ToLower(GoFamily):
		return s.goFace()
	case coreFamilies[key]:
		return face{family: s.cfg.fallback}
	}
	return face{family: "Helvetica"}
}
