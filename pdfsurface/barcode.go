package pdfsurface

import (
	"fmt"

	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
	"github.com/go-pdf/fpdf/contrib/barcode"
)

// Barcode kinds understood by Surface.Barcode.
const (
	Code128 = "code128"
	QR      = "qr"
	PDF417  = "pdf417"
)

// Barcode implements layout.BarcodeSurface. Codes are encoded before anything is
// registered with the document, so an unencodable code is reported without leaving the
// document in an error state.
func (s *Surface) Barcode(kind, code string, x, y, w, h float64) (err error) {
	if code == "" {
		return fmt.Errorf("pdfsurface: empty %s code", kind)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdfsurface: %s: %v", kind, r)
		}
	}()

	var key string
	switch kind {
	case Code128:
		if _, err := code128.Encode(code); err != nil {
			return fmt.Errorf("pdfsurface: code128: %w", err)
		}
		key = barcode.RegisterCode128(s.pdf, code)
	case QR:
		if _, err := qr.Encode(code, qr.M, qr.Unicode); err != nil {
			return fmt.Errorf("pdfsurface: qr: %w", err)
		}
		key = barcode.RegisterQR(s.pdf, code, qr.M, qr.Unicode)
	case PDF417:
		key = barcode.RegisterPdf417(s.pdf, code, 5, 2)
	default:
		return fmt.Errorf("pdfsurface: unknown barcode kind %q", kind)
	}
	if err := s.takeError(); err != nil {
		return fmt.Errorf("pdfsurface: %s: %w", kind, err)
	}
	barcode.Barcode(s.pdf, key, x, y, w, h, false)
	return s.takeError()
}
