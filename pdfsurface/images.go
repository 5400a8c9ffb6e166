package pdfsurface

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// RegisterImage decodes an image in any supported format (PNG, JPEG, GIF, BMP, TIFF,
// WebP) and makes it available to Image under name. The image is stored as an 8-bit
// PNG, the one raster format every PDF writer path handles alike.
func (s *Surface) RegisterImage(name string, r io.Reader) error {
	img, format, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("pdfsurface: decoding image %s: %w", name, err)
	}
	rgba := image.NewNRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return fmt.Errorf("pdfsurface: encoding image %s: %w", name, err)
	}
	s.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, &buf)
	if err := s.takeError(); err != nil {
		return fmt.Errorf("pdfsurface: registering image %s: %w", name, err)
	}
	s.log.Debug("image %s registered (%s, %dx%d)", name, format, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

// RegisterImageFile is RegisterImage for a file.
func (s *Surface) RegisterImageFile(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("pdfsurface: %w", err)
	}
	defer f.Close()
	return s.RegisterImage(name, f)
}

// RegisterBackground imports the first page of a PDF as a template that Image draws
// under name, e.g. a letterhead page used as page background.
func (s *Surface) RegisterBackground(name string, rs io.ReadSeeker) (err error) {
	if s.imp == nil {
		s.imp = gofpdi.NewImporter()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdfsurface: importing background %s: %v", name, r)
		}
	}()
	tpl := s.imp.ImportPageFromStream(s.pdf, &rs, 1, "/MediaBox")
	if err := s.takeError(); err != nil {
		return fmt.Errorf("pdfsurface: importing background %s: %w", name, err)
	}
	s.templates[name] = tpl
	return nil
}

// RegisterBackgroundFile is RegisterBackground for a file.
func (s *Surface) RegisterBackgroundFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("pdfsurface: %w", err)
	}
	return s.RegisterBackground(name, bytes.NewReader(data))
}

// Image implements layout.Surface. Unknown names are skipped with a warning.
func (s *Surface) Image(name string, x, y, w, h float64) {
	if tpl, ok := s.templates[name]; ok {
		s.imp.UseImportedTemplate(s.pdf, tpl, x, y, w, h)
		return
	}
	if s.pdf.GetImageInfo(name) == nil {
		s.warn("image %s is not registered", name)
		return
	}
	s.pdf.ImageOptions(name, x, y, w, h, false, fpdf.ImageOptions{}, 0, "")
}

// takeError returns and clears the document error so that a bad resource does not
// fail the whole document.
func (s *Surface) takeError() error {
	err := s.pdf.Error()
	if err != nil {
		s.pdf.ClearError()
	}
	return err
}
