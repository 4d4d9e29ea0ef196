package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/gogpu/swatch/raster"
)

// Sheet is the caption printed under the frame on a PDF export.
type Sheet struct {
	Title     string
	Lines     []string
	Watermark string
}

const (
	pageMargin = 10.0
	pageWidth  = 210.0
	maxImageH  = 200.0
)

// EncodePDF writes a one-page A4 sheet with the frame scaled to the page
// width and the caption lines below it.
func EncodePDF(w io.Writer, frame *raster.Pixmap, sheet Sheet) error {
	if frame.Empty() {
		return ErrEmptyFrame
	}
	var buf bytes.Buffer
	if err := EncodePNG(&buf, frame); err != nil {
		return err
	}

	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle(sheet.Title, true)
	p.AddPage()
	tr := p.UnicodeTranslatorFromDescriptor("")

	y := pageMargin
	if sheet.Title != "" {
		p.SetFont("Helvetica", "B", 16)
		p.Text(pageMargin, y+6, tr(sheet.Title))
		y += 12
	}

	imgW := pageWidth - 2*pageMargin
	imgH := imgW * float64(frame.Height()) / float64(frame.Width())
	if imgH > maxImageH {
		imgW *= maxImageH / imgH
		imgH = maxImageH
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("frame", opts, &buf)
	p.ImageOptions("frame", pageMargin, y, imgW, imgH, false, opts, 0, "")
	y += imgH + 6

	p.SetFont("Helvetica", "", 11)
	p.SetXY(pageMargin, y)
	for _, line := range sheet.Lines {
		p.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}
	if sheet.Watermark != "" {
		p.Ln(4)
		p.SetFont("Helvetica", "I", 9)
		p.SetTextColor(110, 110, 110)
		p.MultiCell(0, 5, tr(sheet.Watermark), "", "L", false)
	}

	if err := p.Error(); err != nil {
		return fmt.Errorf("export: pdf: %w", err)
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("export: pdf: %w", err)
	}
	return nil
}
