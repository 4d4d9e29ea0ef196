package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xdraw "golang.org/x/image/draw"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/swatch/raster"
)

// DefaultWatermark is stamped on exports when no text is configured.
const DefaultWatermark = "Preview only. Colours and textures are approximate."

// DefaultFontSize is the watermark size in pixels for a 1000px wide frame.
const DefaultFontSize = 14.0

// minFontSize bounds the shrink applied to narrow frames.
const minFontSize = 6.0

// ErrFont is returned when the embedded watermark font cannot be parsed.
var ErrFont = errors.New("export: cannot load watermark font")

// Watermarker stamps a fixed line of text onto exported frames.
//
// The text is measured with a HarfBuzz shaping run and drawn with the
// Go Regular OpenType face. A Watermarker is safe for concurrent use.
type Watermarker struct {
	text  string
	size  float64
	shape *font.Font
	draw  *sfnt.Font

	shapers sync.Pool
}

// NewWatermarker parses the embedded Go Regular font.
// Empty text and non-positive sizes fall back to the defaults.
func NewWatermarker(text string, size float64) (*Watermarker, error) {
	if text == "" {
		text = DefaultWatermark
	}
	if size <= 0 {
		size = DefaultFontSize
	}
	face, err := font.ParseTTF(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFont, err)
	}
	otf, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFont, err)
	}
	w := &Watermarker{
		text:  text,
		size:  size,
		shape: face.Font,
		draw:  otf,
	}
	w.shapers.New = func() any { return &shaping.HarfbuzzShaper{} }
	return w, nil
}

// Text returns the watermark text.
func (w *Watermarker) Text() string { return w.text }

// Measure returns the advance of the watermark line at the given pixel size.
func (w *Watermarker) Measure(size float64) float64 {
	runes := []rune(w.text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(w.shape),
		Size:      fixed.Int26_6(size * 64),
		Script:    language.Latin,
		Language:  language.NewLanguage("en"),
	}
	hb := w.shapers.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	w.shapers.Put(hb)
	return float64(out.Advance) / 64
}

// fit returns the font size for a frame, scaled with the frame width and
// shrunk until the line fits inside the margins.
func (w *Watermarker) fit(width int) (size, margin float64) {
	size = w.size * float64(width) / 1000
	if size < minFontSize {
		size = minFontSize
	}
	margin = size
	avail := float64(width) - 2*margin
	if adv := w.Measure(size); adv > avail && adv > 0 {
		size *= avail / adv
		if size < minFontSize {
			size = minFontSize
		}
	}
	return size, margin
}

// Apply returns a copy of frame with the watermark in its bottom-right
// corner on a translucent band. The input is not modified.
func (w *Watermarker) Apply(frame *raster.Pixmap) (*raster.Pixmap, error) {
	if frame.Empty() {
		return frame, nil
	}
	img := frame.ToImage()
	size, margin := w.fit(frame.Width())

	face, err := opentype.NewFace(w.draw, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFont, err)
	}
	defer func() { _ = face.Close() }()

	m := face.Metrics()
	lineH := (m.Ascent + m.Descent).Ceil()
	pad := int(margin / 2)
	bottom := frame.Height() - pad
	top := bottom - lineH - pad
	if top < 0 {
		top = 0
	}
	band := image.Rect(0, top, frame.Width(), frame.Height())
	xdraw.Draw(img, band, image.NewUniform(color.NRGBA{0, 0, 0, 96}), image.Point{}, xdraw.Over)

	x := float64(frame.Width()) - margin - w.Measure(size)
	if x < margin {
		x = margin
	}
	d := &xfont.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{255, 255, 255, 230}),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.I(bottom) - m.Descent},
	}
	d.DrawString(w.text)
	return raster.FromImage(img), nil
}
