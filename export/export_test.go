package export

import (
	"bytes"
	"errors"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/gogpu/swatch/raster"
)

func grayFrame(w, h int) *raster.Pixmap {
	p := raster.NewPixmap(w, h)
	p.Fill(color.NRGBA{128, 128, 128, 255})
	return p
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{"jpg", FormatJPEG, false},
		{" jpeg ", FormatJPEG, false},
		{"pdf", FormatPDF, false},
		{"gif", FormatPNG, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseFormat(%q) err = %v", tt.in, err)
			continue
		}
		if tt.err && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q) err = %v, want ErrUnknownFormat", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatMetadata(t *testing.T) {
	if FormatPDF.ContentType() != "application/pdf" || FormatPDF.Ext() != ".pdf" {
		t.Error("pdf metadata")
	}
	if FormatJPEG.ContentType() != "image/jpeg" || FormatJPEG.Ext() != ".jpg" {
		t.Error("jpeg metadata")
	}
	if FormatPNG.ContentType() != "image/png" || FormatPNG.Ext() != ".png" {
		t.Error("png metadata")
	}
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, nil); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("EncodePNG(nil) = %v", err)
	}
	if err := EncodeJPEG(&buf, raster.NewPixmap(0, 0), 80); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("EncodeJPEG(empty) = %v", err)
	}
	if err := EncodePDF(&buf, nil, Sheet{}); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("EncodePDF(nil) = %v", err)
	}
}

func TestEncodePNGDecodes(t *testing.T) {
	frame := grayFrame(12, 7)
	var buf bytes.Buffer
	if err := EncodePNG(&buf, frame); err != nil {
		t.Fatal(err)
	}
	got, err := raster.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(frame) {
		t.Error("png round trip changed pixels")
	}
}

func TestEncodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, grayFrame(16, 16), 0); err != nil {
		t.Fatal(err)
	}
	img, err := jpeg.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("bounds = %v", b)
	}
}

func TestEncodePDF(t *testing.T) {
	var buf bytes.Buffer
	sheet := Sheet{
		Title:     "Kitchen wall",
		Lines:     []string{"Material: clay", "Pattern: herringbone", "Grout: #f4f3ee"},
		Watermark: DefaultWatermark,
	}
	if err := EncodePDF(&buf, grayFrame(40, 30), sheet); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", buf.Bytes()[:8])
	}
}

func TestNewWatermarkerDefaults(t *testing.T) {
	w, err := NewWatermarker("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if w.Text() != DefaultWatermark {
		t.Errorf("Text() = %q", w.Text())
	}
	if w.size != DefaultFontSize {
		t.Errorf("size = %v", w.size)
	}
}

func TestWatermarkerMeasure(t *testing.T) {
	w, err := NewWatermarker("Swatch", 14)
	if err != nil {
		t.Fatal(err)
	}
	small := w.Measure(10)
	large := w.Measure(20)
	if small <= 0 {
		t.Fatalf("Measure(10) = %v", small)
	}
	if ratio := large / small; ratio < 1.8 || ratio > 2.2 {
		t.Errorf("Measure(20)/Measure(10) = %v, want about 2", ratio)
	}
}

func TestWatermarkerFitsNarrowFrames(t *testing.T) {
	w, err := NewWatermarker(DefaultWatermark, 40)
	if err != nil {
		t.Fatal(err)
	}
	size, margin := w.fit(300)
	avail := 300 - 2*margin
	if adv := w.Measure(size); adv > avail+0.5 && size > minFontSize {
		t.Errorf("advance %v exceeds %v at size %v", adv, avail, size)
	}
}

func TestWatermarkerApply(t *testing.T) {
	w, err := NewWatermarker("Preview", 40)
	if err != nil {
		t.Fatal(err)
	}
	frame := grayFrame(400, 100)
	before := frame.Clone()

	out, err := w.Apply(frame)
	if err != nil {
		t.Fatal(err)
	}
	if !frame.Equal(before) {
		t.Error("Apply modified its input")
	}
	if out.Width() != 400 || out.Height() != 100 {
		t.Fatalf("size = %dx%d", out.Width(), out.Height())
	}
	if out.RGBAAt(0, 0) != frame.RGBAAt(0, 0) {
		t.Error("top-left pixel changed")
	}

	changed := 0
	bright := 0
	for y := 50; y < 100; y++ {
		for x := 0; x < 400; x++ {
			c := out.RGBAAt(x, y)
			if c != frame.RGBAAt(x, y) {
				changed++
			}
			if c.R > 200 {
				bright++
			}
		}
	}
	if changed == 0 {
		t.Error("no band drawn")
	}
	if bright == 0 {
		t.Error("no glyph pixels drawn")
	}
}

func TestWatermarkerApplyEmpty(t *testing.T) {
	w, err := NewWatermarker("", 0)
	if err != nil {
		t.Fatal(err)
	}
	out, err := w.Apply(nil)
	if err != nil || out != nil {
		t.Errorf("Apply(nil) = %v, %v", out, err)
	}
}
