package catalog

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/swatch/raster"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		w, h float64
		ok   bool
	}{
		{"300mm x 50mm x 20mm", 300, 50, true},
		{`9" x 4"`, 228.6, 101.6, true},
		{"9″ × 4″", 228.6, 101.6, true},
		{"230 x 76", 230, 76, true},
		{"23cm x 7.6cm", 230, 76, true},
		{"９ x ４ in", 228.6, 101.6, true},
		{"215X65mm", 215, 65, true},
		{"assorted", 0, 0, false},
		{"0 x 50", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseSize(tt.in)
			if (got != nil) != tt.ok {
				t.Fatalf("ParseSize(%q) = %v, want ok %v", tt.in, got, tt.ok)
			}
			if got == nil {
				return
			}
			if math.Abs(got.W-tt.w) > 1e-9 || math.Abs(got.H-tt.h) > 1e-9 {
				t.Errorf("ParseSize(%q) = %vx%v, want %vx%v", tt.in, got.W, got.H, tt.w, tt.h)
			}
		})
	}
}

func TestParseGrout(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#000000", color.NRGBA{A: 255}, false},
		{"ff8800", color.NRGBA{R: 255, G: 136, A: 255}, false},
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, false},
		{"Charcoal", color.NRGBA{R: 0x3a, G: 0x3b, B: 0x3c, A: 255}, false},
		{"mauve", color.NRGBA{}, true},
		{"#12345", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseGrout(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGrout(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrBadGrout) {
			t.Errorf("ParseGrout(%q) err = %v, want ErrBadGrout", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseGrout(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, name := range GroutPresets() {
		if _, err := ParseGrout(name); err != nil {
			t.Errorf("preset %q: %v", name, err)
		}
	}
}

func TestFormatGrout(t *testing.T) {
	c := color.NRGBA{R: 0x12, G: 0xab, B: 0xef, A: 255}
	if got := FormatGrout(c); got != "#12abef" {
		t.Errorf("FormatGrout = %q, want #12abef", got)
	}
	back, err := ParseGrout(FormatGrout(c))
	if err != nil || back != c {
		t.Errorf("ParseGrout(FormatGrout(c)) = %v, %v, want %v", back, err, c)
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFetchSources(t *testing.T) {
	body := pngBytes(t, 3, 2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/swatch.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "scene.png")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(5 * time.Second)
	refs := map[string]string{
		"http":     srv.URL + "/swatch.png",
		"data":     "data:image/png;base64," + base64.StdEncoding.EncodeToString(body),
		"file url": "file://" + path,
		"path":     path,
	}
	for name, ref := range refs {
		t.Run(name, func(t *testing.T) {
			pm, err := l.Fetch(context.Background(), ref)
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if pm.Width() != 3 || pm.Height() != 2 {
				t.Errorf("size = %dx%d, want 3x2", pm.Width(), pm.Height())
			}
		})
	}
}

func TestFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/garbage" {
			w.Write([]byte("not a picture"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := NewLoader(5 * time.Second)
	tests := []struct {
		name string
		ref  string
		want error
	}{
		{"status", srv.URL + "/missing.png", ErrFetch},
		{"undecodable", srv.URL + "/garbage", raster.ErrDecode},
		{"scheme", "ftp://example.com/a.png", ErrUnsupportedScheme},
		{"bad data url", "data:image/png;base64,@@@", raster.ErrDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Fetch(context.Background(), tt.ref)
			if !errors.Is(err, tt.want) {
				t.Errorf("Fetch(%q) err = %v, want %v", tt.ref, err, tt.want)
			}
		})
	}
}

func TestLoaderMaterial(t *testing.T) {
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 4, 4))
	m, err := NewLoader(0).Material(context.Background(), "red-clay", ref, "not a size")
	if err != nil {
		t.Fatal(err)
	}
	if m.ID != "red-clay" || m.Image.Width() != 4 || m.Size != nil {
		t.Errorf("Material = %+v, want id red-clay, 4px image, nil size", m)
	}
}
