package catalog

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrBadGrout is returned for grout values that are neither a preset name
// nor a hex color.
var ErrBadGrout = errors.New("catalog: invalid grout color")

// groutPresets are the named mortar shades offered by the catalog.
var groutPresets = map[string]string{
	"white":    "#f4f3ee",
	"cream":    "#e9dfc8",
	"grey":     "#9a9a96",
	"gray":     "#9a9a96",
	"charcoal": "#3a3b3c",
	"black":    "#111111",
}

// GroutPresets returns the preset names in display order.
func GroutPresets() []string {
	return []string{"white", "cream", "grey", "charcoal", "black"}
}

// ParseGrout resolves a preset name or a hex color with or without the
// leading '#', in 3- or 6-digit form.
func ParseGrout(s string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := groutPresets[v]; ok {
		v = hex
	}
	v = strings.TrimPrefix(v, "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadGrout, s)
	}
	c, err := colorful.Hex("#" + v)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadGrout, s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// FormatGrout renders c as a "#rrggbb" hex string.
func FormatGrout(c color.NRGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}
