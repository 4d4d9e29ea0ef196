// Package pattern synthesizes tileable brick and tile textures from a
// photographed material swatch.
//
// A texture is one repeat patch of a bond (stack, stretcher, flemish or
// herringbone). Every unit is cut from a clean window of the swatch, flipped
// at random and given its own tint, speckle, bevel and vignette, so two
// syntheses of the same key never look identical. A [Cache] keeps one patch
// per [Key] for the rest of a session, and a [Prefetcher] builds patches
// ahead of time when the configuration changes.
package pattern

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/gogpu/swatch/raster"
)

// ErrNoMaterialImage is returned when a material has no decodable image.
// Callers fall back to drawing the raw material image.
var ErrNoMaterialImage = errors.New("pattern: material has no image")

// ErrUnknownBond is returned by ParseBond for unknown names.
var ErrUnknownBond = errors.New("pattern: unknown bond")

// Bond is the geometric arrangement of units and joints.
type Bond uint8

const (
	// BondStretcher offsets every other course by half a unit.
	BondStretcher Bond = iota
	// BondStack aligns units on a plain grid.
	BondStack
	// BondFlemish alternates long and short units in each course.
	BondFlemish
	// BondHerringbone lays units at 90 degrees along diagonals.
	BondHerringbone
)

var bondNames = [...]string{"stretcher", "stack", "flemish", "herringbone"}

// String returns the bond name.
func (b Bond) String() string {
	if int(b) < len(bondNames) {
		return bondNames[b]
	}
	return fmt.Sprintf("Bond(%d)", uint8(b))
}

// ParseBond parses a bond name, ignoring case.
func ParseBond(s string) (Bond, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range bondNames {
		if n == name {
			return Bond(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBond, s)
}

// SizeMode chooses where unit dimensions come from.
type SizeMode uint8

const (
	// SizeStandard uses the material's declared size.
	SizeStandard SizeMode = iota
	// SizeLinear forces a long, slim linear-brick format.
	SizeLinear
)

// String returns "standard" or "linear".
func (m SizeMode) String() string {
	if m == SizeLinear {
		return "linear"
	}
	return "standard"
}

// ParseSizeMode parses "standard" or "linear". Anything else is standard.
func ParseSizeMode(s string) SizeMode {
	if strings.EqualFold(strings.TrimSpace(s), "linear") {
		return SizeLinear
	}
	return SizeStandard
}

// Size is a physical unit size. Width and height share a length unit,
// millimetres by convention.
type Size struct {
	W, H float64
}

// Valid reports whether both sides are positive.
func (s Size) Valid() bool { return s.W > 0 && s.H > 0 }

// Material is a photographed swatch plus its optional declared unit size.
type Material struct {
	ID    string
	Image *raster.Pixmap
	Size  *Size
}

// Config selects bond, grout color and size mode.
type Config struct {
	Bond     Bond
	Grout    color.NRGBA
	SizeMode SizeMode
}

// Key identifies one synthesized texture.
type Key struct {
	MaterialID string
	Bond       Bond
	Grout      color.NRGBA
	SizeMode   SizeMode
}

// KeyFor returns the cache key of m rendered with cfg.
func KeyFor(m Material, cfg Config) Key {
	return Key{MaterialID: m.ID, Bond: cfg.Bond, Grout: cfg.Grout, SizeMode: cfg.SizeMode}
}

// String formats the key for logs and singleflight groups.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/#%02x%02x%02x/%s",
		k.MaterialID, k.Bond, k.Grout.R, k.Grout.G, k.Grout.B, k.SizeMode)
}
