// Package blend implements the byte-level compositing operators used by the
// scene compositor and the mask compositor.
//
// All colors are straight (unmultiplied) alpha in the range 0-255. Blend
// formulas follow the W3C Compositing and Blending Level 1 specification.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

import "math"

// Mode selects the separable blend function B(Cb, Cs).
type Mode uint8

const (
	// ModeNormal returns the source color.
	ModeNormal Mode = iota
	// ModeMultiply darkens: Cb * Cs.
	ModeMultiply
	// ModeScreen lightens: 1 - (1-Cb)*(1-Cs).
	ModeScreen
	// ModeOverlay is HardLight with swapped layers.
	ModeOverlay
	// ModeHardLight is Multiply or Screen depending on the source.
	ModeHardLight
	// ModeSoftLight is a soft version of HardLight.
	ModeSoftLight
)

// String returns the CSS name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeMultiply:
		return "multiply"
	case ModeScreen:
		return "screen"
	case ModeOverlay:
		return "overlay"
	case ModeHardLight:
		return "hard-light"
	case ModeSoftLight:
		return "soft-light"
	default:
		return "unknown"
	}
}

// Channel applies the blend function of mode to one channel, where cb is the
// backdrop and cs the source.
func Channel(mode Mode, cb, cs byte) byte {
	switch mode {
	case ModeMultiply:
		return mulDiv255(cb, cs)
	case ModeScreen:
		return screen(cb, cs)
	case ModeOverlay:
		return hardLight(cs, cb)
	case ModeHardLight:
		return hardLight(cb, cs)
	case ModeSoftLight:
		return softLight(cb, cs)
	default:
		return cs
	}
}

// screen: 1 - (1 - Cb) * (1 - Cs)
func screen(cb, cs byte) byte {
	return 255 - mulDiv255(255-cb, 255-cs)
}

// hardLight: if Cs <= 0.5: Multiply(Cb, 2*Cs), else: Screen(Cb, 2*Cs - 1)
func hardLight(cb, cs byte) byte {
	if cs <= 127 {
		return byte((uint32(cb)*2*uint32(cs) + 127) / 255)
	}
	s2 := uint32(cs)*2 - 255
	inv := (uint32(255-cb)*(255-s2) + 127) / 255
	return byte(255 - inv)
}

// softLight uses the W3C definition:
//
//	if Cs <= 0.5: Cb - (1 - 2*Cs) * Cb * (1 - Cb)
//	else:         Cb + (2*Cs - 1) * (D(Cb) - Cb)
//
// where D(x) = ((16*x - 12)*x + 4)*x for x <= 0.25, sqrt(x) otherwise.
func softLight(cb, cs byte) byte {
	b := float64(cb) / 255
	s := float64(cs) / 255
	if s <= 0.5 {
		return clampUnit(b - (1-2*s)*b*(1-b))
	}
	var d float64
	if b <= 0.25 {
		d = ((16*b-12)*b + 4) * b
	} else {
		d = math.Sqrt(b)
	}
	return clampUnit(b + (2*s-1)*(d-b))
}

// Atop blends the source color over the backdrop with the given mode and
// opacity, keeping the backdrop's alpha (source-atop). The caller decides
// where the backdrop is opaque enough to receive the pass.
func Atop(mode Mode, dr, dg, db, sr, sg, sb, opacity byte) (r, g, b byte) {
	return lerp255(dr, Channel(mode, dr, sr), opacity),
		lerp255(dg, Channel(mode, dg, sg), opacity),
		lerp255(db, Channel(mode, db, sb), opacity)
}

// Over composites a straight-alpha source over a straight-alpha destination.
// Formula: a = Sa + Da*(1-Sa), c = (Sc*Sa + Dc*Da*(1-Sa)) / a
func Over(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte) {
	if sa == 255 || da == 0 {
		return sr, sg, sb, sa
	}
	if sa == 0 {
		return dr, dg, db, da
	}
	dw := uint32(da) * uint32(255-sa) / 255
	outA := uint32(sa) + dw
	mix := func(s, d byte) byte {
		return byte((uint32(s)*uint32(sa) + uint32(d)*dw + outA/2) / outA)
	}
	return mix(sr, dr), mix(sg, dg), mix(sb, db), byte(outA)
}

// OverAlpha composites two coverage values: Sa + Da*(1-Sa).
func OverAlpha(sa, da byte) byte {
	return addClamp(sa, mulDiv255(da, 255-sa))
}

// DestinationIn keeps the destination where the source is opaque: Da * Sa.
func DestinationIn(sa, da byte) byte {
	return mulDiv255(da, sa)
}

// DestinationOut keeps the destination where the source is transparent:
// Da * (1 - Sa).
func DestinationOut(sa, da byte) byte {
	return mulDiv255(da, 255-sa)
}

// Opacity converts a [0,1] opacity into the byte form the blend functions
// take.
func Opacity(f float64) byte {
	return clampUnit(f)
}
