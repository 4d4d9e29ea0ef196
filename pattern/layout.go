package pattern

import (
	"image"
	"math"
)

// unit is one brick footprint inside a patch. The rectangle may cross the
// patch border; it is drawn wrapped so the patch tiles seamlessly.
type unit struct {
	rect     image.Rectangle
	portrait bool
}

// place returns the unit covering w x h pixels at (x, y). Units taller than
// wide are portrait, so their landscape sample is turned before scaling.
func place(x, y, w, h int) unit {
	return unit{rect: image.Rect(x, y, x+w, y+h), portrait: h > w}
}

// layout is a tileable patch: its size and the units it contains.
type layout struct {
	width, height int
	units         []unit
}

// unitSize returns the pixel size of one unit for m in the given mode.
// The longer side is capped at p.UnitCap, keeping the aspect ratio.
func unitSize(m Material, mode SizeMode, p Params) (w, h int) {
	size := p.DefaultUnit
	switch {
	case mode == SizeLinear:
		size = p.LinearUnit
	case m.Size != nil && m.Size.Valid():
		size = *m.Size
	}
	if long := math.Max(size.W, size.H); long > float64(p.UnitCap) {
		f := float64(p.UnitCap) / long
		size.W *= f
		size.H *= f
	}
	return max(1, int(math.Round(size.W))), max(1, int(math.Round(size.H)))
}

// planLayout places units for bond b. Units of size uw x uh are separated by
// p.Joint pixels of grout, with half a joint on the outer sides of every
// unit so grout surrounds it after tiling.
func planLayout(b Bond, uw, uh int, p Params) layout {
	switch b {
	case BondStack:
		return gridLayout(uw, uh, p, false)
	case BondFlemish:
		return flemishLayout(uw, uh, p)
	case BondHerringbone:
		return herringboneLayout(uw, uh, p)
	default:
		return gridLayout(uw, uh, p, true)
	}
}

func gridLayout(uw, uh int, p Params, offsetRows bool) layout {
	j, n := p.Joint, p.Repeat
	cw, ch := uw+j, uh+j
	rows := n
	if offsetRows && rows%2 == 1 {
		rows++
	}
	l := layout{width: n * cw, height: rows * ch}
	for r := 0; r < rows; r++ {
		off := 0
		if offsetRows && r%2 == 1 {
			off = cw / 2
		}
		for c := 0; c < n; c++ {
			x, y := off+c*cw+j/2, r*ch+j/2
			l.units = append(l.units, place(x, y, uw, uh))
		}
	}
	return l
}

// flemishLayout alternates a stretcher and a header in every course. The
// header is as long as half a stretcher minus half a joint. Odd courses are
// shifted by half a period so headers sit centred over stretchers.
func flemishLayout(uw, uh int, p Params) layout {
	j := p.Joint
	hw := max(1, (uw-j)/2)
	period := uw + hw + 2*j
	pairs := max(1, p.Repeat/2)
	rows := p.Repeat + p.Repeat%2
	ch := uh + j

	l := layout{width: pairs * period, height: rows * ch}
	for r := 0; r < rows; r++ {
		off := 0
		if r%2 == 1 {
			off = period / 2
		}
		y := r*ch + j/2
		for i := 0; i < pairs; i++ {
			x := off + i*period + j/2
			l.units = append(l.units,
				place(x, y, uw, uh),
				place(x+uw+j, y, hw, uh),
			)
		}
	}
	return l
}

// herringboneLayout builds a staircase of horizontal and vertical units.
// Each diagonal step of Q = S+joint places one horizontal unit and, at its
// right end, one vertical unit; together they span P = L+S+2*joint. The long
// side is snapped so L+joint is a whole number k of steps, which makes the
// pattern repeat on a square patch of 2k steps. Snapping never lifts the long
// side above p.UnitCap.
func herringboneLayout(uw, uh int, p Params) layout {
	j := p.Joint
	long, short := max(uw, uh), min(uw, uh)
	step := short + j
	k := max(1, int(math.Round(float64(long+j)/float64(step))))
	if k > 1 && p.UnitCap > 0 && k*step-j > max(p.UnitCap, long) {
		k--
	}
	span := k * step
	long = max(1, span-j)
	side := 2 * k * step

	l := layout{width: side, height: side}
	for m := 0; m < 2*k; m++ {
		x, y := m*step+j/2, m*step+j/2
		l.units = append(l.units,
			place(x, y, long, short),
			place(x+span, y+step-span, short, long),
		)
	}
	return l
}

// wrapOrigins returns the positions at which a unit drawn at r must be
// blitted so that its wrapped copies cover the patch.
func (l layout) wrapOrigins(r image.Rectangle) []image.Point {
	x := ((r.Min.X % l.width) + l.width) % l.width
	y := ((r.Min.Y % l.height) + l.height) % l.height
	pts := []image.Point{{x, y}}
	if x+r.Dx() > l.width {
		pts = append(pts, image.Pt(x-l.width, y))
	}
	if y+r.Dy() > l.height {
		pts = append(pts, image.Pt(x, y-l.height))
		if x+r.Dx() > l.width {
			pts = append(pts, image.Pt(x-l.width, y-l.height))
		}
	}
	return pts
}
