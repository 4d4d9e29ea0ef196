package pattern

import (
	"image"
	"testing"
)

func TestUnitSize(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name         string
		size         *Size
		mode         SizeMode
		wantW, wantH int
	}{
		{"undeclared", nil, SizeStandard, 300, 100},
		{"declared", &Size{W: 230, H: 76}, SizeStandard, 230, 76},
		{"capped", &Size{W: 600, H: 200}, SizeStandard, 400, 133},
		{"portrait capped", &Size{W: 100, H: 800}, SizeStandard, 50, 400},
		{"linear override", &Size{W: 230, H: 76}, SizeLinear, 300, 50},
		{"invalid declared", &Size{W: 0, H: 50}, SizeStandard, 300, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := unitSize(Material{Size: tt.size}, tt.mode, p)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("unitSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

// coverage counts how many units cover each patch pixel, wrapping units
// that cross the border.
func coverage(l layout) []int {
	counts := make([]int, l.width*l.height)
	for _, u := range l.units {
		for _, at := range l.wrapOrigins(u.rect) {
			r := image.Rectangle{Min: at, Max: at.Add(u.rect.Size())}.Intersect(image.Rect(0, 0, l.width, l.height))
			for y := r.Min.Y; y < r.Max.Y; y++ {
				for x := r.Min.X; x < r.Max.X; x++ {
					counts[y*l.width+x]++
				}
			}
		}
	}
	return counts
}

func TestLayoutsTileWithoutOverlap(t *testing.T) {
	p := smallParams()
	for _, b := range []Bond{BondStack, BondStretcher, BondFlemish, BondHerringbone} {
		t.Run(b.String(), func(t *testing.T) {
			l := planLayout(b, 30, 10, p)
			area := 0
			for _, u := range l.units {
				area += u.rect.Dx() * u.rect.Dy()
			}
			covered := 0
			for i, c := range coverage(l) {
				if c > 1 {
					t.Fatalf("pixel (%d,%d) covered %d times", i%l.width, i/l.width, c)
				}
				covered += c
			}
			if covered != area {
				t.Errorf("covered %d pixels, want %d (units wrapped incorrectly)", covered, area)
			}
			if covered == l.width*l.height {
				t.Error("no grout left in the patch")
			}
		})
	}
}

func TestGridLayoutSize(t *testing.T) {
	p := smallParams()
	l := planLayout(BondStack, 30, 10, p)
	if l.width != 4*33 || l.height != 4*13 || len(l.units) != 16 {
		t.Errorf("stack = %dx%d with %d units, want 132x52 with 16", l.width, l.height, len(l.units))
	}
	s := planLayout(BondStretcher, 30, 10, p)
	if got := s.units[4].rect.Min.X - s.units[0].rect.Min.X; got != 33/2 {
		t.Errorf("stretcher row offset = %d, want %d", got, 33/2)
	}
}

func TestFlemishAlternates(t *testing.T) {
	p := smallParams()
	l := planLayout(BondFlemish, 30, 10, p)
	hw := (30 - 3) / 2
	for i, u := range l.units {
		want := 30
		if i%2 == 1 {
			want = hw
		}
		if u.rect.Dx() != want {
			t.Fatalf("unit %d width = %d, want %d", i, u.rect.Dx(), want)
		}
	}
	period := 30 + hw + 6
	if l.width != 2*period {
		t.Errorf("width = %d, want %d", l.width, 2*period)
	}
}

func TestHerringboneGeometry(t *testing.T) {
	p := smallParams()
	// step 13, k = round(33/13) = 3, long snapped to 36
	l := planLayout(BondHerringbone, 30, 10, p)
	if l.width != 78 || l.height != 78 {
		t.Fatalf("patch = %dx%d, want 78x78", l.width, l.height)
	}
	var horiz, vert int
	for _, u := range l.units {
		if u.portrait {
			vert++
			if u.rect.Dx() != 10 || u.rect.Dy() != 36 {
				t.Errorf("vertical unit %v, want 10x36", u.rect.Size())
			}
		} else {
			horiz++
			if u.rect.Dx() != 36 || u.rect.Dy() != 10 {
				t.Errorf("horizontal unit %v, want 36x10", u.rect.Size())
			}
		}
	}
	if horiz != 6 || vert != 6 {
		t.Errorf("units = %d horizontal, %d vertical, want 6 and 6", horiz, vert)
	}
}

func TestPortraitUnitsAreFlagged(t *testing.T) {
	p := smallParams()
	for _, b := range []Bond{BondStack, BondStretcher, BondFlemish} {
		t.Run(b.String(), func(t *testing.T) {
			tall := planLayout(b, 10, 30, p)
			portrait := 0
			for _, u := range tall.units {
				if u.portrait != (u.rect.Dy() > u.rect.Dx()) {
					t.Fatalf("unit %v portrait = %v", u.rect.Size(), u.portrait)
				}
				if u.portrait {
					portrait++
				}
			}
			if portrait != len(tall.units) {
				t.Errorf("%d of %d tall units are portrait", portrait, len(tall.units))
			}

			for _, u := range planLayout(b, 30, 10, p).units {
				if u.portrait {
					t.Fatalf("wide unit %v flagged portrait", u.rect.Size())
				}
			}
		})
	}
}

func TestHerringboneRespectsUnitCap(t *testing.T) {
	p := DefaultParams()
	// step 115, round(415/115) = 4 would snap the long side to 445
	l := planLayout(BondHerringbone, p.UnitCap, 100, p)
	for _, u := range l.units {
		if long := max(u.rect.Dx(), u.rect.Dy()); long > p.UnitCap {
			t.Fatalf("unit %v exceeds cap %d", u.rect.Size(), p.UnitCap)
		}
	}
	if l.width != l.height || l.width%(100+p.Joint) != 0 {
		t.Errorf("patch = %dx%d, want a square multiple of %d", l.width, l.height, 100+p.Joint)
	}
}
