package pattern

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseBond(t *testing.T) {
	for _, b := range []Bond{BondStretcher, BondStack, BondFlemish, BondHerringbone} {
		got, err := ParseBond(b.String())
		if err != nil || got != b {
			t.Errorf("ParseBond(%q) = %v, %v, want %v", b.String(), got, err, b)
		}
	}
	if got, err := ParseBond(" Herringbone "); err != nil || got != BondHerringbone {
		t.Errorf("ParseBond mixed case = %v, %v", got, err)
	}
	if _, err := ParseBond("basketweave"); !errors.Is(err, ErrUnknownBond) {
		t.Errorf("ParseBond(basketweave) err = %v, want ErrUnknownBond", err)
	}
}

func TestSizeMode(t *testing.T) {
	if ParseSizeMode("LINEAR") != SizeLinear {
		t.Error("ParseSizeMode(LINEAR) should be linear")
	}
	if ParseSizeMode("whatever") != SizeStandard {
		t.Error("unknown size mode should be standard")
	}
	if SizeLinear.String() != "linear" {
		t.Errorf("String = %q, want linear", SizeLinear.String())
	}
}

func TestKeyFor(t *testing.T) {
	m := Material{ID: "clay"}
	a := KeyFor(m, Config{Bond: BondStack, Grout: color.NRGBA{A: 255}})
	b := KeyFor(m, Config{Bond: BondStack, Grout: color.NRGBA{A: 255}})
	if a != b {
		t.Error("identical inputs gave different keys")
	}
	variants := []Config{
		{Bond: BondFlemish, Grout: color.NRGBA{A: 255}},
		{Bond: BondStack, Grout: color.NRGBA{R: 1, A: 255}},
		{Bond: BondStack, Grout: color.NRGBA{A: 255}, SizeMode: SizeLinear},
	}
	for _, cfg := range variants {
		if KeyFor(m, cfg) == a {
			t.Errorf("config %+v should change the key", cfg)
		}
	}
	if want := "clay/stack/#000000/standard"; a.String() != want {
		t.Errorf("String = %q, want %q", a.String(), want)
	}
}

func TestParamsWithDefaults(t *testing.T) {
	p := Params{Joint: 7}.withDefaults()
	if p.Joint != 7 {
		t.Errorf("Joint = %d, want 7", p.Joint)
	}
	d := DefaultParams()
	if p.Attempts != d.Attempts || p.RelaxFactor != d.RelaxFactor || p.DefaultUnit != d.DefaultUnit {
		t.Errorf("zero fields not defaulted: %+v", p)
	}
}
