package pattern

import (
	"image/color"
	"math/rand/v2"

	"github.com/gogpu/swatch/raster"
)

// smallParams keeps patches tiny so tests stay fast.
func smallParams() Params {
	return Params{
		Joint:       3,
		UnitCap:     40,
		DefaultUnit: Size{W: 30, H: 10},
		LinearUnit:  Size{W: 30, H: 5},
	}.withDefaults()
}

func solidMaterial(id string, w, h int, c color.NRGBA) Material {
	pm := raster.NewPixmap(w, h)
	pm.Fill(c)
	return Material{ID: id, Image: pm}
}

func seeded(seed uint64) Option {
	return WithSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
