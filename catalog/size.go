// Package catalog adapts the product catalog and scene gallery to the
// engine: it parses declared unit sizes and grout colors and fetches
// swatch and scene images from URLs, data URLs or files.
package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/swatch/pattern"
)

// sizeRe matches "W unit x H unit", ignoring any depth that follows.
var sizeRe = regexp.MustCompile(
	`(\d+(?:\.\d+)?)\s*(mm|cm|m|inches|inch|in|")?\s*[x*]\s*(\d+(?:\.\d+)?)\s*(mm|cm|m|inches|inch|in|")?`)

var sizeReplacer = strings.NewReplacer(
	"×", "x",
	"′′", `"`,
	"''", `"`,
	"”", `"`,
	"“", `"`,
	",", ".",
)

// ParseSize parses a declared unit size such as "300mm x 50mm x 20mm",
// `9" x 4"` or "230 x 76" into millimetres. Fullwidth digits and typographic
// quotes are accepted. It returns nil when s holds no recognizable size.
func ParseSize(s string) *pattern.Size {
	s = strings.ToLower(norm.NFKC.String(s))
	s = sizeReplacer.Replace(s)

	m := sizeRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	w, err1 := strconv.ParseFloat(m[1], 64)
	h, err2 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil {
		return nil
	}

	wu, hu := m[2], m[4]
	switch {
	case wu == "" && hu != "":
		wu = hu
	case hu == "" && wu != "":
		hu = wu
	}
	size := pattern.Size{W: w * mmPer(wu), H: h * mmPer(hu)}
	if !size.Valid() {
		return nil
	}
	return &size
}

func mmPer(unit string) float64 {
	switch unit {
	case "cm":
		return 10
	case "m":
		return 1000
	case "in", "inch", "inches", `"`:
		return 25.4
	default:
		return 1
	}
}
