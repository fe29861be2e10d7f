package outfit

import (
	"math"
	"strconv"
	"strings"
)

// ColorBucket is the harmony family a color belongs to
type ColorBucket string

const (
	ColorNeutral      ColorBucket = "Neutral"
	ColorWarm         ColorBucket = "Warm"
	ColorCool         ColorBucket = "Cool"
	ColorUnclassified ColorBucket = "Unclassified"
)

// Word lists are checked in the order neutral, warm, cool so that
// "navy blue" is treated as a neutral.
var (
	neutralColors = []string{"black", "white", "grey", "gray", "beige", "cream", "navy", "khaki", "tan", "brown", "charcoal", "taupe", "ivory", "nude", "silver", "camel", "stone", "off white", "denim"}
	warmColors    = []string{"red", "orange", "yellow", "gold", "mustard", "maroon", "burgundy", "coral", "peach", "rust", "pink", "magenta", "copper", "bronze", "rose", "wine"}
	coolColors    = []string{"blue", "green", "teal", "turquoise", "purple", "lavender", "violet", "mint", "olive", "aqua", "cyan", "indigo", "lilac"}
)

// NormalizeColor lowercases and trims a color descriptor
func NormalizeColor(color string) string {
	return strings.ToLower(strings.TrimSpace(color))
}

// ClassifyColor buckets a color name or a #hex value.
// Empty or unknown colors are Unclassified.
func ClassifyColor(color string) ColorBucket {
	c := NormalizeColor(color)
	if c == "" {
		return ColorUnclassified
	}
	if strings.HasPrefix(c, "#") {
		return classifyHex(c)
	}
	for _, list := range []struct {
		bucket ColorBucket
		words  []string
	}{
		{ColorNeutral, neutralColors},
		{ColorWarm, warmColors},
		{ColorCool, coolColors},
	} {
		for _, w := range list.words {
			if strings.Contains(c, w) {
				return list.bucket
			}
		}
	}
	return ColorUnclassified
}

// classifyHex buckets "#rrggbb" or "#rgb" by hue and saturation
func classifyHex(hex string) ColorBucket {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return ColorUnclassified
	}
	h, s, l := toHSL(r, g, b)
	switch {
	case s < 0.18 || l < 0.12 || l > 0.92:
		return ColorNeutral
	case h < 70 || h >= 330:
		return ColorWarm
	default:
		return ColorCool
	}
}

func parseHex(hex string) (r, g, b float64, ok bool) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return float64(v>>16&0xff) / 255, float64(v>>8&0xff) / 255, float64(v&0xff) / 255, true
}

func toHSL(r, g, b float64) (h, s, l float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2
	d := max - min
	if d == 0 {
		return 0, 0, l
	}
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, l
}
