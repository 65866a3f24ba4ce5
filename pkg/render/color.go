package render

import (
	"image/color"
	"strconv"
	"strings"
)

var defaultPalette = []color.NRGBA{
	{31, 119, 180, 255},
	{255, 127, 14, 255},
	{44, 160, 44, 255},
	{214, 39, 40, 255},
	{148, 103, 189, 255},
}

var namedColors = map[string]color.NRGBA{
	"white": {255, 255, 255, 255},
	"black": {0, 0, 0, 255},
}

// parseColor understands the colour forms used in figures: rgb(), rgba(),
// #rrggbb, #rgb and a few names. ok is false for anything else.
func parseColor(s string) (c color.NRGBA, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return c, false
	}
	if named, found := namedColors[s]; found {
		return named, true
	}

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return c, false
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return c, false
		}
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
	}

	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return c, false
	}
	fn := s[:open]
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if (fn != "rgb" || len(parts) != 3) && (fn != "rgba" || len(parts) != 4) {
		return c, false
	}

	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return c, false
		}
		rgb[i] = uint8(v)
	}
	c = color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
	if fn == "rgba" {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return c, false
		}
		c.A = uint8(a*255 + 0.5)
	}
	return c, true
}

// withOpacity scales the alpha channel by opacity in (0,1].
func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity <= 0 || opacity >= 1 {
		return c
	}
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}
