package css

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is a straight (non-premultiplied) RGBA color; alpha is in [0,1].
type Color struct {
	R, G, B uint8
	A       float64
}

var namedColors = map[string]Color{
	"black":       {0, 0, 0, 1},
	"white":       {255, 255, 255, 1},
	"red":         {255, 0, 0, 1},
	"green":       {0, 128, 0, 1},
	"blue":        {0, 0, 255, 1},
	"gray":        {128, 128, 128, 1},
	"grey":        {128, 128, 128, 1},
	"navy":        {0, 0, 128, 1},
	"orange":      {255, 165, 0, 1},
	"purple":      {128, 0, 128, 1},
	"transparent": {0, 0, 0, 0},
}

// ParseColor parses hex, rgb()/rgba() and a handful of named colors.
func ParseColor(s string) (Color, error) {
	expr, err := colorParser.ParseString("", strings.TrimSpace(s))
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	switch {
	case expr.Hex != nil:
		return parseHex(*expr.Hex)
	case expr.Func != nil:
		return parseColorFunc(expr.Func)
	case expr.Name != nil:
		if c, ok := namedColors[strings.ToLower(*expr.Name)]; ok {
			return c, nil
		}
		return Color{}, fmt.Errorf("unknown color name %q", *expr.Name)
	}
	return Color{}, fmt.Errorf("invalid color %q", s)
}

func parseHex(value string) (Color, error) {
	value = strings.TrimPrefix(value, "#")
	hex := func(s string) uint8 {
		v, _ := strconv.ParseUint(s, 16, 8)
		return uint8(v)
	}
	switch len(value) {
	case 3, 4:
		c := Color{
			R: hex(strings.Repeat(value[0:1], 2)),
			G: hex(strings.Repeat(value[1:2], 2)),
			B: hex(strings.Repeat(value[2:3], 2)),
			A: 1,
		}
		if len(value) == 4 {
			c.A = float64(hex(strings.Repeat(value[3:4], 2))) / 255
		}
		return c, nil
	case 6, 8:
		c := Color{R: hex(value[0:2]), G: hex(value[2:4]), B: hex(value[4:6]), A: 1}
		if len(value) == 8 {
			c.A = float64(hex(value[6:8])) / 255
		}
		return c, nil
	default:
		return Color{}, fmt.Errorf("invalid hex color #%s", value)
	}
}

func parseColorFunc(fn *colorFunc) (Color, error) {
	if len(fn.Args) != 3 && len(fn.Args) != 4 {
		return Color{}, fmt.Errorf("%s() takes 3 or 4 arguments, got %d", fn.Name, len(fn.Args))
	}
	channel := func(raw string) (uint8, error) {
		l, err := splitDimension(raw)
		if err != nil {
			return 0, err
		}
		v := l.Value
		if l.Unit == UnitPercent {
			v = v / 100 * 255
		}
		return uint8(math.Round(clamp(v, 0, 255))), nil
	}
	var c Color
	var err error
	if c.R, err = channel(fn.Args[0]); err != nil {
		return Color{}, err
	}
	if c.G, err = channel(fn.Args[1]); err != nil {
		return Color{}, err
	}
	if c.B, err = channel(fn.Args[2]); err != nil {
		return Color{}, err
	}
	c.A = 1
	if len(fn.Args) == 4 {
		l, err := splitDimension(fn.Args[3])
		if err != nil {
			return Color{}, err
		}
		a := l.Value
		if l.Unit == UnitPercent {
			a /= 100
		}
		c.A = clamp(a, 0, 1)
	}
	return c, nil
}

// WithAlpha multiplies the color's alpha by a.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp(c.A*a, 0, 1)
	return c
}

// String renders opaque colors as #rrggbb and translucent ones as rgba().
func (c Color) String() string {
	if c.A >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
