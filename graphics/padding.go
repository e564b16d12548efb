package graphics

import (
	"strings"

	"github.com/ByLCY/glyphbox/css"
)

// Padding 的每条边可以是像素值或相对 box 自身宽高的百分比。
// Padding 不改变 Dimensions，只提供一个净偏移量。
type Padding struct {
	Top, Right, Bottom, Left css.Length
}

// Px returns a pixel length.
func Px(v float64) css.Length { return css.Length{Value: v, Unit: css.UnitPX} }

// Percent returns a length relative to the box's own width or height.
func Percent(v float64) css.Length { return css.Length{Value: v, Unit: css.UnitPercent} }

// PadAll applies v to every side.
func PadAll(v css.Length) *Padding { return &Padding{Top: v, Right: v, Bottom: v, Left: v} }

// PadVH applies v to top/bottom and h to left/right.
func PadVH(v, h css.Length) *Padding { return &Padding{Top: v, Right: h, Bottom: v, Left: h} }

// PadEdges sets each side explicitly, in css order.
func PadEdges(top, right, bottom, left css.Length) *Padding {
	return &Padding{Top: top, Right: right, Bottom: bottom, Left: left}
}

// Offset 是 padding 的净偏移：X = left - right，Y = top - bottom。
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func resolveLength(l css.Length, ref float64) float64 {
	if l.Unit == css.UnitPercent {
		return l.Value / 100 * ref
	}
	return l.Value
}

// Resolve computes the net offset for a box of the given intrinsic size.
func (p *Padding) Resolve(size Size) Offset {
	if p == nil {
		return Offset{}
	}
	top := resolveLength(p.Top, size.Height)
	bottom := resolveLength(p.Bottom, size.Height)
	right := resolveLength(p.Right, size.Width)
	left := resolveLength(p.Left, size.Width)
	return Offset{X: left - right, Y: top - bottom}
}

// ParsePadding accepts the loosely typed shapes found in decoded JSON:
// a scalar, a one/two/four element list, or an object with left/right/top/bottom.
// Each scalar is a number (px) or {"value": n, "unit": "px"|"%"}.
// Anything else yields (nil, false) so the box falls back to zero padding.
func ParsePadding(v any) (*Padding, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case []any:
		lens := make([]css.Length, len(val))
		for i, item := range val {
			l, ok := paddingScalar(item)
			if !ok {
				return nil, false
			}
			lens[i] = l
		}
		return paddingFromList(lens)
	case map[string]any:
		if _, ok := val["value"]; ok {
			l, ok := paddingScalar(val)
			if !ok {
				return nil, false
			}
			return PadAll(l), true
		}
		var edges [4]css.Length
		for i, key := range []string{"top", "right", "bottom", "left"} {
			raw, ok := val[key]
			if !ok {
				return nil, false
			}
			l, ok := paddingScalar(raw)
			if !ok {
				return nil, false
			}
			edges[i] = l
		}
		return PadEdges(edges[0], edges[1], edges[2], edges[3]), true
	default:
		l, ok := paddingScalar(val)
		if !ok {
			return nil, false
		}
		return PadAll(l), true
	}
}

// ParsePaddingString parses a css-like list such as "4 50% 4 50%".
func ParsePaddingString(s string) (*Padding, bool) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	lens := make([]css.Length, 0, len(fields))
	for _, f := range fields {
		l, err := css.ParseLength(f)
		if err != nil {
			return nil, false
		}
		if l.Unit == css.UnitNone {
			l.Unit = css.UnitPX
		}
		if l.Unit != css.UnitPX && l.Unit != css.UnitPercent {
			return nil, false
		}
		lens = append(lens, l)
	}
	return paddingFromList(lens)
}

func paddingFromList(lens []css.Length) (*Padding, bool) {
	switch len(lens) {
	case 1:
		return PadAll(lens[0]), true
	case 2:
		return PadVH(lens[0], lens[1]), true
	case 4:
		return PadEdges(lens[0], lens[1], lens[2], lens[3]), true
	default:
		return nil, false
	}
}

func paddingScalar(v any) (css.Length, bool) {
	switch val := v.(type) {
	case float64:
		return Px(val), true
	case int:
		return Px(float64(val)), true
	case css.Length:
		return val, val.Unit == css.UnitPX || val.Unit == css.UnitPercent
	case map[string]any:
		num, ok := val["value"].(float64)
		if !ok {
			return css.Length{}, false
		}
		switch val["unit"] {
		case "px", nil:
			return Px(num), true
		case "%":
			return Percent(num), true
		}
	}
	return css.Length{}, false
}
