package graphics

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AnchorKind 区分具名锚点与比例锚点。零值表示未设置，使用默认锚点。
type AnchorKind int

const (
	AnchorDefault AnchorKind = iota
	AnchorLeft
	AnchorCenter
	AnchorRight
	AnchorTop
	AnchorBottom
	AnchorBaseline
	AnchorFraction
)

// Anchor is a reference point inside a box, either named or a fraction in [0,1]
// of the box's extent along one axis.
type Anchor struct {
	Kind AnchorKind
	Frac float64
}

var (
	Left     = Anchor{Kind: AnchorLeft}
	Center   = Anchor{Kind: AnchorCenter}
	Right    = Anchor{Kind: AnchorRight}
	Top      = Anchor{Kind: AnchorTop}
	Bottom   = Anchor{Kind: AnchorBottom}
	Baseline = Anchor{Kind: AnchorBaseline}
)

// Fraction returns a numeric anchor.
func Fraction(f float64) Anchor { return Anchor{Kind: AnchorFraction, Frac: f} }

var anchorNames = map[string]AnchorKind{
	"left": AnchorLeft, "center": AnchorCenter, "right": AnchorRight,
	"top": AnchorTop, "bottom": AnchorBottom, "baseline": AnchorBaseline,
}

// ParseAnchor accepts a name (left, center, right, top, bottom, baseline) or a number.
func ParseAnchor(s string) (Anchor, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if kind, ok := anchorNames[s]; ok {
		return Anchor{Kind: kind}, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Fraction(f), nil
	}
	return Anchor{}, fmt.Errorf("unknown anchor %q", s)
}

func (a Anchor) String() string {
	switch a.Kind {
	case AnchorDefault:
		return ""
	case AnchorFraction:
		return strconv.FormatFloat(a.Frac, 'f', -1, 64)
	}
	for name, kind := range anchorNames {
		if kind == a.Kind {
			return name
		}
	}
	return ""
}

// MarshalJSON writes the anchor the way ParseAnchor reads it.
func (a Anchor) MarshalJSON() ([]byte, error) {
	if a.Kind == AnchorFraction {
		return []byte(a.String()), nil
	}
	return json.Marshal(a.String())
}

func (a Anchor) or(def Anchor) Anchor {
	if a.Kind == AnchorDefault {
		return def
	}
	return a
}

// Position 是表面坐标中的锚点 (SX, SY) 以及两个方向的锚点说明。
// 锚点只影响计算出的左上角，不会改写 SX/SY。
type Position struct {
	SX      float64 `json:"sx"`
	SY      float64 `json:"sy"`
	XAnchor Anchor  `json:"xAnchor"`
	YAnchor Anchor  `json:"yAnchor"`
}

// At is shorthand for a position with default anchors (left / center).
func At(sx, sy float64) Position { return Position{SX: sx, SY: sy} }

// XAnchorOrDefault returns the x anchor, defaulting to left.
func (p Position) XAnchorOrDefault() Anchor { return p.XAnchor.or(Left) }

// YAnchorOrDefault returns the y anchor, defaulting to center.
func (p Position) YAnchorOrDefault() Anchor { return p.YAnchor.or(Center) }

// anchorShift 返回锚点在长度 extent 上对应的偏移；baseline 仅对 y 方向有意义。
func anchorShift(a Anchor, extent float64, baseline func() float64) float64 {
	switch a.Kind {
	case AnchorFraction:
		return a.Frac * extent
	case AnchorCenter:
		return 0.5 * extent
	case AnchorRight, AnchorBottom:
		return extent
	case AnchorBaseline:
		if baseline == nil {
			return 0.5 * extent
		}
		return baseline()
	default:
		return 0
	}
}

// anchoredOrigin resolves p into the top-left corner of a box of the given size.
func anchoredOrigin(p Position, size Size, baseline func() float64) (x, y float64) {
	x = p.SX - anchorShift(p.XAnchorOrDefault(), size.Width, nil)
	y = p.SY - anchorShift(p.YAnchorOrDefault(), size.Height, baseline)
	return x, y
}
