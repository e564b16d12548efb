package css

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit of a CSS length.
type Unit string

const (
	UnitPX      Unit = "px"
	UnitEM      Unit = "em"
	UnitPT      Unit = "pt"
	UnitPercent Unit = "%"
	UnitNone    Unit = ""
)

// pxPerPt 以 CSS 约定（96dpi）换算 pt 与 px。
const pxPerPt = 96.0 / 72.0

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + string(l.Unit)
}

// Pixels resolves the length to px. em and % are relative to base.
func (l Length) Pixels(base float64) float64 {
	switch l.Unit {
	case UnitEM:
		return l.Value * base
	case UnitPT:
		return l.Value * pxPerPt
	case UnitPercent:
		return l.Value / 100 * base
	default:
		return l.Value
	}
}

// ParseLength parses "13px", "1.2em", "10pt", "50%" or a bare number.
func ParseLength(s string) (Length, error) {
	expr, err := dimensionParser.ParseString("", strings.TrimSpace(s))
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q: %w", s, err)
	}
	return splitDimension(expr.Raw)
}

// ParseFontSize mirrors ParseLength but only accepts units meaningful for a font size.
func ParseFontSize(s string) (Length, bool) {
	l, err := ParseLength(s)
	if err != nil {
		return Length{}, false
	}
	switch l.Unit {
	case UnitPX, UnitEM, UnitPT, UnitPercent:
		return l, true
	case UnitNone:
		l.Unit = UnitPX
		return l, true
	default:
		return Length{}, false
	}
}

func splitDimension(raw string) (Length, error) {
	i := len(raw)
	for i > 0 {
		c := raw[i-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '%' {
			i--
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(raw[:i], 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid number %q: %w", raw, err)
	}
	return Length{Value: v, Unit: Unit(strings.ToLower(raw[i:]))}, nil
}

// Font is a parsed CSS font shorthand.
type Font struct {
	Style    string   `json:"style"`   // normal / italic / oblique
	Weight   string   `json:"weight"`  // normal / bold / light ...
	Variant  string   `json:"variant"` // normal / small-caps
	Size     Length   `json:"size"`
	Families []string `json:"families"`
}

// Family returns the first family name, or "" when none was given.
func (f Font) Family() string {
	if len(f.Families) == 0 {
		return ""
	}
	return f.Families[0]
}

// String renders the canonical shorthand; normal keywords are omitted.
func (f Font) String() string {
	parts := make([]string, 0, 5)
	for _, kw := range []string{f.Style, f.Variant, f.Weight} {
		if kw != "" && kw != "normal" {
			parts = append(parts, kw)
		}
	}
	parts = append(parts, f.Size.String())
	families := make([]string, len(f.Families))
	for i, name := range f.Families {
		if strings.ContainsAny(name, " ,") {
			name = strconv.Quote(name)
		}
		families[i] = name
	}
	parts = append(parts, strings.Join(families, ", "))
	return strings.Join(parts, " ")
}

var (
	styleKeywords   = map[string]bool{"italic": true, "oblique": true}
	variantKeywords = map[string]bool{"small-caps": true}
	weightKeywords  = map[string]bool{
		"thin": true, "extralight": true, "light": true, "medium": true,
		"semibold": true, "demibold": true, "bold": true, "extrabold": true,
		"black": true, "bolder": true, "lighter": true,
	}
)

// ParseFont parses a CSS font shorthand such as `italic bold 13px "Latin Modern", serif`.
// Numeric weights are not supported; use the keyword form.
func ParseFont(s string) (Font, error) {
	expr, err := fontParser.ParseString("", s)
	if err != nil {
		return Font{}, fmt.Errorf("invalid font %q: %w", s, err)
	}
	size, err := splitDimension(expr.Size)
	if err != nil {
		return Font{}, err
	}
	if size.Unit == UnitNone {
		size.Unit = UnitPX
	}
	font := Font{Style: "normal", Weight: "normal", Variant: "normal", Size: size}
	for _, kw := range expr.Keywords {
		lower := strings.ToLower(kw)
		switch {
		case lower == "normal":
		case styleKeywords[lower]:
			font.Style = lower
		case variantKeywords[lower]:
			font.Variant = lower
		case weightKeywords[lower]:
			font.Weight = lower
		default:
			return Font{}, fmt.Errorf("invalid font %q: unknown keyword %q", s, kw)
		}
	}
	for _, fam := range expr.Families {
		font.Families = append(font.Families, fam.name())
	}
	return font, nil
}
