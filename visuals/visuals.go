// Package visuals holds already-resolved visual bundles. Every field is a
// Property whose Value is the current resolved value; the engine never
// resolves styles itself.
package visuals

import (
	"github.com/ByLCY/glyphbox/css"
)

// Property exposes the current value of a resolved visual.
type Property[T any] struct {
	value T
}

// Of wraps v as a Property.
func Of[T any](v T) Property[T] { return Property[T]{value: v} }

// Value returns the current value.
func (p Property[T]) Value() T { return p.value }

// Set replaces the current value.
func (p *Property[T]) Set(v T) { p.value = v }

// Visuals is implemented by Text, Line and Fill. Boxes pick the variants they understand.
type Visuals interface {
	visuals()
}

// Text 是文本视觉属性。
type Text struct {
	TextColor      Property[string]  // any css color
	TextAlpha      Property[float64] // multiplied into the color alpha
	TextFontStyle  Property[string]  // "normal", "italic", "bold", "bold italic"
	TextFontSize   Property[string]  // "13px", "1.2em", "10pt"
	TextFont       Property[string]  // family name
	TextLineHeight Property[float64] // multiplier
}

// Line 是描边视觉属性。
type Line struct {
	LineColor Property[string]
	LineAlpha Property[float64]
	LineWidth Property[float64]
}

// Fill 是填充视觉属性。
type Fill struct {
	FillColor Property[string]
	FillAlpha Property[float64]
}

func (*Text) visuals() {}
func (*Line) visuals() {}
func (*Fill) visuals() {}

// DefaultText returns the defaults used by the scene builder: 13px Latin Modern, black, line height 1.2.
func DefaultText() *Text {
	return &Text{
		TextColor:      Of("#000000"),
		TextAlpha:      Of(1.0),
		TextFontStyle:  Of("normal"),
		TextFontSize:   Of("13px"),
		TextFont:       Of("Latin Modern Roman"),
		TextLineHeight: Of(1.2),
	}
}

// Clone returns an independent copy.
func (t *Text) Clone() *Text {
	c := *t
	return &c
}

// ColorCSS combines a css color and an alpha into one css color string.
// Unparsable colors are returned unchanged.
func ColorCSS(color string, alpha float64) string {
	c, err := css.ParseColor(color)
	if err != nil {
		return color
	}
	return c.WithAlpha(alpha).String()
}
