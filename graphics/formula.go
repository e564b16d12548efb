package graphics

import (
	"fmt"

	"github.com/ByLCY/glyphbox/css"
	"github.com/ByLCY/glyphbox/geom"
	"github.com/ByLCY/glyphbox/tex"
	"github.com/ByLCY/glyphbox/visuals"
)

// FormulaKind 是公式源码的记法。
type FormulaKind string

const (
	FormulaTeX       FormulaKind = "tex"
	FormulaMathML    FormulaKind = "mathml"
	FormulaASCIIMath FormulaKind = "ascii"
)

// Drawable is a pre-rendered element with a fixed size.
type Drawable interface {
	Size() Size
	// Draw paints the element with its top-left corner at (x, y).
	Draw(ctx Context, x, y float64)
}

// FormulaRenderer turns formula source into a Drawable. It is supplied by the
// rendering backend; ASCII-math conversions return ErrNotImplemented.
type FormulaRenderer interface {
	RenderFormula(kind FormulaKind, source, color string, fontSize float64) (Drawable, error)
}

// FormulaBox 是外部渲染的公式图元。Load 成功之前它的尺寸为零，HasLoaded 为 false。
type FormulaBox struct {
	Graphics
	textStyle

	Kind FormulaKind
	// Macros 在渲染 TeX 源码之前展开。
	Macros tex.Macros

	renderer FormulaRenderer
	drawable Drawable
	err      error
}

var _ Box = (*FormulaBox)(nil)

// NewFormulaBox creates an unloaded formula box.
func NewFormulaBox(kind FormulaKind, source string) *FormulaBox {
	return &FormulaBox{
		Graphics:  newGraphics(),
		textStyle: textStyle{Text: source, LineHeight: 1, Align: AlignLeft},
		Kind:      kind,
	}
}

// Content returns the formula source.
func (f *FormulaBox) Content() string { return f.Text }

// FontSize returns the resolved font size in px.
func (f *FormulaBox) FontSize() float64 {
	font, err := css.ParseFont(f.Font)
	if err != nil {
		return f.baseFontSize * f.fontSizeScale
	}
	return font.Size.Pixels(f.baseFontSize)
}

// Load renders the source with r. The renderer is kept so that later style
// changes re-render the formula.
func (f *FormulaBox) Load(r FormulaRenderer) error {
	f.renderer = r
	f.drawable = nil
	source := f.Text
	if f.Kind == FormulaTeX {
		expanded, err := f.Macros.Expand(source)
		if err != nil {
			f.err = fmt.Errorf("展开公式 %q 中的宏失败: %w", f.Text, err)
			return f.err
		}
		source = expanded
	}
	d, err := r.RenderFormula(f.Kind, source, f.Color, f.FontSize())
	if err != nil {
		f.err = fmt.Errorf("渲染公式 %q 失败: %w", f.Text, err)
		return f.err
	}
	f.drawable, f.err = d, nil
	return nil
}

// Err returns the last rendering error.
func (f *FormulaBox) Err() error { return f.err }

// SetVisuals re-renders the formula when the resolved font or color changes.
func (f *FormulaBox) SetVisuals(v visuals.Visuals) {
	t, ok := v.(*visuals.Text)
	if !ok {
		return
	}
	font, color := f.Font, f.Color
	f.applyTextVisuals(&f.Graphics, t)
	if f.renderer != nil && (font != f.Font || color != f.Color) {
		if err := f.Load(f.renderer); err != nil {
			Logger().Warn("formula re-render failed", "kind", string(f.Kind), "err", err)
		}
	}
}

// Dimensions is the rendered size, zero until loaded.
func (f *FormulaBox) Dimensions() Size {
	if f.drawable == nil {
		return Size{}
	}
	return f.drawable.Size()
}

func (f *FormulaBox) Size() Size             { return rotatedSize(f.Dimensions(), f.angle) }
func (f *FormulaBox) Rect() geom.Rect        { return rotatedRect(f.localRect(), f.position, f.angle) }
func (f *FormulaBox) BBox() geom.BBox        { return bboxOf(f.Rect()) }
func (f *FormulaBox) ComputePadding() Offset { return f.padding.Resolve(f.Dimensions()) }
func (f *FormulaBox) PaintRect(ctx Context)  { paintRect(ctx, f.Rect()) }
func (f *FormulaBox) PaintBBox(ctx Context)  { paintBBox(ctx, f.BBox()) }

// ComputedPosition resolves the anchor; a formula's baseline is its bottom edge.
func (f *FormulaBox) ComputedPosition() (x, y float64) {
	return anchoredOrigin(f.position, f.Dimensions(), func() float64 { return f.Dimensions().Height })
}

func (f *FormulaBox) localRect() geom.Rect {
	size := f.Dimensions()
	x, y := f.ComputedPosition()
	return geom.XYWH(x, y, size.Width, size.Height).Rect()
}

// Paint draws the rendered element; nothing is drawn before Load succeeds.
func (f *FormulaBox) Paint(ctx Context) {
	if f.drawable == nil {
		return
	}
	ctx.Save()
	defer ctx.Restore()
	rotateAbout(ctx, f.position.SX, f.position.SY, f.angle)
	x, y := f.ComputedPosition()
	f.drawable.Draw(ctx, x, y)
}

func (f *FormulaBox) HasLoaded() bool { return f.drawable != nil }

// HasFinished reports whether a render attempt has completed, successfully or not.
func (f *FormulaBox) HasFinished() bool { return f.drawable != nil || f.err != nil }

// Remove drops the rendered element.
func (f *FormulaBox) Remove() {
	f.drawable = nil
	f.renderer = nil
}
