package graphics

import (
	"math"

	"github.com/ByLCY/glyphbox/geom"
	"github.com/ByLCY/glyphbox/visuals"
)

// singleLiner is implemented by boxes that can report the metrics of their single text line.
type singleLiner interface {
	singleLineMetrics() (FontMetrics, bool)
}

// BaseExpo 是上标复合体：exponent 从 base 的右端开始，并上移 base 高度的 shift scale 倍。
// 两个子 box 归复合体独占，子 box 的位置是相对复合体左上角的局部坐标。
type BaseExpo struct {
	Graphics
	base Box
	expo Box
}

var _ Box = (*BaseExpo)(nil)

// NewBaseExpo takes ownership of base and expo.
func NewBaseExpo(base, expo Box) *BaseExpo {
	return &BaseExpo{Graphics: newGraphics(), base: base, expo: expo}
}

func (e *BaseExpo) Base() Box       { return e.base }
func (e *BaseExpo) Expo() Box       { return e.expo }
func (e *BaseExpo) Children() []Box { return []Box{e.base, e.expo} }

// Content concatenates the children's text, when they have any.
func (e *BaseExpo) Content() string { return contentOf(e.base) + contentOf(e.expo) }

// SetBaseFontSize propagates v into both children.
func (e *BaseExpo) SetBaseFontSize(v float64) {
	e.Graphics.SetBaseFontSize(v)
	e.base.SetBaseFontSize(v)
	e.expo.SetBaseFontSize(v)
}

// SetVisuals renders the exponent at ExpoFontScale before handing v to both children.
func (e *BaseExpo) SetVisuals(v visuals.Visuals) {
	e.expo.SetFontSizeScale(ExpoFontScale)
	e.base.SetVisuals(v)
	e.expo.SetVisuals(v)
}

// ShiftScale 单行文本底数使用 x_height/cap_height，使指数基线对齐底数的 x 高度；否则为 2/3。
func (e *BaseExpo) ShiftScale() float64 {
	if sl, ok := e.base.(singleLiner); ok {
		if fm, ok := sl.singleLineMetrics(); ok && fm.CapHeight > 0 {
			return fm.XHeight / fm.CapHeight
		}
	}
	return DefaultShiftScale
}

// Reposition stores p and places the children in local coordinates:
// base bottom-left at (0, height), expo bottom-left at (base width, shift).
func (e *BaseExpo) Reposition(p Position) {
	e.position = p

	bs := e.base.Size()
	es := e.expo.Size()
	shift := e.ShiftScale() * bs.Height
	height := math.Max(bs.Height, shift+es.Height)

	e.base.Reposition(Position{SX: 0, SY: height, XAnchor: Left, YAnchor: Bottom})
	e.expo.Reposition(Position{SX: bs.Width, SY: shift, XAnchor: Left, YAnchor: Bottom})
}

func (e *BaseExpo) InferTextHeight() TextHeightMetric { return e.base.InferTextHeight() }

// Dimensions implements Box.
func (e *BaseExpo) Dimensions() Size {
	bs := e.base.Size()
	es := e.expo.Size()
	return Size{
		Width:  bs.Width + es.Width,
		Height: math.Max(bs.Height, e.ShiftScale()*bs.Height+es.Height),
	}
}

func (e *BaseExpo) Size() Size             { return rotatedSize(e.Dimensions(), e.angle) }
func (e *BaseExpo) Rect() geom.Rect        { return rotatedRect(e.localRect(), e.position, e.angle) }
func (e *BaseExpo) BBox() geom.BBox        { return bboxOf(e.Rect()) }
func (e *BaseExpo) ComputePadding() Offset { return e.padding.Resolve(e.Dimensions()) }
func (e *BaseExpo) PaintRect(ctx Context)  { paintRect(ctx, e.Rect()) }

// ComputedPosition resolves the composite's own anchor.
// TODO: baseline anchoring uses half the height until the base's baseline is propagated.
func (e *BaseExpo) ComputedPosition() (x, y float64) {
	return anchoredOrigin(e.position, e.Dimensions(), nil)
}

func (e *BaseExpo) localRect() geom.Rect {
	union := e.base.BBox().Union(e.expo.BBox())
	x, y := e.ComputedPosition()
	return union.Translate(x, y).Rect()
}

// Paint draws base then expo in the composite's local coordinates.
func (e *BaseExpo) Paint(ctx Context) {
	ctx.Save()
	defer ctx.Restore()
	rotateAbout(ctx, e.position.SX, e.position.SY, e.angle)
	x, y := e.ComputedPosition()
	ctx.Translate(x, y)
	e.base.Paint(ctx)
	e.expo.Paint(ctx)
}

// PaintBBox outlines the composite and then each child in local coordinates.
func (e *BaseExpo) PaintBBox(ctx Context) {
	paintBBox(ctx, e.BBox())
	x, y := e.ComputedPosition()
	ctx.Save()
	defer ctx.Restore()
	ctx.Translate(x, y)
	for _, child := range e.Children() {
		child.PaintBBox(ctx)
	}
}

func (e *BaseExpo) HasLoaded() bool   { return e.base.HasLoaded() && e.expo.HasLoaded() }
func (e *BaseExpo) HasFinished() bool { return e.base.HasFinished() && e.expo.HasFinished() }

func (e *BaseExpo) Remove() {
	e.base.Remove()
	e.expo.Remove()
}

// texter is implemented by boxes carrying source text.
type texter interface {
	Content() string
}

func contentOf(b Box) string {
	if t, ok := b.(texter); ok {
		return t.Content()
	}
	return ""
}
