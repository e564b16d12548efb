// Package graphics 测量、定位、旋转并绘制富文本图元：普通文本、上标复合体与水平拼接的文本序列。
// 所有尺寸查询都基于当前对象图实时计算，不缓存布局树。
package graphics

import (
	"errors"
	"math"

	"github.com/ByLCY/glyphbox/geom"
	"github.com/ByLCY/glyphbox/visuals"
)

// Size is an unrotated or axis-aligned extent in px.
type Size = geom.Size

const (
	// DefaultBaseFontSize 与宿主页面根字号一致（13px），em 字号以它为基准。
	DefaultBaseFontSize = 13.0
	// ExpoFontScale 是指数部分相对底数的字号比例。
	ExpoFontScale = 0.7
	// DefaultShiftScale is used when the base is not single-line text.
	DefaultShiftScale = 2.0 / 3.0
)

var (
	// ErrNotImplemented is returned for conversions that are deliberately unsupported.
	ErrNotImplemented = errors.New("not implemented")
	// ErrNoSurface is returned by callers asked to paint without a drawing context.
	ErrNoSurface = errors.New("no drawing surface")
)

// Box is implemented by every renderable node: TextBox, BaseExpo, Container and FormulaBox.
type Box interface {
	// Dimensions is the intrinsic, unrotated size.
	Dimensions() Size
	// Size is the axis-aligned footprint after rotation.
	Size() Size
	// Rect is the oriented rectangle in surface coordinates.
	Rect() geom.Rect
	// BBox is the axis-aligned bounding box of Rect.
	BBox() geom.BBox
	Paint(ctx Context)
	PaintRect(ctx Context)
	PaintBBox(ctx Context)

	Position() Position
	// Reposition stores a new anchor and recomputes any owned child positions.
	Reposition(p Position)
	Angle() float64
	SetAngle(angle float64)
	BaseFontSize() float64
	SetBaseFontSize(v float64)
	SetFontSizeScale(scale float64)
	SetVisuals(v visuals.Visuals)

	InferTextHeight() TextHeightMetric
	SetTextHeightMetric(m TextHeightMetric)
	Padding() *Padding
	SetPadding(p *Padding)
	ComputePadding() Offset

	HasLoaded() bool
	HasFinished() bool
	Remove()
}

// Graphics holds the state shared by every box. Concrete boxes embed it.
type Graphics struct {
	position      Position
	angle         float64
	fontSizeScale float64
	baseFontSize  float64
	metric        *TextHeightMetric
	padding       *Padding
}

func newGraphics() Graphics {
	return Graphics{fontSizeScale: 1, baseFontSize: DefaultBaseFontSize}
}

func (g *Graphics) Position() Position         { return g.position }
func (g *Graphics) Reposition(p Position)      { g.position = p }
func (g *Graphics) Angle() float64             { return g.angle }
func (g *Graphics) SetAngle(angle float64)     { g.angle = angle }
func (g *Graphics) BaseFontSize() float64      { return g.baseFontSize }
func (g *Graphics) Padding() *Padding          { return g.padding }
func (g *Graphics) SetPadding(p *Padding)      { g.padding = p }
func (g *Graphics) FontSizeScale() float64     { return g.fontSizeScale }
func (g *Graphics) SetFontSizeScale(s float64) { g.fontSizeScale = s }

// SetBaseFontSize ignores non-positive values.
func (g *Graphics) SetBaseFontSize(v float64) {
	if v > 0 {
		g.baseFontSize = v
	}
}

// SetTextHeightMetric overrides the inferred metric.
func (g *Graphics) SetTextHeightMetric(m TextHeightMetric) { g.metric = &m }

// TextHeightMetric returns the override, if any.
func (g *Graphics) TextHeightMetric() (TextHeightMetric, bool) {
	if g.metric == nil {
		return 0, false
	}
	return *g.metric, true
}

// InferTextHeight is the conservative default.
func (g *Graphics) InferTextHeight() TextHeightMetric { return MetricAscentDescent }

func (g *Graphics) HasLoaded() bool   { return true }
func (g *Graphics) HasFinished() bool { return true }
func (g *Graphics) Remove()           {}

// rotatedSize 解析地计算旋转后的轴对齐尺寸，使用角度的绝对值。
func rotatedSize(dims Size, angle float64) Size {
	if angle == 0 {
		return dims
	}
	s, c := math.Sincos(math.Abs(angle))
	return Size{
		Width:  math.Abs(dims.Width*c + dims.Height*s),
		Height: math.Abs(dims.Width*s + dims.Height*c),
	}
}

// rotatedRect rotates local about the anchor point of p.
func rotatedRect(local geom.Rect, p Position, angle float64) geom.Rect {
	if angle == 0 {
		return local
	}
	return geom.RotateAbout(local, p.SX, p.SY, angle)
}

func bboxOf(r geom.Rect) geom.BBox { return r.BBox() }
