// Package geom 把 tdewolff/canvas 的几何类型包装为排版引擎使用的形式：四角矩形与轴对齐包围盒。
// 坐标系与绘图表面一致：原点在左上角，y 轴向下，因此 canvas 中逆时针的角度在页面上是顺时针。
package geom

import (
	"encoding/json"
	"math"

	"github.com/tdewolff/canvas"
)

// Point is a canvas point.
type Point = canvas.Point

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Size 记录宽高，单位与绘图表面一致（px）。
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect 是按顺时针顺序给出的四个角点：0 左上，1 右上，2 右下，3 左下。
// 旋转之后它不再轴对齐。
type Rect [4]Point

// Corners returns the four corners in order.
func (r Rect) Corners() [4]Point { return r }

// Transform applies m to every corner.
func (r Rect) Transform(m canvas.Matrix) Rect {
	for i := range r {
		r[i] = m.Dot(r[i])
	}
	return r
}

// BBox returns the axis-aligned bounds of the corners.
func (r Rect) BBox() BBox { return BBox(canvas.RectFromPoints(r[:]...)) }

// BBox 表示轴对齐包围盒；Y0 为上边，Y1 为下边。
type BBox canvas.Rect

// XYWH builds a bbox from its top-left corner and size.
func XYWH(x, y, width, height float64) BBox {
	return BBox(canvas.RectFromSize(x, y, width, height))
}

func (b BBox) Left() float64   { return b.X0 }
func (b BBox) Top() float64    { return b.Y0 }
func (b BBox) Right() float64  { return b.X1 }
func (b BBox) Bottom() float64 { return b.Y1 }
func (b BBox) X() float64      { return b.X0 }
func (b BBox) Y() float64      { return b.Y0 }
func (b BBox) Width() float64  { return canvas.Rect(b).W() }
func (b BBox) Height() float64 { return canvas.Rect(b).H() }

// Union returns the bbox covering both b and o.
func (b BBox) Union(o BBox) BBox { return BBox(canvas.Rect(b).Add(canvas.Rect(o))) }

// Translate shifts the bbox by (dx, dy).
func (b BBox) Translate(dx, dy float64) BBox { return BBox(canvas.Rect(b).Translate(dx, dy)) }

// Rect returns the corners of the bbox.
func (b BBox) Rect() Rect {
	return Rect{
		{X: b.X0, Y: b.Y0},
		{X: b.X1, Y: b.Y0},
		{X: b.X1, Y: b.Y1},
		{X: b.X0, Y: b.Y1},
	}
}

// MarshalJSON 以 left/top/right/bottom 输出，供调试快照使用。
func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Left   float64 `json:"left"`
		Top    float64 `json:"top"`
		Right  float64 `json:"right"`
		Bottom float64 `json:"bottom"`
	}{b.X0, b.Y0, b.X1, b.Y1})
}

// Degrees converts radians to the degrees canvas.Matrix expects.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// RotateAbout rotates r by angle radians around (cx, cy), clockwise on the page.
func RotateAbout(r Rect, cx, cy, angle float64) Rect {
	return r.Transform(canvas.Identity.RotateAbout(Degrees(angle), cx, cy))
}
