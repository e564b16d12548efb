package scene

import (
	"github.com/ByLCY/glyphbox/geom"
	"github.com/ByLCY/glyphbox/graphics"
)

// Paint 依次绘制所有图元；Debug 图元额外绘制 rect（红）与 bbox（蓝）。
// 背景由渲染器负责。
func (s *Scene) Paint(ctx graphics.Context) error {
	if ctx == nil {
		return graphics.ErrNoSurface
	}
	for _, item := range s.Items {
		item.Box.Paint(ctx)
		if item.Debug {
			item.Box.PaintRect(ctx)
			item.Box.PaintBBox(ctx)
		}
	}
	return nil
}

// Ready reports whether every item has finished loading, successfully or not.
func (s *Scene) Ready() bool {
	for _, item := range s.Items {
		if !item.Box.HasFinished() {
			return false
		}
	}
	return true
}

// Bounds 返回所有图元 bbox 的并集；没有图元时返回画布范围。
func (s *Scene) Bounds() geom.BBox {
	if len(s.Items) == 0 {
		return geom.XYWH(0, 0, s.Width, s.Height)
	}
	bounds := s.Items[0].Box.BBox()
	for _, item := range s.Items[1:] {
		bounds = bounds.Union(item.Box.BBox())
	}
	return bounds
}

// Remove releases resources held by every item.
func (s *Scene) Remove() {
	for _, item := range s.Items {
		item.Box.Remove()
	}
}
