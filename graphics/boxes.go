package graphics

import (
	"math"

	"github.com/ByLCY/glyphbox/visuals"
)

// Boxes 是一组 box 的批量操作集合。它只广播设置，不拥有布局。
type Boxes struct {
	Items []Box
}

// NewBoxes wraps items.
func NewBoxes(items ...Box) *Boxes { return &Boxes{Items: items} }

// Len returns the number of items.
func (bs *Boxes) Len() int { return len(bs.Items) }

// SetBaseFontSize forwards v to every item.
func (bs *Boxes) SetBaseFontSize(v float64) {
	for _, item := range bs.Items {
		item.SetBaseFontSize(v)
	}
}

// SetVisuals 先把视觉属性传给每一项，再把共同的文本高度度量强制到所有项上。
func (bs *Boxes) SetVisuals(v visuals.Visuals) {
	for _, item := range bs.Items {
		item.SetVisuals(v)
	}
	unifyTextHeight(bs.Items)
}

// SetAngle forwards angle to every item.
func (bs *Boxes) SetAngle(angle float64) {
	for _, item := range bs.Items {
		item.SetAngle(angle)
	}
}

// MaxSize returns the component-wise maximum of the items' sizes.
func (bs *Boxes) MaxSize() Size {
	return maxSize(bs.Items)
}

// CommonTextHeight returns the metric shared by the items.
func (bs *Boxes) CommonTextHeight() TextHeightMetric { return CommonTextHeight(bs.Items) }

func maxSize(items []Box) Size {
	var out Size
	for _, item := range items {
		s := item.Size()
		out.Width = math.Max(out.Width, s.Width)
		out.Height = math.Max(out.Height, s.Height)
	}
	return out
}
