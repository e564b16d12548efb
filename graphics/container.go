package graphics

import (
	"math"
	"strings"

	"github.com/ByLCY/glyphbox/geom"
	"github.com/ByLCY/glyphbox/tex"
	"github.com/ByLCY/glyphbox/visuals"
)

// Container 把若干 box 从左到右水平拼接，例如普通文本与数学片段混排。
// 它自身的文本是各项文本的拼接，只用于样式解析，从不单独绘制。
type Container struct {
	Graphics
	textStyle

	items   []Box
	loading bool
}

var _ Box = (*Container)(nil)

// NewContainer takes ownership of items. A loading container reports not ready
// until SetLoading(false) is called.
func NewContainer(items []Box, loading bool) *Container {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = contentOf(item)
	}
	return &Container{
		Graphics:  newGraphics(),
		textStyle: textStyle{Text: strings.Join(parts, ""), LineHeight: 1, Align: AlignLeft},
		items:     items,
		loading:   loading,
	}
}

func (c *Container) Items() []Box    { return c.items }
func (c *Container) Children() []Box { return c.items }
func (c *Container) Len() int        { return len(c.items) }
func (c *Container) Content() string { return c.Text }

// SetLoading marks the container itself as waiting for external content.
func (c *Container) SetLoading(loading bool) { c.loading = loading }

// SetBaseFontSize pushes v into every item.
func (c *Container) SetBaseFontSize(v float64) {
	c.Graphics.SetBaseFontSize(v)
	for _, item := range c.items {
		item.SetBaseFontSize(v)
	}
}

// SetAngle pushes angle into every item.
func (c *Container) SetAngle(angle float64) {
	c.angle = angle
	for _, item := range c.items {
		item.SetAngle(angle)
	}
}

// SetVisuals 解析自身样式后下发给每一项，再统一各项的文本高度度量。
func (c *Container) SetVisuals(v visuals.Visuals) {
	if t, ok := v.(*visuals.Text); ok {
		c.applyTextVisuals(&c.Graphics, t)
	}
	for _, item := range c.items {
		item.SetVisuals(v)
	}
	unifyTextHeight(c.items)
}

// NewMixedText splits text on TeX delimiters ($…$, \(…\) and the display
// forms) into a container of text runs and TeX formulas, in order.
func NewMixedText(text string) (*Container, error) {
	segments, err := tex.Split(text)
	if err != nil {
		return nil, err
	}
	items := make([]Box, 0, len(segments))
	for _, seg := range segments {
		if seg.Math {
			items = append(items, NewFormulaBox(FormulaTeX, seg.Text))
		} else {
			items = append(items, NewTextBox(seg.Text))
		}
	}
	return NewContainer(items, false), nil
}

// InferTextHeight follows the first text run; expo and formula items are skipped.
func (c *Container) InferTextHeight() TextHeightMetric {
	for _, item := range c.items {
		switch item.(type) {
		case *TextBox, *Container:
			return item.InferTextHeight()
		}
	}
	return MetricAscentDescent
}

// MaxSize returns the component-wise maximum of the items' sizes.
func (c *Container) MaxSize() Size { return maxSize(c.items) }

// MaxYPadding 返回绝对值最大的那一项的带符号纵向 padding。
func (c *Container) MaxYPadding() float64 {
	maxPy, maxAbs := 0.0, 0.0
	for _, item := range c.items {
		py := item.ComputePadding().Y
		if math.Abs(py) > maxAbs {
			maxAbs = math.Abs(py)
			maxPy = py
		}
	}
	return maxPy
}

// Dimensions sums the item widths; the height is the tallest item.
func (c *Container) Dimensions() Size {
	width := 0.0
	for _, item := range c.items {
		width += item.Dimensions().Width
	}
	return Size{Width: width, Height: c.MaxSize().Height}
}

func (c *Container) Size() Size             { return rotatedSize(c.Dimensions(), c.angle) }
func (c *Container) Rect() geom.Rect        { return rotatedRect(c.localRect(), c.position, c.angle) }
func (c *Container) BBox() geom.BBox        { return bboxOf(c.Rect()) }
func (c *Container) ComputePadding() Offset { return c.padding.Resolve(c.Dimensions()) }
func (c *Container) PaintRect(ctx Context)  { paintRect(ctx, c.Rect()) }
func (c *Container) PaintBBox(ctx Context)  { paintBBox(ctx, c.BBox()) }

// ComputedPosition resolves the container's anchor; baseline is half the height.
func (c *Container) ComputedPosition() (x, y float64) {
	return anchoredOrigin(c.position, c.Dimensions(), nil)
}

func (c *Container) localRect() geom.Rect {
	size := c.Dimensions()
	x, y := c.ComputedPosition()
	return geom.XYWH(x, y, size.Width, size.Height).Rect()
}

// Reposition stores p and lays the items out left to right from the container's computed x.
func (c *Container) Reposition(p Position) {
	c.position = p
	x, _ := c.ComputedPosition()
	c.layoutItems(x, p)
}

// layoutItems 把每一项放在共同的纵向锚点上。top 锚点按容器最大高度修正；
// baseline 锚点改为 bottom 并下移容器字体的 descent。
// 当各项 padding 不一致时，只在 top/bottom 锚点下按最大 padding 的差值修正。
func (c *Container) layoutItems(sx float64, p Position) {
	if len(c.items) == 0 {
		return
	}
	anchor := p.YAnchorOrDefault()
	containerHeight := c.MaxSize().Height
	yPadding := c.MaxYPadding()

	itemAnchor := anchor
	if anchor.Kind == AnchorBaseline {
		itemAnchor = Bottom
	}

	for i, item := range c.items {
		if i > 0 {
			sx += c.items[i-1].Dimensions().Width
		}
		height := item.Size().Height

		var shift float64
		switch anchor.Kind {
		case AnchorFraction:
			shift = anchor.Frac * height
		case AnchorTop:
			shift = height - containerHeight
		case AnchorBaseline:
			shift = -fontMetrics(c.Font).Descent
		}
		itemSY := p.SY - shift

		if yPadding != 0 {
			itemPadding := item.ComputePadding().Y
			Logger().Debug("container padding correction",
				"item", i, "itemPadding", itemPadding, "yPadding", yPadding, "anchor", anchor.String())
			if anchor.Kind == AnchorTop || anchor.Kind == AnchorBottom {
				itemSY -= yPadding - itemPadding
			}
		}

		item.Reposition(Position{SX: sx, SY: itemSY, XAnchor: Left, YAnchor: itemAnchor})
	}
}

// Paint paints the items in order; each already carries an absolute position.
func (c *Container) Paint(ctx Context) {
	for _, item := range c.items {
		item.Paint(ctx)
	}
}

// HasLoaded is false while the container or any item is still loading.
func (c *Container) HasLoaded() bool {
	if c.loading {
		return false
	}
	for _, item := range c.items {
		if !item.HasLoaded() {
			return false
		}
	}
	return true
}

// HasFinished mirrors HasLoaded with the items' HasFinished.
func (c *Container) HasFinished() bool {
	if c.loading {
		return false
	}
	for _, item := range c.items {
		if !item.HasFinished() {
			return false
		}
	}
	return true
}

// Remove releases every item.
func (c *Container) Remove() {
	for _, item := range c.items {
		item.Remove()
	}
}

func (c *Container) singleLineMetrics() (FontMetrics, bool) {
	if strings.Contains(c.Text, "\n") {
		return FontMetrics{}, false
	}
	return fontMetrics(c.Font), true
}
