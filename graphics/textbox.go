package graphics

import (
	"math"
	"strings"

	"github.com/ByLCY/glyphbox/css"
	"github.com/ByLCY/glyphbox/geom"
	"github.com/ByLCY/glyphbox/visuals"
)

// TextAlign 是多行文本的水平对齐方式。
type TextAlign string

const (
	AlignLeft    TextAlign = "left"
	AlignCenter  TextAlign = "center"
	AlignRight   TextAlign = "right"
	AlignJustify TextAlign = "justify"
)

// textStyle 是 TextBox 与 Container 共用的已解析文本样式。
type textStyle struct {
	Text       string
	Font       string // css font string
	Color      string // css color string
	LineHeight float64
	Align      TextAlign

	// WidthPercent / HeightPercent scale the measured size; 0 means 100%.
	WidthPercent  float64
	HeightPercent float64
}

// applyTextVisuals 从视觉属性中提取字体、颜色与行高。
// 字号先乘以 fontSizeScale，em 再按 baseFontSize 换算为 px。
func (s *textStyle) applyTextVisuals(g *Graphics, v *visuals.Text) {
	size := v.TextFontSize.Value()
	if l, ok := css.ParseFontSize(size); ok {
		l.Value *= g.fontSizeScale
		if l.Unit == css.UnitEM && g.baseFontSize > 0 {
			l.Value *= g.baseFontSize
			l.Unit = css.UnitPX
		}
		size = l.String()
	}
	s.Font = strings.Join([]string{v.TextFontStyle.Value(), size, v.TextFont.Value()}, " ")
	s.Color = visuals.ColorCSS(v.TextColor.Value(), v.TextAlpha.Value())
	s.LineHeight = v.TextLineHeight.Value()
}

// TextBox is a single, possibly multi-line, text run.
type TextBox struct {
	Graphics
	textStyle
}

var _ Box = (*TextBox)(nil)

// NewTextBox creates a left-aligned text box with line height 1.
func NewTextBox(text string) *TextBox {
	return &TextBox{
		Graphics:  newGraphics(),
		textStyle: textStyle{Text: text, LineHeight: 1, Align: AlignLeft},
	}
}

// Content returns the raw text.
func (b *TextBox) Content() string { return b.Text }

// SetVisuals accepts *visuals.Text; other bundles are ignored.
func (b *TextBox) SetVisuals(v visuals.Visuals) {
	if t, ok := v.(*visuals.Text); ok {
		b.applyTextVisuals(&b.Graphics, t)
	}
}

// NLines returns the number of lines in the text.
func (b *TextBox) NLines() int { return strings.Count(b.Text, "\n") + 1 }

// InferTextHeight 多行文本使用完整的 ascent+descent；
// 只含数字、分隔符、正负号与 e 的单行文本按大写高度对齐。
func (b *TextBox) InferTextHeight() TextHeightMetric {
	return inferTextHeight(b.Text)
}

func inferTextHeight(text string) TextHeightMetric {
	if strings.Contains(text, "\n") {
		return MetricAscentDescent
	}
	if isNumericLike(text) {
		return MetricCap
	}
	return MetricAscentDescent
}

func isNumericLike(text string) bool {
	for _, c := range text {
		if '0' <= c && c <= '9' {
			continue
		}
		switch c {
		case ',', '.', '+', '-', '−', 'e':
			continue
		default:
			return false
		}
	}
	return true
}

// activeMetric returns the override if set, otherwise the inferred metric.
func (b *TextBox) activeMetric() TextHeightMetric {
	if m, ok := b.TextHeightMetric(); ok {
		return m
	}
	return b.InferTextHeight()
}

// TextLine 是单行文本在给定度量下的上延、下延与总高。
type TextLine struct {
	Height  float64 `json:"height"`
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
}

func textLineFor(m TextHeightMetric, fm FontMetrics) TextLine {
	ascent := m.ascent(fm)
	descent := m.descent(fm)
	return TextLine{Height: ascent + descent, Ascent: ascent, Descent: descent}
}

// TextLine maps the active metric onto fm.
func (b *TextBox) TextLine(fm FontMetrics) TextLine {
	return textLineFor(b.activeMetric(), fm)
}

type textLayout struct {
	lines   []string
	widths  []float64
	metrics FontMetrics
	line    TextLine
	spacing float64
	size    Size
}

func (b *TextBox) layout() textLayout {
	fm := fontMetrics(b.Font)
	lines := strings.Split(b.Text, "\n")
	widths := make([]float64, len(lines))
	maxWidth := 0.0
	for i, line := range lines {
		widths[i] = textWidth(line, b.Font)
		maxWidth = math.Max(maxWidth, widths[i])
	}
	tl := b.TextLine(fm)
	spacing := (b.LineHeight - 1) * fm.Height
	nlines := float64(len(lines))

	height := 0.0
	if b.Text != "" {
		height = (tl.Height*nlines + spacing*(nlines-1)) * percentScale(b.HeightPercent)
	}
	return textLayout{
		lines:   lines,
		widths:  widths,
		metrics: fm,
		line:    tl,
		spacing: spacing,
		size:    Size{Width: maxWidth * percentScale(b.WidthPercent), Height: height},
	}
}

func percentScale(p float64) float64 {
	if p == 0 {
		return 1
	}
	return p / 100
}

// Dimensions implements Box. Empty text has zero height.
func (b *TextBox) Dimensions() Size { return b.layout().size }

// Metrics returns the font metrics of the resolved font.
func (b *TextBox) Metrics() FontMetrics { return fontMetrics(b.Font) }

func (b *TextBox) Size() Size             { return rotatedSize(b.Dimensions(), b.angle) }
func (b *TextBox) Rect() geom.Rect        { return rotatedRect(b.localRect(), b.position, b.angle) }
func (b *TextBox) BBox() geom.BBox        { return bboxOf(b.Rect()) }
func (b *TextBox) ComputePadding() Offset { return b.padding.Resolve(b.Dimensions()) }
func (b *TextBox) PaintRect(ctx Context)  { paintRect(ctx, b.Rect()) }
func (b *TextBox) PaintBBox(ctx Context)  { paintBBox(ctx, b.BBox()) }

// baselineAnchor 单行文本返回度量对应的上延，多行文本返回半高。
func (b *TextBox) baselineAnchor() float64 {
	if b.NLines() == 1 {
		return b.activeMetric().ascent(fontMetrics(b.Font))
	}
	return 0.5 * b.Dimensions().Height
}

// ComputedPosition resolves the anchor into the top-left corner of the unrotated box.
func (b *TextBox) ComputedPosition() (x, y float64) {
	return anchoredOrigin(b.position, b.Dimensions(), b.baselineAnchor)
}

func (b *TextBox) localRect() geom.Rect {
	size := b.Dimensions()
	x, y := b.ComputedPosition()
	return geom.XYWH(x, y, size.Width, size.Height).Rect()
}

// Paint draws every line, rotated about the anchor point.
func (b *TextBox) Paint(ctx Context) {
	lay := b.layout()

	ctx.Save()
	defer ctx.Restore()
	ctx.SetFillStyle(b.Color)
	ctx.SetFont(b.Font)
	ctx.SetTextAlign("left")
	ctx.SetTextBaseline("alphabetic")

	rotateAbout(ctx, b.position.SX, b.position.SY, b.angle)

	width := lay.size.Width
	x, y := anchoredOrigin(b.position, lay.size, b.baselineAnchor)
	step := lay.line.Height + lay.spacing

	if b.Align == AlignJustify {
		for _, line := range lay.lines {
			paintJustified(ctx, line, b.Font, x, y+lay.line.Ascent, width)
			y += step
		}
		return
	}
	for i, line := range lay.lines {
		xi := x
		switch b.Align {
		case AlignCenter:
			xi += 0.5 * (width - lay.widths[i])
		case AlignRight:
			xi += width - lay.widths[i]
		}
		ctx.FillText(line, xi, y+lay.line.Ascent)
		y += step
	}
}

// paintJustified 将一行的单词铺满 width；只有一个单词时不分配间距。
func paintJustified(ctx Context, line, font string, x, baseline, width float64) {
	words := strings.Split(line, " ")
	widths := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		widths[i] = textWidth(word, font)
		total += widths[i]
	}
	spacing := 0.0
	if len(words) > 1 {
		spacing = (width - total) / float64(len(words)-1)
	}
	for i, word := range words {
		ctx.FillText(word, x, baseline)
		x += widths[i] + spacing
	}
}

// singleLineMetrics reports the font metrics when the box renders exactly one line.
func (b *TextBox) singleLineMetrics() (FontMetrics, bool) {
	if b.NLines() != 1 {
		return FontMetrics{}, false
	}
	return fontMetrics(b.Font), true
}
