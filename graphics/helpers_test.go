package graphics

import (
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/glyphbox/css"
	"github.com/ByLCY/glyphbox/visuals"
)

// stubMeasurer 是一个可预测的度量后端：每个字符宽 0.5em，
// ascent 0.8em、descent 0.2em、cap 0.6em、x 0.4em、行高 1.2em。无法解析的字体按 10px 处理。
type stubMeasurer struct{}

func stubSize(font string) float64 {
	f, err := css.ParseFont(font)
	if err != nil {
		return 10
	}
	return f.Size.Pixels(10)
}

func (stubMeasurer) TextWidth(text, font string) float64 {
	return 0.5 * stubSize(font) * float64(utf8.RuneCountInString(text))
}

func (stubMeasurer) FontMetrics(font string) FontMetrics {
	s := stubSize(font)
	return FontMetrics{Height: 1.2 * s, Ascent: 0.8 * s, Descent: 0.2 * s, CapHeight: 0.6 * s, XHeight: 0.4 * s}
}

func useStubMeasurer(t *testing.T) {
	t.Helper()
	SetMeasurer(stubMeasurer{})
	t.Cleanup(func() { SetMeasurer(nil) })
}

// textVisuals returns 10px text visuals with line height 1.
func textVisuals() *visuals.Text {
	v := visuals.DefaultText()
	v.TextFontSize.Set("10px")
	v.TextFont.Set("Serif")
	v.TextLineHeight.Set(1)
	return v
}

// recordingContext 记录所有绘图调用，便于断言绘制顺序与坐标。
type recordingContext struct {
	ops []string
}

func (r *recordingContext) rec(format string, args ...any) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *recordingContext) Save()                  { r.rec("save") }
func (r *recordingContext) Restore()               { r.rec("restore") }
func (r *recordingContext) Translate(x, y float64) { r.rec("translate %g %g", x, y) }
func (r *recordingContext) Rotate(angle float64)   { r.rec("rotate %.4f", angle) }
func (r *recordingContext) BeginPath()             { r.rec("begin") }
func (r *recordingContext) MoveTo(x, y float64)    { r.rec("move %g %g", x, y) }
func (r *recordingContext) LineTo(x, y float64)    { r.rec("line %g %g", x, y) }
func (r *recordingContext) ClosePath()             { r.rec("close") }
func (r *recordingContext) Stroke()                { r.rec("stroke") }
func (r *recordingContext) FillText(text string, x, y float64) {
	r.rec("text %q %g %g", text, x, y)
}
func (r *recordingContext) SetFillStyle(style string)       { r.rec("fill %s", style) }
func (r *recordingContext) SetStrokeStyle(style string)     { r.rec("strokeStyle %s", style) }
func (r *recordingContext) SetLineWidth(width float64)      { r.rec("lineWidth %g", width) }
func (r *recordingContext) SetFont(font string)             { r.rec("font %s", font) }
func (r *recordingContext) SetTextAlign(align string)       { r.rec("align %s", align) }
func (r *recordingContext) SetTextBaseline(baseline string) { r.rec("baseline %s", baseline) }

// texts returns only the FillText calls.
func (r *recordingContext) texts() []string {
	var out []string
	for _, op := range r.ops {
		if len(op) > 5 && op[:5] == "text " {
			out = append(out, op)
		}
	}
	return out
}

// stubDrawable is a fixed-size rendered element.
type stubDrawable struct {
	size Size
}

func (d stubDrawable) Size() Size { return d.size }
func (d stubDrawable) Draw(ctx Context, x, y float64) {
	ctx.FillText("formula", x, y)
}

// stubFormulas renders every formula as a 20x10 element, except ASCII-math.
type stubFormulas struct {
	calls int
	last  string
}

func (s *stubFormulas) RenderFormula(kind FormulaKind, source, color string, fontSize float64) (Drawable, error) {
	s.calls++
	s.last = fmt.Sprintf("%s|%s|%s|%g", kind, source, color, fontSize)
	if kind == FormulaASCIIMath {
		return nil, ErrNotImplemented
	}
	return stubDrawable{size: Size{Width: 20, Height: 10}}, nil
}

// visualsLineStub is a bundle text boxes ignore.
var visualsLineStub = visuals.Line{LineWidth: visuals.Of(1.0)}
