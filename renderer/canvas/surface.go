package canvasrenderer

import (
	"image/color"
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/glyphbox/geom"
	"github.com/ByLCY/glyphbox/graphics"
	"github.com/ByLCY/glyphbox/scene"
)

// surfaceState 是 Save/Restore 保存的绘图状态。view 以 px 为单位、y 轴向下。
type surfaceState struct {
	view      canvas.Matrix
	fill      color.Color
	stroke    color.Color
	lineWidth float64
	font      string
	align     canvas.TextAlign
	baseline  string
}

// Surface adapts a tdewolff canvas.Context to graphics.Context. Coordinates
// are px with the origin at the top-left corner; the page itself is in mm with
// y growing upward, so every draw call composes the current view with the page
// transform.
type Surface struct {
	ctx   *canvas.Context
	fonts *FontBook
	page  canvas.Matrix

	state surfaceState
	stack []surfaceState
	path  *canvas.Path
}

var _ graphics.Context = (*Surface)(nil)

// NewSurface wraps ctx, whose canvas is heightMM tall.
func NewSurface(ctx *canvas.Context, fonts *FontBook, heightMM float64) *Surface {
	return &Surface{
		ctx:   ctx,
		fonts: fonts,
		page:  canvas.Identity.Translate(0, heightMM).Scale(scene.PxToMm, -scene.PxToMm),
		state: surfaceState{
			view:      canvas.Identity,
			fill:      canvas.Black,
			stroke:    canvas.Black,
			lineWidth: 1,
			align:     canvas.Left,
			baseline:  "alphabetic",
		},
	}
}

func (s *Surface) Save() { s.stack = append(s.stack, s.state) }

func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *Surface) Translate(x, y float64) { s.state.view = s.state.view.Translate(x, y) }

// Rotate turns clockwise by angle radians, as seen on the page.
func (s *Surface) Rotate(angle float64) {
	s.state.view = s.state.view.Rotate(geom.Degrees(angle))
}

func (s *Surface) BeginPath() { s.path = &canvas.Path{} }

func (s *Surface) MoveTo(x, y float64) {
	if s.path == nil {
		s.path = &canvas.Path{}
	}
	s.path.MoveTo(x, y)
}

func (s *Surface) LineTo(x, y float64) {
	if s.path == nil {
		s.MoveTo(x, y)
		return
	}
	s.path.LineTo(x, y)
}

func (s *Surface) ClosePath() {
	if s.path != nil {
		s.path.Close()
	}
}

// Stroke 以当前描边样式绘制路径，线宽换算为 mm。
func (s *Surface) Stroke() {
	if s.path == nil || s.path.Empty() {
		return
	}
	s.ctx.SetView(s.page.Mul(s.state.view))
	s.ctx.SetFillColor(canvas.Transparent)
	s.ctx.SetStrokeColor(s.state.stroke)
	s.ctx.SetStrokeWidth(s.state.lineWidth * scene.PxToMm)
	s.ctx.DrawPath(0, 0, s.path)
}

// FillPath 以当前填充色绘制 p，p 的左上角放在 (x, y)。
func (s *Surface) FillPath(p *canvas.Path, x, y float64) {
	s.ctx.SetView(s.page.Mul(s.state.view).Translate(x, y))
	s.ctx.SetFillColor(s.state.fill)
	s.ctx.SetStrokeColor(canvas.Transparent)
	s.ctx.DrawPath(0, 0, p)
}

// FillText 在 (x, y) 处按当前字体、对齐方式与基线绘制一行文字。
func (s *Surface) FillText(text string, x, y float64) {
	face, err := s.fonts.Face(s.state.font, s.state.fill)
	if err != nil {
		graphics.Logger().Warn("fill text", "font", s.state.font, "err", err)
		return
	}
	m := face.Metrics()
	switch s.state.baseline {
	case "top":
		y += m.Ascent
	case "middle":
		y += 0.5 * (m.Ascent - math.Abs(m.Descent))
	case "bottom":
		y -= math.Abs(m.Descent)
	}
	line := canvas.NewTextLine(face, text, s.state.align)
	// 文字在 canvas 中向上生长，这里先翻转回 y 向下的坐标。
	s.ctx.SetView(s.page.Mul(s.state.view).Translate(x, y).Scale(1, -1))
	s.ctx.DrawText(0, 0, line)
}

func (s *Surface) SetFillStyle(style string)   { s.state.fill = parseColor(style) }
func (s *Surface) SetStrokeStyle(style string) { s.state.stroke = parseColor(style) }
func (s *Surface) SetLineWidth(width float64)  { s.state.lineWidth = width }
func (s *Surface) SetFont(font string)         { s.state.font = font }

func (s *Surface) SetTextAlign(align string) {
	switch align {
	case "center":
		s.state.align = canvas.Center
	case "right", "end":
		s.state.align = canvas.Right
	default:
		s.state.align = canvas.Left
	}
}

func (s *Surface) SetTextBaseline(baseline string) { s.state.baseline = baseline }

// FillBackground 用 css 颜色铺满整个页面。
func (s *Surface) FillBackground(style string, widthMM, heightMM float64) {
	s.ctx.SetView(canvas.Identity)
	s.ctx.SetFillColor(parseColor(style))
	s.ctx.SetStrokeColor(canvas.Transparent)
	s.ctx.DrawPath(0, 0, canvas.Rectangle(widthMM, heightMM))
}
