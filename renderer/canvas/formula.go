package canvasrenderer

import (
	"fmt"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/glyphbox/graphics"
	"github.com/ByLCY/glyphbox/mathml"
	"github.com/ByLCY/glyphbox/scene"
)

// latexFontSize 是 canvas.ParseLaTeX 排版使用的字号（pt）。
const latexFontSize = 10.0

// formula 是排好的公式路径：px 单位，左上角为原点，y 轴向下。
type formula struct {
	path   *canvas.Path
	size   graphics.Size
	color  string
	source string
}

// RenderFormula implements graphics.FormulaRenderer. MathML is translated to TeX
// first; ASCII-math returns graphics.ErrNotImplemented.
func (r *Renderer) RenderFormula(kind graphics.FormulaKind, source, color string, fontSize float64) (graphics.Drawable, error) {
	tex := source
	switch kind {
	case graphics.FormulaTeX:
	case graphics.FormulaMathML:
		var err error
		if tex, err = mathml.ToTeX(source); err != nil {
			return nil, err
		}
	case graphics.FormulaASCIIMath:
		return nil, fmt.Errorf("ascii-math: %w", graphics.ErrNotImplemented)
	default:
		return nil, fmt.Errorf("未知的公式类型 %q", kind)
	}
	return renderTeX(tex, color, fontSize)
}

func renderTeX(tex, color string, fontSize float64) (*formula, error) {
	tex = strings.TrimSpace(tex)
	if !strings.HasPrefix(tex, "$") {
		tex = "$" + tex + "$"
	}
	p, err := canvas.ParseLaTeX(tex)
	if err != nil {
		return nil, fmt.Errorf("排版 TeX 失败: %w", err)
	}
	if fontSize <= 0 {
		fontSize = graphics.DefaultBaseFontSize
	}
	// ParseLaTeX 的结果以 mm 为单位、y 轴向上。
	scale := fontSize / (latexFontSize * scene.PtToMm)
	b := p.Bounds()
	p = p.Transform(canvas.Identity.Scale(scale, -scale).Translate(-b.X0, -b.Y1))
	return &formula{
		path:   p,
		size:   graphics.Size{Width: scale * (b.X1 - b.X0), Height: scale * (b.Y1 - b.Y0)},
		color:  color,
		source: tex,
	}, nil
}

func (f *formula) Size() graphics.Size { return f.size }

// Draw fills the formula path on a Surface. Other contexts receive the TeX
// source as text on the bottom edge.
func (f *formula) Draw(ctx graphics.Context, x, y float64) {
	ctx.Save()
	defer ctx.Restore()
	if f.color != "" {
		ctx.SetFillStyle(f.color)
	}
	if s, ok := ctx.(*Surface); ok {
		s.FillPath(f.path, x, y)
		return
	}
	ctx.FillText(f.source, x, y+f.size.Height)
}
