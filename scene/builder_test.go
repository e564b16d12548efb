package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/glyphbox/css"
	"github.com/ByLCY/glyphbox/dsl"
	"github.com/ByLCY/glyphbox/graphics"
)

// stubBackend 是测试用的最小后端：每个字符宽 0.5em，ascent 0.8em、descent 0.2em；
// 公式统一渲染为 20x10 的占位元素，ascii 返回 ErrNotImplemented。
type stubBackend struct {
	fonts    []string
	formulas []string
}

func stubSize(font string) float64 {
	f, err := css.ParseFont(font)
	if err != nil {
		return 10
	}
	return f.Size.Pixels(10)
}

func (s *stubBackend) TextWidth(text, font string) float64 {
	return 0.5 * stubSize(font) * float64(utf8.RuneCountInString(text))
}

func (s *stubBackend) FontMetrics(font string) graphics.FontMetrics {
	size := stubSize(font)
	return graphics.FontMetrics{Height: 1.2 * size, Ascent: 0.8 * size, Descent: 0.2 * size, CapHeight: 0.6 * size, XHeight: 0.4 * size}
}

func (s *stubBackend) LoadFont(font FontResource) error {
	if strings.HasPrefix(font.Src, "missing:") {
		return fmt.Errorf("font %s not found", font.Src)
	}
	s.fonts = append(s.fonts, font.Name)
	return nil
}

func (s *stubBackend) RenderFormula(kind graphics.FormulaKind, source, color string, fontSize float64) (graphics.Drawable, error) {
	s.formulas = append(s.formulas, fmt.Sprintf("%s|%s|%s|%g", kind, source, color, fontSize))
	if kind == graphics.FormulaASCIIMath {
		return nil, graphics.ErrNotImplemented
	}
	return stubDrawable{}, nil
}

type stubDrawable struct{}

func (stubDrawable) Size() graphics.Size { return graphics.Size{Width: 20, Height: 10} }
func (stubDrawable) Draw(ctx graphics.Context, x, y float64) {
	ctx.FillText("formula", x, y)
}

// countingContext 只统计文字与描边调用。
type countingContext struct {
	texts   []string
	strokes int
}

func (c *countingContext) Save()                             {}
func (c *countingContext) Restore()                          {}
func (c *countingContext) Translate(x, y float64)            {}
func (c *countingContext) Rotate(angle float64)              {}
func (c *countingContext) BeginPath()                        {}
func (c *countingContext) MoveTo(x, y float64)               {}
func (c *countingContext) LineTo(x, y float64)               {}
func (c *countingContext) ClosePath()                        {}
func (c *countingContext) Stroke()                           { c.strokes++ }
func (c *countingContext) FillText(text string, x, y float64) { c.texts = append(c.texts, text) }
func (c *countingContext) SetFillStyle(string)               {}
func (c *countingContext) SetStrokeStyle(string)             {}
func (c *countingContext) SetLineWidth(float64)              {}
func (c *countingContext) SetFont(string)                    {}
func (c *countingContext) SetTextAlign(string)               {}
func (c *countingContext) SetTextBaseline(string)            {}

const axisDSL = `
scene Axis v1 {
  meta {
    title: "Tick labels"
    subject: data.meta.subject
    keywords: ["axis", "math"]
  }

  resources {
    font Body {
      src: "embed:lmroman10-regular"
    }
    color Accent = #0F62FE
    style Tick {
      font: Body
      size: 20px
    }
    style Strong extends Tick {
      style: bold
      color: Accent
    }
  }

  canvas 400 300 background #fff {
    text Strong x 20 y 40 anchor-x left anchor-y top name label { "Hello, ${user.name}" }

    row Tick x 100 y 50 anchor-y baseline {
      "2"; "x"
      expo { "10" "-3" }
    }

    tex x 50% y 50% anchor center { "\\frac{a}{b}" }

    let unit = data.meta.unit
  }
}
`

var axisData = map[string]any{
	"user": map[string]any{"name": "Ada"},
	"meta": map[string]any{"subject": "Ticks", "unit": "mm"},
}

// buildScene 是测试辅助：解析 DSL 并用 stubBackend 构建场景。
func buildScene(t *testing.T, src string, data any) (*Scene, *stubBackend, error) {
	t.Helper()
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	backend := &stubBackend{}
	t.Cleanup(func() { graphics.SetMeasurer(nil) })
	s, err := Build(doc, data, BuildOptions{Backend: backend})
	return s, backend, err
}

func TestBuildScene(t *testing.T) {
	s, backend, err := buildScene(t, axisDSL, axisData)
	require.NoError(t, err)

	assert.Equal(t, "Axis", s.Name)
	assert.Equal(t, 400.0, s.Width)
	assert.Equal(t, 300.0, s.Height)
	assert.Equal(t, "#ffffff", s.Background)
	assert.Equal(t, Meta{Title: "Tick labels", Subject: "Ticks", Creator: "glyphbox", Keywords: []string{"axis", "math"}}, s.Meta)
	assert.Equal(t, []string{"Body"}, backend.fonts)
	assert.Equal(t, "#0f62fe", s.Resources.Colors["Accent"])
	assert.Equal(t, "20px", s.Resources.Styles["Strong"].Props["size"])

	require.Len(t, s.Items, 3)
	kinds := []string{s.Items[0].Kind, s.Items[1].Kind, s.Items[2].Kind}
	assert.Equal(t, []string{"text", "row", "tex"}, kinds)

	label := s.Items[0]
	assert.Equal(t, "label", label.Name)
	tb, ok := label.Box.(*graphics.TextBox)
	require.True(t, ok)
	assert.Equal(t, "Hello, Ada", tb.Text)
	assert.Equal(t, "bold 20px Body", tb.Font)
	assert.Equal(t, "#0f62fe", tb.Color)
	bbox := tb.BBox()
	assert.InDelta(t, 20, bbox.Left(), 1e-9)
	assert.InDelta(t, 40, bbox.Top(), 1e-9)
	assert.InDelta(t, 100, bbox.Width(), 1e-9)
	assert.InDelta(t, 20, bbox.Height(), 1e-9)

	row, ok := s.Items[1].Box.(*graphics.Container)
	require.True(t, ok)
	require.Equal(t, 3, row.Len())
	// "2" + "x" at 20px, then 10 (20px) with -3 at 14px.
	assert.InDelta(t, 10+10+20+14, row.Dimensions().Width, 1e-9)

	formula, ok := s.Items[2].Box.(*graphics.FormulaBox)
	require.True(t, ok)
	assert.True(t, formula.HasLoaded())
	assert.Equal(t, []string{`tex|\frac{a}{b}|#000000|13`}, backend.formulas)
	fb := formula.BBox()
	assert.InDelta(t, 190, fb.Left(), 1e-9)
	assert.InDelta(t, 145, fb.Top(), 1e-9)
	assert.True(t, s.Ready())
}

func TestBuildGroupUnifiesMetric(t *testing.T) {
	s, _, err := buildScene(t, `scene G v1 {
  canvas 100 100 {
    group size 10px angle 90deg {
      text x 0 y 0 { "3.14" }
      text x 0 y 20 { "abc" }
    }
  }
}`, nil)
	require.NoError(t, err)
	require.Len(t, s.Items, 2)
	for _, item := range s.Items {
		m, ok := item.Box.(*graphics.TextBox).TextHeightMetric()
		require.True(t, ok)
		assert.Equal(t, graphics.MetricAscentDescent, m)
		assert.InDelta(t, 10, item.Box.Dimensions().Height, 1e-9)
		assert.InDelta(t, 1.5707963, item.Box.Angle(), 1e-6)
	}
}

func TestBuildBoxAttributes(t *testing.T) {
	s, _, err := buildScene(t, `scene P v1 {
  canvas 200 100 base-size 16px {
    text x 0 y 0 padding "4 50% 4 50%" metric cap align right { "ab" }
    text x 0 y 0 padding "1 2 3" { "ab" }
    text x 0 y 0 size 2em width 50% { "ab" }
  }
}`, nil)
	require.NoError(t, err)
	require.Len(t, s.Items, 3)

	first := s.Items[0].Box.(*graphics.TextBox)
	assert.Equal(t, graphics.Offset{}, first.ComputePadding())
	assert.NotNil(t, first.Padding())
	assert.Equal(t, graphics.AlignRight, first.Align)
	m, _ := first.TextHeightMetric()
	assert.Equal(t, graphics.MetricCap, m)

	assert.Nil(t, s.Items[1].Box.Padding())

	third := s.Items[2].Box.(*graphics.TextBox)
	assert.Equal(t, 16.0, third.BaseFontSize())
	assert.Equal(t, "normal 32px Latin Modern Roman", third.Font)
	assert.InDelta(t, 0.5*(2*16)*2*0.5, third.Dimensions().Width, 1e-9)
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"missing canvas", `scene E v1 { meta { title: "x" } }`, "canvas"},
		{"style cycle", `scene E v1 {
  resources {
    style A extends B {
      size: 10px
    }
    style B extends A {
      size: 12px
    }
  }
  canvas 10 10 { }
}`, "循环"},
		{"expo arity", `scene E v1 { canvas 10 10 { expo { "a" "b" "c" } } }`, "expo"},
		{"canvas param", `scene E v1 { canvas 10 10 margin 4 { } }`, "margin"},
		{"bad anchor", `scene E v1 { canvas 10 10 { text anchor-x top { "a" } } }`, "anchor-x"},
		{"bad color", `scene E v1 { canvas 10 10 { text color Nope { "a" } } }`, "Nope"},
		{"font src", `scene E v1 {
  resources {
    font Body {
      src: "missing:Body"
    }
  }
  canvas 10 10 { }
}`, "Body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := buildScene(t, tc.src, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	_, err := Build(&dsl.Document{}, nil, BuildOptions{})
	assert.ErrorContains(t, err, "Backend")
}

func TestBuildASCIIMathNotImplemented(t *testing.T) {
	_, backend, err := buildScene(t, "scene A v1 { canvas 10 10 { ascii { \"sum_(i=1)^n i\" } } }", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, graphics.ErrNotImplemented))
	assert.Len(t, backend.formulas, 1)
}

func TestPaint(t *testing.T) {
	s, _, err := buildScene(t, `scene P v1 {
  canvas 100 100 {
    text x 10 y 10 debug true { "a" }
    row x 10 y 40 {
      "b"
      tex { "x^2" }
    }
  }
}`, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Paint(nil), graphics.ErrNoSurface)

	ctx := &countingContext{}
	require.NoError(t, s.Paint(ctx))
	assert.Equal(t, []string{"a", "b", "formula"}, ctx.texts)
	assert.Equal(t, 2, ctx.strokes)

	bounds := s.Bounds()
	assert.InDelta(t, 10, bounds.Left(), 1e-9)

	s.Remove()
	assert.False(t, s.Items[1].Box.HasLoaded())
}

func TestWriteDebugJSON(t *testing.T) {
	s, _, err := buildScene(t, axisDSL, axisData)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, WriteDebugJSON(s, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded struct {
		Name  string `json:"name"`
		Items []struct {
			Kind string `json:"kind"`
		} `json:"items"`
		Boxes []struct {
			Kind     string `json:"kind"`
			Children []struct {
				Kind string `json:"kind"`
			} `json:"children"`
		} `json:"boxes"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Axis", decoded.Name)
	require.Len(t, decoded.Boxes, 3)
	assert.Equal(t, "container", decoded.Boxes[1].Kind)
	require.Len(t, decoded.Boxes[1].Children, 3)
	assert.Equal(t, "expo", decoded.Boxes[1].Children[2].Kind)
	assert.NoError(t, WriteDebugJSON(nil, path))
}
