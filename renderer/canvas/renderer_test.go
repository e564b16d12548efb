package canvasrenderer

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/glyphbox/dsl"
	"github.com/ByLCY/glyphbox/graphics"
	"github.com/ByLCY/glyphbox/scene"
)

func newTestRenderer(t *testing.T, format Format) *Renderer {
	t.Helper()
	r := NewRendererWithOptions(Options{BaseDir: ".", Format: format})
	if err := r.LoadFont(scene.FontResource{Name: "Body", Src: "embed:lmroman10-regular"}); err != nil {
		t.Fatalf("load font: %v", err)
	}
	return r
}

// TestFontMetricsInPixels 验证度量以 px 返回，并随字号线性缩放。
func TestFontMetricsInPixels(t *testing.T) {
	r := newTestRenderer(t, FormatPDF)

	m := r.FontMetrics("13px Body")
	if m.Ascent <= 0 || m.Descent <= 0 || m.Height <= 0 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
	if !(m.XHeight < m.CapHeight && m.CapHeight <= m.Ascent) {
		t.Fatalf("expected x < cap <= ascent, got %+v", m)
	}
	if m.Ascent >= m.Height {
		t.Fatalf("ascent should be below the line height, got %+v", m)
	}
	// Latin Modern 的 hhea ascent 约为 1.127em，只能验证线性缩放，不能以字号为上限。
	m26 := r.FontMetrics("26px Body")
	for _, pair := range [][2]float64{
		{m.Ascent, m26.Ascent},
		{m.Descent, m26.Descent},
		{m.Height, m26.Height},
		{m.CapHeight, m26.CapHeight},
		{m.XHeight, m26.XHeight},
	} {
		if math.Abs(pair[1]-2*pair[0]) > 1e-6 {
			t.Fatalf("metrics should scale with font size: 13px=%+v 26px=%+v", m, m26)
		}
	}
	if math.Abs(m.Ascent-1.127*13) > 0.5 {
		t.Fatalf("ascent should be about 1.127em in px, got %g", m.Ascent)
	}

	w13 := r.TextWidth("Hello", "13px Body")
	w26 := r.TextWidth("Hello", "26px Body")
	if w13 <= 0 {
		t.Fatalf("expected positive width, got %g", w13)
	}
	if diff := math.Abs(w26 - 2*w13); diff > 1e-6 {
		t.Fatalf("width should scale with font size: 13px=%g 26px=%g", w13, w26)
	}
	if r.TextWidth("Hello world", "13px Body") <= w13 {
		t.Fatalf("longer text should be wider")
	}
}

func TestUnknownFamilyFallsBackToDefault(t *testing.T) {
	r := NewRenderer(".")
	if w := r.TextWidth("abc", "italic bold 13px Nowhere"); w <= 0 {
		t.Fatalf("expected default family to measure text, got %g", w)
	}
	if m := r.FontMetrics("13px Nowhere"); m.Ascent <= 0 {
		t.Fatalf("expected default family metrics, got %+v", m)
	}
}

func TestLoadFontFallback(t *testing.T) {
	r := NewRenderer("")
	err := r.LoadFont(scene.FontResource{Name: "Body", Src: "fonts/missing.ttf", Fallback: "embed:lmsans10-regular"})
	if err != nil {
		t.Fatalf("fallback should succeed: %v", err)
	}
	if err := r.LoadFont(scene.FontResource{Name: "Mono", Src: "built-in:mono"}); err == nil {
		t.Fatalf("expected error for missing built-in font")
	}

	blob := NewRendererWithOptions(Options{Fonts: map[string]Resource{"mono": {Path: "does-not-exist.ttf"}}})
	if err := blob.LoadFont(scene.FontResource{Name: "Mono", Src: "built-in:mono"}); err == nil {
		t.Fatalf("unreadable built-in path should not register a font")
	}
}

func TestParseFontStyle(t *testing.T) {
	cases := map[string]canvas.FontStyle{
		"":            canvas.FontRegular,
		"regular":     canvas.FontRegular,
		"bold":        canvas.FontBold,
		"semibold":    canvas.FontSemiBold,
		"bold italic": canvas.FontBold | canvas.FontItalic,
		"oblique":     canvas.FontRegular | canvas.FontItalic,
	}
	for in, want := range cases {
		if got := parseFontStyle(in); got != want {
			t.Fatalf("parseFontStyle(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRenderFormula(t *testing.T) {
	r := NewRenderer(".")

	if _, err := r.RenderFormula(graphics.FormulaASCIIMath, "sum_(i=1)^n i", "#000", 13); !errors.Is(err, graphics.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}

	tex, err := r.RenderFormula(graphics.FormulaTeX, `x^2`, "#000000", 13)
	if err != nil {
		t.Fatalf("render tex: %v", err)
	}
	small := tex.Size()
	if small.Width <= 0 || small.Height <= 0 {
		t.Fatalf("expected positive size, got %+v", small)
	}

	big, err := r.RenderFormula(graphics.FormulaTeX, `x^2`, "#000000", 26)
	if err != nil {
		t.Fatalf("render tex: %v", err)
	}
	if diff := math.Abs(big.Size().Width - 2*small.Width); diff > 1e-6 {
		t.Fatalf("formula should scale with font size: %+v vs %+v", small, big.Size())
	}

	mml, err := r.RenderFormula(graphics.FormulaMathML, `<math><msup><mi>x</mi><mn>2</mn></msup></math>`, "#000000", 13)
	if err != nil {
		t.Fatalf("render mathml: %v", err)
	}
	if w := mml.Size().Width; w <= 0 || math.Abs(w-small.Width) > 0.1*small.Width {
		t.Fatalf("mathml and tex should render a similar formula: %+v vs %+v", mml.Size(), small)
	}

	if _, err := r.RenderFormula(graphics.FormulaMathML, `<math><mfoo/></math>`, "#000000", 13); err == nil {
		t.Fatalf("expected error for unsupported MathML element")
	}
}

const renderDSL = `
scene Render v1 {
  meta {
    title: "Axis"
    keywords: ["axis"]
  }
  resources {
    font Body {
      src: "embed:lmroman10-regular"
    }
  }
  canvas 200 100 background #fff {
    text font Body x 100 y 50 anchor center angle 30deg debug true { "Hello" }
    row font Body x 10 y 80 anchor-y baseline {
      "2"; "x"
      expo { "10" "-3" }
    }
    tex x 150 y 20 { "\\frac{a}{b}" }
  }
}
`

func buildRenderScene(t *testing.T, r *Renderer) *scene.Scene {
	t.Helper()
	doc, err := dsl.ParseString(renderDSL)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	t.Cleanup(func() { graphics.SetMeasurer(nil) })
	s, err := scene.Build(doc, nil, scene.BuildOptions{Backend: r})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return s
}

func TestRenderPDF(t *testing.T) {
	r := newTestRenderer(t, FormatPDF)
	out, err := r.Render(buildRenderScene(t, r))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected PDF output, got %q", out[:min(len(out), 8)])
	}
}

func TestRenderPNG(t *testing.T) {
	r := newTestRenderer(t, FormatPNG)
	out, err := r.Render(buildRenderScene(t, r))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("\x89PNG")) {
		t.Fatalf("expected PNG output")
	}
}

func TestRenderRejectsInvalidScene(t *testing.T) {
	r := NewRenderer(".")
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil scene")
	}
	if _, err := r.Render(&scene.Scene{}); err == nil {
		t.Fatalf("expected error for empty canvas")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("PNG"); err != nil || f != FormatPNG {
		t.Fatalf("ParseFormat(PNG) = %q, %v", f, err)
	}
	if _, err := ParseFormat("svg"); err == nil {
		t.Fatalf("expected error for svg")
	}
}
