package graphics

import (
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/glyphbox/css"
)

// FontMetrics 是字体的整体度量（px）。Descent 为正值，表示基线以下的深度。
type FontMetrics struct {
	Height    float64 `json:"height"` // full line height
	Ascent    float64 `json:"ascent"`
	Descent   float64 `json:"descent"`
	CapHeight float64 `json:"capHeight"`
	XHeight   float64 `json:"xHeight"`
}

// Measurer 是文字度量后端：给定 css 字体字符串，返回字体度量与任意字符串的像素宽度。
type Measurer interface {
	TextWidth(text, font string) float64
	FontMetrics(font string) FontMetrics
}

// CachedMeasurer keeps one active font and reuses its metrics and widths
// until a different font string is requested. Not safe for concurrent use.
type CachedMeasurer struct {
	backend Measurer

	current string
	metrics FontMetrics
	widths  map[string]float64
	loaded  bool
}

// NewCachedMeasurer wraps backend.
func NewCachedMeasurer(backend Measurer) *CachedMeasurer {
	return &CachedMeasurer{backend: backend, widths: map[string]float64{}}
}

func (m *CachedMeasurer) use(font string) {
	if m.loaded && font == m.current {
		return
	}
	Logger().Debug("measurer font switch", "from", m.current, "to", font)
	m.current = font
	m.metrics = m.backend.FontMetrics(font)
	m.widths = map[string]float64{}
	m.loaded = true
}

// TextWidth implements Measurer.
func (m *CachedMeasurer) TextWidth(text, font string) float64 {
	m.use(font)
	if w, ok := m.widths[text]; ok {
		return w
	}
	w := m.backend.TextWidth(text, font)
	m.widths[text] = w
	return w
}

// FontMetrics implements Measurer.
func (m *CachedMeasurer) FontMetrics(font string) FontMetrics {
	m.use(font)
	return m.metrics
}

// EstimateMeasurer approximates metrics from the font size alone: every rune
// is 0.55em wide, ascent 0.8em, descent 0.2em, cap height 0.7em, x-height 0.5em,
// line height 1.2em. It is the default until a real backend is installed.
type EstimateMeasurer struct{}

func estimateFontSize(font string) float64 {
	f, err := css.ParseFont(font)
	if err != nil {
		return DefaultBaseFontSize
	}
	return f.Size.Pixels(DefaultBaseFontSize)
}

// TextWidth implements Measurer.
func (EstimateMeasurer) TextWidth(text, font string) float64 {
	return estimateFontSize(font) * 0.55 * float64(utf8.RuneCountInString(strings.TrimRight(text, "\r")))
}

// FontMetrics implements Measurer.
func (EstimateMeasurer) FontMetrics(font string) FontMetrics {
	size := estimateFontSize(font)
	return FontMetrics{
		Height:    1.2 * size,
		Ascent:    0.8 * size,
		Descent:   0.2 * size,
		CapHeight: 0.7 * size,
		XHeight:   0.5 * size,
	}
}

// measurer 是进程级的度量后端，与绘图表面同线程使用。
var measurer Measurer = NewCachedMeasurer(EstimateMeasurer{})

// SetMeasurer installs the process-wide measurement backend, wrapped in a CachedMeasurer.
// Passing nil restores EstimateMeasurer.
func SetMeasurer(m Measurer) {
	if m == nil {
		m = EstimateMeasurer{}
	}
	if _, ok := m.(*CachedMeasurer); !ok {
		m = NewCachedMeasurer(m)
	}
	measurer = m
}

// CurrentMeasurer returns the installed backend.
func CurrentMeasurer() Measurer { return measurer }

func textWidth(text, font string) float64 { return measurer.TextWidth(text, font) }

func fontMetrics(font string) FontMetrics { return measurer.FontMetrics(font) }
