package canvasrenderer

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/glyphbox/css"
	"github.com/ByLCY/glyphbox/fonts"
	"github.com/ByLCY/glyphbox/graphics"
	"github.com/ByLCY/glyphbox/scene"
)

// FontBook 管理已注册的字族，并以 css 字体字符串作为度量接口。
// 字号单位为 px；字体面按 px*MmToPt 创建，使 canvas 返回的 mm 数值即为 px。
type FontBook struct {
	baseDir string
	blobs   map[string][]byte // built-in:<name>

	mu       sync.Mutex
	families map[string]*fontFamilyEntry
	warned   map[string]bool
}

type fontFamilyEntry struct {
	family *canvas.FontFamily
	styles map[canvas.FontStyle]bool
}

var _ graphics.Measurer = (*FontBook)(nil)

// NewFontBook creates an empty font book. blobs are addressed as built-in:<name>.
func NewFontBook(baseDir string, blobs map[string][]byte) *FontBook {
	if blobs == nil {
		blobs = map[string][]byte{}
	}
	return &FontBook{
		baseDir:  baseDir,
		blobs:    blobs,
		families: map[string]*fontFamilyEntry{},
		warned:   map[string]bool{},
	}
}

// LoadFont 把字体资源注册到其 Family 下。src 加载失败时尝试 fallback。
func (fb *FontBook) LoadFont(font scene.FontResource) error {
	family := font.Family
	if family == "" {
		family = font.Name
	}
	style := parseFontStyle(font.Style)

	fb.mu.Lock()
	defer fb.mu.Unlock()

	entry := fb.entry(family)
	data, err := fb.loadFontBytes(font.Src)
	if err != nil && font.Fallback != "" {
		graphics.Logger().Warn("font fallback", "font", font.Name, "src", font.Src, "fallback", font.Fallback, "err", err)
		data, err = fb.loadFontBytes(font.Fallback)
	}
	if err != nil {
		return fmt.Errorf("字体 %s: %w", font.Name, err)
	}
	if err := entry.family.LoadFont(data, 0, style); err != nil {
		return fmt.Errorf("字体 %s 解析失败: %w", font.Name, err)
	}
	entry.styles[style] = true
	return nil
}

func (fb *FontBook) entry(name string) *fontFamilyEntry {
	if e, ok := fb.families[name]; ok {
		return e
	}
	e := &fontFamilyEntry{family: canvas.NewFontFamily(name), styles: map[canvas.FontStyle]bool{}}
	fb.families[name] = e
	return e
}

func (fb *FontBook) loadFontBytes(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("缺少 src")
	}
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := fb.blobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if fb.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(fb.baseDir, path)
	}
	return os.ReadFile(path)
}

// defaultFamily 懒加载内置的 Latin Modern Roman 字族。调用方持有锁。
func (fb *FontBook) defaultFamily() (*fontFamilyEntry, error) {
	entry := fb.entry(fonts.DefaultFamily)
	if len(entry.styles) > 0 {
		return entry, nil
	}
	for _, face := range fonts.DefaultFaces {
		data, err := fonts.Load(face.Name)
		if err != nil {
			return nil, err
		}
		style := canvas.FontRegular
		if face.Bold {
			style = canvas.FontBold
		}
		if face.Italic {
			style |= canvas.FontItalic
		}
		if err := entry.family.LoadFont(data, 0, style); err != nil {
			return nil, fmt.Errorf("内置字体 %s 解析失败: %w", face.Name, err)
		}
		entry.styles[style] = true
	}
	return entry, nil
}

// Face 按 css 字体字符串创建字体面。未注册的字族回退到内置 Latin Modern Roman。
func (fb *FontBook) Face(font string, col color.Color) (*canvas.FontFace, error) {
	f, err := css.ParseFont(font)
	if err != nil {
		return nil, err
	}
	style := canvas.FontRegular
	if f.Weight == "bold" || f.Weight == "bolder" || f.Weight == "extrabold" || f.Weight == "black" {
		style = canvas.FontBold
	}
	if f.Style == "italic" || f.Style == "oblique" {
		style |= canvas.FontItalic
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	entry, ok := fb.families[f.Family()]
	if !ok || len(entry.styles) == 0 {
		if !fb.warned[f.Family()] {
			graphics.Logger().Warn("unknown font family, using default", "family", f.Family(), "default", fonts.DefaultFamily)
			fb.warned[f.Family()] = true
		}
		if entry, err = fb.defaultFamily(); err != nil {
			return nil, err
		}
	}
	size := f.Size.Pixels(graphics.DefaultBaseFontSize) * scene.MmToPt
	return entry.family.Face(size, col, entry.closest(style), canvas.FontNormal), nil
}

// closest 返回已加载的最接近的样式：先去掉斜体，再去掉粗体。
func (e *fontFamilyEntry) closest(style canvas.FontStyle) canvas.FontStyle {
	candidates := []canvas.FontStyle{
		style,
		style &^ canvas.FontItalic,
		style &^ canvas.FontBold,
		canvas.FontRegular,
	}
	for _, s := range candidates {
		if e.styles[s] {
			return s
		}
	}
	for s := range e.styles {
		return s
	}
	return canvas.FontRegular
}

// TextWidth implements graphics.Measurer.
func (fb *FontBook) TextWidth(text, font string) float64 {
	face, err := fb.Face(font, canvas.Black)
	if err != nil {
		graphics.Logger().Warn("measure text", "font", font, "err", err)
		return graphics.EstimateMeasurer{}.TextWidth(text, font)
	}
	return face.TextWidth(text)
}

// FontMetrics implements graphics.Measurer.
func (fb *FontBook) FontMetrics(font string) graphics.FontMetrics {
	face, err := fb.Face(font, canvas.Black)
	if err != nil {
		graphics.Logger().Warn("font metrics", "font", font, "err", err)
		return graphics.EstimateMeasurer{}.FontMetrics(font)
	}
	m := face.Metrics()
	return graphics.FontMetrics{
		Height:    m.LineHeight,
		Ascent:    m.Ascent,
		Descent:   math.Abs(m.Descent),
		CapHeight: m.CapHeight,
		XHeight:   m.XHeight,
	}
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

// parseColor 把 css 颜色转换为 canvas 颜色；无法解析时使用黑色。
func parseColor(value string) color.Color {
	c, err := css.ParseColor(value)
	if err != nil {
		graphics.Logger().Warn("invalid color", "value", value, "err", err)
		return canvas.Black
	}
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, c.A)
}
