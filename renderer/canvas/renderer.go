package canvasrenderer

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/glyphbox/renderer"
	"github.com/ByLCY/glyphbox/scene"
)

// Format 是输出文件格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// ParseFormat accepts "pdf" and "png" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("不支持的输出格式：%s", s)
	}
}

// Renderer draws scenes via github.com/tdewolff/canvas. It is also the layout
// backend: text metrics, font registration and formula rendering.
type Renderer struct {
	*FontBook
	format Format
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ scene.Backend     = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // built-in fonts accessible via built-in:<name>
	Format  Format              // defaults to PDF
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a PDF renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	blobs := map[string][]byte{}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			blobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // 读取失败时在使用处报错
			if len(data) > 0 {
				blobs[name] = data
			}
		}
	}
	format := opts.Format
	if format == "" {
		format = FormatPDF
	}
	return &Renderer{FontBook: NewFontBook(opts.BaseDir, blobs), format: format}
}

// Render 将场景绘制为 PDF 或 PNG 字节切片。场景坐标为 px，页面按 96dpi 换算为 mm。
func (r *Renderer) Render(s *scene.Scene) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("渲染场景为空")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效：%gx%g", s.Width, s.Height)
	}
	if !s.Ready() {
		return nil, fmt.Errorf("场景中仍有未完成加载的图元")
	}

	width, height := s.Width*scene.PxToMm, s.Height*scene.PxToMm
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	surface := NewSurface(ctx, r.FontBook, height)
	if s.Background != "" {
		surface.FillBackground(s.Background, width, height)
	}
	if err := s.Paint(surface); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch r.format {
	case FormatPNG:
		if err := renderers.PNG(canvas.DPMM(scene.MmToPx))(&buf, c); err != nil {
			return nil, fmt.Errorf("写入 PNG 失败: %w", err)
		}
	default:
		writer := pdf.New(&buf, width, height, nil)
		applyMeta(writer, s.Meta)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta scene.Meta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}
