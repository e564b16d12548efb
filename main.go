package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/glyphbox/dsl"
	"github.com/ByLCY/glyphbox/graphics"
	"github.com/ByLCY/glyphbox/renderer"
	canvasrenderer "github.com/ByLCY/glyphbox/renderer/canvas"
	"github.com/ByLCY/glyphbox/scene"
)

func main() {
	input := flag.String("in", "examples/axis.glyph", "场景 DSL 文件路径")
	output := flag.String("out", "output/axis.pdf", "输出文件路径")
	format := flag.String("format", "pdf", "输出格式：pdf 或 png")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径；设置后同时绘制 rect/bbox")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	if *verbose {
		graphics.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	f, err := canvasrenderer.ParseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: filepath.Dir(*input),
		Format:  f,
	})
	if err := run(*input, *output, *debug, inputData, r, r); err != nil {
		log.Fatalf("生成 %s 失败: %v", f, err)
	}
	fmt.Printf("已生成 %s：%s\n", f, *output)
}

// run 串联解析、构建与渲染。
func run(inputPath, outputPath, debugPath string, data any, backend scene.Backend, r renderer.Renderer) error {
	if r == nil || backend == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	s, err := scene.Build(doc, data, scene.BuildOptions{
		Backend: backend,
		Debug:   scene.DebugOptions{Boxes: debugPath != ""},
	})
	if err != nil {
		return fmt.Errorf("场景构建失败: %w", err)
	}
	defer s.Remove()

	if debugPath != "" {
		if err := writeDebug(s, debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	out, err := r.Render(s)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writeDebug(s *scene.Scene, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := scene.WriteDebugJSON(s, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
