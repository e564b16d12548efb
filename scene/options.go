package scene

import "github.com/ByLCY/glyphbox/graphics"

// BuildOptions 配置构建阶段所需的依赖，例如度量与公式渲染后端。
type BuildOptions struct {
	Backend Backend
	Debug   DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Boxes bool // 为每个图元绘制 rect 与 bbox
}

// FontLoader registers a declared font resource before any text is measured.
type FontLoader interface {
	LoadFont(font FontResource) error
}

// Backend 提供文字度量、字体注册与公式渲染。渲染器实现该接口。
type Backend interface {
	graphics.Measurer
	graphics.FormulaRenderer
	FontLoader
}
