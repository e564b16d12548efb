package scene

import (
	"github.com/ByLCY/glyphbox/graphics"
	"github.com/ByLCY/glyphbox/tex"
)

// 该文件定义场景结果与资源描述，供构建、渲染与调试 JSON 共用。

// Scene 是构建完成、已定位的绘制场景。坐标单位为 px，原点在左上角。
type Scene struct {
	Name         string      `json:"name"`
	Version      string      `json:"version"`
	Width        float64     `json:"width"`
	Height       float64     `json:"height"`
	Background   string      `json:"background,omitempty"` // css color, empty for transparent
	BaseFontSize float64     `json:"baseFontSize"`         // em 字号的基准，默认 13px
	Meta         Meta        `json:"meta"`
	Resources    ResourceSet `json:"resources"`
	Items        []*Item     `json:"items"`
}

// Item 是画布上的一个顶层图元。
type Item struct {
	Kind string       `json:"kind"` // text / expo / row / mixed / tex / mathml / ascii
	Name string       `json:"name,omitempty"`
	Box  graphics.Box `json:"-"`
	// Debug 为 true 时在图元外绘制 rect 与 bbox。
	Debug bool `json:"debug,omitempty"`
}

// Meta 记录输出文件的元数据。
type Meta struct {
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Creator  string   `json:"creator,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// ResourceSet 记录解析出的字体、颜色、样式与 TeX 宏定义。
type ResourceSet struct {
	Fonts  map[string]FontResource `json:"fonts"`
	Colors map[string]string       `json:"colors"` // normalized css colors
	Styles map[string]Style        `json:"styles"`
	Macros tex.Macros              `json:"macros,omitempty"`
}

// FontResource 描述字体资源，src 可以是文件路径、embed:<name> 或 built-in:<name>。
// 同一 Family 下可以声明多个不同 Style 的资源。
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style"`  // regular / italic / bold / bold italic
	Family   string `json:"family"` // 渲染器使用的 Family 名称，默认等于 Name
	Fallback string `json:"fallback,omitempty"`
}

// Style 是可继承的属性集合。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}
