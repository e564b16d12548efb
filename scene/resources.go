package scene

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ByLCY/glyphbox/css"
	"github.com/ByLCY/glyphbox/dsl"
	"github.com/ByLCY/glyphbox/tex"
)

// itemAttributes 是图元行内参数与 style 资源可以使用的全部属性。
var itemAttributes = map[string]bool{
	// 视觉
	"font": true, "size": true, "style": true, "color": true, "alpha": true, "line-height": true,
	// 文本
	"align": true, "width": true, "height": true,
	// 定位
	"x": true, "y": true, "anchor": true, "anchor-x": true, "anchor-y": true, "angle": true,
	// 布局
	"padding": true, "metric": true, "base-size": true, "loading": true,
	"name": true, "debug": true,
}

// visualAttributes 由 group 统一下发，子图元上的同名属性会被覆盖。
var visualAttributes = []string{"font", "size", "style", "color", "alpha", "line-height"}

// collectResources 读取所有 resources 段：字体、颜色、样式与 TeX 宏。
func collectResources(doc *dsl.Document) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:  map[string]FontResource{},
		Colors: map[string]string{},
		Styles: map[string]Style{},
		Macros: tex.Macros{},
	}
	declared := map[string]Style{}

	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			cmd := stmt.Command
			if cmd == nil {
				continue
			}
			switch cmd.Name {
			case "font":
				font := parseFontResource(cmd)
				if font.Name == "" {
					continue
				}
				if font.Src == "" {
					return res, fmt.Errorf("字体 %s 缺少 src", font.Name)
				}
				res.Fonts[font.Name] = font
			case "color":
				name, color, err := parseColorResource(cmd)
				if err != nil {
					return res, err
				}
				res.Colors[name] = color
			case "style":
				style, err := parseStyleResource(cmd)
				if err != nil {
					return res, err
				}
				if _, dup := declared[style.Name]; dup {
					return res, fmt.Errorf("style %s 重复定义 (行 %d)", style.Name, cmd.Pos.Line)
				}
				declared[style.Name] = style
			case "macro":
				name, macro, err := parseMacroResource(cmd)
				if err != nil {
					return res, err
				}
				res.Macros[name] = macro
			default:
				return res, fmt.Errorf("未知的资源类型：%s (行 %d)", cmd.Name, cmd.Pos.Line)
			}
		}
	}

	styles, err := resolveStyles(declared)
	if err != nil {
		return res, err
	}
	res.Styles = styles
	return res, nil
}

func parseFontResource(cmd *dsl.Command) FontResource {
	if len(cmd.Args) == 0 {
		return FontResource{}
	}
	font := FontResource{
		Name:   cmd.Args[0].Value,
		Family: cmd.Args[0].Value,
		Style:  "regular",
	}
	for _, a := range assignments(cmd.Block) {
		val := valueToString(a.Value)
		switch a.Key {
		case "src":
			font.Src = val
		case "style":
			font.Style = strings.ToLower(val)
		case "family":
			font.Family = val
		case "fallback":
			font.Fallback = val
		}
	}
	return font
}

// parseStyleResource 读取 `style Name [extends Parent] { key: value }`。
// 只接受图元认识的属性，拼写错误在构建时报出而不是被静默忽略。
func parseStyleResource(cmd *dsl.Command) (Style, error) {
	if len(cmd.Args) == 0 {
		return Style{}, fmt.Errorf("style 缺少名称 (行 %d)", cmd.Pos.Line)
	}
	style := Style{Name: cmd.Args[0].Value, Props: map[string]string{}}
	switch rest := cmd.Args[1:]; {
	case len(rest) == 0:
	case len(rest) == 2 && strings.EqualFold(rest[0].Value, "extends"):
		style.Extends = rest[1].Value
	default:
		return style, fmt.Errorf("style %s 的声明应为 style 名称 [extends 父样式] (行 %d)", style.Name, cmd.Pos.Line)
	}
	for _, a := range assignments(cmd.Block) {
		if !itemAttributes[a.Key] {
			return style, fmt.Errorf("style %s 含有未知属性 %s (行 %d)", style.Name, a.Key, cmd.Pos.Line)
		}
		if val := valueToString(a.Value); val != "" {
			style.Props[a.Key] = val
		}
	}
	return style, nil
}

// resolveStyles 沿 extends 链合并属性，子样式覆盖父样式。
func resolveStyles(declared map[string]Style) (map[string]Style, error) {
	resolved := make(map[string]Style, len(declared))
	for _, name := range slices.Sorted(maps.Keys(declared)) {
		chain, err := styleChain(declared, name)
		if err != nil {
			return nil, err
		}
		props := map[string]string{}
		for _, s := range slices.Backward(chain) {
			maps.Copy(props, s.Props)
		}
		style := declared[name]
		style.Props = props
		resolved[name] = style
	}
	return resolved, nil
}

// styleChain 返回从 name 到最顶层父样式的继承链。
func styleChain(declared map[string]Style, name string) ([]Style, error) {
	var chain []Style
	seen := map[string]bool{}
	for name != "" {
		if seen[name] {
			return nil, fmt.Errorf("style 继承存在循环：%s", name)
		}
		seen[name] = true
		style, ok := declared[name]
		if !ok {
			return nil, fmt.Errorf("style %s 未定义", name)
		}
		chain = append(chain, style)
		name = style.Extends
	}
	return chain, nil
}

// parseColorResource 读取 `color Name = value`（等号可省略），返回规范化的 css 颜色。
func parseColorResource(cmd *dsl.Command) (string, string, error) {
	args := cmd.Args
	if len(args) == 3 && args[1].Value == "=" {
		args = []*dsl.Lexeme{args[0], args[2]}
	}
	if len(args) != 2 {
		return "", "", fmt.Errorf("color 资源应为 color 名称 = 颜色值 (行 %d)", cmd.Pos.Line)
	}
	name := args[0].Value
	c, err := css.ParseColor(args[1].Value)
	if err != nil {
		return "", "", fmt.Errorf("颜色 %s: %w", name, err)
	}
	return name, c.String(), nil
}

// parseMacroResource 读取 `macro name [参数个数] = "定义"`，例如 macro vec 1 = "\\mathbf{#1}"。
func parseMacroResource(cmd *dsl.Command) (string, tex.Macro, error) {
	args := cmd.Args
	if n := len(args); n < 3 || n > 4 || args[n-2].Value != "=" {
		return "", tex.Macro{}, fmt.Errorf("macro 资源应为 macro 名称 [参数个数] = 定义 (行 %d)", cmd.Pos.Line)
	}
	name := args[0].Value
	if !tex.ValidName(name) {
		return "", tex.Macro{}, fmt.Errorf("宏名称只能包含字母：%s (行 %d)", name, cmd.Pos.Line)
	}
	macro := tex.Macro{Body: args[len(args)-1].Value}
	if len(args) == 4 {
		n, err := strconv.Atoi(args[1].Value)
		if err != nil || n < 0 || n > 9 {
			return "", tex.Macro{}, fmt.Errorf("宏 %s 的参数个数需要 0 到 9：%s", name, args[1].Value)
		}
		macro.Args = n
	}
	return name, macro, nil
}

// attributes 合并命令引用的样式与行内参数，行内参数优先。
// 参数个数为奇数且首个为标识符时，首个参数是样式名。
func (r ResourceSet) attributes(cmd *dsl.Command) (map[string]string, error) {
	style, inline := parseArgs(cmd.Args)
	out := map[string]string{}
	if style != "" {
		s, ok := r.Styles[style]
		if !ok {
			return nil, fmt.Errorf("%s (行 %d) 引用了未定义的 style %s", cmd.Name, cmd.Pos.Line, style)
		}
		maps.Copy(out, s.Props)
	}
	for key := range inline {
		if !itemAttributes[key] {
			return nil, fmt.Errorf("%s (行 %d) 不支持属性 %s", cmd.Name, cmd.Pos.Line, key)
		}
	}
	maps.Copy(out, inline)
	return out, nil
}

// declaresVisuals reports whether cmd sets any visual attribute itself or through a style.
func (r ResourceSet) declaresVisuals(cmd *dsl.Command) bool {
	style, inline := parseArgs(cmd.Args)
	props := r.Styles[style].Props
	for _, key := range visualAttributes {
		if _, ok := inline[key]; ok {
			return true
		}
		if _, ok := props[key]; ok {
			return true
		}
	}
	return false
}

func parseArgs(args []*dsl.Lexeme) (string, map[string]string) {
	result := map[string]string{}
	var style string
	if len(args)%2 == 1 && args[0].Type == "Ident" {
		style, args = args[0].Value, args[1:]
	}
	for i := 0; i+1 < len(args); i += 2 {
		result[args[i].Value] = args[i+1].Value
	}
	return style, result
}

func assignments(block *dsl.Block) []*dsl.Assignment {
	if block == nil {
		return nil
	}
	var out []*dsl.Assignment
	for _, stmt := range block.Statements {
		if stmt.Assignment != nil {
			out = append(out, stmt.Assignment)
		}
	}
	return out
}
