package scene

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ByLCY/glyphbox/binding"
	"github.com/ByLCY/glyphbox/css"
	"github.com/ByLCY/glyphbox/dsl"
	"github.com/ByLCY/glyphbox/graphics"
	"github.com/ByLCY/glyphbox/visuals"
)

// Build 根据 DSL AST 生成已定位的场景：收集资源、构造图元树、应用视觉属性并计算位置。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Scene, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Backend == nil {
		return nil, fmt.Errorf("scene: 缺少排版后端 Backend")
	}

	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	for _, name := range slices.Sorted(maps.Keys(res.Fonts)) {
		if err := opts.Backend.LoadFont(res.Fonts[name]); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
		}
	}
	graphics.SetMeasurer(opts.Backend)

	section := firstCanvas(doc)
	if section == nil {
		return nil, fmt.Errorf("文档中缺少 canvas 段落")
	}

	s := &Scene{
		Name:      doc.Name,
		Version:   doc.Version,
		Meta:      collectMeta(doc, data),
		Resources: res,
	}
	if err := applyCanvasSpec(s, section.Spec, res); err != nil {
		return nil, err
	}

	b := &builder{scene: s, res: res, data: data, backend: opts.Backend, debug: opts.Debug}
	if section.Block != nil {
		for _, stmt := range section.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			if err := b.item(stmt.Command); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// builder carries the per-build state shared by item handlers.
type builder struct {
	scene   *Scene
	res     ResourceSet
	data    any
	backend Backend
	debug   DebugOptions
}

var itemKinds = map[string]bool{
	"text": true, "expo": true, "row": true, "group": true,
	"tex": true, "mathml": true, "ascii": true, "mixed": true,
}

// item builds one top-level canvas statement. Unknown commands (eg: let) are skipped.
func (b *builder) item(cmd *dsl.Command) error {
	if !itemKinds[cmd.Name] {
		graphics.Logger().Debug("skip canvas command", "name", cmd.Name, "line", cmd.Pos.Line)
		return nil
	}
	attrs, err := b.res.attributes(cmd)
	if err != nil {
		return err
	}
	if cmd.Name == "group" {
		return b.group(cmd, attrs)
	}

	box, err := b.node(cmd)
	if err != nil {
		return err
	}
	tv, err := textVisuals(attrs, b.res)
	if err != nil {
		return fmt.Errorf("%s (行 %d): %w", cmd.Name, cmd.Pos.Line, err)
	}
	if err := b.place(box, tv, attrs); err != nil {
		return fmt.Errorf("%s (行 %d): %w", cmd.Name, cmd.Pos.Line, err)
	}
	b.scene.Items = append(b.scene.Items, &Item{
		Kind:  cmd.Name,
		Name:  attrs["name"],
		Box:   box,
		Debug: b.debug.Boxes || isTrue(attrs["debug"]),
	})
	return nil
}

// group 的子图元各自定位，但共享组的视觉属性与统一的文本高度度量。
func (b *builder) group(cmd *dsl.Command, attrs map[string]string) error {
	if cmd.Block == nil {
		return nil
	}
	tv, err := textVisuals(attrs, b.res)
	if err != nil {
		return fmt.Errorf("group (行 %d): %w", cmd.Pos.Line, err)
	}

	var items []*Item
	var boxes []graphics.Box
	var childAttrs []map[string]string
	for _, stmt := range cmd.Block.Statements {
		if stmt.Command == nil || !itemKinds[stmt.Command.Name] || stmt.Command.Name == "group" {
			continue
		}
		box, err := b.node(stmt.Command)
		if err != nil {
			return err
		}
		ca, err := b.res.attributes(stmt.Command)
		if err != nil {
			return err
		}
		if b.res.declaresVisuals(stmt.Command) {
			graphics.Logger().Warn("group 统一下发视觉属性，子图元的 font/size/style/color 设置被忽略",
				"item", stmt.Command.Name, "line", stmt.Command.Pos.Line, "group_line", cmd.Pos.Line)
		}
		boxes = append(boxes, box)
		childAttrs = append(childAttrs, ca)
		items = append(items, &Item{
			Kind:  stmt.Command.Name,
			Name:  ca["name"],
			Box:   box,
			Debug: b.debug.Boxes || isTrue(ca["debug"]) || isTrue(attrs["debug"]),
		})
	}

	group := graphics.NewBoxes(boxes...)
	group.SetBaseFontSize(b.baseFontSize(attrs))
	group.SetVisuals(tv)
	if v, ok := attrs["angle"]; ok {
		angle, err := ParseAngle(v)
		if err != nil {
			return err
		}
		group.SetAngle(angle)
	}
	for i, box := range boxes {
		if err := b.finish(box, childAttrs[i]); err != nil {
			return fmt.Errorf("%s (行 %d): %w", items[i].Kind, cmd.Pos.Line, err)
		}
	}
	b.scene.Items = append(b.scene.Items, items...)
	return nil
}

// place 依次应用基准字号、视觉属性，然后完成剩余的布局步骤。
func (b *builder) place(box graphics.Box, tv *visuals.Text, attrs map[string]string) error {
	box.SetBaseFontSize(b.baseFontSize(attrs))
	box.SetVisuals(tv)
	if v, ok := attrs["angle"]; ok {
		angle, err := ParseAngle(v)
		if err != nil {
			return err
		}
		box.SetAngle(angle)
	}
	return b.finish(box, attrs)
}

// finish applies the metric override and padding, loads formulas and finally repositions the box.
func (b *builder) finish(box graphics.Box, attrs map[string]string) error {
	if err := applyBoxAttributes(box, attrs); err != nil {
		return err
	}
	if err := b.loadFormulas(box); err != nil {
		return err
	}
	pos, err := b.position(attrs)
	if err != nil {
		return err
	}
	box.Reposition(pos)
	return nil
}

func (b *builder) baseFontSize(attrs map[string]string) float64 {
	if v, ok := attrs["base-size"]; ok {
		if px, err := ParseLength(v, graphics.DefaultBaseFontSize, graphics.DefaultBaseFontSize); err == nil && px > 0 {
			return px
		}
	}
	return b.scene.BaseFontSize
}

// node 构造图元树，不应用任何视觉属性。
func (b *builder) node(cmd *dsl.Command) (graphics.Box, error) {
	switch cmd.Name {
	case "text":
		return b.textNode(cmd, b.interpolate(extractText(cmd.Block)))
	case "expo":
		children, err := b.children(cmd)
		if err != nil {
			return nil, err
		}
		if len(children) != 2 {
			return nil, fmt.Errorf("expo (行 %d) 需要底数与指数两个子项，实际 %d 个", cmd.Pos.Line, len(children))
		}
		return graphics.NewBaseExpo(children[0], children[1]), nil
	case "row":
		children, err := b.children(cmd)
		if err != nil {
			return nil, err
		}
		attrs, err := b.res.attributes(cmd)
		if err != nil {
			return nil, err
		}
		return graphics.NewContainer(children, isTrue(attrs["loading"])), nil
	case "mixed":
		c, err := graphics.NewMixedText(b.interpolate(extractText(cmd.Block)))
		if err != nil {
			return nil, fmt.Errorf("mixed (行 %d): %w", cmd.Pos.Line, err)
		}
		return c, nil
	case "tex", "mathml", "ascii":
		src := strings.TrimSpace(extractText(cmd.Block))
		if src == "" {
			return nil, fmt.Errorf("%s (行 %d) 缺少公式源码", cmd.Name, cmd.Pos.Line)
		}
		return graphics.NewFormulaBox(graphics.FormulaKind(cmd.Name), b.interpolate(src)), nil
	default:
		return nil, fmt.Errorf("不支持的图元 %s (行 %d)", cmd.Name, cmd.Pos.Line)
	}
}

func (b *builder) textNode(cmd *dsl.Command, content string) (graphics.Box, error) {
	box := graphics.NewTextBox(content)
	if cmd == nil {
		return box, nil
	}
	attrs, err := b.res.attributes(cmd)
	if err != nil {
		return nil, err
	}
	if v, ok := attrs["align"]; ok {
		align, err := parseAlign(v)
		if err != nil {
			return nil, err
		}
		box.Align = align
	}
	for key, dst := range map[string]*float64{"width": &box.WidthPercent, "height": &box.HeightPercent} {
		v, ok := attrs[key]
		if !ok {
			continue
		}
		l, err := css.ParseLength(v)
		if err != nil || l.Unit != css.UnitPercent {
			return nil, fmt.Errorf("%s 仅支持百分比：%s", key, v)
		}
		*dst = l.Value
	}
	return box, nil
}

// children 把块内的字符串字面量与子命令转换为子图元，顺序保持不变。
// 子命令的 padding 与 metric 在此处应用，视觉属性由父图元统一下发。
func (b *builder) children(cmd *dsl.Command) ([]graphics.Box, error) {
	if cmd.Block == nil {
		return nil, nil
	}
	var out []graphics.Box
	for _, stmt := range cmd.Block.Statements {
		switch {
		case stmt.Text != nil:
			box, err := b.textNode(nil, b.interpolate(string(stmt.Text.Value)))
			if err != nil {
				return nil, err
			}
			out = append(out, box)
		case stmt.Command != nil:
			if !itemKinds[stmt.Command.Name] || stmt.Command.Name == "group" {
				return nil, fmt.Errorf("%s 不能嵌套在 %s 中 (行 %d)", stmt.Command.Name, cmd.Name, stmt.Command.Pos.Line)
			}
			child, err := b.node(stmt.Command)
			if err != nil {
				return nil, err
			}
			attrs, err := b.res.attributes(stmt.Command)
			if err != nil {
				return nil, err
			}
			if err := applyBoxAttributes(child, attrs); err != nil {
				return nil, err
			}
			out = append(out, child)
		}
	}
	return out, nil
}

// loadFormulas 渲染图元树中所有尚未加载的公式。
func (b *builder) loadFormulas(box graphics.Box) error {
	if f, ok := box.(*graphics.FormulaBox); ok {
		if f.HasLoaded() {
			return nil
		}
		f.Macros = b.res.Macros
		return f.Load(b.backend)
	}
	if p, ok := box.(interface{ Children() []graphics.Box }); ok {
		var errs []error
		for _, child := range p.Children() {
			if err := b.loadFormulas(child); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return nil
}

func (b *builder) position(attrs map[string]string) (graphics.Position, error) {
	var pos graphics.Position
	var err error
	if v, ok := attrs["x"]; ok {
		if pos.SX, err = ParseLength(v, b.scene.BaseFontSize, b.scene.Width); err != nil {
			return pos, fmt.Errorf("x: %w", err)
		}
	}
	if v, ok := attrs["y"]; ok {
		if pos.SY, err = ParseLength(v, b.scene.BaseFontSize, b.scene.Height); err != nil {
			return pos, fmt.Errorf("y: %w", err)
		}
	}
	if v, ok := attrs["anchor"]; ok {
		a, err := graphics.ParseAnchor(v)
		if err != nil {
			return pos, err
		}
		switch a.Kind {
		case graphics.AnchorLeft, graphics.AnchorRight:
			pos.XAnchor = a
		case graphics.AnchorTop, graphics.AnchorBottom, graphics.AnchorBaseline:
			pos.YAnchor = a
		default:
			pos.XAnchor, pos.YAnchor = a, a
		}
	}
	if v, ok := attrs["anchor-x"]; ok {
		if pos.XAnchor, err = graphics.ParseAnchor(v); err != nil {
			return pos, err
		}
		if pos.XAnchor.Kind >= graphics.AnchorTop && pos.XAnchor.Kind <= graphics.AnchorBaseline {
			return pos, fmt.Errorf("anchor-x 不支持 %s", v)
		}
	}
	if v, ok := attrs["anchor-y"]; ok {
		if pos.YAnchor, err = graphics.ParseAnchor(v); err != nil {
			return pos, err
		}
		if pos.YAnchor.Kind == graphics.AnchorLeft || pos.YAnchor.Kind == graphics.AnchorRight {
			return pos, fmt.Errorf("anchor-y 不支持 %s", v)
		}
	}
	return pos, nil
}

func (b *builder) interpolate(text string) string {
	return binding.Interpolate(text, b.data)
}

// applyBoxAttributes 处理与视觉无关的图元属性：metric 与 padding。
// 无法解析的 padding 退化为零内边距，仅记录日志。
func applyBoxAttributes(box graphics.Box, attrs map[string]string) error {
	if v, ok := attrs["metric"]; ok {
		m, err := graphics.ParseTextHeightMetric(v)
		if err != nil {
			return err
		}
		box.SetTextHeightMetric(m)
	}
	if v, ok := attrs["padding"]; ok {
		p, ok := graphics.ParsePaddingString(v)
		if !ok {
			graphics.Logger().Warn("ignore malformed padding", "value", v)
		}
		box.SetPadding(p)
	}
	return nil
}

// textVisuals 把样式属性解析为 visuals.Text，未设置的属性使用默认值。
func textVisuals(attrs map[string]string, res ResourceSet) (*visuals.Text, error) {
	tv := visuals.DefaultText()
	if v, ok := attrs["font"]; ok {
		tv.TextFont.Set(resolveFontFamily(v, res))
	}
	if v, ok := attrs["size"]; ok {
		size, err := ParseFontSize(v)
		if err != nil {
			return nil, err
		}
		tv.TextFontSize.Set(size)
	}
	if v, ok := attrs["style"]; ok {
		style, err := parseFontStyle(v)
		if err != nil {
			return nil, err
		}
		tv.TextFontStyle.Set(style)
	}
	if v, ok := attrs["color"]; ok {
		color, err := resolveColor(v, res)
		if err != nil {
			return nil, err
		}
		tv.TextColor.Set(color)
	}
	if v, ok := attrs["alpha"]; ok {
		a, err := strconv.ParseFloat(v, 64)
		if err != nil || a < 0 || a > 1 {
			return nil, fmt.Errorf("alpha 需要 0 到 1 之间的数值：%s", v)
		}
		tv.TextAlpha.Set(a)
	}
	if v, ok := attrs["line-height"]; ok {
		lh, err := ParseLineHeight(v, fontSizePixels(tv.TextFontSize.Value()))
		if err != nil {
			return nil, err
		}
		tv.TextLineHeight.Set(lh)
	}
	return tv, nil
}

func resolveFontFamily(name string, res ResourceSet) string {
	if f, ok := res.Fonts[name]; ok && f.Family != "" {
		return f.Family
	}
	return name
}

// resolveColor 优先查找颜色资源，否则按 css 颜色解析。
func resolveColor(value string, res ResourceSet) (string, error) {
	if c, ok := res.Colors[value]; ok {
		return c, nil
	}
	c, err := css.ParseColor(value)
	if err != nil {
		return "", fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return c.String(), nil
}

func parseFontStyle(v string) (string, error) {
	words := strings.Fields(strings.ToLower(strings.NewReplacer("-", " ", "_", " ").Replace(v)))
	var bold, italic bool
	for _, w := range words {
		switch w {
		case "normal", "regular":
		case "bold":
			bold = true
		case "italic", "oblique":
			italic = true
		default:
			return "", fmt.Errorf("不支持的字体样式：%s", v)
		}
	}
	switch {
	case bold && italic:
		return "italic bold", nil
	case bold:
		return "bold", nil
	case italic:
		return "italic", nil
	default:
		return "normal", nil
	}
}

func parseAlign(v string) (graphics.TextAlign, error) {
	switch a := graphics.TextAlign(strings.ToLower(v)); a {
	case graphics.AlignLeft, graphics.AlignCenter, graphics.AlignRight, graphics.AlignJustify:
		return a, nil
	default:
		return "", fmt.Errorf("不支持的对齐方式：%s", v)
	}
}

func applyCanvasSpec(s *Scene, spec dsl.CanvasSpec, res ResourceSet) error {
	var err error
	if s.Width, err = ParseLength(spec.Width, graphics.DefaultBaseFontSize, 0); err != nil {
		return fmt.Errorf("canvas 宽度: %w", err)
	}
	if s.Height, err = ParseLength(spec.Height, graphics.DefaultBaseFontSize, 0); err != nil {
		return fmt.Errorf("canvas 高度: %w", err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("canvas 尺寸必须为正：%s x %s", spec.Width, spec.Height)
	}
	s.BaseFontSize = graphics.DefaultBaseFontSize

	params := spec.Params
	for i := 0; i+1 < len(params); i += 2 {
		key, val := params[i].Value, params[i+1].Value
		switch key {
		case "background":
			if s.Background, err = resolveColor(val, res); err != nil {
				return err
			}
		case "base-size":
			px, err := ParseLength(val, graphics.DefaultBaseFontSize, graphics.DefaultBaseFontSize)
			if err != nil || px <= 0 {
				return fmt.Errorf("base-size 无法解析：%s", val)
			}
			s.BaseFontSize = px
		default:
			return fmt.Errorf("未知的 canvas 参数：%s", key)
		}
	}
	if len(params)%2 == 1 {
		return fmt.Errorf("canvas 参数 %s 缺少取值", params[len(params)-1].Value)
	}
	return nil
}

func collectMeta(doc *dsl.Document, data any) Meta {
	meta := Meta{
		Creator: "glyphbox",
	}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			value := stmt.Assignment.Value
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = metaString(value, data)
			case "author":
				meta.Author = metaString(value, data)
			case "subject":
				meta.Subject = metaString(value, data)
			case "creator":
				meta.Creator = metaString(value, data)
			case "keywords":
				meta.Keywords = valueStrings(value)
			}
		}
	}
	return meta
}

// metaString 解析字面量；data.x.y 形式的表达式从绑定数据中取值。
func metaString(val *dsl.Value, data any) string {
	s := valueToString(val)
	if val != nil && val.Expr != nil && strings.HasPrefix(s, "data.") {
		return binding.Interpolate("${"+strings.TrimPrefix(s, "data.")+"}", data)
	}
	return binding.Interpolate(s, data)
}

func firstCanvas(doc *dsl.Document) *dsl.CanvasSection {
	for _, section := range doc.Sections {
		if section.Canvas != nil {
			return section.Canvas
		}
	}
	return nil
}

// extractText 拼接块内的字符串字面量；多个字面量之间以换行分隔。
func extractText(block *dsl.Block) string {
	if block == nil {
		return ""
	}
	var lines []string
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			lines = append(lines, string(stmt.Text.Value))
		}
	}
	return strings.Join(lines, "\n")
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Expr != nil:
		return val.Expr.String()
	default:
		return ""
	}
}

// valueStrings 把数组（可嵌套）展开为标量字符串列表，单个值视为只有一项的列表。
func valueStrings(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array == nil {
		if s := valueToString(val); s != "" {
			return []string{s}
		}
		return nil
	}
	var out []string
	for _, item := range val.Array.Values {
		out = append(out, valueStrings(item)...)
	}
	return out
}

func isTrue(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
