package scene

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/glyphbox/css"
	"github.com/ByLCY/glyphbox/graphics"
)

// 场景坐标以 CSS px 为单位（96dpi），渲染器在边界处换算为 mm 或像素。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PxToMm = 25.4 / 96.0
	MmToPx = 96.0 / 25.4
)

// ParseLength 把 "12px"、"9pt"、"1.5em"、"50%" 或无单位数值解析为 px。
// em 相对 base，% 相对 reference。
func ParseLength(value string, base, reference float64) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("长度为空")
	}
	l, err := css.ParseLength(value)
	if err != nil {
		return 0, err
	}
	switch l.Unit {
	case css.UnitPX, css.UnitNone, css.UnitPT, css.UnitEM:
		return l.Pixels(base), nil
	case css.UnitPercent:
		return l.Value / 100 * reference, nil
	default:
		return 0, fmt.Errorf("不支持的长度单位：%s", value)
	}
}

// ParseAngle 把 "30deg"、"0.5rad" 或无单位弧度解析为弧度。
func ParseAngle(value string) (float64, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	switch {
	case strings.HasSuffix(value, "deg"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(value, "deg"), 64)
		if err != nil {
			return 0, fmt.Errorf("角度 %s 无法解析: %w", value, err)
		}
		return v * math.Pi / 180, nil
	case strings.HasSuffix(value, "rad"):
		value = strings.TrimSuffix(value, "rad")
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("角度 %s 无法解析: %w", value, err)
	}
	return v, nil
}

// ParseLineHeight accepts a factor ("1.2" or "1.2x") or an absolute length relative to fontSize.
func ParseLineHeight(value string, fontSize float64) (float64, error) {
	value = strings.TrimSpace(value)
	if f, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64); err == nil {
		return f, nil
	}
	px, err := ParseLength(value, fontSize, fontSize)
	if err != nil {
		return 0, fmt.Errorf("行高 %s 无法解析: %w", value, err)
	}
	if fontSize <= 0 {
		return 1, nil
	}
	return px / fontSize, nil
}

// ParseFontSize 返回规范化的 css 字号字符串；无单位数值视为 px。
func ParseFontSize(value string) (string, error) {
	l, ok := css.ParseFontSize(value)
	if !ok {
		return "", fmt.Errorf("字号 %s 无法解析", value)
	}
	return l.String(), nil
}

// fontSizePixels resolves a css font size string against the base font size.
func fontSizePixels(value string) float64 {
	l, ok := css.ParseFontSize(value)
	if !ok {
		return graphics.DefaultBaseFontSize
	}
	return l.Pixels(graphics.DefaultBaseFontSize)
}
