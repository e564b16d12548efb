package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 路径后可以跟 |format，例如 ${tick.value|%.2f} 或 ${unit|upper}。
// 若 data 为空、路径不存在或格式无法应用，则返回原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path, format, _ := strings.Cut(groups[1], "|")
		path = strings.TrimSpace(path)
		if path == "" {
			return match
		}
		val, ok := resolvePath(data, path)
		if !ok {
			return match
		}
		out, ok := applyFormat(val, strings.TrimSpace(format))
		if !ok {
			return match
		}
		return out
	})
}

// applyFormat 支持 fmt 动词（%.2f、%03d 等）以及 upper / lower / trim。
func applyFormat(val any, format string) (string, bool) {
	switch {
	case format == "":
		return fmt.Sprint(val), true
	case strings.HasPrefix(format, "%"):
		switch format[len(format)-1] {
		case 'f', 'e', 'g', 'E', 'G':
			f, ok := toFloat(val)
			if !ok {
				return "", false
			}
			return fmt.Sprintf(format, f), true
		case 'd', 'x', 'X', 'o', 'b':
			f, ok := toFloat(val)
			if !ok || f != float64(int64(f)) {
				return "", false
			}
			return fmt.Sprintf(format, int64(f)), true
		default:
			return fmt.Sprintf(format, val), true
		}
	case format == "upper":
		return strings.ToUpper(fmt.Sprint(val)), true
	case format == "lower":
		return strings.ToLower(fmt.Sprint(val)), true
	case format == "trim":
		return strings.TrimSpace(fmt.Sprint(val)), true
	default:
		return "", false
	}
}

func toFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func resolvePath(data any, path string) (any, bool) {
	current := data
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendMap(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendArray(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name := segment
	indexes := []string{}
	if i := strings.Index(segment, "["); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for len(rest) > 0 {
			if rest[0] != '[' {
				break
			}
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]interface{}:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []interface{}:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
