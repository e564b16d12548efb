// Package tex 在公式交给渲染器之前处理 TeX 源码：展开用户定义的宏，
// 以及按 $…$、\(…\) 等定界符把混排文本切分为文字与公式。
package tex

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxExpansionDepth 限制宏的嵌套展开层数。
const maxExpansionDepth = 32

var (
	// ErrRecursion is returned when a macro keeps expanding into itself.
	ErrRecursion = errors.New("宏展开层数过多，可能存在递归定义")
	// ErrMissingArgument is returned when a macro is used with fewer arguments than declared.
	ErrMissingArgument = errors.New("宏缺少参数")
)

// Macro 是一个用户宏：Body 中的 #1…#9 被依次替换为实参。
type Macro struct {
	Body string `json:"body"`
	Args int    `json:"args,omitempty"`
}

// Macros maps control-word names (without the backslash) to their definitions.
type Macros map[string]Macro

// ValidName reports whether name can be used as a control word: ASCII letters only.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isLetter(name[i]) {
			return false
		}
	}
	return true
}

// Expand replaces every use of a defined macro in src, including macros that
// appear in the expansion of other macros.
func (m Macros) Expand(src string) (string, error) {
	if len(m) == 0 {
		return src, nil
	}
	return m.expand(src, 0)
}

func (m Macros) expand(src string, depth int) (string, error) {
	if depth > maxExpansionDepth {
		return "", ErrRecursion
	}
	var sb strings.Builder
	for i := 0; i < len(src); {
		if src[i] != '\\' {
			sb.WriteByte(src[i])
			i++
			continue
		}
		name, end := controlSequence(src, i)
		mac, ok := m[name]
		if !ok {
			sb.WriteString(src[i:end])
			i = end
			continue
		}
		args, next, err := readArgs(src, end, mac.Args)
		if err != nil {
			return "", fmt.Errorf(`\%s: %w`, name, err)
		}
		body, err := m.expand(substitute(mac.Body, args), depth+1)
		if err != nil {
			return "", err
		}
		sb.WriteString(body)
		i = next
	}
	return sb.String(), nil
}

// controlSequence 读取 src[i] 处以反斜杠开头的控制序列。
// 控制词返回名字；控制符（如 \\、\{）返回空名字，只前进两个字节。
func controlSequence(src string, i int) (name string, end int) {
	j := i + 1
	for j < len(src) && isLetter(src[j]) {
		j++
	}
	if j == i+1 {
		return "", min(i+2, len(src))
	}
	return src[i+1 : j], j
}

// readArgs 读取 n 个实参：花括号分组（去掉最外层括号）、控制序列或单个字符。
func readArgs(src string, pos, n int) ([]string, int, error) {
	args := make([]string, 0, n)
	for range n {
		for pos < len(src) && (src[pos] == ' ' || src[pos] == '\t' || src[pos] == '\n') {
			pos++
		}
		if pos >= len(src) {
			return nil, pos, ErrMissingArgument
		}
		switch src[pos] {
		case '{':
			end, ok := matchBrace(src, pos)
			if !ok {
				return nil, pos, fmt.Errorf("%w：花括号未闭合", ErrMissingArgument)
			}
			args = append(args, src[pos+1:end])
			pos = end + 1
		case '}':
			return nil, pos, ErrMissingArgument
		case '\\':
			_, end := controlSequence(src, pos)
			args = append(args, src[pos:end])
			pos = end
		default:
			_, size := utf8.DecodeRuneInString(src[pos:])
			args = append(args, src[pos:pos+size])
			pos += size
		}
	}
	return args, pos, nil
}

// matchBrace returns the index of the } closing the { at open.
func matchBrace(src string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// substitute 把 #1…#9 替换为实参，## 表示字面量 #。
func substitute(body string, args []string) string {
	if !strings.Contains(body, "#") {
		return body
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] != '#' || i+1 >= len(body) {
			sb.WriteByte(body[i])
			continue
		}
		next := body[i+1]
		switch {
		case next == '#':
			sb.WriteByte('#')
			i++
		case next >= '1' && next <= '9' && int(next-'1') < len(args):
			sb.WriteString(args[next-'1'])
			i++
		default:
			sb.WriteByte('#')
		}
	}
	return sb.String()
}

func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }
