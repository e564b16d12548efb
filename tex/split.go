package tex

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnclosed is returned when a math delimiter has no closing counterpart.
var ErrUnclosed = errors.New("公式定界符未闭合")

// Segment 是混排文本中的一段：普通文字或公式源码（不含定界符）。
type Segment struct {
	Text string `json:"text"`
	Math bool   `json:"math,omitempty"`
}

type delimiter struct {
	open, close string
}

// 较长的定界符在前，$$ 优先于 $。
var delimiters = []delimiter{
	{"$$", "$$"},
	{`\[`, `\]`},
	{`\(`, `\)`},
	{"$", "$"},
}

// Split cuts s into text and math segments on the $…$, $$…$$, \(…\) and \[…\]
// delimiters. \$ stands for a literal dollar sign outside of math. Empty
// segments are dropped.
func Split(s string) ([]Segment, error) {
	var out []Segment
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			out = append(out, Segment{Text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], `\$`) {
			text.WriteByte('$')
			i += 2
			continue
		}
		d, ok := openingAt(s, i)
		if !ok {
			text.WriteByte(s[i])
			i++
			continue
		}
		start := i + len(d.open)
		n := closingIndex(s[start:], d.close)
		if n < 0 {
			return nil, fmt.Errorf("%w：%s（第 %d 字节）", ErrUnclosed, d.open, i)
		}
		flush()
		if src := strings.TrimSpace(s[start : start+n]); src != "" {
			out = append(out, Segment{Text: src, Math: true})
		}
		i = start + n + len(d.close)
	}
	flush()
	return out, nil
}

// HasMath reports whether s contains at least one delimited formula.
func HasMath(s string) bool {
	segments, err := Split(s)
	if err != nil {
		return false
	}
	for _, seg := range segments {
		if seg.Math {
			return true
		}
	}
	return false
}

func openingAt(s string, i int) (delimiter, bool) {
	for _, d := range delimiters {
		if strings.HasPrefix(s[i:], d.open) {
			return d, true
		}
	}
	return delimiter{}, false
}

// closingIndex 在公式内容中查找结束定界符，跳过 \$ 之类的转义。
func closingIndex(math, close string) int {
	for j := 0; j < len(math); {
		if strings.HasPrefix(math[j:], close) {
			return j
		}
		if math[j] == '\\' {
			j += 2
			continue
		}
		j++
	}
	return -1
}
