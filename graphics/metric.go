package graphics

import "fmt"

// TextHeightMetric 选择由哪些字体度量决定一行的上/下延。
// 取值按覆盖高度从小到大排列，多个 box 需要统一度量时取最大者。
type TextHeightMetric int

const (
	MetricX TextHeightMetric = iota
	MetricCap
	MetricAscent
	MetricXDescent
	MetricCapDescent
	MetricAscentDescent
)

var metricNames = [...]string{"x", "cap", "ascent", "x_descent", "cap_descent", "ascent_descent"}

func (m TextHeightMetric) String() string {
	if m < 0 || int(m) >= len(metricNames) {
		return fmt.Sprintf("TextHeightMetric(%d)", int(m))
	}
	return metricNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m TextHeightMetric) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ParseTextHeightMetric parses the names returned by String.
func ParseTextHeightMetric(s string) (TextHeightMetric, error) {
	for i, name := range metricNames {
		if name == s {
			return TextHeightMetric(i), nil
		}
	}
	return 0, fmt.Errorf("unknown text height metric %q", s)
}

// ascent returns the ascent component selected by m.
func (m TextHeightMetric) ascent(fm FontMetrics) float64 {
	switch m {
	case MetricX, MetricXDescent:
		return fm.XHeight
	case MetricCap, MetricCapDescent:
		return fm.CapHeight
	default:
		return fm.Ascent
	}
}

// descent returns the descent component selected by m.
func (m TextHeightMetric) descent(fm FontMetrics) float64 {
	switch m {
	case MetricXDescent, MetricCapDescent, MetricAscentDescent:
		return fm.Descent
	default:
		return 0
	}
}

// CommonTextHeight returns the highest-ranked metric inferred by items,
// or MetricAscentDescent when items is empty.
func CommonTextHeight(items []Box) TextHeightMetric {
	if len(items) == 0 {
		return MetricAscentDescent
	}
	common := items[0].InferTextHeight()
	for _, item := range items[1:] {
		if m := item.InferTextHeight(); m > common {
			common = m
		}
	}
	return common
}

// unifyTextHeight forces the common metric onto every item.
func unifyTextHeight(items []Box) {
	if len(items) == 0 {
		return
	}
	common := CommonTextHeight(items)
	for _, item := range items {
		item.SetTextHeightMetric(common)
	}
}
