package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmmath"
	"github.com/go-fonts/latin-modern/lmmono10italic"
	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10oblique"
	"github.com/go-fonts/latin-modern/lmsans10regular"
)

// DefaultFamily 是未声明字体资源时使用的内置字族名。
const DefaultFamily = "Latin Modern Roman"

var embedded = map[string][]byte{
	"lmroman10-regular":    lmroman10regular.TTF,
	"lmroman10-italic":     lmroman10italic.TTF,
	"lmroman10-bold":       lmroman10bold.TTF,
	"lmroman10-bolditalic": lmroman10bolditalic.TTF,
	"lmsans10-regular":     lmsans10regular.TTF,
	"lmsans10-oblique":     lmsans10oblique.TTF,
	"lmsans10-bold":        lmsans10bold.TTF,
	"lmmono10-regular":     lmmono10regular.TTF,
	"lmmono10-italic":      lmmono10italic.TTF,
	"lmmath":               lmmath.TTF,
}

// Face 是内置字族中的一个字重/字形。
type Face struct {
	Name   string
	Italic bool
	Bold   bool
}

// DefaultFaces lists the faces of DefaultFamily.
var DefaultFaces = []Face{
	{Name: "lmroman10-regular"},
	{Name: "lmroman10-italic", Italic: true},
	{Name: "lmroman10-bold", Bold: true},
	{Name: "lmroman10-bolditalic", Italic: true, Bold: true},
}

// Load 返回内置字体的字节数据，name 可写为 "embed:lmroman10-regular" 或直接 "lmroman10-regular"。
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "embed:")
	name = strings.TrimSuffix(strings.ToLower(name), ".ttf")
	data, ok := embedded[name]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未找到（可用: %s）", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names returns the embedded font names in sorted order.
func Names() []string {
	names := make([]string, 0, len(embedded))
	for name := range embedded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
