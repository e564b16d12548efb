// Package mathml 把 Presentation MathML 转换为 TeX 源码，交给 TeX 公式渲染器绘制。
// 只支持常见的展示元素：mi、mn、mo、mtext、mrow、msup、msub、msubsup、mfrac、msqrt、mroot、mspace。
package mathml

import (
	"encoding/xml"
	"fmt"
	"strings"
	"unicode/utf8"
)

type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []node     `xml:",any"`
	Text     string     `xml:",chardata"`
}

// ToTeX converts a MathML document (with or without the <math> root) to TeX.
func ToTeX(src string) (string, error) {
	var root node
	if err := xml.Unmarshal([]byte(src), &root); err != nil {
		return "", fmt.Errorf("解析 MathML 失败: %w", err)
	}
	var b strings.Builder
	if err := write(&b, root); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

func write(b *strings.Builder, n node) error {
	switch n.XMLName.Local {
	case "math", "mrow", "mstyle", "semantics", "mpadded", "mphantom":
		return writeAll(b, n.Children)
	case "annotation", "annotation-xml":
		return nil
	case "mi":
		writeIdent(b, strings.TrimSpace(n.Text), attr(n, "mathvariant"))
	case "mn":
		b.WriteString(strings.TrimSpace(n.Text))
	case "mo":
		b.WriteString(operator(strings.TrimSpace(n.Text)))
	case "mtext":
		fmt.Fprintf(b, `\text{%s}`, escape(n.Text))
	case "mspace":
		b.WriteString(`\ `)
	case "msup":
		return script(b, n, 2, func(args []string) string { return fmt.Sprintf("{%s}^{%s}", args[0], args[1]) })
	case "msub":
		return script(b, n, 2, func(args []string) string { return fmt.Sprintf("{%s}_{%s}", args[0], args[1]) })
	case "msubsup":
		return script(b, n, 3, func(args []string) string {
			return fmt.Sprintf("{%s}_{%s}^{%s}", args[0], args[1], args[2])
		})
	case "mfrac":
		return script(b, n, 2, func(args []string) string { return fmt.Sprintf(`\frac{%s}{%s}`, args[0], args[1]) })
	case "mroot":
		return script(b, n, 2, func(args []string) string { return fmt.Sprintf(`\sqrt[%s]{%s}`, args[1], args[0]) })
	case "msqrt":
		var inner strings.Builder
		if err := writeAll(&inner, n.Children); err != nil {
			return err
		}
		fmt.Fprintf(b, `\sqrt{%s}`, inner.String())
	default:
		return fmt.Errorf("不支持的 MathML 元素 <%s>", n.XMLName.Local)
	}
	return nil
}

func writeAll(b *strings.Builder, children []node) error {
	for _, child := range children {
		if err := write(b, child); err != nil {
			return err
		}
	}
	return nil
}

// script renders an element with exactly n child arguments.
func script(b *strings.Builder, n node, want int, format func([]string) string) error {
	if len(n.Children) != want {
		return fmt.Errorf("<%s> 需要 %d 个子元素，实际 %d 个", n.XMLName.Local, want, len(n.Children))
	}
	args := make([]string, want)
	for i, child := range n.Children {
		var sb strings.Builder
		if err := write(&sb, child); err != nil {
			return err
		}
		args[i] = sb.String()
	}
	b.WriteString(format(args))
	return nil
}

func attr(n node, name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

var greek = map[string]string{
	"α": `\alpha`, "β": `\beta`, "γ": `\gamma`, "δ": `\delta`, "ε": `\epsilon`,
	"θ": `\theta`, "λ": `\lambda`, "μ": `\mu`, "π": `\pi`, "ρ": `\rho`,
	"σ": `\sigma`, "τ": `\tau`, "φ": `\phi`, "ω": `\omega`,
	"Γ": `\Gamma`, "Δ": `\Delta`, "Θ": `\Theta`, "Λ": `\Lambda`, "Π": `\Pi`,
	"Σ": `\Sigma`, "Φ": `\Phi`, "Ω": `\Omega`,
}

func writeIdent(b *strings.Builder, text, variant string) {
	if tex, ok := greek[text]; ok {
		b.WriteString(tex + " ")
		return
	}
	switch {
	case variant == "normal" || utf8.RuneCountInString(text) > 1:
		// 多字母标识符（如 sin）按函数名直立显示
		fmt.Fprintf(b, `\mathrm{%s}`, text)
	case variant == "bold":
		fmt.Fprintf(b, `\mathbf{%s}`, text)
	default:
		b.WriteString(text)
	}
}

var operators = map[string]string{
	"−": "-", "×": `\times `, "·": `\cdot `, "÷": `\div `, "±": `\pm `,
	"≤": `\leq `, "≥": `\geq `, "≠": `\neq `, "≈": `\approx `, "∞": `\infty `,
	"∑": `\sum `, "∏": `\prod `, "∫": `\int `, "→": `\to `, "∂": `\partial `,
	"{": `\{`, "}": `\}`,
}

func operator(text string) string {
	if tex, ok := operators[text]; ok {
		return tex
	}
	return text
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\backslash `, "{", `\{`, "}", `\}`, "$", `\$`, "%", `\%`, "&", `\&`, "#", `\#`, "_", `\_`)
	return r.Replace(s)
}
