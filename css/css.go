// Package css parses the small subset of CSS values the engine exchanges as strings:
// font shorthands ("italic bold 13px Latin Modern"), font sizes ("13px", "1.2em")
// and colors ("#0F62FE", "rgba(0, 0, 0, 0.5)", "navy").
package css

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	cssLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Hash", Pattern: `#[0-9A-Fa-f]+`},
		{Name: "Dimension", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)(?:[A-Za-z]+|%)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"|'(?:\\.|[^'])*'`},
		{Name: "Ident", Pattern: `[A-Za-z_-][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[(),/]`},
	})

	fontParser = participle.MustBuild[fontExpr](
		participle.Lexer(cssLexer),
		participle.Elide("Whitespace"),
	)
	dimensionParser = participle.MustBuild[dimensionExpr](
		participle.Lexer(cssLexer),
		participle.Elide("Whitespace"),
	)
	colorParser = participle.MustBuild[colorExpr](
		participle.Lexer(cssLexer),
		participle.Elide("Whitespace"),
	)
)

type fontExpr struct {
	Keywords   []string      `parser:"@Ident*"`
	Size       string        `parser:"@Dimension"`
	LineHeight *string       `parser:"( '/' @Dimension )?"`
	Families   []*familyExpr `parser:"( @@ ( ',' @@ )* )?"`
}

type familyExpr struct {
	Quoted *quoted  `parser:"  @String"`
	Words  []string `parser:"| @Ident+"`
}

func (f *familyExpr) name() string {
	if f.Quoted != nil {
		return string(*f.Quoted)
	}
	return strings.Join(f.Words, " ")
}

type dimensionExpr struct {
	Raw string `parser:"@Dimension"`
}

type colorExpr struct {
	Hex  *string    `parser:"  @Hash"`
	Func *colorFunc `parser:"| @@"`
	Name *string    `parser:"| @Ident"`
}

type colorFunc struct {
	Name string   `parser:"@( 'rgba' | 'rgb' )"`
	Args []string `parser:"'(' @Dimension ( ( ',' | '/' )? @Dimension )* ')'"`
}

// quoted strips single or double quotes on capture.
type quoted string

// Capture implements participle.Capture.
func (q *quoted) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("quoted string capture requires value")
	}
	raw := values[0]
	if strings.HasPrefix(raw, "'") {
		*q = quoted(strings.ReplaceAll(strings.Trim(raw, "'"), `\'`, "'"))
		return nil
	}
	val, err := strconv.Unquote(raw)
	if err != nil {
		return err
	}
	*q = quoted(val)
	return nil
}
