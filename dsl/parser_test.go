package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/glyphbox/dsl"
)

const sampleDSL = `
scene Axis v1 {
  meta {
    title: "Tick labels"
    keywords: [
      "axis"
      "math"
    ]
  }

  resources {
    font Body {
      src: "embed:lmroman10-regular"
    }

    color Accent = #0F62FE
    style Tick {
      font: Body
      size: 11px
    }
  }

  canvas 400 300 background #fff {
    text Tick x 20 y 40 anchor-y baseline angle -30deg { "Hello, ${user.name}!" }

    row Tick x 100 y -2.5 {
      "2"; "x"
      expo { "10" "-3" }
    }

    let unit = data.meta.unit
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Axis" {
		t.Fatalf("expected scene name Axis, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}

	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	kinds := []string{}
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind())
	}
	if got := strings.Join(kinds, ","); got != "meta,resources,canvas" {
		t.Fatalf("unexpected section kinds: %s", got)
	}

	meta := doc.Sections[0].Meta
	if meta == nil {
		t.Fatalf("meta section missing")
	}
	if len(meta.Block.Statements) < 2 {
		t.Fatalf("meta statements missing: %+v", meta.Block.Statements)
	}
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	if got := string(*title.Value.String); got != "Tick labels" {
		t.Fatalf("expected title Tick labels, got %s", got)
	}

	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || keywords.Value.Array == nil {
		t.Fatalf("expected keywords array assignment")
	}
	if len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected 2 keywords, got %d", len(keywords.Value.Array.Values))
	}

	resources := doc.Sections[1].Resources
	if resources == nil || len(resources.Block.Statements) != 3 {
		t.Fatalf("expected 3 resource declarations, got %+v", resources)
	}
	color := resources.Block.Statements[1].Command
	if color == nil || color.Name != "color" || color.Args[len(color.Args)-1].Value != "#0F62FE" {
		t.Fatalf("unexpected color resource: %+v", resources.Block.Statements[1])
	}

	canvas := doc.Sections[2].Canvas
	if canvas == nil {
		t.Fatalf("canvas section missing")
	}
	if canvas.Spec.Width != "400" || canvas.Spec.Height != "300" {
		t.Fatalf("unexpected canvas size: %+v", canvas.Spec)
	}
	if len(canvas.Spec.Params) != 2 || canvas.Spec.Params[1].Value != "#fff" {
		t.Fatalf("unexpected canvas params: %+v", canvas.Spec.Params)
	}

	textCmd := canvas.Block.Statements[0].Command
	if textCmd == nil || textCmd.Name != "text" {
		t.Fatalf("expected text command, got %+v", canvas.Block.Statements[0])
	}
	if got := tokensToString(textCmd.Args); got != "Tick x 20 y 40 anchor-y baseline angle -30deg" {
		t.Fatalf("unexpected text args: %s", got)
	}
	if textCmd.Block == nil || len(textCmd.Block.Statements) == 0 || textCmd.Block.Statements[0].Text == nil {
		t.Fatalf("text command missing literal content")
	}
	if got := string(textCmd.Block.Statements[0].Text.Value); !strings.Contains(got, "${user.name}") {
		t.Fatalf("expected interpolation in text literal, got %s", got)
	}

	rowCmd := canvas.Block.Statements[1].Command
	if rowCmd == nil || rowCmd.Name != "row" {
		t.Fatalf("expected row command, got %+v", canvas.Block.Statements[1])
	}
	if rowCmd.Args[len(rowCmd.Args)-1].Value != "-2.5" {
		t.Fatalf("negative numbers should lex as one token: %+v", rowCmd.Args)
	}
	if len(rowCmd.Block.Statements) != 3 {
		t.Fatalf("expected 3 row items, got %d", len(rowCmd.Block.Statements))
	}
	expo := rowCmd.Block.Statements[2].Command
	if expo == nil || expo.Name != "expo" || len(expo.Block.Statements) != 2 {
		t.Fatalf("expected expo with two literals, got %+v", rowCmd.Block.Statements[2])
	}
	if got := string(expo.Block.Statements[1].Text.Value); got != "-3" {
		t.Fatalf("unexpected exponent %q", got)
	}

	letCmd := canvas.Block.Statements[2].Command
	if letCmd == nil || letCmd.Name != "let" {
		t.Fatalf("expected let command, got %+v", canvas.Block.Statements[2])
	}
	if len(letCmd.Args) < 4 || letCmd.Args[2].Value != "data" {
		t.Fatalf("unexpected let args: %+v", letCmd.Args)
	}
}

func TestParseAssignmentExpression(t *testing.T) {
	doc, err := dsl.ParseString(`scene S v1 { meta { subject: data.meta.subject } canvas 10 10 { } }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	field := doc.Sections[0].Meta.Block.Statements[0].Assignment
	if field == nil || field.Value.Expr == nil {
		t.Fatalf("subject assignment should capture expression, got %+v", doc.Sections[0].Meta.Block.Statements[0])
	}
	if got := tokensToString(field.Value.Expr.Parts); got != "data . meta . subject" {
		t.Fatalf("unexpected expression tokens: %s", got)
	}
	if got := field.Value.Expr.String(); got != "data.meta.subject" {
		t.Fatalf("unexpected expression string: %s", got)
	}
}

func TestParseExpressionKeepsBracketedCommas(t *testing.T) {
	doc, err := dsl.ParseString(`scene S v1 { meta { subject: pick(a, [b, c]) } canvas 10 10 { } }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	field := doc.Sections[0].Meta.Block.Statements[0].Assignment
	if field == nil || field.Value.Expr == nil {
		t.Fatalf("expected expression, got %+v", doc.Sections[0].Meta.Block.Statements[0])
	}
	if got := field.Value.Expr.String(); got != "pick(a,[b,c])" {
		t.Fatalf("unexpected expression string: %s", got)
	}
}

func TestParseRejectsUnknownSection(t *testing.T) {
	if _, err := dsl.ParseString(`scene S v1 { page A4 { } }`); err == nil {
		t.Fatalf("expected error for page section")
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
