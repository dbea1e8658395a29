package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/ticketcards/dsl"
)

const sampleDSL = `
// raffle layout
cards Raffle {
  meta {
    title: "Spring raffle"
    keywords: [ "raffle", "club" ]
  }

  page A4
  grid rows 6 columns 3 spacing 181pt 108pt
  font "builtin:go-bold" size 12pt style bold
  line-spacing 1.2

  title x 10 y 20 width 160 height 35 {
    text: "${name}"
  }
  subtitle x 20 y 71 width 140 height 31 { text: "${tickets} tickets" }

  theme yellow { subtitle-offset: -2.5pt; fill: #FFF6C8; accent: #E0B000 }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Raffle" {
		t.Fatalf("expected document name Raffle, got %s", doc.Name)
	}
	stmts := doc.Block.Statements
	if len(stmts) != 8 {
		t.Fatalf("expected 8 statements, got %d", len(stmts))
	}

	meta := stmts[0].Command
	if meta == nil || meta.Name != "meta" || meta.Block == nil {
		t.Fatalf("expected meta block, got %+v", stmts[0])
	}
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" || title.Value.Text() != "Spring raffle" {
		t.Fatalf("unexpected meta title: %+v", meta.Block.Statements[0])
	}
	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || keywords.Value.Array == nil || len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected keywords array, got %+v", meta.Block.Statements[1])
	}

	grid := stmts[2].Command
	if grid == nil || grid.Name != "grid" {
		t.Fatalf("expected grid command, got %+v", stmts[2])
	}
	if got := lexemeValues(grid.Args); got != "rows 6 columns 3 spacing 181pt 108pt" {
		t.Fatalf("unexpected grid args: %s", got)
	}

	font := stmts[3].Command
	if font == nil || font.Args[0].Type != "String" || font.Args[0].Value != "builtin:go-bold" {
		t.Fatalf("unexpected font args: %+v", font)
	}

	spacing := stmts[4].Command
	if spacing == nil || spacing.Name != "line-spacing" || spacing.Args[0].Value != "1.2" {
		t.Fatalf("unexpected line-spacing command: %+v", stmts[4])
	}

	titleBox := stmts[5].Command
	if titleBox == nil || titleBox.Block == nil {
		t.Fatalf("title command missing block")
	}
	text := titleBox.Block.Statements[0].Assignment
	if text == nil || text.Value.Text() != "${name}" {
		t.Fatalf("unexpected title text: %+v", titleBox.Block.Statements[0])
	}

	theme := stmts[7].Command
	if theme == nil || theme.Name != "theme" || theme.Args[0].Value != "yellow" {
		t.Fatalf("unexpected theme command: %+v", stmts[7])
	}
	entries := theme.Block.Statements
	if len(entries) != 3 {
		t.Fatalf("expected 3 theme entries, got %d", len(entries))
	}
	if v := entries[0].Assignment.Value; v.Number == nil || *v.Number != "-2.5pt" {
		t.Fatalf("unexpected subtitle-offset value: %+v", v)
	}
	if v := entries[1].Assignment.Value; v.Color == nil || *v.Color != "#FFF6C8" {
		t.Fatalf("unexpected fill value: %+v", v)
	}
}

func TestParseRejectsUnterminatedBlock(t *testing.T) {
	if _, err := dsl.ParseString("cards Broken {\n grid rows 2\n"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func lexemeValues(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
