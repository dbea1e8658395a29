package layout

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

// stubMeasurer 是一个固定字宽的测量桩：每个字符 6pt，行距为字号的 1.15 倍。
type stubMeasurer struct{}

func (stubMeasurer) MeasureText(text string, font FontSpec) float64 {
	return 6 * float64(utf8.RuneCountInString(text))
}

func (stubMeasurer) LineHeight(font FontSpec) float64 { return font.Size * 1.15 }

var testFont = FontSpec{Src: "builtin:go-bold", Size: 12}

const eps = 1e-9

func lineTexts(lines []WrappedLine) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return out
}

func TestWrapBreaksAtMeasuredWidth(t *testing.T) {
	m := stubMeasurer{}
	width := m.MeasureText("Jonathan Alexander", testFont)
	lines := Wrap("Jonathan Alexander Whitmore", m, testFont, Rect{Width: width, Height: 40}, 0)
	got := strings.Join(lineTexts(lines), "|")
	if got != "Jonathan Alexander|Whitmore" {
		t.Fatalf("unexpected lines: %q", got)
	}
}

func TestWrapShortTextIsSingleLine(t *testing.T) {
	lines := Wrap("Bob", stubMeasurer{}, testFont, Rect{X: 10, Y: 20, Width: 160, Height: 35}, DefaultLineSpacing)
	if len(lines) != 1 || lines[0].Text != "Bob" {
		t.Fatalf("expected single line Bob, got %q", lineTexts(lines))
	}
}

func TestWrapEmptyTextDrawsNothing(t *testing.T) {
	for _, text := range []string{"", " ", "   "} {
		if lines := Wrap(text, stubMeasurer{}, testFont, Rect{Width: 100, Height: 30}, 0); len(lines) != 0 {
			t.Fatalf("Wrap(%q) produced %d lines", text, len(lines))
		}
	}
}

func TestWrapWideWordOverflows(t *testing.T) {
	box := Rect{X: 50, Width: 30, Height: 30}
	lines := Wrap("Supercalifragilistic ok", stubMeasurer{}, testFont, box, 0)
	if got := strings.Join(lineTexts(lines), "|"); got != "|Supercalifragilistic|ok" {
		t.Fatalf("unexpected lines: %q", got)
	}
	if lines[1].X >= box.X {
		t.Fatalf("overflowing line should start left of the box, x=%g", lines[1].X)
	}
	step := stubMeasurer{}.LineHeight(testFont) * DefaultLineSpacing
	if math.Abs(lines[0].Y-(box.Y+(box.Height-3*step)/2)) > eps {
		t.Fatalf("first line y=%g not centered for 3 lines", lines[0].Y)
	}
	if math.Abs(lines[1].Y-lines[0].Y-step) > eps {
		t.Fatalf("wide word should sit one line below the empty line, got %g", lines[1].Y-lines[0].Y)
	}
}

// 单个超宽的词前面有一个空行，因此落在框的纵向中线上，而不是整体居中。
func TestWrapSingleWideWordShiftsDown(t *testing.T) {
	box := Rect{Y: 10, Width: 30, Height: 60}
	lines := Wrap("Supercalifragilistic", stubMeasurer{}, testFont, box, 0)
	if len(lines) != 2 || lines[0].Text != "" || lines[1].Text != "Supercalifragilistic" {
		t.Fatalf("unexpected lines: %q", lineTexts(lines))
	}
	if math.Abs(lines[1].Y-(box.Y+box.Height/2)) > eps {
		t.Fatalf("wide word top y=%g, want %g", lines[1].Y, box.Y+box.Height/2)
	}
}

func TestWrapWidthMonotonic(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog near the riverbank"
	prev := math.MaxInt
	for w := 10.0; w <= 420; w += 5 {
		n := len(Wrap(text, stubMeasurer{}, testFont, Rect{Width: w, Height: 50}, 0))
		if n > prev {
			t.Fatalf("width %g produced %d lines, more than %d at a narrower width", w, n, prev)
		}
		prev = n
	}
}

func TestWrapCentersSingleLine(t *testing.T) {
	box := Rect{X: 20, Y: 71, Width: 140, Height: 31}
	lines := Wrap("12", stubMeasurer{}, testFont, box, DefaultLineSpacing)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	l := lines[0]
	left := l.X - box.X
	right := box.X + box.Width - (l.X + l.Width)
	if math.Abs(left-right) > eps {
		t.Fatalf("horizontal margins differ: left=%g right=%g", left, right)
	}
	lineHeight := stubMeasurer{}.LineHeight(testFont) * DefaultLineSpacing
	top := l.Y - box.Y
	bottom := box.Y + box.Height - (l.Y + lineHeight)
	if math.Abs(top-bottom) > eps {
		t.Fatalf("vertical margins differ: top=%g bottom=%g", top, bottom)
	}
	if math.Abs(l.Baseline-(l.Y+testFont.Size)) > eps {
		t.Fatalf("baseline should sit one font size below the line top, got %g for y=%g", l.Baseline, l.Y)
	}
}

func TestWrapStacksLinesByLineHeight(t *testing.T) {
	box := Rect{X: 10, Y: 20, Width: 50, Height: 35}
	lines := Wrap("Anna Maria Sophia", stubMeasurer{}, testFont, box, 1.5)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", lineTexts(lines))
	}
	step := stubMeasurer{}.LineHeight(testFont) * 1.5
	total := step * 3
	if math.Abs(lines[0].Y-(box.Y+(box.Height-total)/2)) > eps {
		t.Fatalf("first line y=%g not vertically centered", lines[0].Y)
	}
	for i := 1; i < len(lines); i++ {
		if d := lines[i].Y - lines[i-1].Y; math.Abs(d-step) > eps {
			t.Fatalf("line %d advanced %g, want %g", i, d, step)
		}
		if math.Abs(lines[i].X+lines[i].Width/2-(box.X+box.Width/2)) > eps {
			t.Fatalf("line %d is not centered", i)
		}
	}
}
