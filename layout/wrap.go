package layout

import "strings"

// DefaultLineSpacing 为行高相对字体行距的倍数。
const DefaultLineSpacing = 1.2

// Measurer 负责测量文本宽度与字体行距，单位均为 pt。
// 渲染器实现该接口；测试中可用固定字宽的桩替代。
type Measurer interface {
	MeasureText(text string, font FontSpec) float64
	LineHeight(font FontSpec) float64
}

// Wrap 在 box 内对 text 做贪心折行，并将各行水平、整体垂直居中。
// 单个超宽的词不会被拆开，而是溢出文本框；首个词超宽时前面会多出一个空行。空文本返回 nil。
func Wrap(text string, m Measurer, font FontSpec, box Rect, lineSpacing float64) []WrappedLine {
	if lineSpacing <= 0 {
		lineSpacing = DefaultLineSpacing
	}
	lines := breakLines(text, m, font, box.Width)
	if len(lines) == 0 {
		return nil
	}

	lineHeight := m.LineHeight(font) * lineSpacing
	totalHeight := lineHeight * float64(len(lines))
	y := box.Y + (box.Height-totalHeight)/2

	out := make([]WrappedLine, 0, len(lines))
	for _, line := range lines {
		width := m.MeasureText(line, font)
		out = append(out, WrappedLine{
			Text:     line,
			X:        box.X + (box.Width-width)/2,
			Y:        y,
			Baseline: y + font.Size,
			Width:    width,
		})
		y += lineHeight
	}
	return out
}

// breakLines 按单个空格切词后逐词尝试追加到当前行，超过 limit 时换行。
func breakLines(text string, m Measurer, font FontSpec, limit float64) []string {
	var lines []string
	current := ""
	for _, word := range strings.Split(text, " ") {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if m.MeasureText(candidate, font) > limit {
			// 首个词就超宽时提交的是空行，超宽的词随后独占一行
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if strings.TrimSpace(current) != "" {
		lines = append(lines, current)
	}
	return lines
}
