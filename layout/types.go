package layout

// 该文件定义排版计划与几何类型，供排版、渲染与调试 JSON 共用。
// 所有长度均以 pt 为单位，原点位于页面左上角。

import (
	"github.com/ByLCY/ticketcards/records"
	"github.com/ByLCY/ticketcards/theme"
)

// Color 采用 0-255 的 RGB 数值。
type Color = theme.Color

// Rect 是一个文本目标框。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BoxTemplate 描述单元格内一个文本框相对单元格原点的位置与大小，以及要填入的文本模板。
type BoxTemplate struct {
	XPadding float64 `json:"xPadding"`
	YPadding float64 `json:"yPadding"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Text     string  `json:"text"`
}

// At 返回以 (x, y) 为单元格原点时的文本框。
func (b BoxTemplate) At(x, y float64) Rect {
	return Rect{X: x + b.XPadding, Y: y + b.YPadding, Width: b.Width, Height: b.Height}
}

// Grid 为每页固定的行列网格，XSpacing/YSpacing 为相邻单元格原点的间距。
type Grid struct {
	Rows     int     `json:"rows"`
	Columns  int     `json:"columns"`
	XSpacing float64 `json:"xSpacing"`
	YSpacing float64 `json:"ySpacing"`
}

// CardsPerPage 返回每页可容纳的卡片数。
func (g Grid) CardsPerPage() int { return g.Rows * g.Columns }

// PageSize 以 pt 记录纸张尺寸。
type PageSize struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FontSpec 描述绘制所用的字体，Size 为字号（pt）。
// Src 可以是 builtin:<name> 或字体文件路径。
type FontSpec struct {
	Src   string  `json:"src"`
	Style string  `json:"style,omitempty"`
	Size  float64 `json:"size"`
}

// WrappedLine 是折行居中后的一行：X/Y 为行框左上角，Baseline 为绘制基线。
type WrappedLine struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Baseline float64 `json:"baseline"`
	Width    float64 `json:"width"`
}

// Slot 是卡片在某页网格中的位置及其两个文本框。
type Slot struct {
	Index    int            `json:"index"`
	Row      int            `json:"row"`
	Col      int            `json:"col"`
	Card     records.Record `json:"card"`
	Title    Rect           `json:"title"`
	Subtitle Rect           `json:"subtitle"`
}

// Page 记录一页上按行优先排列的卡片。
type Page struct {
	Number int    `json:"number"`
	Slots  []Slot `json:"slots"`
}

// Plan 是完整的分页排版结果。
type Plan struct {
	Page         PageSize `json:"page"`
	Theme        string   `json:"theme"`
	CardsPerPage int      `json:"cardsPerPage"`
	Pages        []Page   `json:"pages"`
}

// CardCount 返回计划中的卡片总数。
func (p *Plan) CardCount() int {
	n := 0
	for _, pg := range p.Pages {
		n += len(pg.Slots)
	}
	return n
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
