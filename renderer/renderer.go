package renderer

import (
	"io"

	"github.com/ByLCY/ticketcards/layout"
	"github.com/ByLCY/ticketcards/theme"
)

// Renderer 根据主题打开输出文档，并提供文本测量能力。
// Open 时构建一次模板页，之后每个 NewPage 都是模板页的副本。
type Renderer interface {
	layout.Measurer
	Open(w io.Writer, cfg layout.Config, th theme.Theme) (Document, error)
}

// Document 是正在生成的多页文档。同一时刻只能有一个未关闭的 Surface；
// Close 只调用一次，负责把全部页面写出。
type Document interface {
	NewPage() (Surface, error)
	Close() error
}

// Surface 是单页的绘制面，坐标单位为 pt，原点位于左上角，y 为文字基线。
// 绘制完成后必须 Close，才能创建下一页。
type Surface interface {
	layout.Measurer
	DrawText(text string, font layout.FontSpec, col layout.Color, x, y float64)
	Close() error
}
