package layout

import (
	"errors"
	"fmt"

	"github.com/ByLCY/ticketcards/records"
	"github.com/ByLCY/ticketcards/theme"
)

// ErrInvalidGrid 表示网格行列数不合法。
var ErrInvalidGrid = errors.New("网格行列数必须大于 0")

// PageCount 返回 n 张卡片按每页 perPage 张需要的页数。
func PageCount(n, perPage int) int {
	if n <= 0 || perPage <= 0 {
		return 0
	}
	return (n + perPage - 1) / perPage
}

// Paginate 将卡片序列按行优先依次填入每页网格，网格填满即换页。
// 最后一页可以不满，空位不补齐。副标题框按主题做纵向偏移。
func Paginate(cards []records.Record, cfg Config, th theme.Theme) (*Plan, error) {
	grid := cfg.Grid
	if grid.Rows <= 0 || grid.Columns <= 0 {
		return nil, fmt.Errorf("%w: rows=%d columns=%d", ErrInvalidGrid, grid.Rows, grid.Columns)
	}
	perPage := grid.CardsPerPage()
	pageCount := PageCount(len(cards), perPage)

	plan := &Plan{
		Page:         cfg.Page,
		Theme:        th.Name,
		CardsPerPage: perPage,
		Pages:        make([]Page, 0, pageCount),
	}

	index := 0
	for p := 0; p < pageCount; p++ {
		page := Page{Number: p + 1, Slots: make([]Slot, 0, min(perPage, len(cards)-index))}
		for row := 0; row < grid.Rows && index < len(cards); row++ {
			for col := 0; col < grid.Columns && index < len(cards); col++ {
				x := float64(col) * grid.XSpacing
				y := float64(row) * grid.YSpacing

				subtitle := cfg.Subtitle.At(x, y)
				subtitle.Y += th.SubtitleOffset

				page.Slots = append(page.Slots, Slot{
					Index:    index,
					Row:      row,
					Col:      col,
					Card:     cards[index],
					Title:    cfg.Title.At(x, y),
					Subtitle: subtitle,
				})
				index++
			}
		}
		plan.Pages = append(plan.Pages, page)
	}
	return plan, nil
}
