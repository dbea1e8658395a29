package layout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ByLCY/ticketcards/records"
	"github.com/ByLCY/ticketcards/theme"
)

func cardsFor(n int) []records.Record {
	recs := make([]records.Record, n)
	for i := range recs {
		recs[i] = records.Record{Name: fmt.Sprintf("Guest %d", i+1), TicketCount: fmt.Sprint(i%4 + 1)}
	}
	return records.Flatten(records.Duplicate(recs, records.GroupSize))
}

func TestPageCount(t *testing.T) {
	cases := []struct{ n, per, want int }{
		{0, 21, 0}, {1, 21, 1}, {21, 21, 1}, {22, 21, 2}, {84, 18, 5}, {5, 0, 0},
	}
	for _, c := range cases {
		if got := PageCount(c.n, c.per); got != c.want {
			t.Fatalf("PageCount(%d, %d) = %d, want %d", c.n, c.per, got, c.want)
		}
	}
}

// 40 条记录、每页 18 张：84 张卡片，5 页，最后一页 12 张。
func TestPaginateFortyRecords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.Rows = 6
	cards := cardsFor(40)
	if len(cards) != 84 {
		t.Fatalf("expected 84 cards, got %d", len(cards))
	}
	plan, err := Paginate(cards, cfg, theme.Theme{Name: "red"})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if plan.CardsPerPage != 18 || len(plan.Pages) != 5 {
		t.Fatalf("got %d pages of %d, want 5 of 18", len(plan.Pages), plan.CardsPerPage)
	}
	if got := len(plan.Pages[4].Slots); got != 12 {
		t.Fatalf("last page holds %d cards, want 12", got)
	}
	if plan.CardCount() != len(cards) {
		t.Fatalf("plan covers %d cards, want %d", plan.CardCount(), len(cards))
	}
}

// 每张卡片恰好落在一个格子上，按页、按行优先连续分配。
func TestPaginateRowMajorCoverage(t *testing.T) {
	cfg := DefaultConfig()
	cards := cardsFor(17) // 36 cards -> 21 + 15
	plan, err := Paginate(cards, cfg, theme.Theme{})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	next := 0
	for p, page := range plan.Pages {
		if page.Number != p+1 {
			t.Fatalf("page %d numbered %d", p, page.Number)
		}
		for i, slot := range page.Slots {
			if slot.Index != next {
				t.Fatalf("page %d slot %d has index %d, want %d", p, i, slot.Index, next)
			}
			if slot.Row != i/cfg.Grid.Columns || slot.Col != i%cfg.Grid.Columns {
				t.Fatalf("slot %d at (%d,%d), want row-major position", slot.Index, slot.Row, slot.Col)
			}
			if slot.Card != cards[next] {
				t.Fatalf("slot %d carries %+v, want %+v", slot.Index, slot.Card, cards[next])
			}
			next++
		}
		if p < len(plan.Pages)-1 && len(page.Slots) != cfg.Grid.CardsPerPage() {
			t.Fatalf("non-final page %d has a gap: %d slots", p, len(page.Slots))
		}
	}
	if next != len(cards) {
		t.Fatalf("assigned %d cards, want %d", next, len(cards))
	}
}

func TestPaginateGeometry(t *testing.T) {
	cfg := DefaultConfig()
	plan, err := Paginate(cardsFor(2), cfg, theme.Theme{Name: "yellow", SubtitleOffset: 4})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(plan.Pages) != 1 || len(plan.Pages[0].Slots) != 6 {
		t.Fatalf("expected 1 page with 6 cards, got %+v", plan.Pages)
	}
	first := plan.Pages[0].Slots[0]
	if first.Row != 0 || first.Col != 0 {
		t.Fatalf("first card at (%d,%d)", first.Row, first.Col)
	}
	if first.Title != (Rect{X: 10, Y: 20, Width: 160, Height: 35}) {
		t.Fatalf("unexpected title rect %+v", first.Title)
	}
	if first.Subtitle != (Rect{X: 20, Y: 75, Width: 140, Height: 31}) {
		t.Fatalf("unexpected subtitle rect %+v", first.Subtitle)
	}
	fifth := plan.Pages[0].Slots[4] // row 1, col 1
	if fifth.Title.X != 181+10 || fifth.Title.Y != 108+20 {
		t.Fatalf("unexpected title origin for (1,1): %+v", fifth.Title)
	}
}

func TestPaginateInvalidGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.Columns = 0
	if _, err := Paginate(cardsFor(1), cfg, theme.Theme{}); !errors.Is(err, ErrInvalidGrid) {
		t.Fatalf("expected ErrInvalidGrid, got %v", err)
	}
}

func TestPaginateNoCards(t *testing.T) {
	plan, err := Paginate(nil, DefaultConfig(), theme.Theme{})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(plan.Pages) != 0 {
		t.Fatalf("expected no pages, got %d", len(plan.Pages))
	}
}
