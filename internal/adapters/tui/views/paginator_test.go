package views

import "testing"

func TestPaginatorPages(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(34)

	if got := p.TotalPages(); got != 4 {
		t.Fatalf("TotalPages() = %d, want 4", got)
	}
	if !p.NextPage() || p.Cursor() != 10 || p.CurrentPage() != 2 {
		t.Fatalf("after NextPage cursor=%d page=%d", p.Cursor(), p.CurrentPage())
	}
	p.NextPage()
	p.NextPage()
	if p.NextPage() {
		t.Error("NextPage() past the last page")
	}
	start, end := p.VisibleRange()
	if start != 30 || end != 34 {
		t.Errorf("VisibleRange() = %d, %d, want 30, 34", start, end)
	}
	if !p.PrevPage() || p.Cursor() != 20 {
		t.Errorf("PrevPage() cursor = %d, want 20", p.Cursor())
	}
}

func TestPaginatorCursorFollowsPage(t *testing.T) {
	p := NewPaginator(3)
	p.SetTotal(5)

	for range 4 {
		p.CursorDown()
	}
	if p.Cursor() != 4 || p.CurrentPage() != 2 {
		t.Errorf("cursor=%d page=%d, want 4 and 2", p.Cursor(), p.CurrentPage())
	}
	if p.CursorDown() {
		t.Error("CursorDown() past the last item")
	}

	p.SetPageSize(5)
	if p.CurrentPage() != 1 {
		t.Errorf("CurrentPage() after SetPageSize = %d, want 1", p.CurrentPage())
	}

	p.SetTotal(2)
	if p.Cursor() != 1 {
		t.Errorf("Cursor() after shrinking = %d, want 1", p.Cursor())
	}
	if p.Total() != 2 {
		t.Errorf("Total() = %d, want 2", p.Total())
	}
}

func TestPaginatorEmpty(t *testing.T) {
	p := NewPaginator(0)
	if p.TotalPages() != 1 || p.CursorUp() || p.CursorDown() {
		t.Error("empty paginator should have one page and a fixed cursor")
	}
}
