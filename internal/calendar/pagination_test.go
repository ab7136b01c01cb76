package calendar

import "testing"

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	first := Paginate(items, 1, 10)
	if len(first.Items) != 10 || first.Items[0] != 0 {
		t.Fatalf("unexpected first page: %+v", first)
	}
	if first.HasPrev || !first.HasNext || first.Total != 25 {
		t.Fatalf("unexpected first page metadata: %+v", first)
	}

	last := Paginate(items, 3, 10)
	if len(last.Items) != 5 || last.Items[0] != 20 {
		t.Fatalf("unexpected last page: %+v", last)
	}
	if !last.HasPrev || last.HasNext {
		t.Fatalf("unexpected last page metadata: %+v", last)
	}

	beyond := Paginate(items, 10, 10)
	if len(beyond.Items) != 0 || beyond.HasNext {
		t.Fatalf("page beyond the end must be empty: %+v", beyond)
	}
}

func TestPaginate_Defaults(t *testing.T) {
	items := []int{1, 2, 3}

	got := Paginate(items, 0, 0)
	if got.Page != 1 || got.PageSize != 10 {
		t.Fatalf("expected defaults page=1 pageSize=10, got %+v", got)
	}
	if len(got.Items) != 3 {
		t.Fatalf("expected all items on defaulted page, got %d", len(got.Items))
	}
}
