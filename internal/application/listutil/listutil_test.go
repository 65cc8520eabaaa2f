package listutil

import (
	"net/url"
	"testing"
)

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name        string
		query       url.Values
		wantPage    int
		wantPerPage int
	}{
		{"defaults", url.Values{}, 1, DefaultPerPage},
		{"valid", url.Values{"page": {"3"}, "per_page": {"20"}}, 3, 20},
		{"per_page not offered", url.Values{"per_page": {"25"}}, 1, DefaultPerPage},
		{"negative page", url.Values{"page": {"-1"}}, 1, DefaultPerPage},
		{"garbage", url.Values{"page": {"x"}, "per_page": {"y"}}, 1, DefaultPerPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePageParams(tt.query)
			if p.Page != tt.wantPage || p.PerPage != tt.wantPerPage {
				t.Errorf("got %+v, want page=%d per_page=%d", p, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                   string
		page, perPage, total   int
		wantPage, wantTotalPgs int
	}{
		{"empty", 1, 10, 0, 1, 1},
		{"exact", 2, 10, 20, 2, 2},
		{"partial last page", 3, 10, 21, 3, 3},
		{"clamped past end", 9, 10, 21, 3, 3},
		{"zero per page", 1, 0, 5, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.page, tt.perPage, tt.total)
			if info.Page != tt.wantPage || info.TotalPages != tt.wantTotalPgs {
				t.Errorf("got %+v, want page=%d total_pages=%d", info, tt.wantPage, tt.wantTotalPgs)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	page := Paginate(items, PageParams{Page: 2, PerPage: 10})
	if len(page.Items) != 2 || page.Items[0] != 11 || page.Items[1] != 12 {
		t.Errorf("page 2 items = %v", page.Items)
	}
	if page.Total != 12 || page.TotalPages != 2 {
		t.Errorf("page info = %+v", page.PageInfo)
	}

	empty := Paginate([]string(nil), PageParams{Page: 1, PerPage: 10})
	if empty.Items == nil || len(empty.Items) != 0 {
		t.Errorf("expected empty non-nil items, got %#v", empty.Items)
	}
}
