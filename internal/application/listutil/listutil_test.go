package listutil

import (
	"net/url"
	"testing"
)

// TestParsePageParams covers defaults, valid values and fallbacks.
func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name    string
		q       url.Values
		page    int
		perPage int
	}{
		{"defaults", url.Values{}, 1, DefaultPerPage},
		{"valid", url.Values{"page": {"3"}, "per_page": {"50"}}, 3, 50},
		{"per_page not offered", url.Values{"per_page": {"25"}}, 1, DefaultPerPage},
		{"negative page", url.Values{"page": {"-1"}}, 1, DefaultPerPage},
		{"garbage", url.Values{"page": {"x"}, "per_page": {"y"}}, 1, DefaultPerPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePageParams(tt.q)
			if p.Page != tt.page || p.PerPage != tt.perPage {
				t.Errorf("ParsePageParams = %+v, want page %d per_page %d", p, tt.page, tt.perPage)
			}
		})
	}
}

// TestPageParams_Offset verifies the row offset of a requested page.
func TestPageParams_Offset(t *testing.T) {
	if got := (PageParams{Page: 3, PerPage: 20}).Offset(); got != 40 {
		t.Errorf("Offset = %d, want 40", got)
	}
}

// TestParseFilterParams keeps only recognised non-empty keys.
func TestParseFilterParams(t *testing.T) {
	q := url.Values{"status": {"active"}, "role": {"admin"}, "trainer": {""}}
	fp := ParseFilterParams(q, []string{"status", "trainer"})
	if len(fp.Filters) != 1 || fp.Filters["status"] != "active" {
		t.Errorf("Filters = %v, want only status=active", fp.Filters)
	}
}

// TestNewPageInfo verifies total pages and clamping.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                string
		page, perPage, tot  int
		wantPage, wantPages int
		wantNext            bool
	}{
		{"first of three", 1, 20, 45, 1, 3, true},
		{"last page", 3, 20, 45, 3, 3, false},
		{"beyond last clamps", 9, 20, 45, 3, 3, false},
		{"empty", 1, 20, 0, 1, 1, false},
		{"zero per page uses default", 1, 0, 45, 1, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.page, tt.perPage, tt.tot)
			if info.Page != tt.wantPage || info.TotalPages != tt.wantPages || info.HasNext() != tt.wantNext {
				t.Errorf("NewPageInfo = %+v (next %v), want page %d of %d (next %v)", info, info.HasNext(), tt.wantPage, tt.wantPages, tt.wantNext)
			}
		})
	}
	if got := NewPageInfo(2, 20, 45).Offset(); got != 20 {
		t.Errorf("Offset = %d, want 20", got)
	}
}
