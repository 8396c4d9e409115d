package domain

import "testing"

func TestNewPageRequest(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        PageRequest
	}{
		{"defaults", 0, 0, PageRequest{Page: 1, Limit: 10}},
		{"negative", -3, -1, PageRequest{Page: 1, Limit: 10}},
		{"explicit", 3, 25, PageRequest{Page: 3, Limit: 25}},
		{"capped", 1, 500, PageRequest{Page: 1, Limit: MaxLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPageRequest(tt.page, tt.limit); got != tt.want {
				t.Errorf("NewPageRequest(%d, %d) = %+v, want %+v", tt.page, tt.limit, got, tt.want)
			}
		})
	}
}

func TestPageRequestMath(t *testing.T) {
	tests := []struct {
		page, limit, total int
		wantOffset         int
		wantPages          int
	}{
		{1, 10, 0, 0, 0},
		{1, 10, 10, 0, 1},
		{3, 10, 25, 20, 3},
		{2, 7, 15, 7, 3},
	}

	for _, tt := range tests {
		p := NewPageRequest(tt.page, tt.limit)
		if got := p.Offset(); got != tt.wantOffset {
			t.Errorf("%+v Offset = %d, want %d", p, got, tt.wantOffset)
		}
		if got := p.TotalPages(tt.total); got != tt.wantPages {
			t.Errorf("%+v TotalPages(%d) = %d, want %d", p, tt.total, got, tt.wantPages)
		}
	}
}
