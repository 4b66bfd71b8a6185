package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/adityachugh/Announcements-Web/internal/app/system/paging"
)

func TestNewRange(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		count     int
		wantSkip  int64
		wantLimit int64
	}{
		{"defaults", 0, 0, 0, paging.DefaultPageSize},
		{"explicit", 10, 20, 10, 20},
		{"negative start", -5, 20, 0, 20},
		{"negative count", 0, -1, 0, paging.DefaultPageSize},
		{"clamped count", 0, 5000, 0, paging.MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paging.NewRange(tt.start, tt.count)
			if got.Skip != tt.wantSkip || got.Limit != tt.wantLimit {
				t.Errorf("NewRange(%d, %d) = {%d %d}, want {%d %d}",
					tt.start, tt.count, got.Skip, got.Limit, tt.wantSkip, tt.wantLimit)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	r := httptest.NewRequest("GET", "/feed?start=30&count=15", nil)
	got := paging.ParseRange(r)
	if got.Skip != 30 || got.Limit != 15 {
		t.Errorf("ParseRange = {%d %d}, want {30 15}", got.Skip, got.Limit)
	}

	r = httptest.NewRequest("GET", "/feed?start=abc&count=", nil)
	got = paging.ParseRange(r)
	if got.Skip != 0 || got.Limit != paging.DefaultPageSize {
		t.Errorf("ParseRange(bad input) = {%d %d}, want defaults", got.Skip, got.Limit)
	}
}
