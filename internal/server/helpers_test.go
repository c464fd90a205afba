package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPathParam(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		prefix string
		suffix string
		want   string
	}{
		{"id with suffix", "/api/predictions/abc-123/chart", "/api/predictions/", "/chart", "abc-123"},
		{"id without suffix", "/api/predictions/abc-123", "/api/predictions/", "", "abc-123"},
		{"missing prefix", "/api/other/abc", "/api/predictions/", "", ""},
		{"suffix absent", "/api/predictions/abc-123", "/api/predictions/", "/chart", "abc-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if got := PathParam(r, tt.prefix, tt.suffix); got != tt.want {
				t.Errorf("PathParam = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireMethod(t *testing.T) {
	r := httptest.NewRequest(http.MethodDelete, "/api/predict", nil)
	rec := httptest.NewRecorder()

	if RequireMethod(rec, r, http.MethodPost) {
		t.Error("RequireMethod accepted DELETE for a POST-only route")
	}
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if rec.Header().Get("Allow") != "POST" {
		t.Errorf("Allow = %q, want POST", rec.Header().Get("Allow"))
	}
}

func TestIPRateLimiter(t *testing.T) {
	l := newIPRateLimiter(10, 2)

	// Burst of 2, then the bucket is empty.
	if !l.Allow("198.51.100.7:1111") || !l.Allow("198.51.100.7:2222") {
		t.Fatal("burst requests were rejected")
	}
	if l.Allow("198.51.100.7:3333") {
		t.Error("request beyond burst was allowed")
	}

	// A different address has its own bucket.
	if !l.Allow("203.0.113.9:1111") {
		t.Error("fresh address was rejected")
	}
}
