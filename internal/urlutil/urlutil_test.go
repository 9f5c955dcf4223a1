package urlutil_test

import (
	"testing"

	"github.com/jonesrussell/esglens/internal/urlutil"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "lowercases scheme and host",
			input: "HTTPS://Example.COM/Sustainability",
			want:  "https://example.com/Sustainability",
		},
		{
			name:  "strips fragment",
			input: "https://example.com/esg#targets",
			want:  "https://example.com/esg",
		},
		{
			name:  "removes trailing slash",
			input: "https://example.com/esg/",
			want:  "https://example.com/esg",
		},
		{
			name:  "resolves dot segments",
			input: "https://example.com/a/../esg",
			want:  "https://example.com/esg",
		},
		{
			name:  "preserves root path",
			input: "https://example.com/",
			want:  "https://example.com/",
		},
		{
			name:    "rejects empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "rejects relative",
			input:   "/esg/report",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := urlutil.NormalizeURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestURLHashEquivalentURLs(t *testing.T) {
	t.Parallel()

	a := urlutil.URLHash("https://Example.com/esg/")
	b := urlutil.URLHash("https://example.com/esg#x")
	if a != b {
		t.Fatal("expected equivalent URLs to hash identically")
	}
}

func TestSameSite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		base   string
		target string
		want   bool
	}{
		{"same host", "https://example.com", "https://example.com/esg", true},
		{"subdomain", "https://example.com", "https://about.example.com/team", true},
		{"www prefix", "https://www.example.com", "https://example.com", true},
		{"different site", "https://example.com", "https://other.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := urlutil.SameSite(tt.base, tt.target); got != tt.want {
				t.Fatalf("SameSite(%q, %q) = %v, want %v", tt.base, tt.target, got, tt.want)
			}
		})
	}
}

func TestIsPDF(t *testing.T) {
	t.Parallel()

	if !urlutil.IsPDF("https://example.com/reports/esg-2025.PDF") {
		t.Fatal("expected .PDF path to be a PDF")
	}
	if urlutil.IsPDF("https://example.com/esg?format=pdf") {
		t.Fatal("query parameter should not make a URL a PDF")
	}
	if urlutil.IsPDF("https://example.com/esg.html") {
		t.Fatal("html page is not a PDF")
	}
}
