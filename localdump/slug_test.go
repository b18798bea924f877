package localdump

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain title", "Meeting Notes", "Meeting Notes"},
		{"ampersand stripped, spaces kept", "Docs & Stuff", "Docs  Stuff"},
		{"case preserved", "Q3 Planning (Draft)", "Q3 Planning (Draft)"},
		{"slashes become dashes", "a/b/c", "a-b-c"},
		{"tabs and newlines collapse", "one\ttwo\nthree", "one two three"},
		{"emoji stripped", "🚀 Launch plan", "Launch plan"},
		{"trailing dots trimmed", "notes...", "notes"},
		{"empty input", "", "untitled"},
		{"only unsafe chars", "🚀🚀🚀", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugifyTruncates(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := Slugify(long)
	if len(got) != 150 {
		t.Errorf("Slugify of 200-char title has len %d, want 150", len(got))
	}
}

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple path", "https://quip.com/blob/abc/chart.png", "chart.png"},
		{"query stripped", "https://cdn.example.com/img.jpg?size=large", "img.jpg"},
		{"fragment stripped", "https://cdn.example.com/img.jpg#top", "img.jpg"},
		{"no path", "https://example.com", "image"},
		{"bare slash", "https://example.com/", "image"},
		{"empty", "", "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilenameFromURL(tt.in); got != tt.want {
				t.Errorf("FilenameFromURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
