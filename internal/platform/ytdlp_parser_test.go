package platform

import (
	"testing"
	"time"
)

func TestNewYTDLPParserService(t *testing.T) {
	service := NewYTDLPParserService()

	if service.timeout != DefaultParseTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultParseTimeout, service.timeout)
	}

	service.SetTimeout(5 * time.Second)
	if service.timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", service.timeout)
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"playlist page", "https://www.youtube.com/playlist?list=PLxyz", "PLxyz"},
		{"watch with list", "https://www.youtube.com/watch?v=abc&list=PL123&start_radio=1", "PL123"},
		{"single video", "https://www.youtube.com/watch?v=abc", ""},
		{"short link", "https://youtu.be/abc", ""},
		{"not a url", "://bad", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPlaylistID(tt.url); got != tt.expected {
				t.Errorf("ExtractPlaylistID(%q) = %q, expected %q", tt.url, got, tt.expected)
			}
			if got := IsPlaylistURL(tt.url); got != (tt.expected != "") {
				t.Errorf("IsPlaylistURL(%q) = %v", tt.url, got)
			}
		})
	}
}

func TestParseInfoOutput(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected int
	}{
		{"empty output", "", 0},
		{"single video", `{"id":"abc","title":"Intro"}`, 1},
		{
			name: "progress and warnings interleaved",
			output: `[download] 10.0% of 5MiB
WARNING: something odd
{"id":"abc","title":"Intro"}
{"id":"def","title":"Second"}`,
			expected: 2,
		},
		{"invalid json line", `{"id":"abc",`, 0},
		{"object without id or title", `{"duration":12}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseInfoOutput(tt.output)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result) != tt.expected {
				t.Errorf("expected %d videos, got %d", tt.expected, len(result))
			}
		})
	}
}

func TestParseInfoOutput_Fields(t *testing.T) {
	output := `{"id":"abc","title":"Intro","description":"About","duration":120.5,` +
		`"webpage_url":"https://www.youtube.com/watch?v=abc","_filename":"out/Intro.webm",` +
		`"requested_downloads":[{"filepath":"out/Intro.mp4"}],` +
		`"chapters":[{"start_time":0,"end_time":90.7,"title":"Start"},{"start_time":90.7,"end_time":120.5,"title":"Middle"}]}`

	result, err := ParseInfoOutput(output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 video, got %d", len(result))
	}

	meta := result[0]
	if meta.Title != "Intro" || meta.Description != "About" || meta.ID != "abc" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Filename != "out/Intro.mp4" {
		t.Errorf("expected requested download path, got %q", meta.Filename)
	}
	if len(meta.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(meta.Chapters))
	}
	if meta.Chapters[1].Title != "Middle" || meta.Chapters[1].StartTime != 90.7 {
		t.Errorf("unexpected second chapter: %+v", meta.Chapters[1])
	}
}

func TestParseInfoOutput_NullChapters(t *testing.T) {
	result, err := ParseInfoOutput(`{"id":"abc","title":null,"chapters":null,"_filename":"x.mp4"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 video, got %d", len(result))
	}
	if result[0].HasChapters() {
		t.Error("expected no chapters")
	}
	if result[0].DisplayTitle() != "Untitled" {
		t.Errorf("expected default title, got %q", result[0].DisplayTitle())
	}
	if result[0].Filename != "x.mp4" {
		t.Errorf("expected legacy filename fallback, got %q", result[0].Filename)
	}
}
