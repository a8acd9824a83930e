package model

import (
	"testing"
	"time"
)

func TestFetchTask_GetETAString(t *testing.T) {
	tests := []struct {
		etaSec   int
		expected string
	}{
		{-1, "—"},
		{0, "—"},
		{30, "00:30"},
		{90, "01:30"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{7323, "02:02:03"},
	}

	for _, test := range tests {
		task := &FetchTask{ETASec: test.etaSec}
		result := task.GetETAString()
		if result != test.expected {
			t.Errorf("GetETAString() with ETASec=%d = %s, expected %s", test.etaSec, result, test.expected)
		}
	}
}

func TestFetchTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		title      string
		outputPath string
		url        string
		expected   string
	}{
		{"Video Title", "", "https://youtube.com/watch?v=123", "Video Title"},
		{"", "", "https://youtube.com/watch?v=123", "https://youtube.com/watch?v=123"},
		{"", "/tmp/out/Talk.mp4", "https://youtube.com/watch?v=456", "Talk"},
		{"https://youtube.com/watch?v=789", `C:\out\Clip.webm`, "https://youtube.com/watch?v=789", "Clip"},
	}

	for _, test := range tests {
		task := &FetchTask{
			Title:      test.title,
			OutputPath: test.outputPath,
			URL:        test.url,
		}
		result := task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with title='%s', path='%s' = '%s', expected '%s'",
				test.title, test.outputPath, result, test.expected)
		}
	}
}

func TestFetchTask_Elapsed(t *testing.T) {
	task := &FetchTask{}
	if task.Elapsed() != 0 {
		t.Errorf("Expected zero elapsed for unstarted task, got %v", task.Elapsed())
	}

	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	task.StartedAt = start
	task.FinishedAt = start.Add(90 * time.Second)
	if task.Elapsed() != 90*time.Second {
		t.Errorf("Expected 90s elapsed, got %v", task.Elapsed())
	}
}
