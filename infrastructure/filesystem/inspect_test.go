package filesystem

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestInspectVideo(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "Lecture.MP4")
	writeFile(t, video, 5*1024*1024)
	odd := filepath.Join(dir, "capture.ts")
	writeFile(t, odd, 1024)

	got := InspectVideo(video)
	if !got.Valid || !got.SupportedFormat {
		t.Fatalf("InspectVideo(%q) = %+v, want valid supported", video, got)
	}
	if got.Extension != ".mp4" || got.Filename != "Lecture.MP4" {
		t.Errorf("InspectVideo() extension/filename = %q/%q", got.Extension, got.Filename)
	}
	if got.SizeMB != 5 {
		t.Errorf("InspectVideo() SizeMB = %v, want 5", got.SizeMB)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("InspectVideo() warnings = %v, want none", got.Warnings)
	}

	oddInfo := InspectVideo(odd)
	if !oddInfo.Valid || oddInfo.SupportedFormat {
		t.Errorf("InspectVideo(%q) = %+v, want valid but unsupported", odd, oddInfo)
	}
	if len(oddInfo.Warnings) != 1 || !strings.Contains(oddInfo.Warnings[0], ".ts may not be supported") {
		t.Errorf("InspectVideo() warnings = %v", oddInfo.Warnings)
	}

	missing := InspectVideo(filepath.Join(dir, "none.mp4"))
	if missing.Valid || !strings.Contains(missing.Error, "not found") {
		t.Errorf("InspectVideo(missing) = %+v, want not found error", missing)
	}

	notFile := InspectVideo(dir)
	if notFile.Valid || !strings.Contains(notFile.Error, "not a file") {
		t.Errorf("InspectVideo(dir) = %+v, want not a file error", notFile)
	}
}

func TestChecker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wav")
	writeFile(t, path, 10)

	c := NewChecker()
	if !c.Exists(path) || c.Exists(filepath.Join(dir, "b.wav")) {
		t.Error("Exists() returned unexpected result")
	}
	if c.Size(path) != 10 || c.Size(filepath.Join(dir, "b.wav")) != 0 {
		t.Error("Size() returned unexpected result")
	}
}
