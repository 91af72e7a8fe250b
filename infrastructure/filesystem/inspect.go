package filesystem

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"audio-extractor/domain/extraction"
)

// VideoInfo reports whether a video file is usable as extraction input
type VideoInfo struct {
	Valid           bool     `json:"valid"`
	Path            string   `json:"path"`
	Filename        string   `json:"filename,omitempty"`
	Extension       string   `json:"extension,omitempty"`
	SupportedFormat bool     `json:"supportedFormat"`
	SizeBytes       int64    `json:"sizeBytes"`
	SizeMB          float64  `json:"sizeMB"`
	SizeGB          float64  `json:"sizeGB"`
	Warnings        []string `json:"warnings"`
	Error           string   `json:"error,omitempty"`
}

// InspectVideo checks a video file without running ffmpeg
func InspectVideo(path string) VideoInfo {
	result := VideoInfo{Path: path, Warnings: []string{}}

	info, err := os.Stat(path)
	if err != nil {
		result.Error = statError("file", path, err).Error()
		return result
	}
	if !info.Mode().IsRegular() {
		result.Error = fmt.Sprintf("path is not a file: %s", path)
		return result
	}

	ext := strings.ToLower(filepath.Ext(path))
	sizeMB := float64(info.Size()) / (1024 * 1024)

	result.Valid = true
	result.Filename = filepath.Base(path)
	result.Extension = ext
	result.SupportedFormat = extraction.IsSupportedVideo(path)
	result.SizeBytes = info.Size()
	result.SizeMB = math.Round(sizeMB*100) / 100
	result.SizeGB = math.Round(sizeMB/1024*1000) / 1000

	if !result.SupportedFormat {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"File format %s may not be supported. Supported formats: %s",
			ext, strings.Join(extraction.VideoExtensions, ", ")))
	}
	if sizeGB := sizeMB / 1024; sizeGB > 1 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Large file detected (%.1fGB). Processing may take a while.", sizeGB))
	}

	return result
}
