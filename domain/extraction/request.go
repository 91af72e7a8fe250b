package extraction

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Fixed transcode parameters tuned for speech recognition
const (
	SampleRate = 16000
	Channels   = 1
	Codec      = "pcm_s16le"

	// DefaultTimeout bounds a single extraction when the caller does not set one
	DefaultTimeout = 600 * time.Second

	// LargeInputThresholdMB triggers an advisory, never a failure
	LargeInputThresholdMB = 1000
)

// VideoExtensions are the input extensions known to work. Others only produce an advisory.
var VideoExtensions = []string{".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm", ".m4v"}

// AudioExtensions are the only accepted output extensions
var AudioExtensions = []string{".wav", ".mp3", ".flac", ".m4a", ".ogg"}

// IsSupportedVideo reports whether the path has a known video extension
func IsSupportedVideo(path string) bool {
	return hasExtension(path, VideoExtensions)
}

// IsSupportedAudio reports whether the path has an accepted audio extension
func IsSupportedAudio(path string) bool {
	return hasExtension(path, AudioExtensions)
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Request represents a single audio extraction. It is immutable once built
// and only NewRequest can build one.
type Request struct {
	inputPath  string
	outputPath string
	sampleRate int
	channels   int
	timeout    time.Duration
}

func (r *Request) InputPath() string { return r.inputPath }
func (r *Request) OutputPath() string { return r.outputPath }
func (r *Request) SampleRate() int { return r.sampleRate }
func (r *Request) Channels() int { return r.channels }
func (r *Request) Timeout() time.Duration { return r.timeout }

// NewRequest creates a Request with validation
func NewRequest(inputPath, outputPath string, timeout time.Duration) (*Request, error) {
	if strings.TrimSpace(inputPath) == "" {
		return nil, InvalidInput("input path is required", nil)
	}
	if strings.TrimSpace(outputPath) == "" {
		return nil, InvalidInput("output path is required", nil)
	}
	if !IsSupportedAudio(outputPath) {
		return nil, UnsupportedFormat(fmt.Sprintf(
			"output format %q not supported; supported formats: %s",
			filepath.Ext(outputPath), strings.Join(AudioExtensions, ", ")))
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Request{
		inputPath:  inputPath,
		outputPath: outputPath,
		sampleRate: SampleRate,
		channels:   Channels,
		timeout:    timeout,
	}, nil
}

// TimeoutFromSeconds converts a caller-facing seconds value into a duration
func TimeoutFromSeconds(seconds int) time.Duration {
	if seconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(seconds) * time.Second
}
