package ffmpeg

import (
	"strconv"

	"audio-extractor/domain/extraction"
)

// transcodeArgs returns the fixed ffmpeg arguments shared by both strategies
func transcodeArgs(req *extraction.Request, input, output string) []string {
	return []string{
		"-i", input,
		"-vn",                        // No video
		"-acodec", extraction.Codec, // 16-bit PCM little-endian
		"-ac", strconv.Itoa(req.Channels()),
		"-ar", strconv.Itoa(req.SampleRate()),
		"-loglevel", "info", // Show progress
		"-y", // Overwrite output file if it exists
		output,
	}
}
