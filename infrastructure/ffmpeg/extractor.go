package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kballard/go-shellquote"

	"audio-extractor/domain/extraction"
	"audio-extractor/infrastructure/logging"
)

// Extractor implements extraction.AudioExtractor using the host's ffmpeg
type Extractor struct {
	ffmpegPath string
	runner     CommandRunner
	logger     *slog.Logger
}

// ExtractorOption is a functional option for configuring Extractor
type ExtractorOption func(*Extractor)

// WithExtractorFFmpegPath sets a custom ffmpeg executable path
func WithExtractorFFmpegPath(path string) ExtractorOption {
	return func(e *Extractor) {
		if path != "" {
			e.ffmpegPath = path
		}
	}
}

// WithExtractorCommandRunner sets a custom command runner (for testing)
func WithExtractorCommandRunner(runner CommandRunner) ExtractorOption {
	return func(e *Extractor) {
		e.runner = runner
	}
}

// WithExtractorLogger sets the logger
func WithExtractorLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates a new FFmpeg-based audio extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
		logger:     logging.Logger,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Args returns the ffmpeg arguments for a request
func (e *Extractor) Args(req *extraction.Request, paths extraction.ValidatedPaths) []string {
	return transcodeArgs(req, paths.InputPath, paths.OutputPath)
}

// Extract implements extraction.AudioExtractor
func (e *Extractor) Extract(ctx context.Context, req *extraction.Request, paths extraction.ValidatedPaths) error {
	args := e.Args(req, paths)
	e.logger.Debug("running command", "command", shellquote.Join(append([]string{e.ffmpegPath}, args...)...))

	err := e.runner.Run(ctx, e.ffmpegPath, args...)
	if err != nil && isNotFound(err) && ctx.Err() == nil {
		return extraction.ExecutionFailed(
			fmt.Sprintf("FFmpeg not found at %q. Please install FFmpeg or use container mode", e.ffmpegPath), err)
	}
	return classify(ctx, err, "FFmpeg")
}

// VerifyInstalled checks that ffmpeg is available
func (e *Extractor) VerifyInstalled(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := e.runner.Output(ctx, e.ffmpegPath, "-version"); err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	e.logger.Info("local FFmpeg verified", "path", e.ffmpegPath)
	return nil
}

// Ensure Extractor implements extraction.AudioExtractor
var _ extraction.AudioExtractor = (*Extractor)(nil)
