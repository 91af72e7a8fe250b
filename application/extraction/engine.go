package extraction

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"audio-extractor/domain/extraction"
	"audio-extractor/infrastructure/container"
	"audio-extractor/infrastructure/ffmpeg"
	"audio-extractor/infrastructure/filesystem"
	"audio-extractor/infrastructure/logging"
)

// FileChecker answers existence and size questions about files
type FileChecker interface {
	Exists(path string) bool
	Size(path string) int64
}

// installVerifier is implemented by extractors that can check their ffmpeg
type installVerifier interface {
	VerifyInstalled(ctx context.Context) error
}

// Engine runs audio extractions with a strategy fixed at construction.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	mode      extraction.ExecutionMode
	requested extraction.Runtime
	extractor extraction.AudioExtractor
	validator extraction.PathValidator
	verifier  extraction.OutputVerifier
	files     FileChecker
	logger    *slog.Logger
}

// EngineOption is a functional option for configuring Engine
type EngineOption func(*Engine)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithFileChecker sets the file checker used for stale and produced output
func WithFileChecker(files FileChecker) EngineOption {
	return func(e *Engine) {
		e.files = files
	}
}

// WithRequestedRuntime records the runtime selector the caller asked for
func WithRequestedRuntime(rt extraction.Runtime) EngineOption {
	return func(e *Engine) {
		e.requested = rt
	}
}

// NewEngine creates an Engine from its collaborators
func NewEngine(mode extraction.ExecutionMode, extractor extraction.AudioExtractor, validator extraction.PathValidator, verifier extraction.OutputVerifier, opts ...EngineOption) *Engine {
	e := &Engine{
		mode:      mode,
		requested: extraction.RuntimeAuto,
		extractor: extractor,
		validator: validator,
		verifier:  verifier,
		files:     filesystem.NewChecker(),
		logger:    logging.Logger,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Options configures New
type Options struct {
	UseContainer     bool
	ContainerRuntime string
	ContainerImage   string
	FFmpegPath       string

	// Optional overrides, mainly for tests
	Runner   ffmpeg.CommandRunner
	LookPath func(string) (string, error)
	Logger   *slog.Logger
}

// New builds an Engine wired to the real filesystem and process runner.
// Construction never fails; an unusable runtime surfaces on Extract.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Logger
	}
	runner := opts.Runner
	if runner == nil {
		runner = &ffmpeg.ExecCommandRunner{}
	}

	validator := filesystem.NewValidator(filesystem.WithValidatorLogger(logger))
	verifier := filesystem.NewVerifier()
	requested := extraction.ParseRuntime(opts.ContainerRuntime)
	engineOpts := []EngineOption{WithLogger(logger), WithRequestedRuntime(requested)}

	if !opts.UseContainer {
		extractor := ffmpeg.NewExtractor(
			ffmpeg.WithExtractorFFmpegPath(opts.FFmpegPath),
			ffmpeg.WithExtractorCommandRunner(runner),
			ffmpeg.WithExtractorLogger(logger),
		)
		return NewEngine(extraction.LocalMode(), extractor, validator, verifier, engineOpts...)
	}

	detectorOpts := []container.DetectorOption{container.WithDetectorLogger(logger)}
	if opts.LookPath != nil {
		detectorOpts = append(detectorOpts, container.WithLookPath(opts.LookPath))
	}
	rt, _ := container.NewDetector(detectorOpts...).Resolve(requested)

	mode := extraction.ContainerMode(rt, opts.ContainerImage)
	extractor := ffmpeg.NewContainerExtractor(rt, mode.Image(),
		ffmpeg.WithContainerCommandRunner(runner),
		ffmpeg.WithContainerLogger(logger),
	)
	return NewEngine(mode, extractor, validator, verifier, engineOpts...)
}

// Mode returns the execution mode fixed at construction
func (e *Engine) Mode() extraction.ExecutionMode {
	return e.mode
}

// Settings returns the transcode settings reported on every outcome
func (e *Engine) Settings() extraction.Settings {
	rt := string(e.requested)
	if e.mode.IsContainerized() {
		rt = string(e.mode.Runtime())
	}
	return extraction.Settings{
		SampleRate:       extraction.SampleRate,
		Channels:         extraction.Channels,
		Codec:            extraction.Codec,
		UseContainer:     e.mode.IsContainerized(),
		ContainerRuntime: rt,
	}
}

// ExtractInput represents the input for an extraction
type ExtractInput struct {
	InputPath  string
	OutputPath string
	Timeout    time.Duration // Optional, uses extraction.DefaultTimeout if zero
}

// Extract runs one extraction. Every failure is reported on the outcome.
func (e *Engine) Extract(ctx context.Context, input ExtractInput) extraction.Outcome {
	start := time.Now()
	outcome := extraction.Outcome{
		RequestID:  uuid.NewString(),
		InputPath:  input.InputPath,
		OutputPath: input.OutputPath,
		Settings:   e.Settings(),
	}
	logger := e.logger.With("request_id", outcome.RequestID)

	err := e.run(ctx, logger, input, &outcome)
	outcome.Duration = time.Since(start)

	if err != nil {
		outcome.Fail(err)
		logger.Error("audio extraction failed",
			"error_kind", outcome.ErrorKind,
			"error", strings.TrimSpace(outcome.ErrorMessage),
			"duration", outcome.Duration,
		)
		return outcome
	}

	outcome.Success = true
	logger.Info("audio extraction complete",
		"output", outcome.OutputPath,
		"output_size_mb", outcome.OutputSizeMB,
		"duration", outcome.Duration,
	)
	return outcome
}

func (e *Engine) run(ctx context.Context, logger *slog.Logger, input ExtractInput, outcome *extraction.Outcome) error {
	paths, err := e.validator.Validate(input.InputPath, input.OutputPath)
	if err != nil {
		return err
	}
	outcome.InputPath = paths.InputPath
	outcome.OutputPath = paths.OutputPath
	outcome.InputSizeMB = paths.InputSizeMB()

	req, err := extraction.NewRequest(paths.InputPath, paths.OutputPath, input.Timeout)
	if err != nil {
		return err
	}

	// A leftover file must never be mistaken for this run's result
	if e.files.Exists(paths.OutputPath) {
		logger.Debug("removing existing output", "path", paths.OutputPath)
		if err := removeOutput(paths.OutputPath); err != nil {
			return err
		}
	}

	logger.Info("extracting audio",
		"input", paths.InputPath,
		"output", paths.OutputPath,
		"mode", e.mode.String(),
		"timeout", req.Timeout(),
	)

	runCtx, cancel := context.WithTimeout(ctx, req.Timeout())
	defer cancel()

	if err := e.extractor.Extract(runCtx, req, paths); err != nil {
		e.discardPartial(logger, paths.OutputPath)
		if extraction.IsKind(err, extraction.KindTimeout) {
			return extraction.Timeout(fmt.Sprintf("audio extraction timed out after %s seconds", formatSeconds(req.Timeout())), nil)
		}
		return err
	}

	if err := e.verifier.Verify(paths.OutputPath); err != nil {
		e.discardPartial(logger, paths.OutputPath)
		return err
	}

	outcome.OutputSizeMB = extraction.BytesToMB(e.files.Size(paths.OutputPath))
	return nil
}

// VerifyInstalled checks that the configured ffmpeg can be started
func (e *Engine) VerifyInstalled(ctx context.Context) error {
	v, ok := e.extractor.(installVerifier)
	if !ok {
		return nil
	}
	return v.VerifyInstalled(ctx)
}

func (e *Engine) discardPartial(logger *slog.Logger, path string) {
	if err := removeOutput(path); err != nil {
		logger.Warn("failed to remove partial output", "path", path, "error", err)
	}
}

func removeOutput(path string) error {
	err := os.Remove(path)
	switch {
	case err == nil, errors.Is(err, fs.ErrNotExist):
		return nil
	case errors.Is(err, fs.ErrPermission):
		return extraction.PermissionDenied(fmt.Sprintf("cannot replace existing output %s", path), err)
	default:
		return extraction.ExecutionFailed(fmt.Sprintf("cannot replace existing output %s", path), err)
	}
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// Extract runs a single extraction with a freshly built engine.
// containerRuntime is "podman", "docker" or "auto"; timeoutSeconds <= 0 means the default.
func Extract(ctx context.Context, inputPath, outputPath string, useContainer bool, containerRuntime string, timeoutSeconds int) extraction.Outcome {
	engine := New(Options{
		UseContainer:     useContainer,
		ContainerRuntime: containerRuntime,
	})
	return engine.Extract(ctx, ExtractInput{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Timeout:    extraction.TimeoutFromSeconds(timeoutSeconds),
	})
}
