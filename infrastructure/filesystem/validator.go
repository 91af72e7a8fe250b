package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"audio-extractor/domain/extraction"
	"audio-extractor/infrastructure/logging"
)

// Validator implements extraction.PathValidator against the local filesystem
type Validator struct {
	logger           *slog.Logger
	largeThresholdMB float64
}

// ValidatorOption is a functional option for configuring Validator
type ValidatorOption func(*Validator)

// WithValidatorLogger sets the logger used for advisories
func WithValidatorLogger(logger *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithLargeInputThresholdMB overrides the size above which an advisory is emitted
func WithLargeInputThresholdMB(mb float64) ValidatorOption {
	return func(v *Validator) {
		v.largeThresholdMB = mb
	}
}

// NewValidator creates a new path validator
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		logger:           logging.Logger,
		largeThresholdMB: extraction.LargeInputThresholdMB,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate checks the input file and output location, creating the output directory.
// The output extension is checked before any directory is created.
func (v *Validator) Validate(inputPath, outputPath string) (extraction.ValidatedPaths, error) {
	if strings.TrimSpace(inputPath) == "" {
		return extraction.ValidatedPaths{}, extraction.InvalidInput("input path is required", nil)
	}
	if strings.TrimSpace(outputPath) == "" {
		return extraction.ValidatedPaths{}, extraction.InvalidInput("output path is required", nil)
	}

	input, err := filepath.Abs(inputPath)
	if err != nil {
		return extraction.ValidatedPaths{}, extraction.InvalidInput(fmt.Sprintf("invalid input path: %s", inputPath), err)
	}
	output, err := filepath.Abs(outputPath)
	if err != nil {
		return extraction.ValidatedPaths{}, extraction.InvalidInput(fmt.Sprintf("invalid output path: %s", outputPath), err)
	}

	info, err := os.Stat(input)
	if err != nil {
		return extraction.ValidatedPaths{}, statError("input file", inputPath, err)
	}
	if !info.Mode().IsRegular() {
		return extraction.ValidatedPaths{}, extraction.InvalidInput(fmt.Sprintf("input path is not a file: %s", inputPath), nil)
	}

	paths := extraction.ValidatedPaths{
		InputPath:      input,
		OutputPath:     output,
		OutputDir:      filepath.Dir(output),
		InputSizeBytes: info.Size(),
	}

	if sizeMB := float64(info.Size()) / (1024 * 1024); sizeMB > v.largeThresholdMB {
		msg := fmt.Sprintf("Large input file detected (%.1fMB). Processing may take a while.", sizeMB)
		paths.Advisories = append(paths.Advisories, msg)
		v.logger.Warn("large input file", "path", input, "size_mb", sizeMB)
	}

	if !extraction.IsSupportedVideo(input) {
		msg := fmt.Sprintf("Input format %s may not be supported. Supported formats: %s",
			filepath.Ext(input), strings.Join(extraction.VideoExtensions, ", "))
		paths.Advisories = append(paths.Advisories, msg)
		v.logger.Warn("unrecognized input format", "path", input, "extension", filepath.Ext(input))
	}

	if !extraction.IsSupportedAudio(output) {
		return extraction.ValidatedPaths{}, extraction.UnsupportedFormat(fmt.Sprintf(
			"output format %q not supported; supported formats: %s",
			filepath.Ext(output), strings.Join(extraction.AudioExtensions, ", ")))
	}

	if filepath.Clean(input) == filepath.Clean(output) {
		return extraction.ValidatedPaths{}, extraction.InvalidInput(fmt.Sprintf("output path is the input file: %s", outputPath), nil)
	}
	if out, err := os.Stat(output); err == nil {
		if out.IsDir() {
			return extraction.ValidatedPaths{}, extraction.InvalidInput(fmt.Sprintf("output path is a directory: %s", outputPath), nil)
		}
		// Links to the input count as the input
		if os.SameFile(info, out) {
			return extraction.ValidatedPaths{}, extraction.InvalidInput(fmt.Sprintf("output path is the input file: %s", outputPath), nil)
		}
	}

	if err := os.MkdirAll(paths.OutputDir, 0755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return extraction.ValidatedPaths{}, extraction.PermissionDenied(fmt.Sprintf("cannot create output directory %s", paths.OutputDir), err)
		}
		return extraction.ValidatedPaths{}, extraction.InvalidInput(fmt.Sprintf("cannot create output directory %s", paths.OutputDir), err)
	}

	return paths, nil
}

func statError(what, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return extraction.NotFound(fmt.Sprintf("%s not found: %s", what, path), err)
	case errors.Is(err, fs.ErrPermission):
		return extraction.PermissionDenied(fmt.Sprintf("permission denied reading %s: %s", what, path), err)
	default:
		return extraction.InvalidInput(fmt.Sprintf("cannot access %s: %s", what, path), err)
	}
}

// Ensure Validator implements extraction.PathValidator
var _ extraction.PathValidator = (*Validator)(nil)
