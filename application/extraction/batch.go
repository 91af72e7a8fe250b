package extraction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
	"golang.org/x/sync/errgroup"

	"audio-extractor/domain/extraction"
)

// DefaultConcurrency is the number of extractions a batch runs at once
const DefaultConcurrency = 2

// BatchInput represents a directory of videos to extract
type BatchInput struct {
	InputDir    string
	OutputDir   string
	Format      string // Output extension, ".wav" if empty
	Concurrency int
	Timeout     time.Duration
}

// BatchResult holds one outcome per discovered video, in file name order
type BatchResult struct {
	Outcomes  []extraction.Outcome
	Succeeded int
	Failed    int
}

// OutputPathFor returns the output file for inputPath inside outputDir.
// The result is always contained in outputDir.
func OutputPathFor(outputDir, inputPath, format string) (string, error) {
	format = NormalizeFormat(format)
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	path, err := securejoin.SecureJoin(outputDir, stem+format)
	if err != nil {
		return "", fmt.Errorf("resolve output for %s: %w", inputPath, err)
	}
	return path, nil
}

// FindVideos lists files in dir with a known video extension, sorted by name
func FindVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var videos []string
	for _, entry := range entries {
		if entry.IsDir() || !extraction.IsSupportedVideo(entry.Name()) {
			continue
		}
		videos = append(videos, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(videos)
	return videos, nil
}

// ExtractDir extracts every video in InputDir into OutputDir with bounded concurrency.
// Per-file failures are reported on their outcomes; the error covers only the batch itself.
func (e *Engine) ExtractDir(ctx context.Context, input BatchInput) (*BatchResult, error) {
	if !extraction.IsSupportedAudio(NormalizeFormat(input.Format)) {
		return nil, extraction.UnsupportedFormat(fmt.Sprintf("output format %q not supported; supported formats: %s",
			input.Format, strings.Join(extraction.AudioExtensions, ", ")))
	}

	videos, err := FindVideos(input.InputDir)
	if err != nil {
		return nil, err
	}

	concurrency := input.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	e.logger.Info("starting batch extraction",
		"input_dir", input.InputDir,
		"output_dir", input.OutputDir,
		"videos", len(videos),
		"concurrency", concurrency,
	)

	result := &BatchResult{Outcomes: make([]extraction.Outcome, len(videos))}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	outputs, conflicts := planOutputs(input.OutputDir, videos, input.Format)

	for i, video := range videos {
		if err := conflicts[i]; err != nil {
			outcome := extraction.Outcome{InputPath: video, OutputPath: outputs[i], Settings: e.Settings()}
			outcome.Fail(err)
			result.Outcomes[i] = outcome
			continue
		}
		i, video, output := i, video, outputs[i]
		g.Go(func() error {
			result.Outcomes[i] = e.Extract(ctx, ExtractInput{
				InputPath:  video,
				OutputPath: output,
				Timeout:    input.Timeout,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, outcome := range result.Outcomes {
		if outcome.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	return result, nil
}

// planOutputs resolves the output of every video. A video whose output was already
// claimed by an earlier one in the list gets an InvalidInput error instead.
// Paths are compared case-insensitively so case-folding filesystems cannot merge two outputs.
func planOutputs(outputDir string, videos []string, format string) ([]string, []error) {
	outputs := make([]string, len(videos))
	errs := make([]error, len(videos))
	claimed := make(map[string]string, len(videos))

	for i, video := range videos {
		output, err := OutputPathFor(outputDir, video, format)
		if err != nil {
			errs[i] = extraction.InvalidInput(err.Error(), err)
			continue
		}
		outputs[i] = output

		key := strings.ToLower(output)
		if owner, ok := claimed[key]; ok {
			errs[i] = extraction.InvalidInput(fmt.Sprintf("output %s collides with the output of %s", output, filepath.Base(owner)), nil)
			continue
		}
		claimed[key] = video
	}
	return outputs, errs
}

// NormalizeFormat returns format with a leading dot, or the recommended format when empty
func NormalizeFormat(format string) string {
	if format == "" {
		return extraction.SupportedFormats().OptimalSettings.RecommendedFormat
	}
	if !strings.HasPrefix(format, ".") {
		return "." + format
	}
	return format
}
