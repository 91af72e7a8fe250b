package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	appextraction "audio-extractor/application/extraction"
	"audio-extractor/domain/extraction"
	"audio-extractor/infrastructure/logging"
	"audio-extractor/infrastructure/watcher"

	"github.com/spf13/cobra"
)

// DirWatcher delivers settled files until ctx is done
type DirWatcher interface {
	Run(ctx context.Context, handle watcher.Handler) error
}

var (
	watchInputDir    string
	watchOutputDir   string
	watchFormat      string
	watchSettle      int
	watchConcurrency int
	watchFlags       engineFlags
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Extract audio from videos as they appear in a directory",
	Long: `Watch --input-dir and extract audio from each new or changed video once it has
stopped changing for --settle seconds. Only one watcher may run per directory.

Example:
  audio-extractor watch --input-dir /recordings --output-dir /audio
  audio-extractor watch --input-dir /recordings --output-dir /audio --settle 30 --container`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchInputDir, "input-dir", "", "Directory to watch (required)")
	watchCmd.Flags().StringVar(&watchOutputDir, "output-dir", "", "Directory for audio files (required)")
	watchCmd.Flags().StringVar(&watchFormat, "format", "", "Output extension (default from config or .wav)")
	watchCmd.Flags().IntVar(&watchSettle, "settle", 0, "Seconds a file must stay unchanged before extraction (default from config)")
	watchCmd.Flags().IntVar(&watchConcurrency, "concurrency", 0, "Extractions to run at once (default from config)")
	addEngineFlags(watchCmd, &watchFlags)
	watchCmd.MarkFlagRequired("input-dir")
	watchCmd.MarkFlagRequired("output-dir")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	format := cfg.Batch.Format
	if cmd.Flags().Changed("format") {
		format = watchFormat
	}
	settle := cfg.Watch.SettleSeconds
	if cmd.Flags().Changed("settle") {
		settle = watchSettle
	}
	concurrency := cfg.Batch.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency = watchConcurrency
	}

	engine := appextraction.New(watchFlags.options(cmd, cfg))
	w := watcher.New(watchInputDir, time.Duration(settle)*time.Second,
		watcher.WithWorkers(concurrency),
		watcher.WithLogger(logging.Logger),
	)

	logging.UserInfo("Watching %s, press Ctrl+C to stop", watchInputDir)
	return RunWatchWithDependencies(
		cmd.Context(),
		w,
		engine,
		watchOutputDir,
		format,
		watchFlags.timeoutDuration(cmd, cfg),
		os.Stdout,
	)
}

// RunWatchWithDependencies runs the watch command with injected dependencies (for testing)
func RunWatchWithDependencies(
	ctx context.Context,
	w DirWatcher,
	extractor Extractor,
	outputDir string,
	format string,
	timeout time.Duration,
	output OutputWriter,
) error {
	format = appextraction.NormalizeFormat(format)
	if !extraction.IsSupportedAudio(format) {
		return extraction.UnsupportedFormat(fmt.Sprintf("output format %q not supported; supported formats: %s",
			format, strings.Join(extraction.AudioExtensions, ", ")))
	}

	var mu sync.Mutex
	report := func(f string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(output, f, args...)
	}

	report("Watching for videos, press Ctrl+C to stop\n")

	return w.Run(ctx, func(ctx context.Context, path string) {
		out, err := appextraction.OutputPathFor(outputDir, path, format)
		if err != nil {
			report("✗ %s: %v\n", filepath.Base(path), err)
			return
		}

		outcome := extractor.Extract(ctx, appextraction.ExtractInput{
			InputPath:  path,
			OutputPath: out,
			Timeout:    timeout,
		})
		if outcome.Success {
			report("✓ %s -> %s (%.2f MB)\n", filepath.Base(path), outcome.OutputPath, outcome.OutputSizeMB)
			return
		}
		report("✗ %s: %s: %s\n", filepath.Base(path), outcome.ErrorKind, outcome.ErrorMessage)
	})
}
