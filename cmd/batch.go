package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	appextraction "audio-extractor/application/extraction"
	"audio-extractor/domain/extraction"

	"github.com/spf13/cobra"
)

// BatchExtractor extracts every video in a directory
type BatchExtractor interface {
	ExtractDir(ctx context.Context, input appextraction.BatchInput) (*appextraction.BatchResult, error)
}

var (
	batchInputDir    string
	batchOutputDir   string
	batchFormat      string
	batchConcurrency int
	batchJSON        bool
	batchFlags       engineFlags
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Extract audio from every video in a directory",
	Long: `Extract audio from every supported video directly inside --input-dir.

Each <name>.<video-ext> becomes <name><format> in --output-dir. Files are processed
concurrently up to --concurrency; one failure does not stop the others.

Example:
  audio-extractor batch --input-dir recordings --output-dir audio
  audio-extractor batch --input-dir recordings --output-dir audio --format .flac --concurrency 4`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVar(&batchInputDir, "input-dir", "", "Directory containing videos (required)")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "", "Directory for audio files (required)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "Output extension (default from config or .wav)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "Extractions to run at once (default from config)")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "Print outcomes as JSON")
	addEngineFlags(batchCmd, &batchFlags)
	batchCmd.MarkFlagRequired("input-dir")
	batchCmd.MarkFlagRequired("output-dir")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	format := cfg.Batch.Format
	if cmd.Flags().Changed("format") {
		format = batchFormat
	}
	concurrency := cfg.Batch.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency = batchConcurrency
	}

	engine := appextraction.New(batchFlags.options(cmd, cfg))

	return RunBatchWithDependencies(
		cmd.Context(),
		engine,
		appextraction.BatchInput{
			InputDir:    batchInputDir,
			OutputDir:   batchOutputDir,
			Format:      format,
			Concurrency: concurrency,
			Timeout:     batchFlags.timeoutDuration(cmd, cfg),
		},
		batchJSON,
		os.Stdout,
	)
}

// RunBatchWithDependencies runs the batch command with injected dependencies (for testing)
func RunBatchWithDependencies(
	ctx context.Context,
	extractor BatchExtractor,
	input appextraction.BatchInput,
	jsonOut bool,
	output OutputWriter,
) error {
	result, err := extractor.ExtractDir(ctx, input)
	if err != nil {
		return err
	}

	if jsonOut {
		if err := writeJSON(output, result.Outcomes); err != nil {
			return err
		}
	} else {
		printBatchSummary(output, result)
	}

	if result.Failed > 0 {
		err := extraction.ExecutionFailed(fmt.Sprintf("%d of %d extractions failed", result.Failed, len(result.Outcomes)), nil)
		if jsonOut {
			return reported(ExitExecutionFailed, err)
		}
		return err
	}
	return nil
}

func printBatchSummary(output OutputWriter, result *appextraction.BatchResult) {
	if len(result.Outcomes) == 0 {
		fmt.Fprintln(output, "No videos found.")
		return
	}

	rows := make([][]string, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		status := "ok"
		if !o.Success {
			status = string(o.ErrorKind)
		}
		rows = append(rows, []string{
			filepath.Base(o.InputPath),
			status,
			strconv.FormatFloat(o.OutputSizeMB, 'f', 2, 64),
			o.Duration.Round(time.Millisecond).String(),
			o.ErrorMessage,
		})
	}
	fmt.Fprintln(output, renderTable(
		[]string{"Video", "Status", "Audio (MB)", "Took", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintf(output, "%d succeeded, %d failed\n", result.Succeeded, result.Failed)
}
