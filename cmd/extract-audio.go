package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	appextraction "audio-extractor/application/extraction"
	"audio-extractor/domain/extraction"

	"github.com/spf13/cobra"
)

// Extractor runs a single extraction
type Extractor interface {
	Extract(ctx context.Context, input appextraction.ExtractInput) extraction.Outcome
}

var (
	extractInputPath  string
	extractOutputPath string
	extractJSON       bool
	extractFlags      engineFlags
)

var extractAudioCmd = &cobra.Command{
	Use:   "extract-audio",
	Short: "Extract audio from a video file",
	Long: `Extract the audio track of a video into a 16 kHz mono PCM file.

The output format is chosen by the output extension: .wav, .mp3, .flac, .m4a or .ogg.
The output directory is created when missing and an existing output file is replaced.

Exit status reflects the failure kind: 2 invalid input or format, 3 input not found,
4 permission denied, 5 container runtime unavailable, 6 ffmpeg failed, 7 timeout.

Example:
  audio-extractor extract-audio --input talk.mp4 --output talk.wav
  audio-extractor extract-audio -i talk.mkv -o out/talk.wav --container --runtime podman --json`,
	RunE: runExtractAudio,
}

func init() {
	rootCmd.AddCommand(extractAudioCmd)
	extractAudioCmd.Flags().StringVarP(&extractInputPath, "input", "i", "", "Path to the source video file (required)")
	extractAudioCmd.Flags().StringVarP(&extractOutputPath, "output", "o", "", "Path of the audio file to create (required)")
	extractAudioCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the outcome as JSON")
	addEngineFlags(extractAudioCmd, &extractFlags)
	extractAudioCmd.MarkFlagRequired("input")
	extractAudioCmd.MarkFlagRequired("output")
}

func runExtractAudio(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	engine := appextraction.New(extractFlags.options(cmd, cfg))

	return RunExtractAudioWithDependencies(
		cmd.Context(),
		engine,
		appextraction.ExtractInput{
			InputPath:  extractInputPath,
			OutputPath: extractOutputPath,
			Timeout:    extractFlags.timeoutDuration(cmd, cfg),
		},
		extractJSON,
		os.Stdout,
	)
}

// RunExtractAudioWithDependencies runs the extract-audio command with injected dependencies (for testing)
func RunExtractAudioWithDependencies(
	ctx context.Context,
	extractor Extractor,
	input appextraction.ExtractInput,
	jsonOut bool,
	output OutputWriter,
) error {
	if !jsonOut {
		fmt.Fprintf(output, "Extracting audio from %s...\n", input.InputPath)
	}

	outcome := extractor.Extract(ctx, input)

	if jsonOut {
		if err := writeJSON(output, outcome); err != nil {
			return err
		}
		if !outcome.Success {
			return reported(ExitCode(outcome.ErrorKind), outcome.Err())
		}
		return nil
	}

	if !outcome.Success {
		return outcome.Err()
	}

	fmt.Fprintf(output, "Successfully created: %s (%.2f MB in %s)\n",
		outcome.OutputPath, outcome.OutputSizeMB, outcome.Duration.Round(time.Millisecond))
	return nil
}
