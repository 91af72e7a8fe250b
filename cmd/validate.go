package cmd

import (
	"fmt"
	"os"
	"strings"

	"audio-extractor/domain/extraction"
	"audio-extractor/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate <video>...",
	Short: "Check video files before extracting",
	Long: `Report size, format support and warnings for each video file without running FFmpeg.

Example:
  audio-extractor validate talk.mp4 interview.mkv
  audio-extractor validate --json talk.mp4`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunValidateWithDependencies(filesystem.InspectVideo, args, validateJSON, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print results as JSON")
}

// RunValidateWithDependencies runs the validate command with injected dependencies (for testing)
func RunValidateWithDependencies(inspect func(string) filesystem.VideoInfo, paths []string, jsonOut bool, output OutputWriter) error {
	results := make([]filesystem.VideoInfo, 0, len(paths))
	invalid := 0
	for _, p := range paths {
		info := inspect(p)
		if !info.Valid {
			invalid++
		}
		results = append(results, info)
	}

	if jsonOut {
		if err := writeJSON(output, results); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			status := "ok"
			notes := strings.Join(r.Warnings, "; ")
			if !r.Valid {
				status = "invalid"
				notes = r.Error
			}
			rows = append(rows, []string{r.Path, status, fmt.Sprintf("%.2f", r.SizeMB), notes})
		}
		fmt.Fprintln(output, renderTable(
			[]string{"File", "Status", "Size (MB)", "Notes"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
		))
	}

	if invalid > 0 {
		err := extraction.InvalidInput(fmt.Sprintf("%d of %d files are not usable", invalid, len(paths)), nil)
		if jsonOut {
			return reported(ExitInvalidInput, err)
		}
		return err
	}
	return nil
}
