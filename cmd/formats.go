package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"audio-extractor/domain/extraction"

	"github.com/spf13/cobra"
)

var formatsJSON bool

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported video and audio formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunFormatsWithDependencies(formatsJSON, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
	formatsCmd.Flags().BoolVar(&formatsJSON, "json", false, "Print formats as JSON")
}

// RunFormatsWithDependencies runs the formats command with injected dependencies (for testing)
func RunFormatsWithDependencies(jsonOut bool, output OutputWriter) error {
	formats := extraction.SupportedFormats()
	if jsonOut {
		return writeJSON(output, formats)
	}

	rows := [][]string{
		{"Video input", strings.Join(formats.VideoFormats, " ")},
		{"Audio output", strings.Join(formats.AudioFormats, " ")},
		{"Sample rate", strconv.Itoa(formats.OptimalSettings.SampleRate) + " Hz"},
		{"Channels", strconv.Itoa(formats.OptimalSettings.Channels)},
		{"Codec", formats.OptimalSettings.Codec},
		{"Recommended output", formats.OptimalSettings.RecommendedFormat},
	}
	fmt.Fprintln(output, renderTable([]string{"Setting", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
	fmt.Fprintln(output, formats.Description)
	return nil
}
