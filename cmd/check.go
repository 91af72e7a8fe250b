package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	appextraction "audio-extractor/application/extraction"
	"audio-extractor/domain/extraction"
	"audio-extractor/infrastructure/container"
	"audio-extractor/infrastructure/logging"

	"github.com/spf13/cobra"
)

// InstallVerifier checks that ffmpeg can be started
type InstallVerifier interface {
	VerifyInstalled(ctx context.Context) error
}

var errNoRuntime = errors.New("no container runtime found on PATH")

var checkFlags engineFlags

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that FFmpeg is available",
	Long: `Verify that FFmpeg can be started in the configured execution mode.

Local mode runs "ffmpeg -version". Container mode runs the image with "-version",
which pulls the image on first use.

Example:
  audio-extractor check
  audio-extractor check --container --runtime docker`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addEngineFlags(checkCmd, &checkFlags)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	if !cfgFound {
		logging.UserWarning("No config file at %s, using defaults", cfgFile)
	}

	engine := appextraction.New(checkFlags.options(cmd, cfg))
	available := container.NewDetector().Available()

	return RunCheckWithDependencies(cmd.Context(), engine, engine.Mode(), available, os.Stdout)
}

// RunCheckWithDependencies runs the check command with injected dependencies (for testing)
func RunCheckWithDependencies(
	ctx context.Context,
	verifier InstallVerifier,
	mode extraction.ExecutionMode,
	available []extraction.Runtime,
	output OutputWriter,
) error {
	fmt.Fprintf(output, "Execution mode: %s\n", mode)
	if len(available) == 0 {
		fmt.Fprintln(output, "Container runtimes: none found")
	} else {
		fmt.Fprintf(output, "Container runtimes: %v\n", available)
	}

	if mode.IsContainerized() && len(available) == 0 {
		return extraction.RuntimeUnavailable("container mode selected", errNoRuntime)
	}

	if err := verifier.VerifyInstalled(ctx); err != nil {
		return fmt.Errorf("ffmpeg verification failed: %w", err)
	}

	fmt.Fprintln(output, "FFmpeg is available")
	return nil
}
