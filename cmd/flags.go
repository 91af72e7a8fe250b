package cmd

import (
	"time"

	appextraction "audio-extractor/application/extraction"
	"audio-extractor/domain/extraction"
	"audio-extractor/infrastructure/config"

	"github.com/spf13/cobra"
)

// engineFlags are shared by every command that runs extractions.
// Flags override the config file only when set explicitly.
type engineFlags struct {
	container bool
	runtime   string
	image     string
	ffmpeg    string
	timeout   int
}

func addEngineFlags(cmd *cobra.Command, f *engineFlags) {
	cmd.Flags().BoolVar(&f.container, "container", false, "Run FFmpeg inside a container (default from config)")
	cmd.Flags().StringVar(&f.runtime, "runtime", "", "Container runtime: auto, podman, docker (default from config)")
	cmd.Flags().StringVar(&f.image, "image", "", "Container image providing ffmpeg (default from config)")
	cmd.Flags().StringVar(&f.ffmpeg, "ffmpeg", "", "Path to the local ffmpeg binary (default from config)")
	cmd.Flags().IntVar(&f.timeout, "timeout", 0, "Timeout in seconds for a single extraction (default from config)")
}

func (f *engineFlags) options(cmd *cobra.Command, cfg *config.Config) appextraction.Options {
	opts := appextraction.Options{
		UseContainer:     cfg.Extraction.UseContainer,
		ContainerRuntime: cfg.Extraction.ContainerRuntime,
		ContainerImage:   cfg.Extraction.ContainerImage,
		FFmpegPath:       cfg.Extraction.FFmpegPath,
	}
	if cmd.Flags().Changed("container") {
		opts.UseContainer = f.container
	}
	if cmd.Flags().Changed("runtime") {
		opts.ContainerRuntime = f.runtime
	}
	if cmd.Flags().Changed("image") {
		opts.ContainerImage = f.image
	}
	if cmd.Flags().Changed("ffmpeg") {
		opts.FFmpegPath = f.ffmpeg
	}
	return opts
}

func (f *engineFlags) timeoutDuration(cmd *cobra.Command, cfg *config.Config) time.Duration {
	seconds := cfg.Extraction.TimeoutSeconds
	if cmd.Flags().Changed("timeout") {
		seconds = f.timeout
	}
	return extraction.TimeoutFromSeconds(seconds)
}
