package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"audio-extractor/infrastructure/config"
	"audio-extractor/infrastructure/logging"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	cfg       *config.Config
	cfgFound  bool
	cfgErr    error
	logLevel  string
	logFormat string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "audio-extractor",
	Short: "Extract speech-ready audio from video files",
	Long: `audio-extractor converts the audio track of a video into a 16 kHz mono
16-bit PCM file suited for speech recognition.

FFmpeg runs either on the host or inside a Podman/Docker container:

  - Extract one file, a whole directory, or watch a directory for new videos
  - Check FFmpeg availability and inspect input files
  - Report the result as text or JSON

Example:
  audio-extractor extract-audio --input talk.mp4 --output talk.wav
  audio-extractor extract-audio -i talk.mp4 -o talk.wav --container --runtime docker`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !isReported(err) {
			logging.UserError("%v", err)
		}
		os.Exit(exitCode(err))
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: auto, text, json (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	// A missing file is fine; defaults apply. A broken one is reported by commands that need it.
	cfg, cfgFound, cfgErr = config.LoadOrDefault(cfgFile)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}

func setupLogging(cmd *cobra.Command, args []string) error {
	opts := logging.Options{Level: "info", Format: "auto", Output: os.Stderr}
	if cfg != nil {
		opts.Level = cfg.Logging.Level
		opts.Format = cfg.Logging.Format
	}
	if logLevel != "" {
		opts.Level = logLevel
	}
	if logFormat != "" {
		opts.Format = logFormat
	}
	if verbose {
		opts.Level = "debug"
	}
	return logging.Setup(opts)
}
