package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"audio-extractor/domain/extraction"
	"audio-extractor/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command asks how FFmpeg should run (on the host or in a container),
the extraction timeout and how many files to process at once.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	if configPath == "" {
		configPath = config.DefaultPath
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", configPath), false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to audio-extractor setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	if err := promptExecution(prompter, cfg); err != nil {
		return err
	}

	if err := promptLimits(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptExecution(prompter Prompter, cfg *config.Config) error {
	useContainer, err := prompter.Confirm("Run FFmpeg inside a container (Podman or Docker)?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Extraction.UseContainer = useContainer

	if !useContainer {
		path, err := prompter.Input("Path to the ffmpeg binary?", cfg.Extraction.FFmpegPath)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if strings.TrimSpace(path) != "" {
			cfg.Extraction.FFmpegPath = strings.TrimSpace(path)
		}
		return nil
	}

	options := []string{string(extraction.RuntimeAuto), string(extraction.RuntimePodman), string(extraction.RuntimeDocker)}
	runtime, err := prompter.Select("Which container runtime?", options, string(extraction.RuntimeAuto))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Extraction.ContainerRuntime = runtime

	image, err := prompter.Input("Container image providing ffmpeg?", extraction.DefaultImage)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if strings.TrimSpace(image) != "" {
		cfg.Extraction.ContainerImage = strings.TrimSpace(image)
	}
	return nil
}

func promptLimits(prompter Prompter, cfg *config.Config) error {
	timeout, err := promptInt(prompter, "Timeout for one extraction (seconds)?", cfg.Extraction.TimeoutSeconds)
	if err != nil {
		return err
	}
	cfg.Extraction.TimeoutSeconds = timeout

	concurrency, err := promptInt(prompter, "How many files to extract at once?", cfg.Batch.Concurrency)
	if err != nil {
		return err
	}
	if concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	cfg.Batch.Concurrency = concurrency
	return nil
}

func promptInt(prompter Prompter, message string, defaultValue int) (int, error) {
	answer, err := prompter.Input(message, strconv.Itoa(defaultValue))
	if err != nil {
		return 0, fmt.Errorf("prompt cancelled")
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", answer)
	}
	return n, nil
}
