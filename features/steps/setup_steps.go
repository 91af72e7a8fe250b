//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"audio-extractor/cmd"
	"audio-extractor/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	originalContent string
	output          bytes.Buffer
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	confirmResponses []bool
	selectResponses  []string
	inputIndex       int
	confirmIndex     int
	selectIndex      int
}

func NewMockPrompter(inputs []string, confirms []bool, selects []string) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		confirmResponses: confirms,
		selectResponses:  selects,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func (m *MockPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	if m.selectIndex >= len(m.selectResponses) {
		return defaultValue, nil
	}
	response := m.selectResponses[m.selectIndex]
	m.selectIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		SharedSetupContext = &setupContext{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, "config", "config.yaml"),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedSetupContext.tempDir != "" {
			os.RemoveAll(SharedSetupContext.tempDir)
		}
		SharedSetupContext = &setupContext{}
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run setup choosing local ffmpeg "([^"]*)" with inputs:$`, iRunSetupChoosingLocalFFmpeg)
	ctx.Step(`^I run setup choosing the "([^"]*)" runtime with inputs:$`, iRunSetupChoosingRuntime)
	ctx.Step(`^I run setup and decline to overwrite$`, iRunSetupAndDeclineToOverwrite)
	ctx.Step(`^the setup should succeed$`, theSetupShouldSucceed)
	ctx.Step(`^the setup should fail with "([^"]*)"$`, theSetupShouldFailWith)
	ctx.Step(`^the saved config should have "([^"]*)" set to "([^"]*)"$`, theSavedConfigShouldHave)
	ctx.Step(`^the setup should be cancelled$`, theSetupShouldBeCancelled)
	ctx.Step(`^the existing config should be unchanged$`, theExistingConfigShouldBeUnchanged)
}

func noConfigFileExistsForSetup() error {
	return os.MkdirAll(filepath.Dir(SharedSetupContext.configPath), 0755)
}

func aConfigFileAlreadyExistsForSetup() error {
	s := SharedSetupContext
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}

	content := `extraction:
  use_container: false
  ffmpeg_path: /original/ffmpeg
  timeout_seconds: 120
batch:
  concurrency: 3
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

// tableInputs reads the second column of a two-column table, skipping the header
func tableInputs(table *godog.Table) []string {
	var inputs []string
	for i, row := range table.Rows {
		if i == 0 || len(row.Cells) < 2 {
			continue
		}
		inputs = append(inputs, row.Cells[1].Value)
	}
	return inputs
}

func iRunSetupChoosingLocalFFmpeg(ffmpegPath string, table *godog.Table) error {
	s := SharedSetupContext
	inputs := append([]string{ffmpegPath}, tableInputs(table)...)
	prompter := NewMockPrompter(inputs, []bool{false}, nil)
	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, &s.output)
	return nil
}

func iRunSetupChoosingRuntime(runtime string, table *godog.Table) error {
	s := SharedSetupContext
	prompter := NewMockPrompter(tableInputs(table), []bool{true}, []string{runtime})
	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, &s.output)
	return nil
}

func iRunSetupAndDeclineToOverwrite() error {
	s := SharedSetupContext
	prompter := NewMockPrompter(nil, []bool{false}, nil)
	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, &s.output)
	return nil
}

func theSetupShouldSucceed() error {
	s := SharedSetupContext
	if s.err != nil {
		return fmt.Errorf("setup failed: %w", s.err)
	}
	if _, err := os.Stat(s.configPath); err != nil {
		return fmt.Errorf("config file not created: %w", err)
	}
	return nil
}

func theSetupShouldFailWith(text string) error {
	s := SharedSetupContext
	if s.err == nil {
		return fmt.Errorf("expected setup to fail with %q", text)
	}
	if !bytes.Contains([]byte(s.err.Error()), []byte(text)) {
		return fmt.Errorf("expected error containing %q, got %q", text, s.err.Error())
	}
	return nil
}

func theSavedConfigShouldHave(key, want string) error {
	s := SharedSetupContext
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	got, err := config.NewConfigManager(cfg, s.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %s to be %q, got %q", key, want, got)
	}
	return nil
}

func theSetupShouldBeCancelled() error {
	s := SharedSetupContext
	if s.err != nil {
		return fmt.Errorf("expected clean cancellation, got error: %w", s.err)
	}
	if !bytes.Contains(s.output.Bytes(), []byte("Setup cancelled.")) {
		return fmt.Errorf("expected cancellation message, got %q", s.output.String())
	}
	return nil
}

func theExistingConfigShouldBeUnchanged() error {
	s := SharedSetupContext
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return err
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config was modified")
	}
	return nil
}
