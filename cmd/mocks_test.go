package cmd

import (
	"context"
	"errors"
	"sync"

	appextraction "audio-extractor/application/extraction"
	"audio-extractor/domain/extraction"
	"audio-extractor/infrastructure/watcher"
)

// --- Mock implementations for testing ---

// mockExtractor implements Extractor for testing
type mockExtractor struct {
	mu      sync.Mutex
	inputs  []appextraction.ExtractInput
	outcome func(input appextraction.ExtractInput) extraction.Outcome
}

func (m *mockExtractor) Extract(ctx context.Context, input appextraction.ExtractInput) extraction.Outcome {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()
	if m.outcome != nil {
		return m.outcome(input)
	}
	return extraction.Outcome{
		Success:      true,
		InputPath:    input.InputPath,
		OutputPath:   input.OutputPath,
		OutputSizeMB: 1.5,
	}
}

func failedOutcome(kind extraction.ErrorKind, msg string) extraction.Outcome {
	o := extraction.Outcome{}
	o.Fail(extraction.NewError(kind, msg, nil))
	return o
}

// mockBatchExtractor implements BatchExtractor for testing
type mockBatchExtractor struct {
	input  appextraction.BatchInput
	result *appextraction.BatchResult
	err    error
}

func (m *mockBatchExtractor) ExtractDir(ctx context.Context, input appextraction.BatchInput) (*appextraction.BatchResult, error) {
	m.input = input
	return m.result, m.err
}

// mockVerifier implements InstallVerifier for testing
type mockVerifier struct {
	err    error
	called bool
}

func (m *mockVerifier) VerifyInstalled(ctx context.Context) error {
	m.called = true
	return m.err
}

// mockWatcher implements DirWatcher by delivering a fixed list of paths
type mockWatcher struct {
	paths []string
	err   error
}

func (m *mockWatcher) Run(ctx context.Context, handle watcher.Handler) error {
	if m.err != nil {
		return m.err
	}
	for _, p := range m.paths {
		handle(ctx, p)
	}
	return nil
}

// mockPrompter implements Prompter with scripted answers keyed by message
type mockPrompter struct {
	inputs   map[string]string
	confirms map[string]bool
	selects  map[string]string
	fail     bool
	asked    []string
}

var errPromptAborted = errors.New("interrupt")

func (m *mockPrompter) Input(message, defaultValue string) (string, error) {
	m.asked = append(m.asked, message)
	if m.fail {
		return "", errPromptAborted
	}
	if v, ok := m.inputs[message]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (m *mockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	m.asked = append(m.asked, message)
	if m.fail {
		return false, errPromptAborted
	}
	if v, ok := m.confirms[message]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (m *mockPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	m.asked = append(m.asked, message)
	if m.fail {
		return "", errPromptAborted
	}
	if v, ok := m.selects[message]; ok {
		return v, nil
	}
	return defaultValue, nil
}
