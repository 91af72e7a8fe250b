//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	appextraction "audio-extractor/application/extraction"
	"audio-extractor/domain/extraction"
	"audio-extractor/infrastructure/logging"

	"github.com/cucumber/godog"
)

// extractContext holds test state for extract scenarios
type extractContext struct {
	tempDir    string
	ffmpegPath string
	argsFile   string
	savedPath  string
	pathSwap   bool
	outcome    extraction.Outcome
	started    time.Time
	elapsed    time.Duration
}

// SharedExtractContext is reset before each scenario via Before hook
var SharedExtractContext *extractContext

func getExtractContext() *extractContext {
	return SharedExtractContext
}

func InitializeExtractScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "extract-test-*")
		if err != nil {
			return c, err
		}
		SharedExtractContext = &extractContext{
			tempDir:  tempDir,
			argsFile: filepath.Join(tempDir, "ffmpeg-args.txt"),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		e := getExtractContext()
		if e.pathSwap {
			os.Setenv("PATH", e.savedPath)
		}
		os.RemoveAll(e.tempDir)
		SharedExtractContext = nil
		return c, nil
	})

	ctx.Step(`^a video file "([^"]*)" of (\d+) bytes$`, aVideoFileOfBytes)
	ctx.Step(`^a working ffmpeg$`, aWorkingFFmpeg)
	ctx.Step(`^an ffmpeg that fails with "([^"]*)"$`, anFFmpegThatFailsWith)
	ctx.Step(`^an ffmpeg that never finishes$`, anFFmpegThatNeverFinishes)
	ctx.Step(`^no container runtime is installed$`, noContainerRuntimeIsInstalled)
	ctx.Step(`^an existing file "([^"]*)" containing "([^"]*)"$`, anExistingFileContaining)
	ctx.Step(`^I extract "([^"]*)" to "([^"]*)"$`, iExtractTo)
	ctx.Step(`^I extract "([^"]*)" to "([^"]*)" with a (\d+) second timeout$`, iExtractToWithTimeout)
	ctx.Step(`^I extract "([^"]*)" to "([^"]*)" in a container using "([^"]*)"$`, iExtractToInContainer)
	ctx.Step(`^the extraction should succeed$`, theExtractionShouldSucceed)
	ctx.Step(`^the extraction should fail with "([^"]*)"$`, theExtractionShouldFailWith)
	ctx.Step(`^the error message should contain "([^"]*)"$`, theErrorMessageShouldContain)
	ctx.Step(`^the file "([^"]*)" should exist$`, theFileShouldExist)
	ctx.Step(`^the file "([^"]*)" should not exist$`, theFileShouldNotExist)
	ctx.Step(`^the file "([^"]*)" should not contain "([^"]*)"$`, theFileShouldNotContain)
	ctx.Step(`^the directory "([^"]*)" should not exist$`, theFileShouldNotExist)
	ctx.Step(`^ffmpeg should have been called with:$`, ffmpegShouldHaveBeenCalledWith)
	ctx.Step(`^ffmpeg should not have been called$`, ffmpegShouldNotHaveBeenCalled)
	ctx.Step(`^the reported settings should be (\d+) Hz, (\d+) channel, "([^"]*)"$`, theReportedSettingsShouldBe)
	ctx.Step(`^the extraction should return within (\d+) seconds$`, theExtractionShouldReturnWithin)
}

func (e *extractContext) path(name string) string {
	return filepath.Join(e.tempDir, name)
}

func (e *extractContext) writeFFmpeg(body string) error {
	e.ffmpegPath = e.path("ffmpeg")
	script := fmt.Sprintf("#!/bin/sh\necho \"$@\" > %q\n%s\n", e.argsFile, body)
	return os.WriteFile(e.ffmpegPath, []byte(script), 0755)
}

func aVideoFileOfBytes(name string, size int) error {
	e := getExtractContext()
	return os.WriteFile(e.path(name), make([]byte, size), 0644)
}

func aWorkingFFmpeg() error {
	return getExtractContext().writeFFmpeg(`for last; do :; done
printf 'RIFF----WAVEfmt ' > "$last"`)
}

func anFFmpegThatFailsWith(message string) error {
	return getExtractContext().writeFFmpeg(fmt.Sprintf("echo %q >&2\nexit 1", message))
}

func anFFmpegThatNeverFinishes() error {
	return getExtractContext().writeFFmpeg(`for last; do :; done
printf 'partial' > "$last"
sleep 60 &
sleep 60`)
}

func noContainerRuntimeIsInstalled() error {
	e := getExtractContext()
	empty := e.path("empty-path")
	if err := os.Mkdir(empty, 0755); err != nil {
		return err
	}
	e.savedPath = os.Getenv("PATH")
	e.pathSwap = true
	return os.Setenv("PATH", empty)
}

func anExistingFileContaining(name, content string) error {
	e := getExtractContext()
	p := e.path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	return os.WriteFile(p, []byte(content), 0644)
}

func (e *extractContext) run(opts appextraction.Options, input, output string, timeout time.Duration) {
	opts.Logger = logging.Discard()
	engine := appextraction.New(opts)

	e.started = time.Now()
	e.outcome = engine.Extract(context.Background(), appextraction.ExtractInput{
		InputPath:  e.path(input),
		OutputPath: e.path(output),
		Timeout:    timeout,
	})
	e.elapsed = time.Since(e.started)
}

func iExtractTo(input, output string) error {
	e := getExtractContext()
	e.run(appextraction.Options{FFmpegPath: e.ffmpegPath}, input, output, 0)
	return nil
}

func iExtractToWithTimeout(input, output string, seconds int) error {
	e := getExtractContext()
	e.run(appextraction.Options{FFmpegPath: e.ffmpegPath}, input, output, time.Duration(seconds)*time.Second)
	return nil
}

func iExtractToInContainer(input, output, runtime string) error {
	e := getExtractContext()
	e.run(appextraction.Options{UseContainer: true, ContainerRuntime: runtime}, input, output, 0)
	return nil
}

func theExtractionShouldSucceed() error {
	e := getExtractContext()
	if !e.outcome.Success {
		return fmt.Errorf("expected success, got %s: %s", e.outcome.ErrorKind, e.outcome.ErrorMessage)
	}
	return nil
}

func theExtractionShouldFailWith(kind string) error {
	e := getExtractContext()
	if e.outcome.Success {
		return fmt.Errorf("expected %s failure, got success", kind)
	}
	if string(e.outcome.ErrorKind) != kind {
		return fmt.Errorf("expected %s, got %s: %s", kind, e.outcome.ErrorKind, e.outcome.ErrorMessage)
	}
	return nil
}

func theErrorMessageShouldContain(text string) error {
	e := getExtractContext()
	if !strings.Contains(e.outcome.ErrorMessage, text) {
		return fmt.Errorf("expected error message to contain %q, got %q", text, e.outcome.ErrorMessage)
	}
	return nil
}

func theFileShouldExist(name string) error {
	info, err := os.Stat(getExtractContext().path(name))
	if err != nil {
		return fmt.Errorf("expected %s to exist: %w", name, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("expected %s to be non-empty", name)
	}
	return nil
}

func theFileShouldNotExist(name string) error {
	if _, err := os.Stat(getExtractContext().path(name)); !os.IsNotExist(err) {
		return fmt.Errorf("expected %s not to exist", name)
	}
	return nil
}

func theFileShouldNotContain(name, text string) error {
	data, err := os.ReadFile(getExtractContext().path(name))
	if err != nil {
		return err
	}
	if strings.Contains(string(data), text) {
		return fmt.Errorf("expected %s not to contain %q", name, text)
	}
	return nil
}

func ffmpegShouldHaveBeenCalledWith(doc *godog.DocString) error {
	e := getExtractContext()
	data, err := os.ReadFile(e.argsFile)
	if err != nil {
		return fmt.Errorf("ffmpeg was not called: %w", err)
	}

	want := strings.NewReplacer("{dir}", e.tempDir).Replace(strings.Join(strings.Fields(doc.Content), " "))
	got := strings.TrimSpace(string(data))
	if got != want {
		return fmt.Errorf("expected ffmpeg args:\n%s\ngot:\n%s", want, got)
	}
	return nil
}

func ffmpegShouldNotHaveBeenCalled() error {
	if _, err := os.Stat(getExtractContext().argsFile); !os.IsNotExist(err) {
		return fmt.Errorf("expected ffmpeg not to be called")
	}
	return nil
}

func theReportedSettingsShouldBe(rate, channels int, codec string) error {
	s := getExtractContext().outcome.Settings
	if s.SampleRate != rate || s.Channels != channels || s.Codec != codec {
		return fmt.Errorf("unexpected settings: %+v", s)
	}
	return nil
}

func theExtractionShouldReturnWithin(seconds int) error {
	e := getExtractContext()
	if e.elapsed > time.Duration(seconds)*time.Second {
		return fmt.Errorf("extraction took %v, expected under %ds", e.elapsed, seconds)
	}
	return nil
}
