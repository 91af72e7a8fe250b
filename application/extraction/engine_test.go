package extraction

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"audio-extractor/domain/extraction"
	"audio-extractor/infrastructure/filesystem"
	"audio-extractor/infrastructure/logging"
)

// --- Mock implementations for testing ---

// mockExtractor implements extraction.AudioExtractor for testing
type mockExtractor struct {
	calls   atomic.Int32
	extract func(ctx context.Context, req *extraction.Request, paths extraction.ValidatedPaths) error
}

func (m *mockExtractor) Extract(ctx context.Context, req *extraction.Request, paths extraction.ValidatedPaths) error {
	m.calls.Add(1)
	if m.extract != nil {
		return m.extract(ctx, req, paths)
	}
	return os.WriteFile(paths.OutputPath, []byte("RIFF....WAVEfmt "), 0644)
}

func newTestEngine(ext extraction.AudioExtractor) *Engine {
	return NewEngine(
		extraction.LocalMode(),
		ext,
		filesystem.NewValidator(filesystem.WithValidatorLogger(logging.Discard())),
		filesystem.NewVerifier(),
		WithLogger(logging.Discard()),
	)
}

func writeVideo(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, 4096), 0644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	return path
}

// writeScript writes an executable shell script and returns its path
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestEngine_Extract_Success(t *testing.T) {
	dir := t.TempDir()
	input := writeVideo(t, dir, "talk.mp4")
	output := filepath.Join(dir, "audio", "talk.wav")
	ext := &mockExtractor{}

	outcome := newTestEngine(ext).Extract(context.Background(), ExtractInput{InputPath: input, OutputPath: output})

	if !outcome.Success {
		t.Fatalf("Extract() failed: %s %s", outcome.ErrorKind, outcome.ErrorMessage)
	}
	if outcome.RequestID == "" {
		t.Error("RequestID is empty")
	}
	if outcome.OutputPath != output {
		t.Errorf("OutputPath = %q, want %q", outcome.OutputPath, output)
	}
	if outcome.ErrorKind != "" || outcome.ErrorMessage != "" {
		t.Errorf("error fields set on success: %q %q", outcome.ErrorKind, outcome.ErrorMessage)
	}
	want := extraction.Settings{SampleRate: 16000, Channels: 1, Codec: "pcm_s16le", UseContainer: false, ContainerRuntime: "auto"}
	if outcome.Settings != want {
		t.Errorf("Settings = %+v, want %+v", outcome.Settings, want)
	}
	if ext.calls.Load() != 1 {
		t.Errorf("extractor calls = %d, want 1", ext.calls.Load())
	}
}

func TestEngine_Extract_OutputIsTheInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.wav")
	if err := os.WriteFile(input, []byte("original audio"), 0644); err != nil {
		t.Fatal(err)
	}
	ext := &mockExtractor{}

	outcome := newTestEngine(ext).Extract(context.Background(), ExtractInput{InputPath: input, OutputPath: input})

	if outcome.ErrorKind != extraction.KindInvalidInput {
		t.Errorf("ErrorKind = %q, want InvalidInput (%s)", outcome.ErrorKind, outcome.ErrorMessage)
	}
	if ext.calls.Load() != 0 {
		t.Errorf("extractor called %d times, want 0", ext.calls.Load())
	}
	data, err := os.ReadFile(input)
	if err != nil {
		t.Fatalf("input file gone: %v", err)
	}
	if string(data) != "original audio" {
		t.Errorf("input content = %q, want it untouched", data)
	}
}

func TestEngine_Extract_ValidationFailures(t *testing.T) {
	dir := t.TempDir()
	input := writeVideo(t, dir, "talk.mp4")

	tests := []struct {
		name     string
		input    string
		output   string
		wantKind extraction.ErrorKind
	}{
		{
			name:     "missing input",
			input:    filepath.Join(dir, "nope.mp4"),
			output:   filepath.Join(dir, "out", "nope.wav"),
			wantKind: extraction.KindNotFound,
		},
		{
			name:     "unsupported output format",
			input:    input,
			output:   filepath.Join(dir, "clips", "clip.xyz"),
			wantKind: extraction.KindUnsupportedFormat,
		},
		{
			name:     "empty input path",
			input:    "",
			output:   filepath.Join(dir, "out", "a.wav"),
			wantKind: extraction.KindInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &mockExtractor{}
			outcome := newTestEngine(ext).Extract(context.Background(), ExtractInput{InputPath: tt.input, OutputPath: tt.output})

			if outcome.Success {
				t.Fatal("Extract() succeeded, want failure")
			}
			if outcome.ErrorKind != tt.wantKind {
				t.Errorf("ErrorKind = %q, want %q (%s)", outcome.ErrorKind, tt.wantKind, outcome.ErrorMessage)
			}
			if ext.calls.Load() != 0 {
				t.Errorf("extractor called %d times, want 0", ext.calls.Load())
			}
			if _, err := os.Stat(tt.output); !os.IsNotExist(err) {
				t.Errorf("output %s exists after failure", tt.output)
			}
			if _, err := os.Stat(filepath.Join(dir, "clips")); !os.IsNotExist(err) {
				t.Error("output directory created for rejected request")
			}
		})
	}
}

func TestEngine_Extract_Idempotent(t *testing.T) {
	dir := t.TempDir()
	input := writeVideo(t, dir, "talk.mp4")
	output := filepath.Join(dir, "talk.wav")
	engine := newTestEngine(&mockExtractor{})

	for i := 0; i < 2; i++ {
		outcome := engine.Extract(context.Background(), ExtractInput{InputPath: input, OutputPath: output})
		if !outcome.Success {
			t.Fatalf("run %d failed: %s", i+1, outcome.ErrorMessage)
		}
	}
}

func TestEngine_Extract_StaleOutputNeverReported(t *testing.T) {
	dir := t.TempDir()
	input := writeVideo(t, dir, "talk.mp4")
	output := filepath.Join(dir, "talk.wav")
	if err := os.WriteFile(output, []byte("stale audio from an earlier run"), 0644); err != nil {
		t.Fatal(err)
	}

	ext := &mockExtractor{extract: func(context.Context, *extraction.Request, extraction.ValidatedPaths) error {
		// Exits zero without writing anything
		return nil
	}}

	outcome := newTestEngine(ext).Extract(context.Background(), ExtractInput{InputPath: input, OutputPath: output})

	if outcome.ErrorKind != extraction.KindOutputMissing {
		t.Errorf("ErrorKind = %q, want OutputMissing", outcome.ErrorKind)
	}
}

func TestEngine_Extract_FailureRemovesPartialOutput(t *testing.T) {
	tests := []struct {
		name     string
		extract  func(context.Context, *extraction.Request, extraction.ValidatedPaths) error
		wantKind extraction.ErrorKind
	}{
		{
			name: "ffmpeg fails after writing",
			extract: func(_ context.Context, _ *extraction.Request, p extraction.ValidatedPaths) error {
				_ = os.WriteFile(p.OutputPath, []byte("half"), 0644)
				return extraction.ExecutionFailed("FFmpeg failed (exit code 1): Conversion failed!", nil)
			},
			wantKind: extraction.KindExecutionFailed,
		},
		{
			name: "empty output",
			extract: func(_ context.Context, _ *extraction.Request, p extraction.ValidatedPaths) error {
				return os.WriteFile(p.OutputPath, nil, 0644)
			},
			wantKind: extraction.KindOutputEmpty,
		},
		{
			name: "untyped error",
			extract: func(context.Context, *extraction.Request, extraction.ValidatedPaths) error {
				return errors.New("boom")
			},
			wantKind: extraction.KindExecutionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := writeVideo(t, dir, "talk.mp4")
			output := filepath.Join(dir, "talk.wav")

			outcome := newTestEngine(&mockExtractor{extract: tt.extract}).Extract(context.Background(), ExtractInput{InputPath: input, OutputPath: output})

			if outcome.ErrorKind != tt.wantKind {
				t.Errorf("ErrorKind = %q, want %q", outcome.ErrorKind, tt.wantKind)
			}
			if _, err := os.Stat(output); !os.IsNotExist(err) {
				t.Error("partial output left behind")
			}
		})
	}
}

func TestEngine_Extract_Timeout(t *testing.T) {
	dir := t.TempDir()
	input := writeVideo(t, dir, "talk.mp4")
	ext := &mockExtractor{extract: func(ctx context.Context, _ *extraction.Request, _ extraction.ValidatedPaths) error {
		<-ctx.Done()
		return extraction.Timeout("FFmpeg did not finish before the deadline", ctx.Err())
	}}

	outcome := newTestEngine(ext).Extract(context.Background(), ExtractInput{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "talk.wav"),
		Timeout:    50 * time.Millisecond,
	})

	if outcome.ErrorKind != extraction.KindTimeout {
		t.Fatalf("ErrorKind = %q, want Timeout", outcome.ErrorKind)
	}
	if outcome.ErrorMessage != "audio extraction timed out after 0.05 seconds" {
		t.Errorf("ErrorMessage = %q", outcome.ErrorMessage)
	}
}

func TestEngine_Extract_Canceled(t *testing.T) {
	dir := t.TempDir()
	input := writeVideo(t, dir, "talk.mp4")
	ext := &mockExtractor{extract: func(ctx context.Context, _ *extraction.Request, _ extraction.ValidatedPaths) error {
		return extraction.Canceled("FFmpeg was canceled", ctx.Err())
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := newTestEngine(ext).Extract(ctx, ExtractInput{InputPath: input, OutputPath: filepath.Join(dir, "talk.wav")})
	if outcome.ErrorKind != extraction.KindCanceled {
		t.Errorf("ErrorKind = %q, want Canceled", outcome.ErrorKind)
	}
}

func TestEngine_Settings(t *testing.T) {
	lookNone := func(string) (string, error) { return "", errors.New("not found") }
	lookDocker := func(name string) (string, error) {
		if name == "docker" {
			return "/usr/bin/docker", nil
		}
		return "", errors.New("not found")
	}

	tests := []struct {
		name          string
		opts          Options
		wantContainer bool
		wantRuntime   string
	}{
		{
			name:        "local reports requested selector",
			opts:        Options{ContainerRuntime: "docker"},
			wantRuntime: "docker",
		},
		{
			name:        "local default selector",
			opts:        Options{},
			wantRuntime: "auto",
		},
		{
			name:          "auto resolves to docker",
			opts:          Options{UseContainer: true, ContainerRuntime: "auto", LookPath: lookDocker},
			wantContainer: true,
			wantRuntime:   "docker",
		},
		{
			name:          "auto falls back to podman",
			opts:          Options{UseContainer: true, LookPath: lookNone},
			wantContainer: true,
			wantRuntime:   "podman",
		},
		{
			name:          "explicit runtime is not probed",
			opts:          Options{UseContainer: true, ContainerRuntime: "podman", LookPath: lookNone},
			wantContainer: true,
			wantRuntime:   "podman",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Logger = logging.Discard()
			e := New(tt.opts)

			s := e.Settings()
			if s.UseContainer != tt.wantContainer || s.ContainerRuntime != tt.wantRuntime {
				t.Errorf("Settings() = %+v, want useContainer=%v runtime=%s", s, tt.wantContainer, tt.wantRuntime)
			}
			if e.Mode().IsContainerized() != tt.wantContainer {
				t.Errorf("Mode() = %s", e.Mode())
			}
		})
	}
}

func TestEngine_LocalEndToEnd(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	ffmpegBin := writeScript(t, dir, "ffmpeg", `echo "$@" > "`+argsFile+`"
for last; do :; done
printf 'RIFFWAVEfmt ' > "$last"`)
	input := writeVideo(t, dir, "sermon.mov")
	output := filepath.Join(dir, "out", "sermon.wav")

	e := New(Options{FFmpegPath: ffmpegBin, Logger: logging.Discard()})
	outcome := e.Extract(context.Background(), ExtractInput{InputPath: input, OutputPath: output})

	if !outcome.Success {
		t.Fatalf("Extract() failed: %s: %s", outcome.ErrorKind, outcome.ErrorMessage)
	}
	if info, err := os.Stat(output); err != nil || info.Size() == 0 {
		t.Fatalf("output not written: %v", err)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	want := "-i " + input + " -vn -acodec pcm_s16le -ac 1 -ar 16000 -loglevel info -y " + output
	if got := strings.TrimSpace(string(args)); got != want {
		t.Errorf("ffmpeg args = %q, want %q", got, want)
	}
}

func TestEngine_LocalFFmpegFailure(t *testing.T) {
	dir := t.TempDir()
	ffmpegBin := writeScript(t, dir, "ffmpeg", `echo "Invalid data found when processing input" >&2
exit 1`)
	input := writeVideo(t, dir, "broken.mp4")

	e := New(Options{FFmpegPath: ffmpegBin, Logger: logging.Discard()})
	outcome := e.Extract(context.Background(), ExtractInput{InputPath: input, OutputPath: filepath.Join(dir, "broken.wav")})

	if outcome.ErrorKind != extraction.KindExecutionFailed {
		t.Fatalf("ErrorKind = %q, want ExecutionFailed", outcome.ErrorKind)
	}
	if !strings.Contains(outcome.ErrorMessage, "Invalid data found when processing input") {
		t.Errorf("ErrorMessage = %q, want ffmpeg stderr", outcome.ErrorMessage)
	}
}

func TestEngine_TimeoutKillsFFmpeg(t *testing.T) {
	dir := t.TempDir()
	ffmpegBin := writeScript(t, dir, "ffmpeg", `sleep 30 &
for last; do :; done
printf 'partial' > "$last"
sleep 30`)
	input := writeVideo(t, dir, "long.mp4")
	output := filepath.Join(dir, "long.wav")

	e := New(Options{FFmpegPath: ffmpegBin, Logger: logging.Discard()})

	start := time.Now()
	outcome := e.Extract(context.Background(), ExtractInput{InputPath: input, OutputPath: output, Timeout: time.Second})
	elapsed := time.Since(start)

	if outcome.ErrorKind != extraction.KindTimeout {
		t.Fatalf("ErrorKind = %q, want Timeout (%s)", outcome.ErrorKind, outcome.ErrorMessage)
	}
	if outcome.ErrorMessage != "audio extraction timed out after 1 seconds" {
		t.Errorf("ErrorMessage = %q", outcome.ErrorMessage)
	}
	if elapsed > 5*time.Second {
		t.Errorf("Extract() returned after %v, want within the timeout margin", elapsed)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("partial output left behind after timeout")
	}
}

func TestExtract_AutoRuntimeWithEmptyPath(t *testing.T) {
	dir := t.TempDir()
	input := writeVideo(t, dir, "talk.mp4")
	t.Setenv("PATH", t.TempDir())

	outcome := Extract(context.Background(), input, filepath.Join(dir, "talk.wav"), true, "auto", 5)

	if outcome.Success {
		t.Fatal("Extract() succeeded without any container runtime")
	}
	if outcome.ErrorKind != extraction.KindRuntimeUnavailable {
		t.Errorf("ErrorKind = %q, want RuntimeUnavailable (%s)", outcome.ErrorKind, outcome.ErrorMessage)
	}
	if !outcome.Settings.UseContainer || outcome.Settings.ContainerRuntime != "podman" {
		t.Errorf("Settings = %+v, want container mode with podman fallback", outcome.Settings)
	}
}

func TestEngine_VerifyInstalled(t *testing.T) {
	dir := t.TempDir()
	ffmpegBin := writeScript(t, dir, "ffmpeg", `echo "ffmpeg version 6.1.1"`)

	if err := New(Options{FFmpegPath: ffmpegBin, Logger: logging.Discard()}).VerifyInstalled(context.Background()); err != nil {
		t.Errorf("VerifyInstalled() error = %v", err)
	}

	missing := New(Options{FFmpegPath: filepath.Join(dir, "missing"), Logger: logging.Discard()})
	if err := missing.VerifyInstalled(context.Background()); err == nil {
		t.Error("VerifyInstalled() expected error for missing ffmpeg")
	}

	if err := newTestEngine(&mockExtractor{}).VerifyInstalled(context.Background()); err != nil {
		t.Errorf("VerifyInstalled() with non-verifying extractor = %v", err)
	}
}
