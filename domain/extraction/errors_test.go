package extraction

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := NotFound("input file not found: /x.mp4", os.ErrNotExist)
	wrapped := fmt.Errorf("validate: %w", base)

	if got := KindOf(wrapped); got != KindNotFound {
		t.Errorf("KindOf(wrapped) = %q, want %q", got, KindNotFound)
	}
	if !errors.Is(wrapped, os.ErrNotExist) {
		t.Error("expected wrapped error to unwrap to os.ErrNotExist")
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
	if IsKind(nil, KindNotFound) {
		t.Error("IsKind(nil) should be false")
	}
}

func TestError_Error(t *testing.T) {
	err := ExecutionFailed("Docker FFmpeg failed", errors.New("exit status 1"))
	if got, want := err.Error(), "Docker FFmpeg failed: exit status 1"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if got, want := OutputEmpty("/out/a.wav").Error(), "output file is empty: /out/a.wav"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestOutcome_Fail(t *testing.T) {
	var o Outcome
	o.Fail(Timeout("audio extraction timed out after 5 seconds", nil))

	if o.Success {
		t.Error("expected Success = false")
	}
	if o.ErrorKind != KindTimeout {
		t.Errorf("ErrorKind = %q, want %q", o.ErrorKind, KindTimeout)
	}
	if o.Err() == nil || KindOf(o.Err()) != KindTimeout {
		t.Errorf("Err() = %v, want Timeout error", o.Err())
	}

	var untyped Outcome
	untyped.Fail(errors.New("boom"))
	if untyped.ErrorKind != KindExecutionFailed {
		t.Errorf("untyped ErrorKind = %q, want %q", untyped.ErrorKind, KindExecutionFailed)
	}
}

func TestBytesToMB(t *testing.T) {
	tests := []struct {
		n    int64
		want float64
	}{
		{0, 0},
		{1024 * 1024, 1},
		{5 * 1024 * 1024, 5},
		{1536 * 1024, 1.5},
		{1234567, 1.18},
	}

	for _, tt := range tests {
		if got := BytesToMB(tt.n); got != tt.want {
			t.Errorf("BytesToMB(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestSupportedFormats(t *testing.T) {
	f := SupportedFormats()
	if len(f.VideoFormats) != 8 || len(f.AudioFormats) != 5 {
		t.Errorf("SupportedFormats() = %d video / %d audio, want 8 / 5", len(f.VideoFormats), len(f.AudioFormats))
	}
	f.AudioFormats[0] = ".changed"
	if AudioExtensions[0] != ".wav" {
		t.Error("SupportedFormats() must return a copy")
	}
	if f.OptimalSettings.Codec != "pcm_s16le" {
		t.Errorf("Codec = %q, want pcm_s16le", f.OptimalSettings.Codec)
	}
}
