package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"audio-extractor/domain/extraction"
)

// displayName renders a binary name for messages, e.g. "podman" -> "Podman"
func displayName(name string) string {
	return cases.Title(language.Und).String(name)
}

func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// classify folds a CommandRunner error into an extraction.Error.
// tool names what ran, e.g. "FFmpeg" or "Podman FFmpeg".
func classify(ctx context.Context, err error, tool string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return extraction.Timeout(fmt.Sprintf("%s did not finish before the deadline", tool), err)
	case errors.Is(ctx.Err(), context.Canceled):
		return extraction.Canceled(fmt.Sprintf("%s was canceled", tool), err)
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return extraction.ExecutionFailed(fmt.Sprintf("%s failed (exit code %d): %s",
			tool, exitErr.Code, exitErr.Stderr), nil)
	}

	if errors.Is(err, fs.ErrPermission) {
		return extraction.PermissionDenied(fmt.Sprintf("%s could not be started", tool), err)
	}

	return extraction.ExecutionFailed(fmt.Sprintf("%s failed", tool), err)
}

// isSocketDenied recognizes a container client refused access to its daemon socket
func isSocketDenied(stderr string) bool {
	s := strings.ToLower(stderr)
	if !strings.Contains(s, "permission denied") {
		return false
	}
	return strings.Contains(s, "socket") || strings.Contains(s, "docker.sock") || strings.Contains(s, "daemon")
}
