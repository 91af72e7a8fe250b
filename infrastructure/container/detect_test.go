package container

import (
	"bytes"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"testing"

	"audio-extractor/domain/extraction"
)

func fakeLookPath(found ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, f := range found {
			if f == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
}

func TestDetector_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		selector  extraction.Runtime
		onPath    []string
		want      extraction.Runtime
		wantFound bool
	}{
		{"auto prefers podman", extraction.RuntimeAuto, []string{"podman", "docker"}, extraction.RuntimePodman, true},
		{"auto falls back to docker", extraction.RuntimeAuto, []string{"docker"}, extraction.RuntimeDocker, true},
		{"auto with nothing installed", extraction.RuntimeAuto, nil, extraction.RuntimePodman, false},
		{"empty selector is auto", "", []string{"docker"}, extraction.RuntimeDocker, true},
		{"explicit docker not probed", extraction.RuntimeDocker, nil, extraction.RuntimeDocker, true},
		{"explicit unknown passed through", extraction.Runtime("nerdctl"), nil, extraction.Runtime("nerdctl"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			d := NewDetector(
				WithLookPath(fakeLookPath(tt.onPath...)),
				WithDetectorLogger(slog.New(slog.NewTextHandler(&buf, nil))),
			)

			got, found := d.Resolve(tt.selector)
			if got != tt.want || found != tt.wantFound {
				t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tt.selector, got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestDetector_WarnsWhenNothingFound(t *testing.T) {
	var buf bytes.Buffer
	d := NewDetector(
		WithLookPath(fakeLookPath()),
		WithDetectorLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)

	d.Resolve(extraction.RuntimeAuto)

	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "no container runtime detected") {
		t.Errorf("expected warning record, got: %s", buf.String())
	}
}

func TestDetector_ExplicitDoesNotProbe(t *testing.T) {
	d := NewDetector(WithLookPath(func(string) (string, error) {
		return "", errors.New("lookPath should not be called")
	}))
	if got, _ := d.Resolve(extraction.RuntimePodman); got != extraction.RuntimePodman {
		t.Errorf("Resolve(podman) = %q", got)
	}
}

func TestDetector_Available(t *testing.T) {
	d := NewDetector(WithLookPath(fakeLookPath("docker")))
	got := d.Available()
	if len(got) != 1 || got[0] != extraction.RuntimeDocker {
		t.Errorf("Available() = %v, want [docker]", got)
	}
}
