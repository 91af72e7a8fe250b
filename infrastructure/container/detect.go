package container

import (
	"log/slog"
	"os/exec"

	"audio-extractor/domain/extraction"
	"audio-extractor/infrastructure/logging"
)

// Preference is the probe order used for auto-detection
var Preference = []extraction.Runtime{extraction.RuntimePodman, extraction.RuntimeDocker}

// Detector resolves a runtime selector to a concrete runtime
type Detector struct {
	lookPath func(string) (string, error)
	logger   *slog.Logger
}

// DetectorOption is a functional option for configuring Detector
type DetectorOption func(*Detector)

// WithLookPath replaces exec.LookPath (for testing)
func WithLookPath(fn func(string) (string, error)) DetectorOption {
	return func(d *Detector) {
		d.lookPath = fn
	}
}

// WithDetectorLogger sets the logger
func WithDetectorLogger(logger *slog.Logger) DetectorOption {
	return func(d *Detector) {
		d.logger = logger
	}
}

// NewDetector creates a new runtime detector
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		lookPath: exec.LookPath,
		logger:   logging.Logger,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Resolve returns the runtime to use for selector and whether it was found.
// Explicit names are returned unchanged without probing. For auto, the first
// runtime in Preference found on PATH wins; when none is found the first
// preference is returned with found=false and a warning is logged, so the
// failure surfaces as RuntimeUnavailable when extraction is attempted.
func (d *Detector) Resolve(selector extraction.Runtime) (extraction.Runtime, bool) {
	if selector != extraction.RuntimeAuto && selector != "" {
		return selector, true
	}

	for _, rt := range Preference {
		if path, err := d.lookPath(string(rt)); err == nil {
			d.logger.Info("detected container runtime", "runtime", rt, "path", path)
			return rt, true
		}
		d.logger.Debug("container runtime not found", "runtime", rt)
	}

	fallback := Preference[0]
	d.logger.Warn("no container runtime detected", "tried", Preference, "fallback", fallback)
	return fallback, false
}

// Available returns the runtimes from Preference that are on PATH
func (d *Detector) Available() []extraction.Runtime {
	var available []extraction.Runtime
	for _, rt := range Preference {
		if _, err := d.lookPath(string(rt)); err == nil {
			available = append(available, rt)
		}
	}
	return available
}
