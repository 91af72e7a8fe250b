package extraction

// ValidatedPaths is derived from a Request once its files have been checked
type ValidatedPaths struct {
	InputPath      string // absolute
	OutputPath     string // absolute
	OutputDir      string // parent of OutputPath, created if it was missing
	InputSizeBytes int64
	Advisories     []string
}

// InputSizeMB returns the input size in megabytes
func (p ValidatedPaths) InputSizeMB() float64 {
	return BytesToMB(p.InputSizeBytes)
}

// In-container mount points
const (
	ContainerInputDir  = "/input"
	ContainerOutputDir = "/output"
)

// MountPlan maps the request's host directories into the container namespace.
// It is recomputed for every call since directories differ between requests.
type MountPlan struct {
	InputDir   string // host directory mounted read-only at /input
	OutputDir  string // host directory mounted read-write at /output
	InputPath  string // /input/<basename>
	OutputPath string // /output/<basename>
}
