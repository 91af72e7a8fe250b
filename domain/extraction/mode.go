package extraction

import "fmt"

// Runtime identifies a container runtime CLI
type Runtime string

const (
	RuntimePodman Runtime = "podman"
	RuntimeDocker Runtime = "docker"
	RuntimeAuto   Runtime = "auto"
)

// DefaultImage is an FFmpeg image whose entrypoint is ffmpeg
const DefaultImage = "docker.io/linuxserver/ffmpeg:latest"

// ParseRuntime normalizes a runtime selector. Empty means auto.
// Unknown names are passed through; they fail later when executed.
func ParseRuntime(s string) Runtime {
	if s == "" {
		return RuntimeAuto
	}
	return Runtime(s)
}

// ExecutionMode selects how ffmpeg runs: on the host or inside a container.
// The zero value is Local. Values are immutable; build them with LocalMode or ContainerMode.
type ExecutionMode struct {
	containerized bool
	runtime       Runtime
	image         string
}

// LocalMode runs the host's ffmpeg
func LocalMode() ExecutionMode {
	return ExecutionMode{}
}

// ContainerMode runs ffmpeg inside image using the given runtime
func ContainerMode(runtime Runtime, image string) ExecutionMode {
	if image == "" {
		image = DefaultImage
	}
	return ExecutionMode{containerized: true, runtime: runtime, image: image}
}

// IsContainerized returns true for the containerized variant
func (m ExecutionMode) IsContainerized() bool {
	return m.containerized
}

// Runtime returns the container runtime, empty for Local
func (m ExecutionMode) Runtime() Runtime {
	return m.runtime
}

// Image returns the container image, empty for Local
func (m ExecutionMode) Image() string {
	return m.image
}

func (m ExecutionMode) String() string {
	if !m.containerized {
		return "local"
	}
	return fmt.Sprintf("container(%s, %s)", m.runtime, m.image)
}
