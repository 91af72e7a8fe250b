package container

import (
	"fmt"

	"audio-extractor/domain/extraction"
)

// Mount is a host directory bound into the container
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// Mounts returns the input (read-only) and output (read-write) mounts for a plan
func Mounts(plan extraction.MountPlan) []Mount {
	return []Mount{
		{Source: plan.InputDir, Target: extraction.ContainerInputDir, ReadOnly: true},
		{Source: plan.OutputDir, Target: extraction.ContainerOutputDir},
	}
}

// ToDockerArgs converts mounts to Docker/Podman command line arguments
func ToDockerArgs(mounts []Mount) []string {
	var args []string
	for _, m := range mounts {
		mountStr := fmt.Sprintf("%s:%s", m.Source, m.Target)
		if m.ReadOnly {
			mountStr += ":ro"
		}
		args = append(args, "-v", mountStr)
	}
	return args
}
