package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"

	"audio-extractor/domain/extraction"
	"audio-extractor/infrastructure/container"
	"audio-extractor/infrastructure/logging"
)

// ContainerExtractor implements extraction.AudioExtractor by running ffmpeg
// inside a throwaway container. The image's entrypoint must be ffmpeg.
type ContainerExtractor struct {
	runtime extraction.Runtime
	image   string
	style   container.PathStyle
	runner  CommandRunner
	logger  *slog.Logger
	newName func() string
}

// ContainerOption is a functional option for configuring ContainerExtractor
type ContainerOption func(*ContainerExtractor)

// WithContainerCommandRunner sets a custom command runner (for testing)
func WithContainerCommandRunner(runner CommandRunner) ContainerOption {
	return func(e *ContainerExtractor) {
		e.runner = runner
	}
}

// WithPathStyle overrides the host path style used for mount translation
func WithPathStyle(style container.PathStyle) ContainerOption {
	return func(e *ContainerExtractor) {
		e.style = style
	}
}

// WithContainerLogger sets the logger
func WithContainerLogger(logger *slog.Logger) ContainerOption {
	return func(e *ContainerExtractor) {
		e.logger = logger
	}
}

// WithContainerNamer sets the function generating container names (for testing)
func WithContainerNamer(fn func() string) ContainerOption {
	return func(e *ContainerExtractor) {
		e.newName = fn
	}
}

// NewContainerExtractor creates an extractor for the given runtime and image
func NewContainerExtractor(runtime extraction.Runtime, image string, opts ...ContainerOption) *ContainerExtractor {
	if image == "" {
		image = extraction.DefaultImage
	}
	e := &ContainerExtractor{
		runtime: runtime,
		image:   image,
		style:   container.HostStyle(),
		runner:  &ExecCommandRunner{},
		logger:  logging.Logger,
		newName: func() string { return "audio-extract-" + uuid.NewString() },
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Plan returns the mount plan for the validated paths
func (e *ContainerExtractor) Plan(paths extraction.ValidatedPaths) extraction.MountPlan {
	return container.Translate(paths.InputPath, paths.OutputPath, e.style)
}

// Args returns the full runtime arguments for a request
func (e *ContainerExtractor) Args(req *extraction.Request, plan extraction.MountPlan, name string) []string {
	args := []string{"run", "--rm", "--name", name}
	args = append(args, container.ToDockerArgs(container.Mounts(plan))...)
	args = append(args, e.image)
	return append(args, transcodeArgs(req, plan.InputPath, plan.OutputPath)...)
}

// Extract implements extraction.AudioExtractor
func (e *ContainerExtractor) Extract(ctx context.Context, req *extraction.Request, paths extraction.ValidatedPaths) error {
	plan := e.Plan(paths)
	name := e.newName()
	args := e.Args(req, plan, name)
	bin := string(e.runtime)
	tool := displayName(bin) + " FFmpeg"

	e.logger.Debug("running command",
		"command", shellquote.Join(append([]string{bin}, args...)...),
		"input_mount", plan.InputDir,
		"output_mount", plan.OutputDir,
	)

	err := e.runner.Run(ctx, bin, args...)
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		e.removeContainer(name)
		return classify(ctx, err, tool)
	}

	if isNotFound(err) {
		return extraction.RuntimeUnavailable(fmt.Sprintf(
			"%s not found. Please install %s or disable container mode", displayName(bin), bin), err)
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && isSocketDenied(exitErr.Stderr) {
		return extraction.PermissionDenied(fmt.Sprintf("%s cannot reach its daemon: %s", displayName(bin), exitErr.Stderr), nil)
	}

	return classify(ctx, err, tool)
}

// removeContainer force-removes a container that may outlive its killed client.
// Docker keeps running containers whose CLI process died, so this is always attempted.
func (e *ContainerExtractor) removeContainer(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.runner.Run(ctx, string(e.runtime), "rm", "-f", name); err != nil {
		e.logger.Warn("failed to remove container", "container", name, "error", err)
		return
	}
	e.logger.Debug("removed container", "container", name)
}

// VerifyInstalled checks that the runtime can start the image
func (e *ContainerExtractor) VerifyInstalled(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	bin := string(e.runtime)
	if _, err := e.runner.Output(ctx, bin, "run", "--rm", e.image, "-version"); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s FFmpeg verification timed out: %w", displayName(bin), err)
		}
		if isNotFound(err) {
			return extraction.RuntimeUnavailable(fmt.Sprintf("%s not found. Please install %s or disable container mode", displayName(bin), bin), err)
		}
		return fmt.Errorf("%s FFmpeg not available: %w", displayName(bin), err)
	}
	e.logger.Info("container FFmpeg verified", "runtime", bin, "image", e.image)
	return nil
}

// Ensure ContainerExtractor implements extraction.AudioExtractor
var _ extraction.AudioExtractor = (*ContainerExtractor)(nil)
