package extraction

import "context"

// AudioExtractor runs one transcode strategy against validated paths.
// This is a port implemented by the ffmpeg adapters (local and containerized).
type AudioExtractor interface {
	Extract(ctx context.Context, req *Request, paths ValidatedPaths) error
}

// PathValidator checks the request's files before anything is executed
type PathValidator interface {
	Validate(inputPath, outputPath string) (ValidatedPaths, error)
}

// OutputVerifier confirms the artifact after execution
type OutputVerifier interface {
	Verify(outputPath string) error
}
