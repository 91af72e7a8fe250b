package container

import (
	"path"
	"runtime"
	"strings"

	"audio-extractor/domain/extraction"
)

// PathStyle is the host path convention
type PathStyle int

const (
	// StylePOSIX is forward-slash paths, passed to the runtime unchanged
	StylePOSIX PathStyle = iota
	// StyleWindows is back-slash paths with drive letters or UNC prefixes
	StyleWindows
)

// HostStyle returns the path style of the running OS
func HostStyle() PathStyle {
	return StyleFor(runtime.GOOS)
}

// StyleFor returns the path style for a GOOS value
func StyleFor(goos string) PathStyle {
	if goos == "windows" {
		return StyleWindows
	}
	return StylePOSIX
}

// HostMountPath converts an absolute host directory into the source string of a volume mount
func HostMountPath(dir string, style PathStyle) string {
	if style != StyleWindows {
		return dir
	}

	if hasDriveLetter(dir) {
		drive := strings.ToLower(dir[:1])
		return "/" + drive + strings.ReplaceAll(dir[2:], `\`, "/")
	}

	// UNC (\\server\share) and anything else: separators only
	return strings.ReplaceAll(dir, `\`, "/")
}

// Translate builds the mount plan for an input and output file. Mounts are per
// directory; files are addressed by basename inside /input and /output.
func Translate(inputFile, outputFile string, style PathStyle) extraction.MountPlan {
	inDir, inBase := split(inputFile, style)
	outDir, outBase := split(outputFile, style)

	return extraction.MountPlan{
		InputDir:   HostMountPath(inDir, style),
		OutputDir:  HostMountPath(outDir, style),
		InputPath:  path.Join(extraction.ContainerInputDir, inBase),
		OutputPath: path.Join(extraction.ContainerOutputDir, outBase),
	}
}

func hasDriveLetter(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// split returns the parent directory and base name of p using the separator
// rules of style, independent of the OS the code runs on.
func split(p string, style PathStyle) (dir, base string) {
	if style != StyleWindows {
		return path.Dir(p), path.Base(p)
	}

	i := strings.LastIndexAny(p, `\/`)
	if i < 0 {
		if hasDriveLetter(p) {
			return p[:2], p[2:]
		}
		return ".", p
	}

	dir, base = p[:i], p[i+1:]
	switch {
	case len(dir) == 2 && hasDriveLetter(dir):
		// C:\file.mp4 lives in the drive root
		dir += `\`
	case dir == "":
		dir = p[:1]
	}
	return dir, base
}
