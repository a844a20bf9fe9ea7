package cos

import "os"

// Configuration carries the knobs a caller may want over Parse, mirrored
// from the teacher's reader/file.Configuration.
type Configuration struct {
	// ScratchDir is the directory under which the scratch file (§4.3) is
	// created. Empty means os.TempDir().
	ScratchDir string

	// Lenient, when true (the default), downgrades a failure while
	// dereferencing object streams (§4.4) to a logged warning instead of
	// aborting the parse. The file-format tolerances of §6 (missing
	// endobj, trailing bytes after %%EOF, multi-trailer merge, trailer
	// synthesis, ignored xref contents) are unconditional per spec and
	// are not gated by this flag.
	Lenient bool

	// DecodeObjectStreams enables object-stream dereferencing (§4.4) once
	// the main parse completes. Defaults to true; encrypted documents
	// always skip this step regardless, per §4.4.
	DecodeObjectStreams bool
}

// NewDefaultConfiguration returns the lenient, fully-featured defaults.
func NewDefaultConfiguration() *Configuration {
	return &Configuration{
		ScratchDir:          os.TempDir(),
		Lenient:             true,
		DecodeObjectStreams: true,
	}
}
