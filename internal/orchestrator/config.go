package orchestrator

// DefaultOutput is the file name of the alignment artifact when a request
// does not name one.
const DefaultOutput = "bwa.bam"

// Config holds runtime configuration for alignment runs.
type Config struct {
	// DefaultOutput is the artifact file name used when a request has no
	// explicit output.
	DefaultOutput string

	// WorkDir anchors relative output paths. Empty means the process working
	// directory.
	WorkDir string

	// BwaPath and SamtoolsPath override the executables found on PATH,
	// typically <prefix>/bin/bwa after an install.
	BwaPath      string
	SamtoolsPath string

	// Threads is passed to bwa mem -t. Zero leaves the bwa default.
	Threads int

	// ReadGroup is passed to bwa mem -R.
	ReadGroup string

	// MarkSecondary sets bwa mem -M.
	MarkSecondary bool

	// BuildIndex lets the index stage run bwa index on an unindexed
	// reference instead of failing.
	BuildIndex bool
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		DefaultOutput: DefaultOutput,
	}
}

func (c Config) defaultOutput() string {
	if c.DefaultOutput == "" {
		return DefaultOutput
	}
	return c.DefaultOutput
}
