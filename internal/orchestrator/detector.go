package orchestrator

import (
	"context"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// ToolLevel is how much of the index-then-map protocol the local
// toolchain can run.
type ToolLevel int

const (
	// ToolsMissing means bwa is not available.
	ToolsMissing ToolLevel = iota
	// ToolsIndexOnly means bwa is available but samtools is not.
	ToolsIndexOnly
	// ToolsFull means both stages can run.
	ToolsFull
)

func (l ToolLevel) String() string {
	switch l {
	case ToolsMissing:
		return "missing"
	case ToolsIndexOnly:
		return "index-only"
	case ToolsFull:
		return "full"
	default:
		return "unknown"
	}
}

// Detector probes the local environment for the aligner executables.
type Detector interface {
	// Detect returns the available tool level and the names of the
	// executables that could not be found.
	Detect(ctx context.Context) (ToolLevel, []string, error)
}

// Compile-time check.
var _ Detector = (*ToolDetector)(nil)

// ToolDetector resolves the bwa and samtools paths of a Config.
type ToolDetector struct {
	tools    map[string]string // name -> configured path
	lookPath func(string) (string, error)
}

// NewToolDetector creates a ToolDetector for the executables named in cfg.
func NewToolDetector(cfg Config) *ToolDetector {
	return &ToolDetector{
		tools: map[string]string{
			"bwa":      cfg.BwaPath,
			"samtools": cfg.SamtoolsPath,
		},
		lookPath: exec.LookPath,
	}
}

// Detect probes every executable concurrently.
func (d *ToolDetector) Detect(ctx context.Context) (ToolLevel, []string, error) {
	var (
		mu    sync.Mutex
		found = make(map[string]bool, len(d.tools))
		wg    sync.WaitGroup
	)

	for name, path := range d.tools {
		wg.Add(1)
		go func(name, path string) {
			defer wg.Done()
			ok := d.probe(name, path)
			mu.Lock()
			found[name] = ok
			mu.Unlock()
		}(name, path)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return ToolsMissing, nil, err
	}

	var missing []string
	for _, name := range []string{"bwa", "samtools"} {
		if !found[name] {
			missing = append(missing, name)
		}
	}

	var level ToolLevel
	switch {
	case found["bwa"] && found["samtools"]:
		level = ToolsFull
	case found["bwa"]:
		level = ToolsIndexOnly
	default:
		level = ToolsMissing
	}

	log.Printf("detector: level=%s missing=%v", level, missing)
	return level, missing, nil
}

// probe reports whether path (or name, when path is empty) resolves to
// an executable. Paths containing a separator are checked directly.
func (d *ToolDetector) probe(name, path string) bool {
	if path == "" {
		path = name
	}
	if !strings.ContainsRune(path, os.PathSeparator) {
		_, err := d.lookPath(path)
		return err == nil
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
