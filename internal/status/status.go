package status

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dusk-indust/readalign/internal/reads"
)

// FileInfo describes one expected file of an output directory.
type FileInfo struct {
	Label   string // "F", "R", "NP" or the artifact file name
	Path    string // joined with the output directory
	Present bool
	Size    int64
}

// OutputStatus holds the state of one output directory.
type OutputStatus struct {
	Dir       string
	Reads     []FileInfo
	Artifacts []FileInfo
}

// Compiled reports whether any merged read file exists.
func (s OutputStatus) Compiled() bool {
	for _, f := range s.Reads {
		if f.Present {
			return true
		}
	}
	return false
}

// Aligned reports whether a non-empty alignment artifact exists.
func (s OutputStatus) Aligned() bool {
	for _, f := range s.Artifacts {
		if f.Present && f.Size > 0 {
			return true
		}
	}
	return false
}

// Paired reports whether both mate files exist.
func (s OutputStatus) Paired() bool {
	return len(s.Reads) == 3 && s.Reads[0].Present && s.Reads[1].Present
}

var readLabels = [3]struct{ label, file string }{
	{"F", reads.ForwardFile},
	{"R", reads.ReverseFile},
	{"NP", reads.NonPairedFile},
}

// Inspect reports the merged reads and BAM artifacts found in dir.
func Inspect(dir string) OutputStatus {
	st := OutputStatus{Dir: dir}
	for _, rl := range readLabels {
		st.Reads = append(st.Reads, stat(rl.label, filepath.Join(dir, rl.file)))
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*.bam"))
	sort.Strings(matches)
	for _, m := range matches {
		st.Artifacts = append(st.Artifacts, stat(filepath.Base(m), m))
	}
	return st
}

func stat(label, path string) FileInfo {
	fi := FileInfo{Label: label, Path: path}
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		fi.Present = true
		fi.Size = info.Size()
	}
	return fi
}

// List inspects every subdirectory of root that holds merged reads or
// artifacts. Hidden directories are skipped.
func List(root string) []OutputStatus {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var results []OutputStatus
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		st := Inspect(filepath.Join(root, entry.Name()))
		if st.Compiled() || len(st.Artifacts) > 0 {
			results = append(results, st)
		}
	}
	return results
}
