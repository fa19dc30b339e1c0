package reads

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Canonical merged file names inside the output directory.
const (
	ForwardFile   = "F.fq"
	ReverseFile   = "R.fq"
	NonPairedFile = "NP.fq"
)

// ReadSet is the result of a compilation. Each field holds the path of a
// merged file joined with the output directory, or "" when no entry fed that
// group. F is set if and only if R is set.
type ReadSet struct {
	F  string
	R  string
	NP string
}

// readSetJSON is the wire form of ReadSet: absent groups are null.
type readSetJSON struct {
	F  *string `json:"F"`
	R  *string `json:"R"`
	NP *string `json:"NP"`
}

// MarshalJSON encodes absent groups as null.
func (s ReadSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(readSetJSON{F: nullable(s.F), R: nullable(s.R), NP: nullable(s.NP)})
}

// UnmarshalJSON accepts null or a path for each group.
func (s *ReadSet) UnmarshalJSON(data []byte) error {
	var w readSetJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = ReadSet{F: deref(w.F), R: deref(w.R), NP: deref(w.NP)}
	return nil
}

func nullable(path string) *string {
	if path == "" {
		return nil
	}
	return &path
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Paired reports whether the set carries forward and reverse mates.
func (s ReadSet) Paired() bool { return s.F != "" && s.R != "" }

// Unpaired reports whether the set carries non-paired reads.
func (s ReadSet) Unpaired() bool { return s.NP != "" }

// Empty reports whether no group was populated.
func (s ReadSet) Empty() bool { return s.F == "" && s.R == "" && s.NP == "" }

// groups holds the input files of each category in supplied order.
type groups struct {
	forward   []string
	reverse   []string
	nonPaired []string
}

func (g *groups) add(e Entry) {
	switch e.Kind() {
	case KindPair:
		g.forward = append(g.forward, e.Path())
		g.reverse = append(g.reverse, e.Mate())
	default:
		g.nonPaired = append(g.nonPaired, e.Path())
	}
}

// Classify parses and validates raw read descriptors one at a time, so the
// first offending entry determines the error: an *EntryShapeError for a
// sequence that is not a pair, an *InvalidReadFileError for a bad extension.
func Classify(values []any) ([]Entry, error) {
	entries := make([]Entry, 0, len(values))
	for i, v := range values {
		e, err := ParseEntry(i, v)
		if err != nil {
			return nil, err
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// CompileValues classifies raw descriptors and compiles them into outputDir.
func CompileValues(values []any, outputDir string) (ReadSet, error) {
	entries, err := Classify(values)
	if err != nil {
		return ReadSet{}, err
	}
	return Compile(entries, outputDir)
}

// Compile merges the files named by entries into at most three files inside
// outputDir: mate 1 of every pair into F.fq, mate 2 into R.fq and every
// single into NP.fq, each in input order. An empty list returns an empty
// ReadSet without touching the filesystem. Groups without members produce no
// file. Existing merged files are overwritten.
//
// Every entry is validated before the first write, so classification errors
// never leave merged files behind. An I/O failure while merging may leave
// earlier groups written.
func Compile(entries []Entry, outputDir string) (ReadSet, error) {
	if len(entries) == 0 {
		return ReadSet{}, nil
	}

	var g groups
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return ReadSet{}, err
		}
		g.add(e)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return ReadSet{}, fmt.Errorf("reads: create output dir %s: %w", outputDir, err)
	}

	var set ReadSet
	targets := []struct {
		srcs []string
		name string
		dst  *string
	}{
		{g.forward, ForwardFile, &set.F},
		{g.reverse, ReverseFile, &set.R},
		{g.nonPaired, NonPairedFile, &set.NP},
	}
	for _, t := range targets {
		if len(t.srcs) == 0 {
			continue
		}
		path := filepath.Join(outputDir, t.name)
		if err := ConcatFiles(path, t.srcs); err != nil {
			return ReadSet{}, err
		}
		log.Printf("reads: merged %d file(s) into %s", len(t.srcs), path)
		*t.dst = path
	}
	return set, nil
}

// ConcatFiles writes the contents of srcs, in order, to dst, replacing any
// existing file. Relative source paths resolve against the working
// directory. A newline is inserted after a source that does not end with
// one so the line count of dst is the sum of the line counts of srcs.
func ConcatFiles(dst string, srcs []string) (err error) {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("reads: create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("reads: close %s: %w", dst, cerr)
		}
	}()

	w := bufio.NewWriter(out)
	for _, src := range srcs {
		if err := appendFile(w, src); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("reads: write %s: %w", dst, err)
	}
	return nil
}

func appendFile(w *bufio.Writer, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("reads: open %s: %w", src, err)
	}
	defer in.Close()

	tw := &tailWriter{w: w}
	if _, err := io.Copy(tw, in); err != nil {
		return fmt.Errorf("reads: copy %s: %w", src, err)
	}
	if tw.n > 0 && tw.last != '\n' {
		return w.WriteByte('\n')
	}
	return nil
}

// tailWriter remembers the last byte written through it.
type tailWriter struct {
	w    io.Writer
	n    int64
	last byte
}

func (t *tailWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if n > 0 {
		t.n += int64(n)
		t.last = p[n-1]
	}
	return n, err
}
