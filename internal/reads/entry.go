// Package reads classifies raw sequencing read files and merges them into the
// three canonical aligner inputs: forward mates, reverse mates and unpaired
// reads.
package reads

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind distinguishes the two shapes a read entry can take.
type Kind int

const (
	// KindSingle is one unpaired read file.
	KindSingle Kind = iota
	// KindPair is mate 1 and mate 2 of a paired-end fragment.
	KindPair
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindPair:
		return "pair"
	default:
		return "unknown"
	}
}

// Entry is one validated item of a read list. Construct it with Single, Pair
// or ParseEntry; the zero value is not a valid entry.
type Entry struct {
	kind  Kind
	paths [2]string
}

// Single returns an unpaired read entry.
func Single(path string) Entry {
	return Entry{kind: KindSingle, paths: [2]string{path}}
}

// Pair returns a paired-end entry. mate1 feeds the forward group and mate2
// the reverse group.
func Pair(mate1, mate2 string) Entry {
	return Entry{kind: KindPair, paths: [2]string{mate1, mate2}}
}

// Kind reports the shape of the entry.
func (e Entry) Kind() Kind { return e.kind }

// Path returns the file of a single entry, or mate 1 of a pair.
func (e Entry) Path() string { return e.paths[0] }

// Mate returns mate 2 of a pair and "" for a single entry.
func (e Entry) Mate() string {
	if e.kind != KindPair {
		return ""
	}
	return e.paths[1]
}

// Paths returns every file named by the entry in input order.
func (e Entry) Paths() []string {
	if e.kind == KindPair {
		return []string{e.paths[0], e.paths[1]}
	}
	return []string{e.paths[0]}
}

func (e Entry) String() string {
	if e.kind == KindPair {
		return fmt.Sprintf("(%s, %s)", e.paths[0], e.paths[1])
	}
	return e.paths[0]
}

// Extensions lists the lowercase file extensions accepted as raw short reads.
var Extensions = []string{".fastq"}

// Validate checks every path of the entry against Extensions and returns an
// *InvalidReadFileError for the first one that does not match.
func (e Entry) Validate() error {
	for _, p := range e.Paths() {
		if !acceptedExt(p) {
			return &InvalidReadFileError{Path: p, Ext: strings.ToLower(filepath.Ext(p))}
		}
	}
	return nil
}

func acceptedExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// ParseEntry converts a loosely typed value, as decoded from JSON or YAML,
// into an Entry. A string is a single read; a sequence of exactly two
// strings is a pair. Any other sequence length yields an *EntryShapeError.
// The extension is not checked here; see Validate.
func ParseEntry(index int, v any) (Entry, error) {
	switch t := v.(type) {
	case string:
		return Single(t), nil
	case Entry:
		return t, nil
	case []string:
		if len(t) != 2 {
			return Entry{}, &EntryShapeError{Index: index, Len: len(t)}
		}
		return Pair(t[0], t[1]), nil
	case []any:
		if len(t) != 2 {
			return Entry{}, &EntryShapeError{Index: index, Len: len(t)}
		}
		mate1, ok1 := t[0].(string)
		mate2, ok2 := t[1].(string)
		if !ok1 || !ok2 {
			return Entry{}, fmt.Errorf("reads: entry %d: pair members must be paths, got %T and %T: %w",
				index, t[0], t[1], ErrMalformedEntry)
		}
		return Pair(mate1, mate2), nil
	default:
		return Entry{}, fmt.Errorf("reads: entry %d: unsupported value of type %T: %w", index, v, ErrMalformedEntry)
	}
}
