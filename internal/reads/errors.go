package reads

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReadFile marks a read file whose extension is not a
	// recognized raw read format.
	ErrInvalidReadFile = errors.New("reads: invalid read file")

	// ErrMalformedEntry marks a read entry whose shape is neither a single
	// path nor a two-element pair. It signals a malformed request rather
	// than bad sequencing data.
	ErrMalformedEntry = errors.New("reads: malformed read entry")
)

// InvalidReadFileError reports the offending path of an ErrInvalidReadFile.
type InvalidReadFileError struct {
	Path string
	Ext  string
}

func (e *InvalidReadFileError) Error() string {
	return fmt.Sprintf("reads: %s: extension %q is not a raw read format", e.Path, e.Ext)
}

func (e *InvalidReadFileError) Is(target error) bool { return target == ErrInvalidReadFile }

// EntryShapeError reports a sequence entry that does not have exactly two
// members.
type EntryShapeError struct {
	Index int
	Len   int
}

func (e *EntryShapeError) Error() string {
	return fmt.Sprintf("reads: entry %d: paired entries need exactly 2 files, got %d", e.Index, e.Len)
}

func (e *EntryShapeError) Is(target error) bool { return target == ErrMalformedEntry }
