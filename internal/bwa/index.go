package bwa

import (
	"context"
	"io"
	"log"
	"os"
)

// IndexSuffixes are the files bwa index writes next to the reference.
var IndexSuffixes = []string{".amb", ".ann", ".bwt", ".pac", ".sa"}

// IndexProber reports whether a reference carries a usable bwa index. The
// answer is authoritative: callers do not inspect the index themselves.
type IndexProber interface {
	Ready(ctx context.Context, reference string) bool
}

// Compile-time interface check.
var _ IndexProber = (*Indexer)(nil)

// Indexer checks for the bwa index of a reference and, when Build is set,
// runs `bwa index` to create a missing or stale one.
type Indexer struct {
	BwaPath string
	Build   bool

	// Stderr receives the diagnostic output of bwa index. Nil discards it.
	Stderr io.Writer
}

// Ready reports whether every index file of reference exists and is not
// older than the reference itself.
func (ix *Indexer) Ready(ctx context.Context, reference string) bool {
	ref, err := os.Stat(reference)
	if err != nil || ref.IsDir() {
		log.Printf("bwa: reference %s is not readable: %v", reference, err)
		return false
	}
	if indexed(reference, ref) {
		return true
	}
	if !ix.Build {
		return false
	}

	cmd, err := Index{Cmd: ix.BwaPath, Reference: reference}.BuildCommand()
	if err != nil {
		return false
	}
	cmd = withContext(ctx, cmd)
	cmd.Stderr = ix.Stderr
	log.Printf("bwa: indexing %s", reference)
	if err := cmd.Run(); err != nil {
		log.Printf("bwa: index %s failed: %v", reference, err)
		return false
	}
	return indexed(reference, ref)
}

func indexed(reference string, ref os.FileInfo) bool {
	for _, suffix := range IndexSuffixes {
		info, err := os.Stat(reference + suffix)
		if err != nil || info.ModTime().Before(ref.ModTime()) {
			return false
		}
	}
	return true
}
