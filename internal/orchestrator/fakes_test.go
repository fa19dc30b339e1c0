package orchestrator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dusk-indust/readalign/internal/bwa"
)

// fakeProber is a test double for bwa.IndexProber.
type fakeProber struct {
	ready bool
	calls []string
}

func (f *fakeProber) Ready(_ context.Context, reference string) bool {
	f.calls = append(f.calls, reference)
	return f.ready
}

// fakeAligner is a test double for bwa.Aligner. On a zero exit code it
// writes a small artifact to the requested output.
type fakeAligner struct {
	code  int
	err   error
	calls []bwa.MemRequest
}

func (f *fakeAligner) Run(_ context.Context, req bwa.MemRequest) (int, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return 0, f.err
	}
	if f.code == 0 {
		if err := os.MkdirAll(filepath.Dir(req.Output), 0o755); err != nil {
			return 0, err
		}
		if err := os.WriteFile(req.Output, []byte("BAM\x01"), 0o644); err != nil {
			return 0, err
		}
	}
	return f.code, nil
}
