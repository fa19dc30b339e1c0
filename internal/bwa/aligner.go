package bwa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
)

// MemRequest names the inputs and output of one mapping run. Mate is empty
// for single-end mapping.
type MemRequest struct {
	Reads     string
	Mate      string
	Reference string
	Output    string
}

// Aligner maps reads against an indexed reference and writes one alignment
// artifact. It returns the exit status of the mapping run; a non-zero status
// is a failed run, not an error. The error is reserved for runs that could
// not be started at all.
type Aligner interface {
	Run(ctx context.Context, req MemRequest) (int, error)
}

// Compile-time interface check.
var _ Aligner = (*MemAligner)(nil)

// MemAligner runs `bwa mem` and pipes its SAM output through
// `samtools view -bS` into a BAM file.
type MemAligner struct {
	// BwaPath and SamtoolsPath override the executables found on PATH.
	BwaPath      string
	SamtoolsPath string

	Threads       int
	MarkSecondary bool
	ReadGroup     string

	// Stderr receives the diagnostic output of both processes. Nil discards it.
	Stderr io.Writer
}

// Run executes the mapping pipeline for req. The exit status of bwa wins
// over that of samtools when both fail.
func (a *MemAligner) Run(ctx context.Context, req MemRequest) (int, error) {
	if req.Output == "" {
		return 0, ErrMissingRequired
	}
	mem, err := Mem{
		Cmd:           a.BwaPath,
		Threads:       a.Threads,
		MarkSecondary: a.MarkSecondary,
		ReadGroup:     a.ReadGroup,
		Reference:     req.Reference,
		Reads:         req.Reads,
		Mate:          req.Mate,
	}.BuildCommand()
	if err != nil {
		return 0, err
	}
	view, err := View{
		Cmd:      a.SamtoolsPath,
		BAM:      true,
		SAMInput: true,
		Output:   req.Output,
	}.BuildCommand()
	if err != nil {
		return 0, err
	}
	mem = withContext(ctx, mem)
	view = withContext(ctx, view)
	mem.Stderr = a.Stderr
	view.Stderr = a.Stderr

	// The pipe ends are owned here: the children hold their own copies
	// once started, and every path out of this block closes ours.
	pr, pw, err := os.Pipe()
	if err != nil {
		return 0, fmt.Errorf("bwa: connect mem to view: %w", err)
	}
	mem.Stdout = pw
	view.Stdin = pr

	log.Printf("bwa: running %v | %v", mem.Args, view.Args)
	if err := view.Start(); err != nil {
		pr.Close()
		pw.Close()
		return 0, fmt.Errorf("bwa: start samtools: %w", err)
	}
	pr.Close()
	if err := mem.Start(); err != nil {
		pw.Close()
		_ = view.Process.Kill()
		_ = view.Wait()
		return 0, fmt.Errorf("bwa: start bwa mem: %w", err)
	}
	pw.Close()

	memCode, memErr := exitCode(mem.Wait())
	viewCode, viewErr := exitCode(view.Wait())
	if memErr != nil {
		return 0, fmt.Errorf("bwa: bwa mem: %w", memErr)
	}
	if viewErr != nil {
		return 0, fmt.Errorf("bwa: samtools view: %w", viewErr)
	}
	if memCode != 0 {
		return memCode, nil
	}
	return viewCode, nil
}

// withContext rebuilds cmd so that it is killed when ctx is done.
func withContext(ctx context.Context, cmd *exec.Cmd) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args[1:]...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	return c
}

// exitCode converts the result of Wait into an exit status. Only failures
// that are not exit statuses are returned as errors.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code != -1 {
			return code, nil
		}
		// Killed by a signal.
		return -1, nil
	}
	return 0, err
}
