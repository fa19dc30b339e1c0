package orchestrator

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/dusk-indust/readalign/internal/bwa"
)

// Orchestrator runs the two-stage index-then-map protocol against injected
// collaborators. It holds no per-run state; calls targeting the same output
// file must be serialized by the caller.
type Orchestrator struct {
	cfg      Config
	prober   bwa.IndexProber
	aligner  bwa.Aligner
	progress *ProgressReporter
}

// New creates an Orchestrator with the given collaborators.
func New(cfg Config, prober bwa.IndexProber, aligner bwa.Aligner) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		prober:   prober,
		aligner:  aligner,
		progress: NewProgressReporter(),
	}
}

// NewWithBWA creates an Orchestrator backed by the bwa and samtools
// executables named in cfg.
func NewWithBWA(cfg Config) *Orchestrator {
	prober := &bwa.Indexer{BwaPath: cfg.BwaPath, Build: cfg.BuildIndex}
	aligner := &bwa.MemAligner{
		BwaPath:       cfg.BwaPath,
		SamtoolsPath:  cfg.SamtoolsPath,
		Threads:       cfg.Threads,
		MarkSecondary: cfg.MarkSecondary,
		ReadGroup:     cfg.ReadGroup,
	}
	return New(cfg, prober, aligner)
}

// Config returns the configuration the orchestrator was created with.
func (o *Orchestrator) Config() Config { return o.cfg }

// Progress returns a channel that emits progress events.
func (o *Orchestrator) Progress() <-chan ProgressEvent {
	return o.progress.Subscribe()
}

// Close shuts down the progress reporter.
func (o *Orchestrator) Close() {
	o.progress.Close()
}

// AlignMem maps req.Forward, and req.Mate when present, against
// req.Reference.
//
// An unready reference fails with ErrInvalidReference before the aligner is
// started. Once the aligner has run, its status is returned in Result
// unchanged and the error is nil, whether the run succeeded or not.
func (o *Orchestrator) AlignMem(ctx context.Context, req Request) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{}, err
	}
	output := o.resolveOutput(req.Output)

	o.emit(StageIndex, req.Reference, ProgressWorking, "")
	if !o.prober.Ready(ctx, req.Reference) {
		o.emit(StageIndex, req.Reference, ProgressFailed, "no usable index")
		return Result{}, fmt.Errorf("%w: %s has no usable index", ErrInvalidReference, req.Reference)
	}
	o.emit(StageIndex, req.Reference, ProgressComplete, "")

	o.emit(StageMap, output, ProgressWorking, "")
	log.Printf("orchestrator: stage=%s reads=%s mate=%s reference=%s output=%s",
		StageMap, req.Forward, req.Mate, req.Reference, output)
	code, err := o.aligner.Run(ctx, bwa.MemRequest{
		Reads:     req.Forward,
		Mate:      req.Mate,
		Reference: req.Reference,
		Output:    output,
	})
	if err != nil {
		o.emit(StageMap, output, ProgressFailed, err.Error())
		return Result{}, fmt.Errorf("orchestrator: stage %s: %w", StageMap, err)
	}

	result := Result{Output: output, ExitCode: code, Paired: req.Paired()}
	if result.Failed() {
		log.Printf("orchestrator: aligner exited with status %d", code)
		o.emit(StageMap, output, ProgressFailed, fmt.Sprintf("exit status %d", code))
		return result, nil
	}
	o.emit(StageMap, output, ProgressComplete, "")
	return result, nil
}

// resolveOutput applies the default file name and anchors relative paths
// at the configured working directory.
func (o *Orchestrator) resolveOutput(output string) string {
	if output == "" {
		output = o.cfg.defaultOutput()
	}
	if o.cfg.WorkDir != "" && !filepath.IsAbs(output) {
		output = filepath.Join(o.cfg.WorkDir, output)
	}
	return output
}

func (o *Orchestrator) emit(stage Stage, section string, status ProgressStatus, msg string) {
	o.progress.Emit(ProgressEvent{
		Stage:   stage,
		Section: section,
		Status:  status,
		Message: msg,
	})
}
