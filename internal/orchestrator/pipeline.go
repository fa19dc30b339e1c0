package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/readalign/internal/reads"
	"github.com/google/uuid"
)

// ErrNoReads is returned by Pipeline.Run when the read list is empty.
var ErrNoReads = errors.New("orchestrator: no reads to align")

// RunRequest is one end-to-end request: compile the reads into OutputDir,
// then map them against Reference.
type RunRequest struct {
	Reads     []reads.Entry
	OutputDir string
	Reference string

	// Output names the artifact of the primary mapping. Empty places the
	// configured default file name inside OutputDir.
	Output string
}

// RunReport describes a finished end-to-end run.
type RunReport struct {
	ID      string        `json:"id"`
	Reads   reads.ReadSet `json:"reads"`
	Results []Result      `json:"results"`
}

// Failed reports whether any mapping run signalled failure.
func (r *RunReport) Failed() bool {
	for _, res := range r.Results {
		if res.Failed() {
			return true
		}
	}
	return false
}

// Pipeline chains read compilation and alignment.
type Pipeline struct {
	orch *Orchestrator
}

// NewPipeline creates a Pipeline that aligns through orch.
func NewPipeline(orch *Orchestrator) *Pipeline {
	return &Pipeline{orch: orch}
}

// Run compiles req.Reads and maps the result. Forward and reverse mates are
// mapped together to the primary output. Non-paired reads are mapped
// single-end, to the primary output when there are no pairs and to a
// sibling "<stem>.unpaired.bam" otherwise. The first mapping that fails
// stops the run; its result is the last one in the report.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) (*RunReport, error) {
	if len(req.Reads) == 0 {
		return nil, ErrNoReads
	}

	set, err := reads.Compile(req.Reads, req.OutputDir)
	if err != nil {
		return nil, err
	}
	report := &RunReport{ID: uuid.NewString(), Reads: set}
	log.Printf("orchestrator: run %s compiled F=%q R=%q NP=%q", report.ID, set.F, set.R, set.NP)

	output := req.Output
	if output == "" {
		output = filepath.Join(req.OutputDir, p.orch.cfg.defaultOutput())
	}

	var requests []Request
	if set.Paired() {
		requests = append(requests, Request{Forward: set.F, Mate: set.R, Reference: req.Reference, Output: output})
	}
	if set.Unpaired() {
		npOutput := output
		if set.Paired() {
			npOutput = UnpairedOutput(output)
		}
		requests = append(requests, Request{Forward: set.NP, Reference: req.Reference, Output: npOutput})
	}

	for _, r := range requests {
		res, err := p.orch.AlignMem(ctx, r)
		if err != nil {
			return report, fmt.Errorf("orchestrator: run %s: %w", report.ID, err)
		}
		report.Results = append(report.Results, res)
		if res.Failed() {
			break
		}
	}
	return report, nil
}

// UnpairedOutput derives the artifact path for non-paired reads from the
// primary artifact path: out/bwa.bam becomes out/bwa.unpaired.bam.
func UnpairedOutput(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + ".unpaired" + ext
}
