// Package orchestrator drives a short read alignment: it checks that the
// reference is indexed, then runs the aligner, and reports either the
// alignment artifact or the aligner's failure status.
package orchestrator

import (
	"errors"
	"fmt"
)

// Stage identifies a step of an alignment run.
type Stage int

const (
	// StageIndex verifies that the reference carries a usable index.
	StageIndex Stage = iota
	// StageMap runs the aligner and writes the alignment artifact.
	StageMap
)

func (s Stage) String() string {
	names := [...]string{
		"index",
		"map",
	}
	if s >= 0 && int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

var (
	// ErrInvalidReference is returned when the reference has no ready index.
	// The aligner is never started in that case.
	ErrInvalidReference = errors.New("orchestrator: invalid reference")

	// ErrInvalidRequest is returned for an alignment request that names no
	// reads or no reference.
	ErrInvalidRequest = errors.New("orchestrator: invalid alignment request")
)

// Request describes one mapping run. Mate is empty for single-end mapping;
// Output is empty to use the configured default file name.
type Request struct {
	Forward   string `json:"forward"`
	Mate      string `json:"mate,omitempty"`
	Reference string `json:"reference"`
	Output    string `json:"output,omitempty"`
}

// Paired reports whether the request maps mates.
func (r Request) Paired() bool { return r.Mate != "" }

func (r Request) validate() error {
	if r.Forward == "" {
		return fmt.Errorf("%w: forward reads are required", ErrInvalidRequest)
	}
	if r.Reference == "" {
		return fmt.Errorf("%w: reference is required", ErrInvalidRequest)
	}
	return nil
}

// Result is the outcome of a mapping run that was started. ExitCode is the
// aligner's own status, passed through unchanged; Output is the artifact
// path, which may be missing or partial when the run failed.
type Result struct {
	Output   string `json:"output"`
	ExitCode int    `json:"exitCode"`
	Paired   bool   `json:"paired"`
}

// Failed reports whether the aligner signalled failure.
func (r Result) Failed() bool { return r.ExitCode != 0 }

// ProgressEvent is emitted as a run moves through its stages.
type ProgressEvent struct {
	Stage   Stage
	Section string
	Status  ProgressStatus
	Message string
}

// ProgressStatus is the state of a stage.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)
