package orchestrator

import (
	"fmt"
	"sync"
)

// progressBuffer is how many events a slow subscriber may fall behind
// before further events are dropped.
const progressBuffer = 64

// ProgressReporter hands stage events to a single subscriber. Emit never
// blocks, and once Close has been called it is a no-op, so handlers still
// running after shutdown cannot crash the process.
type ProgressReporter struct {
	mu      sync.Mutex
	ch      chan ProgressEvent
	closed  bool
	dropped int
}

// NewProgressReporter creates an open ProgressReporter.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{ch: make(chan ProgressEvent, progressBuffer)}
}

// Emit queues event and reports whether it was delivered. Events are
// dropped when the buffer is full or the reporter is closed.
func (pr *ProgressReporter) Emit(event ProgressEvent) bool {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.closed {
		return false
	}
	select {
	case pr.ch <- event:
		return true
	default:
		pr.dropped++
		return false
	}
}

// Dropped returns the number of events lost to a full buffer.
func (pr *ProgressReporter) Dropped() int {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.dropped
}

// Subscribe returns the event channel. It is closed by Close.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close stops delivery and closes the channel. Calling it again has no
// effect.
func (pr *ProgressReporter) Close() {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.closed {
		return
	}
	pr.closed = true
	close(pr.ch)
}

// FormatProgress renders an event as one status line, for example
// "index ref.fna: ready" or "map   out/bwa.bam: failed (exit status 3)".
func FormatProgress(event ProgressEvent) string {
	return fmt.Sprintf("%-5s %s: %s", event.Stage, event.Section, progressState(event))
}

func progressState(event ProgressEvent) string {
	switch event.Status {
	case ProgressPending:
		return "queued"
	case ProgressWorking:
		if event.Stage == StageIndex {
			return "checking index"
		}
		return "aligning"
	case ProgressComplete:
		if event.Stage == StageIndex {
			return "ready"
		}
		return "written"
	case ProgressFailed:
		if event.Message == "" {
			return "failed"
		}
		return "failed (" + event.Message + ")"
	default:
		return string(event.Status)
	}
}
