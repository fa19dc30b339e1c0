//go:build e2e

package e2e

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/readalign/internal/orchestrator"
)

// copyReference places the fixture reference in dir so bwa index writes
// its files next to the copy.
func copyReference(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(fixture("ref.fna"))
	require.NoError(t, err)
	ref := filepath.Join(dir, "ref.fna")
	require.NoError(t, os.WriteFile(ref, data, 0o644))
	return ref
}

// TestPipeline_E2E runs compile, index and map with the real bwa and
// samtools executables.
func TestPipeline_E2E(t *testing.T) {
	cfg := orchestrator.DefaultConfig()
	cfg.BuildIndex = true

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	level, missing, err := orchestrator.NewToolDetector(cfg).Detect(ctx)
	require.NoError(t, err)
	if level != orchestrator.ToolsFull {
		t.Skipf("toolchain %s, missing %v", level, missing)
	}

	outputDir := t.TempDir()
	ref := copyReference(t, t.TempDir())

	orch := orchestrator.NewWithBWA(cfg)
	progressCh := orch.Progress()
	drainDone := make(chan struct{})
	go func() {
		defer close(drainDone)
		for range progressCh {
		}
	}()

	report, err := orchestrator.NewPipeline(orch).Run(ctx, orchestrator.RunRequest{
		Reads:     fixtureEntries(),
		OutputDir: outputDir,
		Reference: ref,
	})
	require.NoError(t, err)

	orch.Close()
	<-drainDone

	assert.NotEmpty(t, report.ID)
	require.Len(t, report.Results, 2, "paired and non-paired reads map separately")
	assert.False(t, report.Failed())

	paired := report.Results[0]
	assert.True(t, paired.Paired)
	assert.Equal(t, filepath.Join(outputDir, orchestrator.DefaultOutput), paired.Output)

	unpaired := report.Results[1]
	assert.False(t, unpaired.Paired)
	assert.Equal(t, orchestrator.UnpairedOutput(paired.Output), unpaired.Output)

	for _, res := range report.Results {
		info, err := os.Stat(res.Output)
		require.NoError(t, err, "artifact %s should exist", res.Output)
		assert.Greater(t, info.Size(), int64(0), "artifact %s should not be empty", res.Output)
	}
}

// TestPipeline_E2E_UnindexedReference checks that a reference without an
// index fails before mapping when index building is off.
func TestPipeline_E2E_UnindexedReference(t *testing.T) {
	cfg := orchestrator.DefaultConfig()
	ctx := context.Background()

	level, _, err := orchestrator.NewToolDetector(cfg).Detect(ctx)
	require.NoError(t, err)
	if level == orchestrator.ToolsMissing {
		t.Skip("bwa not on PATH")
	}

	orch := orchestrator.NewWithBWA(cfg)
	defer orch.Close()
	go func() {
		for range orch.Progress() {
		}
	}()

	output := filepath.Join(t.TempDir(), "out.bam")
	_, err = orch.AlignMem(ctx, orchestrator.Request{
		Forward:   fixture("lane1.fastq"),
		Reference: copyReference(t, t.TempDir()),
		Output:    output,
	})
	assert.ErrorIs(t, err, orchestrator.ErrInvalidReference)
	assert.NoFileExists(t, output)
}
