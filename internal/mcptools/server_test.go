package mcptools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/dusk-indust/readalign/internal/bwa"
	"github.com/dusk-indust/readalign/internal/orchestrator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct{ ready bool }

func (f fakeProber) Ready(context.Context, string) bool { return f.ready }

type fakeAligner struct {
	code  int
	calls []bwa.MemRequest
}

func (f *fakeAligner) Run(_ context.Context, req bwa.MemRequest) (int, error) {
	f.calls = append(f.calls, req)
	if f.code == 0 {
		if err := os.WriteFile(req.Output, []byte("BAM\x01"), 0o644); err != nil {
			return 0, err
		}
	}
	return f.code, nil
}

// setupServerClient wires an MCP server and client together using in-memory
// transports.
func setupServerClient(t *testing.T, ready bool, aligner *fakeAligner) *mcp.ClientSession {
	t.Helper()

	orch := orchestrator.New(orchestrator.DefaultConfig(), fakeProber{ready: ready}, aligner)
	t.Cleanup(orch.Close)
	server := NewAlignMCPServer(NewAlignService(orch, ""))

	st, ct := mcp.NewInMemoryTransports()
	ctx := context.Background()

	_, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.NotNil(t, result.StructuredContent)
	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestMCPListTools(t *testing.T) {
	session := setupServerClient(t, true, &fakeAligner{})

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	sort.Strings(names)
	assert.Equal(t, []string{"bwa_mem", "compile_reads", "get_status", "run_pipeline", "verify_install"}, names)
}

func TestMCPCompileReads(t *testing.T) {
	dir := t.TempDir()
	read := filepath.Join(dir, "np1.fastq")
	require.NoError(t, os.WriteFile(read, []byte("@r\nACGT\n+\nIIII\n"), 0o644))
	outputDir := filepath.Join(dir, "out")

	session := setupServerClient(t, true, &fakeAligner{})
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "compile_reads",
		Arguments: map[string]any{"reads": []any{read}, "outputDir": outputDir},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "compile_reads should succeed")

	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	assert.JSONEq(t, `{"F":null,"R":null,"NP":"`+filepath.Join(outputDir, "NP.fq")+`"}`, string(raw))
}

func TestMCPCompileReads_InvalidExtension(t *testing.T) {
	session := setupServerClient(t, true, &fakeAligner{})
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "compile_reads",
		Arguments: map[string]any{"reads": []any{"np.sff"}, "outputDir": t.TempDir()},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestMCPBwaMem(t *testing.T) {
	aligner := &fakeAligner{}
	session := setupServerClient(t, true, aligner)
	output := filepath.Join(t.TempDir(), "file.bam")

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "bwa_mem",
		Arguments: map[string]any{"forward": "F.fq", "mate": "R.fq", "reference": "ref.fna", "output": output},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := decode[BwaMemOutput](t, result)
	assert.Equal(t, output, out.Output)
	assert.Equal(t, "completed", out.Status)
	require.Len(t, aligner.calls, 1)
	assert.Equal(t, "R.fq", aligner.calls[0].Mate)
}

func TestMCPBwaMem_AlignerFailure(t *testing.T) {
	session := setupServerClient(t, true, &fakeAligner{code: 1})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "bwa_mem",
		Arguments: map[string]any{"forward": "F.fq", "reference": "ref.fna", "output": filepath.Join(t.TempDir(), "x.bam")},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "an aligner failure is a result, not a tool error")
	out := decode[BwaMemOutput](t, result)
	assert.Equal(t, 1, out.ExitCode)
	assert.Equal(t, "failed", out.Status)
}

func TestMCPBwaMem_InvalidReference(t *testing.T) {
	aligner := &fakeAligner{}
	session := setupServerClient(t, false, aligner)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "bwa_mem",
		Arguments: map[string]any{"forward": "F.fq", "reference": "ref.fna"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Empty(t, aligner.calls)
}

func TestAlignService_RunPipeline(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a_1.fastq", "a_2.fastq"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("@r\nACGT\n+\nIIII\n"), 0o644))
	}
	aligner := &fakeAligner{}
	orch := orchestrator.New(orchestrator.DefaultConfig(), fakeProber{ready: true}, aligner)
	defer orch.Close()
	svc := NewAlignService(orch, "")

	_, out, err := svc.RunPipeline(context.Background(), nil, RunPipelineInput{
		Reads:     []any{[]any{filepath.Join(dir, "a_1.fastq"), filepath.Join(dir, "a_2.fastq")}},
		OutputDir: filepath.Join(dir, "out"),
		Reference: "ref.fna",
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", out.Status)
	assert.NotNil(t, out.Reads.F)
	assert.Nil(t, out.Reads.NP)
	require.Len(t, out.Results, 1)
	assert.Equal(t, filepath.Join(dir, "out", "bwa.bam"), out.Results[0].Output)

	_, _, err = svc.RunPipeline(context.Background(), nil, RunPipelineInput{
		Reads:     []any{[]any{"a.fastq", "b.fastq", "c.fastq"}},
		OutputDir: filepath.Join(dir, "out2"),
		Reference: "ref.fna",
	})
	assert.Error(t, err)
}

func TestAlignService_VerifyInstall(t *testing.T) {
	orch := orchestrator.New(orchestrator.DefaultConfig(), fakeProber{}, &fakeAligner{})
	defer orch.Close()
	prefix := t.TempDir()
	svc := NewAlignService(orch, prefix)

	_, out, err := svc.VerifyInstall(context.Background(), nil, VerifyInstallInput{})
	require.NoError(t, err)
	assert.Equal(t, prefix, out.Prefix)
	assert.False(t, out.Installed)
	assert.Equal(t, "missing", out.Level)
	assert.Equal(t, []string{"bwa", "samtools"}, out.Missing)
}

func TestAlignService_VerifyInstall_ConfiguredTools(t *testing.T) {
	dir := t.TempDir()
	cfg := orchestrator.DefaultConfig()
	cfg.BwaPath = filepath.Join(dir, "bwa")
	cfg.SamtoolsPath = filepath.Join(dir, "samtools")
	require.NoError(t, os.WriteFile(cfg.BwaPath, []byte("#!/bin/sh\n"), 0o755))

	orch := orchestrator.New(cfg, fakeProber{}, &fakeAligner{})
	defer orch.Close()

	_, out, err := NewAlignService(orch, "").VerifyInstall(context.Background(), nil, VerifyInstallInput{})
	require.NoError(t, err)
	assert.Empty(t, out.Prefix)
	assert.False(t, out.Installed)
	assert.Equal(t, "index-only", out.Level)
	assert.Equal(t, []string{"samtools"}, out.Missing)
}

func TestAlignService_GetStatus(t *testing.T) {
	orch := orchestrator.New(orchestrator.DefaultConfig(), fakeProber{}, &fakeAligner{})
	defer orch.Close()
	svc := NewAlignService(orch, "")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "NP.fq"), []byte("@r\nA\n+\nI\n"), 0o644))

	_, out, err := svc.GetStatus(context.Background(), nil, GetStatusInput{OutputDir: dir})
	require.NoError(t, err)
	assert.True(t, out.Compiled)
	assert.False(t, out.Aligned)
	assert.Equal(t, []string{"NP"}, out.Reads)
	assert.Empty(t, out.Artifacts)

	_, _, err = svc.GetStatus(context.Background(), nil, GetStatusInput{})
	assert.Error(t, err)
}
