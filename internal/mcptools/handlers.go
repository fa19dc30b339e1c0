package mcptools

import (
	"context"
	"fmt"

	"github.com/dusk-indust/readalign/internal/install"
	"github.com/dusk-indust/readalign/internal/orchestrator"
	"github.com/dusk-indust/readalign/internal/reads"
	"github.com/dusk-indust/readalign/internal/status"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AlignService handles MCP tool calls. It wraps an Orchestrator to run
// alignments and the reads package to compile inputs.
type AlignService struct {
	orch     *orchestrator.Orchestrator
	pipeline *orchestrator.Pipeline
	prefix   string
}

// NewAlignService creates an AlignService. prefix is the default install
// prefix checked by verify_install.
func NewAlignService(orch *orchestrator.Orchestrator, prefix string) *AlignService {
	return &AlignService{
		orch:     orch,
		pipeline: orchestrator.NewPipeline(orch),
		prefix:   prefix,
	}
}

// CompileReads classifies and merges read files into outputDir.
func (s *AlignService) CompileReads(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input CompileReadsInput,
) (*mcp.CallToolResult, CompileReadsOutput, error) {
	set, err := reads.CompileValues(input.Reads, input.OutputDir)
	if err != nil {
		return nil, CompileReadsOutput{}, err
	}
	return nil, toOutput(set), nil
}

// BwaMem maps reads against an indexed reference. An aligner that ran and
// failed is reported through Status and ExitCode, not as a tool error.
func (s *AlignService) BwaMem(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BwaMemInput,
) (*mcp.CallToolResult, BwaMemOutput, error) {
	res, err := s.orch.AlignMem(ctx, orchestrator.Request{
		Forward:   input.Forward,
		Mate:      input.Mate,
		Reference: input.Reference,
		Output:    input.Output,
	})
	if err != nil {
		return nil, BwaMemOutput{}, err
	}
	return nil, BwaMemOutput{
		Output:   res.Output,
		ExitCode: res.ExitCode,
		Status:   statusOf(res.Failed()),
	}, nil
}

// RunPipeline compiles the reads and maps them.
func (s *AlignService) RunPipeline(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunPipelineInput,
) (*mcp.CallToolResult, RunPipelineOutput, error) {
	entries, err := reads.Classify(input.Reads)
	if err != nil {
		return nil, RunPipelineOutput{}, err
	}
	report, err := s.pipeline.Run(ctx, orchestrator.RunRequest{
		Reads:     entries,
		OutputDir: input.OutputDir,
		Reference: input.Reference,
		Output:    input.Output,
	})
	if err != nil {
		return nil, RunPipelineOutput{}, err
	}
	return nil, RunPipelineOutput{
		ID:      report.ID,
		Reads:   toOutput(report.Reads),
		Results: report.Results,
		Status:  statusOf(report.Failed()),
	}, nil
}

// VerifyInstall checks that bwa and samtools are installed under a prefix.
// Without a prefix it probes the executables the orchestrator is
// configured with.
func (s *AlignService) VerifyInstall(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input VerifyInstallInput,
) (*mcp.CallToolResult, VerifyInstallOutput, error) {
	prefix := input.Prefix
	if prefix == "" {
		prefix = s.prefix
	}
	if prefix == "" {
		level, missing, err := orchestrator.NewToolDetector(s.orch.Config()).Detect(ctx)
		if err != nil {
			return nil, VerifyInstallOutput{}, err
		}
		return nil, VerifyInstallOutput{
			Installed: level == orchestrator.ToolsFull,
			Level:     level.String(),
			Missing:   missing,
		}, nil
	}
	missing := install.Missing(prefix, install.BWA, install.Samtools)
	return nil, VerifyInstallOutput{
		Prefix:    prefix,
		Installed: len(missing) == 0,
		Level:     levelOf(missing),
		Missing:   missing,
	}, nil
}

// GetStatus reports the merged reads and artifacts present in an output
// directory.
func (s *AlignService) GetStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GetStatusInput,
) (*mcp.CallToolResult, GetStatusOutput, error) {
	if input.OutputDir == "" {
		return nil, GetStatusOutput{}, fmt.Errorf("outputDir is required")
	}
	st := status.Inspect(input.OutputDir)
	out := GetStatusOutput{
		OutputDir: st.Dir,
		Compiled:  st.Compiled(),
		Paired:    st.Paired(),
		Aligned:   st.Aligned(),
		Reads:     []string{},
		Artifacts: []string{},
	}
	for _, f := range st.Reads {
		if f.Present {
			out.Reads = append(out.Reads, f.Label)
		}
	}
	for _, f := range st.Artifacts {
		out.Artifacts = append(out.Artifacts, f.Path)
	}
	return nil, out, nil
}

func toOutput(set reads.ReadSet) CompileReadsOutput {
	return CompileReadsOutput{F: optional(set.F), R: optional(set.R), NP: optional(set.NP)}
}

func optional(path string) *string {
	if path == "" {
		return nil
	}
	return &path
}

// levelOf maps the missing names of an install check onto a ToolLevel.
func levelOf(missing []string) string {
	switch {
	case len(missing) == 0:
		return orchestrator.ToolsFull.String()
	case len(missing) == 1 && missing[0] == install.Samtools.Name:
		return orchestrator.ToolsIndexOnly.String()
	default:
		return orchestrator.ToolsMissing.String()
	}
}

func statusOf(failed bool) string {
	if failed {
		return "failed"
	}
	return "completed"
}
