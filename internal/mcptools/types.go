package mcptools

import (
	"github.com/dusk-indust/readalign/internal/orchestrator"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// CompileReadsInput is the input for the compile_reads MCP tool.
type CompileReadsInput struct {
	Reads     []any  `json:"reads" jsonschema:"read files: a path string for unpaired reads or a [mate1, mate2] array for a pair"`
	OutputDir string `json:"outputDir" jsonschema:"directory receiving F.fq, R.fq and NP.fq (created if missing)"`
}

// CompileReadsOutput is the result of the compile_reads MCP tool. A null
// field means no entry fed that group.
type CompileReadsOutput struct {
	F  *string `json:"F"`
	R  *string `json:"R"`
	NP *string `json:"NP"`
}

// BwaMemInput is the input for the bwa_mem MCP tool.
type BwaMemInput struct {
	Forward   string `json:"forward" jsonschema:"forward (or unpaired) reads file"`
	Mate      string `json:"mate,omitempty" jsonschema:"reverse mate file; omit for single-end mapping"`
	Reference string `json:"reference" jsonschema:"reference sequence file with a bwa index"`
	Output    string `json:"output,omitempty" jsonschema:"alignment artifact path (default: bwa.bam)"`
}

// BwaMemOutput is the result of the bwa_mem MCP tool.
type BwaMemOutput struct {
	Output   string `json:"output"`
	ExitCode int    `json:"exitCode"`
	Status   string `json:"status"` // "completed" or "failed"
}

// RunPipelineInput is the input for the run_pipeline MCP tool.
type RunPipelineInput struct {
	Reads     []any  `json:"reads" jsonschema:"read files: a path string for unpaired reads or a [mate1, mate2] array for a pair"`
	OutputDir string `json:"outputDir" jsonschema:"directory receiving merged reads and artifacts"`
	Reference string `json:"reference" jsonschema:"reference sequence file"`
	Output    string `json:"output,omitempty" jsonschema:"primary alignment artifact path (default: <outputDir>/bwa.bam)"`
}

// RunPipelineOutput is the result of the run_pipeline MCP tool.
type RunPipelineOutput struct {
	ID      string                `json:"id"`
	Reads   CompileReadsOutput    `json:"reads"`
	Results []orchestrator.Result `json:"results"`
	Status  string                `json:"status"`
}

// VerifyInstallInput is the input for the verify_install MCP tool.
type VerifyInstallInput struct {
	Prefix string `json:"prefix,omitempty" jsonschema:"install prefix holding bin/bwa and bin/samtools (default: server prefix, else the configured executables)"`
}

// VerifyInstallOutput is the result of the verify_install MCP tool.
type VerifyInstallOutput struct {
	Prefix    string   `json:"prefix,omitempty"`
	Installed bool     `json:"installed"`
	Level     string   `json:"level" jsonschema:"missing, index-only or full"`
	Missing   []string `json:"missing,omitempty"`
}

// GetStatusInput is the input for the get_status MCP tool.
type GetStatusInput struct {
	OutputDir string `json:"outputDir" jsonschema:"output directory of a previous run"`
}

// GetStatusOutput is the result of the get_status MCP tool.
type GetStatusOutput struct {
	OutputDir string   `json:"outputDir"`
	Compiled  bool     `json:"compiled"`
	Paired    bool     `json:"paired"`
	Aligned   bool     `json:"aligned"`
	Reads     []string `json:"reads"`
	Artifacts []string `json:"artifacts"`
}
