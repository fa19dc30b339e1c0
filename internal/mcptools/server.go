package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewAlignMCPServer creates an MCP server with the readalign tools
// registered: compile_reads, bwa_mem, run_pipeline, verify_install and
// get_status.
func NewAlignMCPServer(svc *AlignService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "readalign",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile_reads",
		Description: "Validate a list of FASTQ read files (paths for unpaired reads, [mate1, mate2] pairs for paired-end reads) and merge them into F.fq, R.fq and NP.fq inside outputDir. Groups without reads are returned as null.",
	}, svc.CompileReads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bwa_mem",
		Description: "Map reads against an indexed reference with bwa mem and write a BAM file. Fails when the reference has no usable index; an aligner failure is reported through exitCode.",
	}, svc.BwaMem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_pipeline",
		Description: "Compile read files and map them: pairs to the primary output, unpaired reads single-end.",
	}, svc.RunPipeline)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "verify_install",
		Description: "Check that bwa and samtools are installed and executable under an install prefix, or that the configured executables resolve when no prefix is known.",
	}, svc.VerifyInstall)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_status",
		Description: "Report which merged read files and alignment artifacts exist in an output directory.",
	}, svc.GetStatus)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts an HTTP server exposing the MCP tools.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
