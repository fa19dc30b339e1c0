package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/readalign/internal/mcptools"
	"github.com/dusk-indust/readalign/internal/orchestrator"
)

func runServe(ctx context.Context, args []string) error {
	var (
		common commonFlags
		tools  toolFlags
		addr   string
	)

	fs := flag.NewFlagSet("serve-mcp", flag.ContinueOnError)
	common.register(fs)
	tools.register(fs)
	fs.StringVar(&addr, "http", "", "serve streamable HTTP on this address instead of stdio")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pc, err := common.load()
	if err != nil {
		return err
	}
	orch := orchestrator.NewWithBWA(tools.apply(pc))
	done := drainProgress(orch, false)
	defer func() {
		orch.Close()
		<-done
	}()

	server := mcptools.NewAlignMCPServer(mcptools.NewAlignService(orch, pc.Prefix))
	if addr != "" {
		fmt.Fprintf(os.Stderr, "serving MCP on %s\n", addr)
		return mcptools.RunHTTP(ctx, server, addr)
	}
	return mcptools.RunStdio(ctx, server)
}
