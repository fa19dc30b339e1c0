package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/dusk-indust/readalign/internal/orchestrator"
)

func runAlign(ctx context.Context, args []string) error {
	var (
		common    commonFlags
		tools     toolFlags
		reference string
		output    string
	)

	fs := flag.NewFlagSet("align", flag.ContinueOnError)
	common.register(fs)
	tools.register(fs)
	fs.StringVar(&reference, "reference", "", "indexed reference sequence")
	fs.StringVar(&output, "output", "", "alignment artifact (default: "+orchestrator.DefaultOutput+")")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return fmt.Errorf("%w: usage: readalign align -reference ref.fna reads.fq [mate.fq]", errUsage)
	}

	pc, err := common.load()
	if err != nil {
		return err
	}
	if reference == "" {
		reference = pc.Reference
	}
	if output == "" {
		output = pc.Output
	}

	orch := orchestrator.NewWithBWA(tools.apply(pc))
	done := drainProgress(orch, common.Verbose)
	defer func() {
		orch.Close()
		<-done
	}()

	req := orchestrator.Request{Forward: fs.Arg(0), Reference: reference, Output: output}
	if fs.NArg() == 2 {
		req.Mate = fs.Arg(1)
	}
	res, err := orch.AlignMem(ctx, req)
	if err != nil {
		return err
	}
	if res.Failed() {
		return &alignerFailedError{output: res.Output, code: res.ExitCode}
	}
	fmt.Println(res.Output)
	return nil
}

func runPipeline(ctx context.Context, args []string) error {
	var (
		common    commonFlags
		tools     toolFlags
		reference string
		outputDir string
		output    string
	)

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	common.register(fs)
	tools.register(fs)
	fs.StringVar(&reference, "reference", "", "reference sequence")
	fs.StringVar(&outputDir, "output-dir", "", "directory receiving merged reads and artifacts")
	fs.StringVar(&output, "output", "", "primary alignment artifact (default: <output-dir>/"+orchestrator.DefaultOutput+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pc, err := common.load()
	if err != nil {
		return err
	}
	if reference == "" {
		reference = pc.Reference
	}
	if outputDir == "" {
		outputDir = pc.OutputDir
	}
	if output == "" {
		output = pc.Output
	}
	if outputDir == "" {
		return fmt.Errorf("%w: -output-dir is required", errUsage)
	}

	entries, err := readEntries(pc, fs.Args())
	if err != nil {
		return err
	}

	orch := orchestrator.NewWithBWA(tools.apply(pc))
	done := drainProgress(orch, common.Verbose)
	defer func() {
		orch.Close()
		<-done
	}()

	report, err := orchestrator.NewPipeline(orch).Run(ctx, orchestrator.RunRequest{
		Reads:     entries,
		OutputDir: outputDir,
		Reference: reference,
		Output:    output,
	})
	if err != nil {
		return err
	}
	if err := printJSON(report); err != nil {
		return err
	}
	if report.Failed() {
		last := report.Results[len(report.Results)-1]
		return &alignerFailedError{output: last.Output, code: last.ExitCode}
	}
	return nil
}
