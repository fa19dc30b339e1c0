package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/readalign/internal/reads"
)

func runCompile(args []string) error {
	var common commonFlags
	var outputDir string

	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	common.register(fs)
	fs.StringVar(&outputDir, "output-dir", "", "directory receiving F.fq, R.fq and NP.fq")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pc, err := common.load()
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = pc.OutputDir
	}
	entries, err := readEntries(pc, fs.Args())
	if err != nil {
		return err
	}
	if outputDir == "" && len(entries) > 0 {
		return fmt.Errorf("%w: -output-dir is required", errUsage)
	}

	set, err := reads.Compile(entries, outputDir)
	if err != nil {
		return err
	}
	return printJSON(set)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = os.Stdout.Write(append(out, '\n'))
	return err
}
