package main

import (
	"flag"
	"fmt"

	"github.com/dusk-indust/readalign/internal/export"
	"github.com/dusk-indust/readalign/internal/status"
)

func runStatus(args []string) error {
	var asJSON bool
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.BoolVar(&asJSON, "json", false, "export read counts and artifacts as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if asJSON {
		dirs := fs.Args()
		if len(dirs) == 0 {
			for _, st := range status.List(".") {
				dirs = append(dirs, st.Dir)
			}
		}
		exports := make([]*export.OutputExport, 0, len(dirs))
		for _, dir := range dirs {
			exp, err := export.ExportOutput(dir)
			if err != nil {
				return err
			}
			exports = append(exports, exp)
		}
		return printJSON(exports)
	}

	if fs.NArg() > 0 {
		for i, dir := range fs.Args() {
			if i > 0 {
				fmt.Println()
			}
			printStatus(status.Inspect(dir))
		}
		return nil
	}

	results := status.List(".")
	if len(results) == 0 {
		fmt.Println("No output directories found.")
		fmt.Println("Run 'readalign compile -output-dir <dir> <reads...>' to create one.")
		return nil
	}
	for i, st := range results {
		if i > 0 {
			fmt.Println()
		}
		printStatus(st)
	}
	return nil
}

func printStatus(st status.OutputStatus) {
	fmt.Printf("Output: %s\n", st.Dir)
	for _, f := range st.Reads {
		label := "absent"
		if f.Present {
			label = fmt.Sprintf("%d bytes", f.Size)
		}
		fmt.Printf("  %-3s %-40s [%s]\n", f.Label, f.Path, label)
	}
	for _, f := range st.Artifacts {
		label := fmt.Sprintf("%d bytes", f.Size)
		if f.Size == 0 {
			label = "empty"
		}
		fmt.Printf("  bam %-40s [%s]\n", f.Path, label)
	}
	if !st.Aligned() {
		fmt.Println("  No alignment yet.")
	}
}
