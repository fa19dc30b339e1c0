// Package bwa drives the bwa short read aligner and samtools as external
// processes.
package bwa

import (
	"errors"
	"os/exec"

	"github.com/biogo/external"
)

// ErrMissingRequired is returned when a command lacks a required argument.
var ErrMissingRequired = errors.New("bwa: missing required argument")

// Mem defines parameters for bwa mem.
type Mem struct {
	// Usage: bwa mem [options] <idxbase> <in1.fq> [in2.fq]
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}bwa{{end}}{{split}}mem"` // bwa

	Threads        int    `buildarg:"{{if .}}-t{{split}}{{.}}{{end}}"` // -t: number of threads
	MarkSecondary  bool   `buildarg:"{{if .}}-M{{end}}"`               // -M: mark shorter split hits as secondary
	ReadGroup      string `buildarg:"{{if .}}-R{{split}}{{.}}{{end}}"` // -R: read group header line
	InterleavedPEs bool   `buildarg:"{{if .}}-p{{end}}"`               // -p: first query file is interleaved

	Reference string `buildarg:"{{.}}"`              // "idxbase"
	Reads     string `buildarg:"{{.}}"`              // "in1.fq"
	Mate      string `buildarg:"{{if .}}{{.}}{{end}}"` // "in2.fq"
}

// BuildCommand returns an exec.Cmd built from the parameters in m.
func (m Mem) BuildCommand() (*exec.Cmd, error) {
	if m.Reference == "" || m.Reads == "" {
		return nil, ErrMissingRequired
	}
	cl := external.Must(external.Build(m))
	return exec.Command(cl[0], cl[1:]...), nil
}

// Index defines parameters for bwa index.
type Index struct {
	// Usage: bwa index [options] <in.fasta>
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}bwa{{end}}{{split}}index"` // bwa

	Algorithm string `buildarg:"{{if .}}-a{{split}}{{.}}{{end}}"` // -a: BWT construction algorithm (is or bwtsw)
	Prefix    string `buildarg:"{{if .}}-p{{split}}{{.}}{{end}}"` // -p: prefix of the index

	Reference string `buildarg:"{{.}}"` // "in.fasta"
}

// BuildCommand returns an exec.Cmd built from the parameters in i.
func (i Index) BuildCommand() (*exec.Cmd, error) {
	if i.Reference == "" {
		return nil, ErrMissingRequired
	}
	cl := external.Must(external.Build(i))
	return exec.Command(cl[0], cl[1:]...), nil
}

// View defines parameters for samtools view, used to turn the SAM stream of
// bwa mem into a BAM file.
type View struct {
	// Usage: samtools view [options] <in.bam>|<in.sam>|- [region ...]
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}samtools{{end}}{{split}}view"` // samtools

	BAM      bool   `buildarg:"{{if .}}-b{{end}}"`               // -b: output BAM
	SAMInput bool   `buildarg:"{{if .}}-S{{end}}"`               // -S: input is SAM
	Output   string `buildarg:"{{if .}}-o{{split}}{{.}}{{end}}"` // -o: output file

	Input string `buildarg:"{{if .}}{{.}}{{else}}-{{end}}"` // "in.sam", stdin if empty
}

// BuildCommand returns an exec.Cmd built from the parameters in v.
func (v View) BuildCommand() (*exec.Cmd, error) {
	if v.Output == "" {
		return nil, ErrMissingRequired
	}
	cl := external.Must(external.Build(v))
	return exec.Command(cl[0], cl[1:]...), nil
}
