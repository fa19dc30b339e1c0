package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dusk-indust/readalign/internal/config"
	"github.com/dusk-indust/readalign/internal/orchestrator"
	"github.com/dusk-indust/readalign/internal/reads"
)

// version is set by goreleaser at build time.
var version = "dev"

const usage = `usage: readalign <command> [flags] [reads...]

commands:
  compile    merge read files into F.fq, R.fq and NP.fq
  align      map reads against an indexed reference with bwa mem
  run        compile reads, then align them
  install    build bwa and samtools into a prefix
  verify     check that bwa and samtools are installed or on PATH
  status     show merged reads and artifacts of output directories
  serve-mcp  expose the commands as MCP tools on stdio

Reads are paths; join the two mates of a pair with a comma: r_1.fastq,r_2.fastq
`

// errUsage is returned when the command line cannot be interpreted.
var errUsage = errors.New("invalid usage")

// exitAlignerFailed is the exit status when the aligner ran and failed.
const exitAlignerFailed = 2

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		var failed *alignerFailedError
		if errors.As(err, &failed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(exitAlignerFailed)
		}
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errUsage
	}

	switch args[0] {
	case "-version", "--version", "version":
		fmt.Println(version)
		return nil
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
		return nil
	case "compile":
		return runCompile(args[1:])
	case "align":
		return runAlign(ctx, args[1:])
	case "run":
		return runPipeline(ctx, args[1:])
	case "install":
		return runInstall(ctx, args[1:])
	case "verify":
		return runVerify(ctx, args[1:])
	case "status":
		return runStatus(args[1:])
	case "serve-mcp":
		return runServe(ctx, args[1:])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

// commonFlags are shared by the commands that read readalign.yml.
type commonFlags struct {
	ConfigDir string
	Verbose   bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigDir, "config-dir", ".", "directory holding readalign.yml")
	fs.BoolVar(&c.Verbose, "verbose", false, "enable verbose output")
}

// load reads the project config and configures logging.
func (c *commonFlags) load() (*config.ProjectConfig, error) {
	log.SetFlags(0)
	if !c.Verbose {
		log.SetOutput(io.Discard)
	}
	return config.Load(c.ConfigDir)
}

// toolFlags override the aligner settings of readalign.yml.
type toolFlags struct {
	Prefix     string
	Threads    int
	BuildIndex bool
}

func (t *toolFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&t.Prefix, "prefix", "", "install prefix holding bin/bwa and bin/samtools")
	fs.IntVar(&t.Threads, "threads", 0, "bwa mem threads")
	fs.BoolVar(&t.BuildIndex, "build-index", false, "run bwa index when the reference has no index")
}

func (t *toolFlags) apply(pc *config.ProjectConfig) orchestrator.Config {
	if t.Prefix != "" {
		pc.Prefix = t.Prefix
	}
	if t.Threads != 0 {
		pc.Threads = t.Threads
	}
	if t.BuildIndex {
		pc.BuildIndex = true
	}
	return pc.Orchestrator()
}

// readArgs converts positional arguments into read descriptors: a
// comma-joined argument is a mate pair.
func readArgs(args []string) []any {
	values := make([]any, 0, len(args))
	for _, a := range args {
		if !strings.Contains(a, ",") {
			values = append(values, a)
			continue
		}
		var pair []any
		for _, p := range strings.Split(a, ",") {
			pair = append(pair, p)
		}
		values = append(values, pair)
	}
	return values
}

// readEntries classifies the reads named on the command line, or the
// configured ones when there are none.
func readEntries(pc *config.ProjectConfig, args []string) ([]reads.Entry, error) {
	if len(args) > 0 {
		pc.Reads = readArgs(args)
	}
	return pc.Entries()
}

// drainProgress prints progress events until the orchestrator is closed.
func drainProgress(orch *orchestrator.Orchestrator, verbose bool) chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range orch.Progress() {
			if verbose {
				fmt.Fprintln(os.Stderr, orchestrator.FormatProgress(ev))
			}
		}
	}()
	return done
}

// alignerFailedError reports that the aligner ran and exited non-zero.
type alignerFailedError struct {
	output string
	code   int
}

func (e *alignerFailedError) Error() string {
	return fmt.Sprintf("aligner exited with status %d writing %s", e.code, e.output)
}
