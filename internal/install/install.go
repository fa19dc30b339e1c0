// Package install builds the aligner toolchain from source control into a
// prefix directory and verifies an existing installation.
package install

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Source describes a tool that is cloned and built with make.
type Source struct {
	Name    string
	RepoURL string
	// Version is a tag, branch or commit to check out. Empty builds the
	// default branch.
	Version string
	// Binaries are paths, relative to the clone, of the executables to copy
	// into <prefix>/bin.
	Binaries []string
}

var (
	// BWA is the bwa aligner.
	BWA = Source{
		Name:     "bwa",
		RepoURL:  "https://github.com/lh3/bwa",
		Binaries: []string{"bwa"},
	}

	// Samtools converts the SAM output of bwa mem into BAM.
	Samtools = Source{
		Name:     "samtools",
		RepoURL:  "https://github.com/samtools/samtools",
		Binaries: []string{"samtools"},
	}
)

// RunFunc runs name with args inside dir and returns an error when the
// command cannot start or exits non-zero.
type RunFunc func(ctx context.Context, dir, name string, args ...string) error

// Installer clones, builds and installs Sources.
type Installer struct {
	// TempDir is the parent of the per-install build directories. Empty
	// uses os.TempDir.
	TempDir string

	// Run executes git and make. Nil uses ExecRunner(Stdout, Stderr).
	Run RunFunc

	Stdout io.Writer
	Stderr io.Writer
}

// ExecRunner returns a RunFunc backed by os/exec.
func ExecRunner(stdout, stderr io.Writer) RunFunc {
	return func(ctx context.Context, dir, name string, args ...string) error {
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Dir = dir
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
		}
		return nil
	}
}

func (in *Installer) run() RunFunc {
	if in.Run != nil {
		return in.Run
	}
	return ExecRunner(in.Stdout, in.Stderr)
}

// Install builds src in a temporary directory and copies its binaries into
// <prefix>/bin, replacing existing files. The temporary directory is removed
// afterwards and the working directory of the process is never changed.
func (in *Installer) Install(ctx context.Context, src Source, prefix string) error {
	if src.RepoURL == "" || len(src.Binaries) == 0 {
		return fmt.Errorf("install: %s: repository and binaries are required", src.Name)
	}
	prefix, err := filepath.Abs(prefix)
	if err != nil {
		return fmt.Errorf("install: resolve prefix: %w", err)
	}

	tmp, err := os.MkdirTemp(in.TempDir, "readalign-"+src.Name+"-")
	if err != nil {
		return fmt.Errorf("install: %s: %w", src.Name, err)
	}
	defer os.RemoveAll(tmp)

	run := in.run()
	log.Printf("install: cloning %s into %s", src.RepoURL, tmp)
	if err := run(ctx, tmp, "git", "clone", src.RepoURL); err != nil {
		return fmt.Errorf("install: %s: %w", src.Name, err)
	}
	clone := filepath.Join(tmp, cloneDir(src.RepoURL))
	if src.Version != "" {
		if err := run(ctx, clone, "git", "checkout", src.Version); err != nil {
			return fmt.Errorf("install: %s: %w", src.Name, err)
		}
	}
	if err := run(ctx, clone, "make"); err != nil {
		return fmt.Errorf("install: %s: %w", src.Name, err)
	}

	bin := filepath.Join(prefix, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		return fmt.Errorf("install: %s: %w", src.Name, err)
	}
	for _, b := range src.Binaries {
		dst := filepath.Join(bin, filepath.Base(b))
		if err := copyExecutable(filepath.Join(clone, b), dst); err != nil {
			return fmt.Errorf("install: %s: %w", src.Name, err)
		}
		log.Printf("install: installed %s", dst)
	}
	return nil
}

// InstallAll installs every source concurrently. The first failure cancels
// the builds still running.
func (in *Installer) InstallAll(ctx context.Context, prefix string, sources ...Source) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		g.Go(func() error {
			return in.Install(gctx, src, prefix)
		})
	}
	return g.Wait()
}

// cloneDir is the directory git clone creates for url.
func cloneDir(url string) string {
	return strings.TrimSuffix(path.Base(strings.TrimSuffix(url, "/")), ".git")
}

func copyExecutable(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	// Remove first so a running or read-only old binary is replaced.
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Chmod(0o755)
}

// Missing returns the names of the sources whose binaries are not installed
// and executable under prefix.
func Missing(prefix string, sources ...Source) []string {
	var missing []string
	for _, src := range sources {
		for _, b := range src.Binaries {
			if !Verify(prefix, filepath.Base(b)) {
				missing = append(missing, src.Name)
				break
			}
		}
	}
	return missing
}
