//go:build unix

package install

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Verify reports whether <prefix>/bin/<name> is a regular file the current
// user may execute.
func Verify(prefix, name string) bool {
	p := filepath.Join(prefix, "bin", name)
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return unix.Access(p, unix.X_OK) == nil
}
