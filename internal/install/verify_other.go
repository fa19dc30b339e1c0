//go:build !unix

package install

import (
	"os"
	"path/filepath"
)

// Verify reports whether <prefix>/bin/<name> is a regular file with an
// execute bit set.
func Verify(prefix, name string) bool {
	info, err := os.Stat(filepath.Join(prefix, "bin", name))
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
