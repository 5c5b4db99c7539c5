package driver

import (
	"fmt"
	"path/filepath"
	"strings"
)

// StdPath pairs a canonical filesystem path with its forward-slash UTF-8
// form, which is what the script sees.
type StdPath struct {
	Path string
	UTF8 string
}

// Canonicalize resolves src to an absolute, symlink-free path. Missing
// inputs fail here, at the boundary.
func Canonicalize(src string) (StdPath, error) {
	abs, err := filepath.Abs(src)
	if err != nil {
		return StdPath{}, err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return StdPath{}, fmt.Errorf("file %q doesn't exist", src)
	}
	return StdPath{
		Path: resolved,
		UTF8: strings.ReplaceAll(resolved, `\`, "/"),
	}, nil
}

// CleanPath flattens a rooted path into a single directory name usable
// under the binary dir.
func CleanPath(p string) string {
	if !filepath.IsAbs(p) && filepath.VolumeName(p) == "" {
		return p
	}
	return strings.NewReplacer("/", "_", `\`, "_", ":", "_").Replace(p)
}

// SplitList splits a semicolon-separated CMake-style list, dropping empty
// entries.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ";") {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
