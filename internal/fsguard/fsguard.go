// Package fsguard keeps filesystem access inside a configured root directory.
package fsguard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a path canonicalizes to a location that is
// not the root or one of its descendants.
var ErrOutsideRoot = errors.New("path outside of allowed root")

// maxLinks bounds how many symlinks one Canonical call follows.
const maxLinks = 255

// Canonical returns the absolute, symlink-resolved form of path. Components
// are resolved left to right, so a ".." after a symlink climbs out of the
// link's target rather than out of the link's name. Paths that do not exist
// yet keep their missing tail, which lets create and rename targets compare
// the same way as existing files.
func Canonical(path string) string {
	return canonical(absolute(path), 0)
}

// absolute joins a relative path onto the working directory without
// cleaning it.
func absolute(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	return wd + string(filepath.Separator) + path
}

func isSep(r rune) bool {
	return r == '/' || r == filepath.Separator
}

func canonical(path string, links int) string {
	sep := string(filepath.Separator)
	vol := filepath.VolumeName(path)
	parts := strings.FieldsFunc(path[len(vol):], isSep)
	resolved := vol + sep
	for i, part := range parts {
		switch part {
		case ".":
			continue
		case "..":
			resolved = filepath.Dir(resolved)
			continue
		}
		next := filepath.Join(resolved, part)
		info, err := os.Lstat(next)
		if err != nil || info.Mode()&os.ModeSymlink == 0 || links >= maxLinks {
			resolved = next
			continue
		}
		target, err := os.Readlink(next)
		if err != nil {
			resolved = next
			continue
		}
		if !filepath.IsAbs(target) {
			target = resolved + sep + target
		}
		if rest := parts[i+1:]; len(rest) > 0 {
			target += sep + strings.Join(rest, sep)
		}
		return canonical(target, links+1)
	}
	return resolved
}

// Within reports whether path is root or lies under root once both are
// canonicalized.
func Within(root, path string) bool {
	return within(Canonical(root), Canonical(path))
}

func within(root, path string) bool {
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Check wraps ErrOutsideRoot with the offending path.
func Check(root, path string) error {
	_, err := Resolve(root, path)
	return err
}

// Resolve canonicalizes path and checks it against root. Reads and writes
// must go through the returned path, never the one passed in.
func Resolve(root, path string) (string, error) {
	p := Canonical(path)
	if !within(Canonical(root), p) {
		return "", fmt.Errorf("%s: %w", path, ErrOutsideRoot)
	}
	return p, nil
}

// DefaultRoot is the user's home directory, or the working directory when the
// home directory cannot be determined.
func DefaultRoot() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
