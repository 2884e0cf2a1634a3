package fsguard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithin(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deep"), 0o755))
	sibling := root + "-sibling"
	require.NoError(t, os.MkdirAll(sibling, 0o755))
	t.Cleanup(func() { _ = os.RemoveAll(sibling) })

	cases := []struct {
		name string
		path string
		want bool
	}{
		{"root itself", root, true},
		{"child dir", filepath.Join(root, "sub"), true},
		{"nested", filepath.Join(root, "sub", "deep"), true},
		{"missing child", filepath.Join(root, "sub", "new.txt"), true},
		{"dotdot escape", filepath.Join(root, "sub", "..", ".."), false},
		{"parent", filepath.Dir(root), false},
		{"prefix sibling", sibling, false},
		{"absolute elsewhere", "/", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Within(root, tc.path))
		})
	}
}

func TestWithinRejectsSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	link := filepath.Join(root, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.False(t, Within(root, link))
	require.False(t, Within(root, filepath.Join(link, "file.txt")))
}

func TestCheckWrapsSentinel(t *testing.T) {
	root := t.TempDir()
	err := Check(root, filepath.Dir(root))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrOutsideRoot))
	require.NoError(t, Check(root, filepath.Join(root, "a.txt")))
}

// linkedTree builds root/link -> outside/sub with outside/secret.txt next to
// the link target.
func linkedTree(t *testing.T) (root, outside string) {
	t.Helper()
	root = Canonical(t.TempDir())
	outside = Canonical(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Join(outside, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("secret"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("decoy"), 0o644))
	if err := os.Symlink(filepath.Join(outside, "sub"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	return root, outside
}

func TestCanonicalFollowsLinkBeforeDotDot(t *testing.T) {
	root, outside := linkedTree(t)
	raw := root + "/link/../secret.txt"

	require.Equal(t, filepath.Join(outside, "secret.txt"), Canonical(raw))
	require.False(t, Within(root, raw))
	_, err := Resolve(root, raw)
	require.ErrorIs(t, err, ErrOutsideRoot)

	// A target that does not exist yet is resolved the same way.
	require.Equal(t, filepath.Join(outside, "new.txt"), Canonical(root+"/link/../new.txt"))
	require.False(t, Within(root, root+"/link/../new.txt"))
}

func TestCanonicalRelativeLinkAndDanglingLink(t *testing.T) {
	root := Canonical(t.TempDir())
	outside := Canonical(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	if err := os.Symlink("a/b", filepath.Join(root, "rel")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.Equal(t, filepath.Join(root, "a"), Canonical(root+"/rel/.."))

	// A dangling link still points where a write through it would land.
	require.NoError(t, os.Symlink(filepath.Join(outside, "later.txt"), filepath.Join(root, "dangling")))
	require.Equal(t, filepath.Join(outside, "later.txt"), Canonical(filepath.Join(root, "dangling")))
	require.False(t, Within(root, filepath.Join(root, "dangling")))
}

func TestResolveReturnsCheckedPath(t *testing.T) {
	root := Canonical(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	got, err := Resolve(root, root+"/sub/./../sub/file.txt")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "sub", "file.txt"), got)
}
