package path

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avneet-kaur/dfs/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoundTrip(t *testing.T) {
	cases := []string{"/", "/a", "/a/b/c", "/a//b/c/"}
	for _, s := range cases {
		p, err := New(s)
		require.NoError(t, err, s)
		q, err := New(p.String())
		require.NoError(t, err)
		assert.True(t, p.Equal(q), "round trip of %q", s)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("")
	assert.Equal(t, errors.IllegalArgument, errors.KindOf(err))

	_, err = New("a/b")
	assert.Equal(t, errors.IllegalArgument, errors.KindOf(err))

	_, err = New("/a:b")
	assert.Equal(t, errors.IllegalArgument, errors.KindOf(err))
}

func TestNewDropsEmptyComponents(t *testing.T) {
	p, err := New("/a//b///c/")
	require.NoError(t, err)
	assert.Equal(t, "/a/b/c", p.String())
	assert.Equal(t, 3, p.NElem())
}

func TestNewChildParentAndLast(t *testing.T) {
	parent, err := New("/a/b")
	require.NoError(t, err)
	child, err := NewChild(parent, "c")
	require.NoError(t, err)
	assert.Equal(t, "/a/b/c", child.String())

	gotParent, err := child.Parent()
	require.NoError(t, err)
	assert.True(t, gotParent.Equal(parent))

	last, err := child.Last()
	require.NoError(t, err)
	assert.Equal(t, "c", last)
}

func TestNewChildRejectsBadComponent(t *testing.T) {
	root := Root()
	_, err := NewChild(root, "")
	assert.Equal(t, errors.IllegalArgument, errors.KindOf(err))
	_, err = NewChild(root, "a/b")
	assert.Equal(t, errors.IllegalArgument, errors.KindOf(err))
	_, err = NewChild(root, "a:b")
	assert.Equal(t, errors.IllegalArgument, errors.KindOf(err))
}

func TestRootHasNoParentOrLast(t *testing.T) {
	root := Root()
	assert.True(t, root.IsRoot())
	assert.Equal(t, "/", root.String())

	_, err := root.Parent()
	assert.Equal(t, errors.IllegalArgument, errors.KindOf(err))
	_, err = root.Last()
	assert.Equal(t, errors.IllegalArgument, errors.KindOf(err))
}

func TestIsSubpathIsComponentPrefix(t *testing.T) {
	a, _ := New("/a")
	ab, _ := New("/ab")
	aB, _ := New("/a/b")

	// The naive string-prefix bug would report /ab as a subpath of /a.
	assert.False(t, ab.IsSubpath(a))
	assert.True(t, aB.IsSubpath(a))
	assert.True(t, a.IsSubpath(a))
	assert.False(t, a.IsSubpath(aB))
}

func TestIterator(t *testing.T) {
	p, _ := New("/a/b/c")
	it := p.Iterator()
	var got []string
	for {
		c, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, c)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestToFile(t *testing.T) {
	p, _ := New("/a/b/c.txt")
	assert.Equal(t, filepath.Join("/root", "a", "b", "c.txt"), p.ToFile("/root"))
}

func TestListEnumeratesFilesOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "top.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "b", "deep.txt"), []byte("y"), 0o644))

	paths, err := List(dir)
	require.NoError(t, err)

	var got []string
	for _, p := range paths {
		got = append(got, p.String())
	}
	assert.ElementsMatch(t, []string{"/top.txt", "/a/b/deep.txt"}, got)
}

func TestListFailsOnMissingDir(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, errors.NotFound, errors.KindOf(err))
}

func TestListFailsOnNonDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := List(file)
	assert.Equal(t, errors.IOFailure, errors.KindOf(err))
}
