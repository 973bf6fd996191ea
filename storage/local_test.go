package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avneet-kaur/dfs/errors"
)

func newLocal(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	return l
}

func TestCreateThenSizeAndRead(t *testing.T) {
	l := newLocal(t)
	ok, err := l.Create("/a/b.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	sz, err := l.Size("/a/b.txt")
	require.NoError(t, err)
	assert.EqualValues(t, 0, sz)

	require.NoError(t, l.Write("/a/b.txt", 0, []byte("abc")))
	sz, err = l.Size("/a/b.txt")
	require.NoError(t, err)
	assert.EqualValues(t, 3, sz)

	data, err := l.Read("/a/b.txt", 0, 3)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestCreateRejectsRootAndExisting(t *testing.T) {
	l := newLocal(t)
	ok, err := l.Create("/")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Create("/x.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Create("/x.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteDisjointOffsetsDoNotErase(t *testing.T) {
	l := newLocal(t)
	_, err := l.Create("/w.txt")
	require.NoError(t, err)

	require.NoError(t, l.Write("/w.txt", 2, []byte("bc")))
	require.NoError(t, l.Write("/w.txt", 0, []byte("a")))

	data, err := l.Read("/w.txt", 0, 3)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestReadNotFoundAndOutOfBounds(t *testing.T) {
	l := newLocal(t)
	_, err := l.Read("/missing.txt", 0, 1)
	assert.Equal(t, errors.NotFound, errors.KindOf(err))

	_, err = l.Create("/f.txt")
	require.NoError(t, err)
	require.NoError(t, l.Write("/f.txt", 0, []byte("abc")))

	_, err = l.Read("/f.txt", -1, 1)
	assert.Equal(t, errors.OutOfBounds, errors.KindOf(err))

	_, err = l.Read("/f.txt", 0, 10)
	assert.Equal(t, errors.OutOfBounds, errors.KindOf(err))
}

func TestWriteNotFoundForMissingOrDirectory(t *testing.T) {
	l := newLocal(t)
	err := l.Write("/missing.txt", 0, []byte("x"))
	assert.Equal(t, errors.NotFound, errors.KindOf(err))

	_, err = l.Create("/d/f.txt")
	require.NoError(t, err)
	err = l.Write("/d", 0, []byte("x"))
	assert.Equal(t, errors.NotFound, errors.KindOf(err))
}

func TestDeleteCascadesAndPrunes(t *testing.T) {
	l := newLocal(t)
	_, err := l.Create("/d/e/f.txt")
	require.NoError(t, err)
	_, err = l.Create("/d/e/g.txt")
	require.NoError(t, err)

	ok, err := l.Delete("/d")
	require.NoError(t, err)
	assert.True(t, ok)

	_, statErr := os.Stat(filepath.Join(l.Root(), "d"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeletePrunesOnlyEmptyAncestors(t *testing.T) {
	l := newLocal(t)
	_, err := l.Create("/d/e/f.txt")
	require.NoError(t, err)
	_, err = l.Create("/d/other.txt")
	require.NoError(t, err)

	ok, err := l.Delete("/d/e/f.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	// /d/e is now empty and gets pruned, but /d still holds other.txt.
	_, statErr := os.Stat(filepath.Join(l.Root(), "d", "e"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(l.Root(), "d"))
	assert.NoError(t, statErr)
}

func TestDeleteRootAndMissingReturnFalse(t *testing.T) {
	l := newLocal(t)
	ok, err := l.Delete("/")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Delete("/nope")
	require.NoError(t, err)
	assert.False(t, ok)
}
