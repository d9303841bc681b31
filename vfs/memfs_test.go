package vfs

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs FS, path, content string) {
	t.Helper()
	f, err := fs.Open(path, Trunc)
	require.NoError(t, err)
	_, err = f.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func readFile(t *testing.T, fs FS, path string) string {
	t.Helper()
	f, err := fs.Open(path, Read)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(data)
}

func TestMemWriteRead(t *testing.T) {
	m := NewMem(0, 0, 0)
	writeFile(t, m, "hello.txt", "hello\n")
	assert.Equal(t, "hello\n", readFile(t, m, "hello.txt"))
}

func TestMemTruncateReplaces(t *testing.T) {
	m := NewMem(0, 0, 0)
	writeFile(t, m, "f", "long original content")
	writeFile(t, m, "f", "short")
	assert.Equal(t, "short", readFile(t, m, "f"))
}

func TestMemAppend(t *testing.T) {
	m := NewMem(0, 0, 0)
	writeFile(t, m, "f", "one\n")

	f, err := m.Open("f", Append)
	require.NoError(t, err)
	_, err = f.Write([]byte("two\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, "one\ntwo\n", readFile(t, m, "f"))
}

func TestMemReadMissing(t *testing.T) {
	m := NewMem(0, 0, 0)
	_, err := m.Open("nope", Read)
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestMemFlatNamespace(t *testing.T) {
	m := NewMem(0, 0, 0)
	writeFile(t, m, "/data.txt", "x")
	// Leading slash and bare name address the same entry.
	assert.Equal(t, "x", readFile(t, m, "data.txt"))

	assert.ErrorIs(t, m.Mkdir("sub"), ErrUnsupported)
}

func TestMemFileSizeCap(t *testing.T) {
	m := NewMem(0, 4, 0)
	f, err := m.Open("f", Trunc)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("1234"))
	require.NoError(t, err)
	_, err = f.Write([]byte("5"))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	// The rejected write must not have grown the file.
	assert.Equal(t, "1234", readFile(t, m, "f"))
}

func TestMemTotalCap(t *testing.T) {
	m := NewMem(0, 0, 8)
	writeFile(t, m, "a", "12345678")

	f, err := m.Open("b", Trunc)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrNoSpace)
}

func TestMemFileCountCap(t *testing.T) {
	m := NewMem(2, 0, 0)
	writeFile(t, m, "a", "")
	writeFile(t, m, "b", "")
	_, err := m.Open("c", Trunc)
	assert.ErrorIs(t, err, ErrTooManyFiles)

	// Rewriting an existing file is always allowed.
	writeFile(t, m, "a", "updated")
}

func TestMemRemoveAndRename(t *testing.T) {
	m := NewMem(0, 0, 0)
	writeFile(t, m, "a", "data")

	require.NoError(t, m.Rename("a", "b"))
	assert.Equal(t, "data", readFile(t, m, "b"))
	_, err := m.Stat("a")
	assert.ErrorIs(t, err, ErrNotExist)

	require.NoError(t, m.Remove("b"))
	assert.ErrorIs(t, m.Remove("b"), ErrNotExist)
}

func TestMemReadDirSorted(t *testing.T) {
	m := NewMem(0, 0, 0)
	writeFile(t, m, "zeta", "zz")
	writeFile(t, m, "alpha", "a")

	entries, err := m.ReadDir("/")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, int64(1), entries[0].Size)
	assert.Equal(t, "zeta", entries[1].Name)
}

func TestMemStatsAndFormat(t *testing.T) {
	m := NewMem(8, 0, 1024)
	writeFile(t, m, "a", "1234")

	st := m.Stats()
	assert.Equal(t, "mem", st.Backend)
	assert.Equal(t, 1, st.Files)
	assert.Equal(t, int64(4), st.UsedBytes)
	assert.Equal(t, int64(1024), st.TotalBytes)

	m.Format()
	st = m.Stats()
	assert.Equal(t, 0, st.Files)
	assert.Equal(t, int64(0), st.UsedBytes)
}
