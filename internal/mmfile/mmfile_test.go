package mmfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.tree")
	want := []byte("-1 0 {root} {} {}\n")
	require.NoError(t, os.WriteFile(path, want, 0o644))

	data, release, err := Map(path)
	require.NoError(t, err)
	assert.Equal(t, want, data)
	require.NoError(t, release())
	require.NoError(t, release(), "second release is a no-op")
}

func TestMap_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.tree")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	data, release, err := Map(path)
	require.NoError(t, err)
	assert.Empty(t, data)
	require.NotNil(t, release)
	require.NoError(t, release())
}

func TestMap_Missing(t *testing.T) {
	_, _, err := Map(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
