package memfs

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_ConformsToFSContract(t *testing.T) {
	t.Parallel()

	fsys := New(map[string]string{
		"001_create.up.sql":   "CREATE TABLE t (x UInt8) ENGINE = Memory;",
		"001_create.down.sql": "DROP TABLE t;",
	})

	require.NoError(t, fstest.TestFS(fsys, "001_create.up.sql", "001_create.down.sql"))
}

func TestFS_ReadDirSorted(t *testing.T) {
	t.Parallel()

	fsys := New(map[string]string{"b.sql": "B", "a.sql": "A", "c.sql": "C"})

	entries, err := fs.ReadDir(fsys, ".")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.Equal(t, []string{"a.sql", "b.sql", "c.sql"}, names)
}

func TestFS_OpenMissing(t *testing.T) {
	t.Parallel()

	_, err := New(nil).Open("missing.sql")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFS_ReadFile(t *testing.T) {
	t.Parallel()

	files := map[string]string{"001.up.sql": "SELECT 1;"}
	fsys := New(files)
	files["001.up.sql"] = "mutated"

	content, err := fs.ReadFile(fsys, "001.up.sql")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;", string(content))
}
