package vos

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtualCwd(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/srv/www", 0755))
	require.NoError(t, afero.WriteFile(fs, "/srv/file.txt", []byte("x"), 0644))

	cwd := NewVirtualCwd(fs, "/")

	t.Run("absolute", func(t *testing.T) {
		require.NoError(t, cwd.Chdir("/srv/www"))
		dir, err := cwd.Getwd()
		require.NoError(t, err)
		assert.Equal(t, "/srv/www", dir)
	})

	t.Run("relative", func(t *testing.T) {
		require.NoError(t, cwd.Chdir("/srv"))
		require.NoError(t, cwd.Chdir("www"))
		dir, _ := cwd.Getwd()
		assert.Equal(t, "/srv/www", dir)
	})

	t.Run("parent", func(t *testing.T) {
		require.NoError(t, cwd.Chdir("/srv/www"))
		require.NoError(t, cwd.Chdir(".."))
		dir, _ := cwd.Getwd()
		assert.Equal(t, "/srv", dir)
	})

	t.Run("parent of root", func(t *testing.T) {
		require.NoError(t, cwd.Chdir("/"))
		require.NoError(t, cwd.Chdir(".."))
		dir, _ := cwd.Getwd()
		assert.Equal(t, "/", dir)
	})

	t.Run("missing", func(t *testing.T) {
		require.NoError(t, cwd.Chdir("/srv"))
		assert.Error(t, cwd.Chdir("/nope"))
		dir, _ := cwd.Getwd()
		assert.Equal(t, "/srv", dir, "a failed change leaves the directory alone")
	})

	t.Run("not a directory", func(t *testing.T) {
		assert.Error(t, cwd.Chdir("/srv/file.txt"))
	})
}

func TestNewVirtualCwd_emptyDefaultsToRoot(t *testing.T) {
	cwd := NewVirtualCwd(afero.NewMemMapFs(), "")
	dir, err := cwd.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/", dir)
}
