package interp

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wd(t *testing.T, r *Runner) string {
	t.Helper()
	dir, err := r.Cwd.Getwd()
	require.NoError(t, err)
	return dir
}

func TestCd_absoluteAndParent(t *testing.T) {
	r, _ := newTestRunner(t)
	require.NoError(t, r.FS.MkdirAll("/srv/www", 0755))

	assert.Equal(t, StatusSuccess, r.Run(mustParse(t, "cd /srv/www")))
	assert.Equal(t, "/srv/www", wd(t, r))

	assert.Equal(t, StatusSuccess, r.Run(mustParse(t, "cd ..")))
	assert.Equal(t, "/srv", wd(t, r))
}

func TestCd_alwaysRecordsOldpwd(t *testing.T) {
	r, _ := newTestRunner(t)
	require.NoError(t, r.FS.MkdirAll("/srv", 0755))

	_, ok := r.Env.LookupEnv("OLDPWD")
	require.False(t, ok)

	assert.Equal(t, StatusSuccess, r.Run(mustParse(t, "cd /srv")))
	assert.Equal(t, "/", r.Env.Getenv("OLDPWD"))

	// Recorded even when the change is a no-op.
	assert.Equal(t, StatusSuccess, r.Run(mustParse(t, "cd .")))
	assert.Equal(t, "/srv", r.Env.Getenv("OLDPWD"))
	assert.Equal(t, "/srv", wd(t, r))

	// Recorded even when the target does not exist.
	assert.Equal(t, StatusSuccess, r.Run(mustParse(t, "cd /missing")))
	assert.Equal(t, "/srv", r.Env.Getenv("OLDPWD"))
	assert.Equal(t, "/srv", wd(t, r), "missing target leaves the directory alone")
}

func TestCd_dash(t *testing.T) {
	r, _ := newTestRunner(t)
	require.NoError(t, r.FS.MkdirAll("/srv", 0755))

	// OLDPWD unset: failure, no change.
	assert.Equal(t, StatusFailure, r.Run(mustParse(t, "cd -")))
	assert.Equal(t, "/", wd(t, r))

	// After a real change, cd - swaps with the previous directory.
	require.Equal(t, StatusSuccess, r.Run(mustParse(t, "cd /srv")))
	assert.Equal(t, StatusSuccess, r.Run(mustParse(t, "cd -")))
	assert.Equal(t, "/", wd(t, r))
	assert.Equal(t, "/srv", r.Env.Getenv("OLDPWD"))
}

func TestCd_home(t *testing.T) {
	r, _ := newTestRunner(t)
	require.NoError(t, r.FS.MkdirAll("/home/ada", 0755))
	require.NoError(t, r.Env.Setenv("HOME", "/home/ada"))

	for _, line := range []string{"cd", "cd ~"} {
		t.Run(line, func(t *testing.T) {
			require.Equal(t, StatusSuccess, r.Run(mustParse(t, "cd /")))
			assert.Equal(t, StatusSuccess, r.Run(mustParse(t, line)))
			assert.Equal(t, "/home/ada", wd(t, r))
		})
	}
}

func TestCd_homeUnset(t *testing.T) {
	r, _ := newTestRunner(t)
	assert.Equal(t, StatusFailure, r.Run(mustParse(t, "cd")))
}

func TestCd_withRedirection(t *testing.T) {
	r, _ := newTestRunner(t)
	require.NoError(t, r.FS.MkdirAll("/srv", 0755))

	var out bytes.Buffer
	r.Stdio.Out = &out

	// Redirections on a builtin are applied and the target created, while
	// the directory change still happens in-process.
	assert.Equal(t, StatusSuccess, r.Run(mustParse(t, "cd /srv > /cd.log")))
	assert.Equal(t, "/srv", wd(t, r))

	exists, err := afero.Exists(r.FS, "/cd.log")
	require.NoError(t, err)
	assert.True(t, exists)

	// The builtin ran against the redirected streams, not the caller's: the
	// caller's stdout stays bound and untouched.
	assert.Same(t, &out, r.Stdio.Out)
	assert.Zero(t, out.Len())
}

func TestAssignment_overwrites(t *testing.T) {
	r, _ := newTestRunner(t)

	assert.Equal(t, StatusSuccess, r.Run(mustParse(t, "X = one")))
	assert.Equal(t, "one", r.Env.Getenv("X"))

	assert.Equal(t, StatusSuccess, r.Run(mustParse(t, "X = two")))
	assert.Equal(t, "two", r.Env.Getenv("X"))
}

func TestAssignment_expandsValue(t *testing.T) {
	r, _ := newTestRunner(t)
	require.NoError(t, r.Env.Setenv("BASE", "/opt"))

	assert.Equal(t, StatusSuccess, r.Run(mustParse(t, "DIR = $BASE/bin")))
	assert.Equal(t, "/opt/bin", r.Env.Getenv("DIR"))
}
