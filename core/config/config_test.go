package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_isValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	contents := `
prompt: '\u> '
log_level: debug
env:
  GREETING: hello
ssh:
  addr: ":2022"
  users:
    - username: ada
      password: secret
`
	require.NoError(t, afero.WriteFile(fs, "/etc/minnow/config.yaml", []byte(contents), 0644))

	cfg, err := Load(fs, "/etc/minnow")
	require.NoError(t, err)

	assert.Equal(t, `\u> `, cfg.Prompt)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "hello", cfg.Env["GREETING"])
	assert.Equal(t, ":2022", cfg.SSH.Addr)

	password, ok := cfg.Password("ada")
	assert.True(t, ok)
	assert.Equal(t, "secret", password)

	_, ok = cfg.Password("eve")
	assert.False(t, ok)
}

func TestLoad_acceptsFilePath(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/minnow/config.yaml", []byte("prompt: '> '"), 0644))

	cfg, err := Load(fs, "/etc/minnow/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "> ", cfg.Prompt)
}

func TestLoad_missing(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nowhere")
	assert.Error(t, err)
}

func TestLoad_rejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad log level": "log_level: loud",
		"unknown field": "promt: oops",
		"user without password": `
ssh:
  users:
    - username: ada
`,
		"duplicate users": `
ssh:
  users:
    - username: ada
      password: a
    - username: ada
      password: b
`,
	}

	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/c/config.yaml", []byte(contents), 0644))
			_, err := Load(fs, "/c")
			assert.Error(t, err)
		})
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()

	in := Default()
	in.Prompt = `\w\$ `
	in.Env = map[string]string{"EDITOR": "vi"}

	require.NoError(t, Write(fs, "/home/ada/.minnow", in))

	out, err := Load(fs, "/home/ada/.minnow")
	require.NoError(t, err)
	assert.Equal(t, in.Prompt, out.Prompt)
	assert.Equal(t, in.LogLevel, out.LogLevel)
	assert.Equal(t, in.Env, out.Env)
	assert.Equal(t, in.SSH.Addr, out.SSH.Addr)
}
