package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minnowsh/minnow/core/syntax"
	"github.com/minnowsh/minnow/core/vos"
)

func TestResolveFragment(t *testing.T) {
	env := vos.NewMapEnv()
	require.NoError(t, env.Setenv("USER", "ada"))

	assert.Equal(t, "literal", ResolveFragment(env, syntax.Fragment{Text: "literal"}))
	assert.Equal(t, "ada", ResolveFragment(env, syntax.Fragment{Text: "USER", Expand: true}))
	assert.Equal(t, "", ResolveFragment(env, syntax.Fragment{Text: "UNSET", Expand: true}))
}

func TestResolveChain(t *testing.T) {
	env := vos.NewMapEnv()
	require.NoError(t, env.Setenv("NAME", "minnow"))

	cases := []struct {
		name string
		word *syntax.Word
		want string
		ok   bool
	}{
		{"nil word", nil, "", false},
		{"empty word", &syntax.Word{}, "", false},
		{"single literal", syntax.Lit("hello"), "hello", true},
		{"single variable", syntax.Var("NAME"), "minnow", true},
		{"unset variable", syntax.Var("UNSET"), "", true},
		{
			"concatenation",
			&syntax.Word{Parts: []syntax.Fragment{
				{Text: "pre-"},
				{Text: "NAME", Expand: true},
				{Text: "-post"},
			}},
			"pre-minnow-post",
			true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ResolveChain(env, tc.word)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
