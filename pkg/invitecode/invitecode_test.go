package invitecode

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeFormat = regexp.MustCompile(`^[A-Z0-9]{3}-[A-Z0-9]{3}$`)

func TestGenerate_Formato(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := Generate()
		require.NoError(t, err)
		assert.Regexp(t, codeFormat, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "los códigos deben variar")
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"abc-def":  "ABC-DEF",
		" ABCDEF ": "ABC-DEF",
		"abc def":  "ABC-DEF",
		"XY7-K2M":  "XY7-K2M",
	}
	for in, want := range cases {
		got, ok := Normalize(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "ABC", "ABC-DEFG", "AB0-DEF", "ABC_DEF"} {
		_, ok := Normalize(bad)
		assert.False(t, ok, bad)
	}
}
