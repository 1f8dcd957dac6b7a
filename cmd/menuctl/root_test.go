package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestRootHelp(t *testing.T) {
	out := execute(t, "--help")
	assert.Contains(t, out, "migrate")
	assert.Contains(t, out, "sessions")
}

func TestVersion(t *testing.T) {
	out := execute(t, "version")
	assert.Contains(t, out, "menuctl dev")
}

func TestSessionsHelp(t *testing.T) {
	out := execute(t, "sessions", "--help")
	assert.Contains(t, out, "purge")
}
