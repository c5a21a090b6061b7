package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/discogo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCreate_Pairs(t *testing.T) {
	input := writeInput(t, "key a\nkey b\nkey a\nother c\n")
	out := filepath.Join(t.TempDir(), "out.ddb")

	stdout, stderr, err := run(t, "--hash", "--probe", "key", out, input)
	require.NoError(t, err)

	assert.Contains(t, stderr, "4 key-value pairs read.")
	assert.Contains(t, stderr, "Ok! Index written to "+out)
	assert.Contains(t, stdout, "Number of keys:          2\n")
	assert.Contains(t, stdout, "Number of items:         3\n")
	assert.Contains(t, stdout, "Hashed?                  true\n")
	assert.Contains(t, stdout, "a\nb\n")

	db, err := discogo.Open(out)
	require.NoError(t, err)
	defer db.Close()
	assert.True(t, db.Info().Hashed)
}

func TestCreate_KeysOnly(t *testing.T) {
	input := writeInput(t, "alpha\nbeta\ngamma\n")
	out := filepath.Join(t.TempDir(), "keys.ddb")

	stdout, stderr, err := run(t, "--keys-only", "--no-compress", out, input)
	require.NoError(t, err)
	assert.Contains(t, stderr, "3 keys read.")
	assert.Contains(t, stdout, "Number of keys:          3\n")
	assert.Contains(t, stdout, "Number of items:         0\n")
	assert.Contains(t, stdout, "Compressed?              false\n")
}

func TestCreate_EnvSwitches(t *testing.T) {
	t.Setenv("KEYS_ONLY", "1")
	t.Setenv("DONT_COMPRESS", "1")

	input := writeInput(t, "alpha beta\n")
	out := filepath.Join(t.TempDir(), "env.ddb")

	_, stderr, err := run(t, out, input)
	require.NoError(t, err)
	assert.Contains(t, stderr, "2 keys read.")

	db, err := discogo.Open(out)
	require.NoError(t, err)
	defer db.Close()
	assert.False(t, db.Info().Compressed)
}

func TestCreate_Multiset(t *testing.T) {
	input := writeInput(t, "k v k v\n")
	out := filepath.Join(t.TempDir(), "multi.ddb")

	stdout, _, err := run(t, "--unique-items=false", "--compression", "lz4", out, input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Number of items:         2\n")
	assert.Contains(t, stdout, "Multiset?                true\n")
}

func TestCreate_Failures(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.ddb")

	_, _, err := run(t, out, filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "couldn't open")

	_, _, err = run(t, "--compression", "brotli", out, writeInput(t, "a b\n"))
	assert.Error(t, err)

	_, _, err = run(t, out)
	assert.Error(t, err)

	_, err = os.Stat(out)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCreate_Compression(t *testing.T) {
	out := filepath.Join(t.TempDir(), "c.ddb")
	_, _, err := run(t, "--compression", "none", out, writeInput(t, "a b\n"))
	require.NoError(t, err)

	db, err := discogo.Open(out)
	require.NoError(t, err)
	defer db.Close()
	assert.False(t, db.Info().Compressed)
	assert.Equal(t, uint64(1), db.Info().NumItems)
}
