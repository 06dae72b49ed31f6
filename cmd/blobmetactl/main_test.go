package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestBlobMetaCtl(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "catalog")

	out, err := run(t, "insert", "--db", dir, "--compression", "zstd",
		"--super-offset", "0", "--super-size", "300",
		"--blob", "1:0:100", "--blob", "10:100:100", "--blob", "10:250:50")
	require.NoError(t, err)
	require.Contains(t, out, "inserted row [1, 10]#0")

	out, err = run(t, "insert", "--db", dir,
		"--super-offset", "4096", "--super-size", "20",
		"--blob", "5:0:10", "--blob", "15:10:10")
	require.NoError(t, err)
	require.Contains(t, out, "inserted row [5, 15]#1")

	t.Run("rows", func(t *testing.T) {
		out, err := run(t, "rows", "--db", dir)
		require.NoError(t, err)
		require.Contains(t, out, "IDFrom")
		require.Contains(t, out, "{offset: 4096, size: 20}")
		require.Contains(t, out, "SuperEnd")
		require.Contains(t, out, "4116")
		require.Less(t, bytes.Index([]byte(out), []byte("{offset: 0, size: 300}")), bytes.Index([]byte(out), []byte("{offset: 4096, size: 20}")))
	})

	t.Run("lookup", func(t *testing.T) {
		out, err := run(t, "lookup", "--db", dir, "10")
		require.NoError(t, err)
		require.Contains(t, out, "{offset: 100, size: 100} {offset: 250, size: 50}")
		require.Contains(t, out, "150", "blob size sums both chunks")

		out, err = run(t, "lookup", "--db", dir, "5")
		require.NoError(t, err)
		require.Contains(t, out, "not in container", "[1,10] wins for id 5")

		out, err = run(t, "lookup", "--db", dir, "--all", "5")
		require.NoError(t, err)
		require.Contains(t, out, "[1, 10]#0")
		require.Contains(t, out, "[5, 15]#1")
		require.Contains(t, out, "{offset: 0, size: 10}")

		_, err = run(t, "lookup", "--db", dir, "99")
		require.Error(t, err)

		_, err = run(t, "lookup", "--db", dir, "not-a-number")
		require.Error(t, err)
	})

	t.Run("stats", func(t *testing.T) {
		out, err := run(t, "stats", "--db", dir)
		require.NoError(t, err)
		require.Contains(t, out, "[1, 15]")
		require.Contains(t, out, "Zstd")
	})

	t.Run("errors", func(t *testing.T) {
		_, err := run(t, "stats")
		require.ErrorContains(t, err, "--db is required")

		_, err = run(t, "insert", "--db", dir, "--super-size", "10", "--blob", "1:0")
		require.ErrorContains(t, err, "id:offset:size")

		_, err = run(t, "insert", "--db", dir, "--super-size", "10")
		require.Error(t, err, "container without blobs")

		_, err = run(t, "stats", "--db", dir, "--compression", "brotli")
		require.ErrorContains(t, err, "unknown compression")
	})
}
