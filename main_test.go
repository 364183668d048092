package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// whatever was written to it. runFile writes straight to os.Stdout (it
// is, after all, the process's own stdout once wired into main), so
// exercising it end to end means swapping that file descriptor out.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	original := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = original }()

	fn()
	require.NoError(t, w.Close())

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	return string(buf[:n])
}

func writeSource(t *testing.T, contents string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "*.ember")
	require.NoError(t, err)
	_, err = f.WriteString(contents)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestRunFileSuccess(t *testing.T) {
	path := writeSource(t, "1 + 2 * 3")
	var code int
	out := captureStdout(t, func() { code = runFile(path, false) })
	require.Equal(t, 0, code)
	require.Equal(t, "7\n", out)
}

func TestRunFileCompileErrorExits65(t *testing.T) {
	path := writeSource(t, "* 5")
	code := runFile(path, false)
	require.Equal(t, 65, code)
}

func TestRunFileRuntimeErrorExits70(t *testing.T) {
	path := writeSource(t, "1 + true")
	code := runFile(path, false)
	require.Equal(t, 70, code)
}

func TestRunFileMissingFileExits74(t *testing.T) {
	code := runFile("/nonexistent/path/does-not-exist.ember", false)
	require.Equal(t, 74, code)
}

func TestRunFileDisassembleDoesNotChangeExitCode(t *testing.T) {
	path := writeSource(t, "1 + 2")
	var code int
	_ = captureStdout(t, func() { code = runFile(path, true) })
	require.Equal(t, 0, code)
}
