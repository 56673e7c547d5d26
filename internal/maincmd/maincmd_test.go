package maincmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/mna/tapt/internal/maincmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func runCmd(t *testing.T, args ...string) (mainer.ExitCode, string, string) {
	t.Helper()
	var out, eout bytes.Buffer
	c := maincmd.Cmd{BuildVersion: "0.1", BuildDate: "2024-01-01"}
	code := c.Main(append([]string{"tapt"}, args...), mainer.Stdio{
		Stdout: &out,
		Stderr: &eout,
	})
	return code, out.String(), eout.String()
}

func TestRunCommand(t *testing.T) {
	file := writeFile(t, "add.tapt", "const a = 1;\nconst b = 2;\na + b\n")
	code, out, _ := runCmd(t, "run", file)
	assert.Equal(t, mainer.Success, code)
	assert.Equal(t, "3\n", out)
}

func TestRunCommandNoResult(t *testing.T) {
	file := writeFile(t, "add.tapt", "1 + 2")
	code, out, _ := runCmd(t, "--no-result", "run", file)
	assert.Equal(t, mainer.Success, code)
	assert.Empty(t, out)
}

func TestRunCommandDisasm(t *testing.T) {
	file := writeFile(t, "one.tapt", "1")
	code, out, _ := runCmd(t, "--disasm", "run", file)
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out, "function: main")
	assert.Contains(t, out, "Halt")
}

func TestRunCommandTrace(t *testing.T) {
	file := writeFile(t, "one.tapt", "1")
	code, out, eout := runCmd(t, "--trace", "run", file)
	assert.Equal(t, mainer.Success, code)
	assert.Equal(t, "1\n", out)
	assert.Contains(t, eout, "LoadConst 0")
	assert.Contains(t, eout, "Halt")
}

func TestRunCommandPrintln(t *testing.T) {
	file := writeFile(t, "p.tapt", "println(42);")
	code, out, _ := runCmd(t, "--no-result", "run", file)
	assert.Equal(t, mainer.Success, code)
	assert.Equal(t, "42\n", out)
}

func TestRunCommandCompileError(t *testing.T) {
	file := writeFile(t, "bad.tapt", "const x = 1; x = 2;")
	code, _, eout := runCmd(t, "run", file)
	assert.Equal(t, mainer.Failure, code)
	assert.Contains(t, eout, "immutable")
}

func TestCompileCommand(t *testing.T) {
	file := writeFile(t, "add.tapt", "1 + 2")
	code, out, _ := runCmd(t, "compile", file)
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out, "function: main")
	assert.Contains(t, out, "Add")
}

func TestTokenizeCommand(t *testing.T) {
	file := writeFile(t, "t.tapt", "let x = 1;")
	code, out, _ := runCmd(t, "tokenize", file)
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out, "let")
	assert.Contains(t, out, "identifier x")
	assert.Contains(t, out, "int literal 1")
	assert.Contains(t, out, "end of file")
}

func TestParseCommand(t *testing.T) {
	file := writeFile(t, "p.tapt", "let x=1;x")
	code, out, _ := runCmd(t, "parse", file)
	assert.Equal(t, mainer.Success, code)
	assert.Equal(t, "let x = 1;\nx\n", out)
}

func TestInvalidUsage(t *testing.T) {
	code, _, _ := runCmd(t)
	assert.Equal(t, mainer.InvalidArgs, code)

	code, _, _ = runCmd(t, "frobnicate", "x.tapt")
	assert.Equal(t, mainer.InvalidArgs, code)

	// run-only flags are rejected for other commands
	code, _, _ = runCmd(t, "--disasm", "parse", "x.tapt")
	assert.Equal(t, mainer.InvalidArgs, code)

	code, _, _ = runCmd(t, "--trace", "compile", "x.tapt")
	assert.Equal(t, mainer.InvalidArgs, code)
}

func TestHelpAndVersion(t *testing.T) {
	code, out, _ := runCmd(t, "--help")
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out, "usage:")

	code, out, _ = runCmd(t, "--version")
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out, "tapt 0.1")
}

func TestRunWithConfigFile(t *testing.T) {
	cfg := writeFile(t, "cfg.yaml", "no-result: true\n")
	file := writeFile(t, "one.tapt", "1")
	code, out, _ := runCmd(t, "--config="+cfg, "run", file)
	assert.Equal(t, mainer.Success, code)
	assert.Empty(t, out)
}
