package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/attrgrid/internal/cli"
)

func TestRun_Eval(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	sheet := "attribute \"a\" {}\nattribute \"b\" {\n  step \"upper\" {}\n}\nvalues {\n  a = \"x\"\n  b = \"y\"\n}\n"
	require.NoError(t, os.WriteFile(filePath, []byte(sheet), 0600))
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(out, errOut, []string{"eval", filePath})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), `"value": "Y"`)
}

func TestRun_LoadError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A sheet with a syntax error fails while the app is being built.
	invalidHCL := `
		attribute "a" {
			step "upper" {
		// Missing closing braces here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0600))
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, errOut, []string{"eval", filePath})

	// --- Assert ---
	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "failed to parse")
	var exitErr *cli.ExitError
	require.False(t, errors.As(runErr, &exitErr), "load failures are runtime errors, not usage errors")
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := run(out, errOut, []string{"--help"})

	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := run(out, errOut, []string{"eval", "--this-is-not-a-valid-flag"})

	require.Error(t, err)
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}
