package e2e

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	stdout, stderr, err := runDiva(t, binaryPath, home, "", "--version")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "diva version")

	_, stderr, err = runDiva(t, binaryPath, home, "", "commands", "set", "--code", "7", "--phrase", "Good night")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runDiva(t, binaryPath, home, "", "commands", "list")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "7\tGood night")
}

func TestMissingDeviceModelExitsNonZero(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	_, stderr, err := runDiva(t, binaryPath, home, "")
	require.Error(t, err)

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, stderr, "device_model_id")
}

func TestMissingCredentialsExitsNonZero(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	_, stderr, err := runDiva(t, binaryPath, home, "", "--device_model_id", "model-1")
	require.Error(t, err)
	assert.Contains(t, stderr, "credentials not found")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "diva-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/diva")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build diva binary: %s", string(output))
	return binaryPath
}

func runDiva(t *testing.T, binaryPath, home, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(), "HOME="+home)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
