//go:build basic || database

// Package integration runs the flowdash binary end to end.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database backends: go test -tags database ./integration
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedFlowdashPath holds the path to a shared flowdash binary built once for all tests.
	sharedFlowdashPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getFlowdashBinary returns the path to the flowdash binary, building it once if needed.
func getFlowdashBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "flowdash-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		flowdashPath := filepath.Join(tempDir, "flowdash")
		buildCmd := exec.Command("go", "build", "-o", flowdashPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build flowdash binary: %v\n%s", err, out))
		}

		sharedFlowdashPath = flowdashPath
	})

	return sharedFlowdashPath
}

// datasetPath returns the absolute path of the sample dataset fixture.
func datasetPath(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", "dataset.yaml"))
	if err != nil {
		t.Fatalf("failed to resolve dataset path: %v", err)
	}
	return path
}

// runFlowdash runs the binary against the sample dataset with the given extra env.
// Cache and analysis files go to a fresh HOME unless env sets one.
func runFlowdash(t *testing.T, env []string, args ...string) ([]byte, error) {
	t.Helper()
	base := []string{"--source", "file", "--dataset-file", datasetPath(t)}
	cmd := exec.Command(getFlowdashBinary(), append(args, base...)...)
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())
	cmd.Env = append(cmd.Env, env...)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			t.Logf("Command failed: %s\nStderr: %s", cmd.String(), string(exitErr.Stderr))
		}
		return output, err
	}
	return output, nil
}
