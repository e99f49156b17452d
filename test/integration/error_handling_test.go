package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildBinary compiles the CLI into dir and returns its path.
func buildBinary(t *testing.T, dir string) string {
	t.Helper()

	originalDir, _ := os.Getwd()
	binaryPath := filepath.Join(dir, "brewboxes")
	buildCmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/brewboxes")
	buildCmd.Dir = originalDir
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build CLI binary: %v\n%s", err, output)
	}
	return binaryPath
}

// isolatedEnv returns an environment where no container engine can be found
// and logs go to dir.
func isolatedEnv(t *testing.T, dir string) (env []string, configPath string) {
	t.Helper()

	configPath = filepath.Join(dir, "brewboxes.yaml")
	content := "engine:\n  search_paths: []\n  pty: false\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "PATH=") || strings.HasPrefix(kv, "BREWBOXES_") {
			continue
		}
		env = append(env, kv)
	}
	env = append(env, "PATH="+dir, "BREWBOXES_LOG_DIR="+dir)
	return env, configPath
}

func TestCLI_ErrorHandling_NoEngine(t *testing.T) {
	tempDir := t.TempDir()
	binaryPath := buildBinary(t, tempDir)
	env, configPath := isolatedEnv(t, tempDir)

	for _, args := range [][]string{
		{"stop", "nonexistent-id"},
		{"delete", "nonexistent-id"},
		{"detect"},
		{"launch", "--distro", "ubuntu", "--gui", "xfce"},
	} {
		t.Run(args[0], func(t *testing.T) {
			cmd := exec.Command(binaryPath, append([]string{"--config", configPath}, args...)...)
			cmd.Env = env
			output, err := cmd.CombinedOutput()

			if err == nil {
				t.Fatalf("Expected command to fail but it succeeded: %s", output)
			}

			outputStr := string(output)
			for _, part := range []string{"Error:", "No container engine (Docker or Podman) found", "Suggestion:"} {
				if !strings.Contains(outputStr, part) {
					t.Errorf("Expected output to contain %q, but got: %s", part, outputStr)
				}
			}
		})
	}

	logFile := filepath.Join(tempDir, "brewboxes.log")
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Expected brewboxes.log to be created: %v", err)
	}
	if !strings.Contains(string(data), "runtime_not_found") {
		t.Errorf("Expected log to record runtime_not_found, got: %s", data)
	}
}

func TestCLI_ErrorHandling_MissingConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	binaryPath := buildBinary(t, tempDir)
	env, _ := isolatedEnv(t, tempDir)

	cmd := exec.Command(binaryPath, "--config", filepath.Join(tempDir, "missing.yaml"), "detect")
	cmd.Env = env
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("Expected command to fail but it succeeded")
	}
	if !strings.Contains(string(output), "config file not found") {
		t.Errorf("Expected output about the missing config file, but got: %s", output)
	}
}

func TestCLI_ErrorHandling_InvalidConfig(t *testing.T) {
	tempDir := t.TempDir()
	binaryPath := buildBinary(t, tempDir)
	env, _ := isolatedEnv(t, tempDir)

	configPath := filepath.Join(tempDir, "invalid.yaml")
	if err := os.WriteFile(configPath, []byte("image:\n  web_port: 70000\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cmd := exec.Command(binaryPath, "--config", configPath, "detect")
	cmd.Env = env
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("Expected command to fail but it succeeded")
	}
	if !strings.Contains(string(output), "must be at most 65535") {
		t.Errorf("Expected validation output, but got: %s", output)
	}
}

func TestCLI_ErrorHandling_InvalidFlag(t *testing.T) {
	tempDir := t.TempDir()
	binaryPath := buildBinary(t, tempDir)

	cmd := exec.Command(binaryPath, "launch", "--invalid-flag")
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("Expected command to fail but it succeeded")
	}
	if !strings.Contains(string(output), "unknown flag") {
		t.Errorf("Expected error output about unknown flag, but got: %s", output)
	}
}

func TestCLI_ErrorHandling_LaunchMissingFlags(t *testing.T) {
	tempDir := t.TempDir()
	binaryPath := buildBinary(t, tempDir)
	env, configPath := isolatedEnv(t, tempDir)

	cmd := exec.Command(binaryPath, "--config", configPath, "launch", "--distro", "ubuntu")
	cmd.Env = env
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("Expected command to fail but it succeeded")
	}
	if !strings.Contains(string(output), `required flag(s) "gui" not set`) {
		t.Errorf("Expected output about the missing flag, but got: %s", output)
	}
}

func TestCLI_Version(t *testing.T) {
	tempDir := t.TempDir()
	binaryPath := buildBinary(t, tempDir)

	output, err := exec.Command(binaryPath, "--version").CombinedOutput()
	if err != nil {
		t.Fatalf("Expected --version to succeed: %v\n%s", err, output)
	}
	if !strings.Contains(string(output), "brewboxes version") {
		t.Errorf("Expected version output, but got: %s", output)
	}
}
