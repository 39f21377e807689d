package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"emotiplot/internal/model"
	"emotiplot/internal/testsupport"
)

// base is 2024-05-01 14:00:00 UTC.
const base = 1714572000.0

type cliTestEnv struct {
	dataDir    string
	outputDir  string
	logDir     string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	root := t.TempDir()
	t.Setenv("HOME", filepath.Join(root, "home"))
	t.Setenv("EMOTIPLOT_DATA_DIR", "")
	t.Setenv("EMOTIPLOT_SCHEDULE", "")
	t.Setenv("EMOTIPLOT_OUTPUT_DIR", "")

	env := &cliTestEnv{
		dataDir:    filepath.Join(root, "2024-05-01 afternoon"),
		outputDir:  filepath.Join(root, "plots"),
		logDir:     filepath.Join(root, "logs"),
		configPath: filepath.Join(root, "emotiplot.toml"),
	}
	if err := os.MkdirAll(env.outputDir, 0o755); err != nil {
		t.Fatalf("mkdir output: %v", err)
	}
	writeSession(t, env.dataDir, "HR", "EA")
	writeTestConfig(t, env)
	return env
}

func writeSession(t *testing.T, dir string, codes ...string) {
	t.Helper()
	for _, code := range codes {
		rows := make([]testsupport.SignalRow, 0, 120)
		for i := 0; i < 120; i++ {
			rows = append(rows, testsupport.SignalRow{Epoch: base + float64(i), Value: float64(70 + i%5)})
		}
		testsupport.WriteSignalCSV(t, dir, "2024-05-01_14-00-00-000001", code, rows...)
	}
	testsupport.WriteCSV(t, filepath.Join(dir, "Afternoon Combined Observations.csv"),
		[]string{"time", "song_name", "score", "observation"},
		[][]string{
			{"2:00", "Song A", "8", ""},
			{"2:01", "Song B", "", "music end"},
		})
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
output_dir = %q
log_dir = %q

[session]
timezone = "UTC"

[figure]
width = 10
height = 4
dpi = 100

[render]
signals = ["HR"]
`, env.dataDir, env.outputDir, env.logDir)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--log-level", "error"}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestRenderWritesConfiguredSignals(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"render"}, env.configPath)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	requireContains(t, out, "Session 2024-05-01 afternoon")
	requireContains(t, out, "HR")
	requireContains(t, out, "rendered")
	requireContains(t, out, "2 entries")
	if _, err := os.Stat(filepath.Join(env.outputDir, "HR.png")); err != nil {
		t.Fatalf("expected HR.png: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.outputDir, "EA.png")); err == nil {
		t.Fatal("EA was not requested and should not be rendered")
	}
	if _, err := os.Stat(filepath.Join(env.logDir, "emotiplot.log")); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}

func TestRenderFlagsOverrideConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(t.TempDir(), "out")

	out, _, err := runCLI(t, []string{
		"render", "--signal", "ea", "--signal", "hr", "--output", target, "--create-output", "--workers", "2",
	}, env.configPath)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	requireContains(t, out, "EA")
	for _, name := range []string{"EA.png", "HR.png"} {
		if _, err := os.Stat(filepath.Join(target, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestRenderMissingOutputDirExitCode(t *testing.T) {
	env := setupCLITestEnv(t)
	missing := filepath.Join(t.TempDir(), "absent")

	_, _, err := runCLI(t, []string{"render", "--output", missing}, env.configPath)
	if err == nil {
		t.Fatal("expected render to fail for a missing output folder")
	}
	if code := model.ExitCode(err); code != 4 {
		t.Fatalf("expected exit code 4, got %d (%v)", code, err)
	}
}

func TestRenderRejectsUnknownSignal(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"render", "--signal", "zz"}, env.configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}
	requireContains(t, err.Error(), "render.signals")
}

func TestRenderRootProcessesSubfolders(t *testing.T) {
	env := setupCLITestEnv(t)
	root := t.TempDir()
	writeSession(t, filepath.Join(root, "2024-05-01 afternoon"), "HR")
	writeSession(t, filepath.Join(root, "2024-05-01 afternoon b"), "HR")

	out, _, err := runCLI(t, []string{"render", "--root", root}, env.configPath)
	if err != nil {
		t.Fatalf("render --root: %v", err)
	}
	requireContains(t, out, "Session 2024-05-01 afternoon b")
	for _, sub := range []string{"2024-05-01 afternoon", "2024-05-01 afternoon b"} {
		if _, err := os.Stat(filepath.Join(root, sub, "plots", "HR.png")); err != nil {
			t.Fatalf("expected plot for %s: %v", sub, err)
		}
	}
}

func TestChannelsListsExports(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteSignalCSV(t, env.dataDir, "2024-05-01_x", "QQ", testsupport.SignalRow{Epoch: base, Value: 1})

	out, _, err := runCLI(t, []string{"channels"}, env.configPath)
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	requireContains(t, out, "Heart Rate")
	requireContains(t, out, "bpm")
	requireContains(t, out, "QQ")
	requireContains(t, out, "Session folder: "+env.dataDir)
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, "[OK] "+env.dataDir)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Sample configuration written to "+target)
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}
