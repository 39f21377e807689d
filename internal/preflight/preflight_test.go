package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"emotiplot/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, true)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), false)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, false)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_Unset(t *testing.T) {
	if CheckDirectoryAccess("test", "", false).Passed {
		t.Fatal("expected failure for unset path")
	}
}

func TestCheckSchedule_Discovered(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteText(t, filepath.Join(dir, "Morning Combined Observations.csv"), "time,song_name\n")

	result := CheckSchedule("", dir)
	if !result.Passed {
		t.Fatalf("expected discovered schedule, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "discovered") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckSchedule_Missing(t *testing.T) {
	if CheckSchedule("", t.TempDir()).Passed {
		t.Fatal("expected failure without a schedule")
	}
	if CheckSchedule(filepath.Join(t.TempDir(), "absent.xlsx"), "").Passed {
		t.Fatal("expected failure for missing schedule file")
	}
}

func TestCheckChannels(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteSignalCSV(t, dir, "2024-05-01_a", "HR", testsupport.SignalRow{Epoch: 1, Value: 60})

	lenient := CheckChannels(dir, []string{"HR", "AX"}, false)
	if !lenient.Passed {
		t.Fatalf("expected lenient pass, got: %s", lenient.Detail)
	}
	if !strings.Contains(lenient.Detail, "1 of 2") || !strings.Contains(lenient.Detail, "AX") {
		t.Fatalf("unexpected detail %q", lenient.Detail)
	}
	if CheckChannels(dir, []string{"HR", "AX"}, true).Passed {
		t.Fatal("expected strict failure with a missing channel")
	}
	if CheckChannels(dir, []string{"AX"}, false).Passed {
		t.Fatal("expected failure when no channel has exports")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSignals("HR"))
	testsupport.WriteSignalCSV(t, cfg.Paths.DataDir, "2024-05-01_a", "HR", testsupport.SignalRow{Epoch: 1, Value: 60})
	testsupport.WriteText(t, filepath.Join(cfg.Paths.DataDir, "schedule.xlsx"), "")

	results := RunAll(cfg)
	// data folder, schedule, output folder, channels
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if Failed(results) {
		t.Fatal("expected no failures")
	}
}
