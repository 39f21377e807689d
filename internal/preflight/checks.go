package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"emotiplot/internal/emotibit"
	"emotiplot/internal/pipeline"
)

// CheckDirectoryAccess verifies that the directory exists and is readable,
// and writable when write is set.
func CheckDirectoryAccess(name, path string, write bool) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not set"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	mode := uint32(unix.R_OK | unix.X_OK)
	access := "read"
	if write {
		mode |= unix.W_OK
		access = "read/write"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, access)}
}

// CheckSchedule verifies the configured schedule file, or that one can be
// discovered inside dataDir when none is configured.
func CheckSchedule(path, dataDir string) Result {
	const name = "Schedule"

	if strings.TrimSpace(path) == "" {
		if strings.TrimSpace(dataDir) == "" {
			return Result{Name: name, Detail: "not set and no data folder to search"}
		}
		found, err := pipeline.FindSchedule(dataDir)
		if err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("none found in %s", dataDir)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (discovered)", found)}
	}

	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckChannels counts the requested channels with at least one export in
// dataDir. With strict set every channel must be present.
func CheckChannels(dataDir string, codes []string, strict bool) Result {
	const name = "Channels"

	counts, err := emotibit.AvailableCodes(dataDir)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("cannot scan %s: %v", dataDir, err)}
	}
	var missing []string
	for _, code := range codes {
		if counts[code] == 0 {
			missing = append(missing, code)
		}
	}
	present := len(codes) - len(missing)
	detail := fmt.Sprintf("%d of %d channels have exports", present, len(codes))
	if len(missing) > 0 {
		detail += " (missing: " + strings.Join(missing, ", ") + ")"
	}
	if present == 0 || (strict && len(missing) > 0) {
		return Result{Name: name, Detail: detail}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}
