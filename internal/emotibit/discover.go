package emotibit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"emotiplot/internal/model"
)

// sessionDateLayout is the date prefix EmotiBit puts on exported file names.
const sessionDateLayout = "2006-01-02"

// FilePattern returns the glob matching every export file for code.
func FilePattern(code string) string {
	return "*_" + strings.ToUpper(strings.TrimSpace(code)) + ".csv"
}

// Discover returns the files in folder matching FilePattern(code), sorted by name.
func Discover(folder, code string) ([]string, error) {
	names, err := csvNames(folder)
	if err != nil {
		return nil, err
	}
	pattern := FilePattern(code)
	matches := make([]string, 0, 1)
	for _, name := range names {
		ok, err := filepath.Match(pattern, name)
		if err != nil {
			return nil, model.Wrap(model.ErrDataFormat, "emotibit", "discover", "bad pattern "+pattern, err)
		}
		if ok {
			matches = append(matches, filepath.Join(folder, name))
		}
	}
	return matches, nil
}

// AvailableCodes returns the channel codes present in folder with their file
// counts. Codes are taken from the text after the last underscore of each CSV
// file name.
func AvailableCodes(folder string) (map[string]int, error) {
	names, err := csvNames(folder)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, name := range names {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		idx := strings.LastIndex(stem, "_")
		if idx < 0 || idx == len(stem)-1 {
			continue
		}
		counts[stem[idx+1:]]++
	}
	return counts, nil
}

// SessionDate derives the recording date from the first CSV file name in
// folder that starts with a YYYY-MM-DD_ prefix. ok is false when no file
// carries one.
func SessionDate(folder string, loc *time.Location) (time.Time, bool, error) {
	if loc == nil {
		loc = time.UTC
	}
	names, err := csvNames(folder)
	if err != nil {
		return time.Time{}, false, err
	}
	for _, name := range names {
		prefix, _, found := strings.Cut(name, "_")
		if !found {
			continue
		}
		date, err := time.ParseInLocation(sessionDateLayout, prefix, loc)
		if err != nil {
			continue
		}
		return date, true, nil
	}
	return time.Time{}, false, nil
}

func csvNames(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, model.Wrap(model.ErrDataFormat, "emotibit", "read folder", folder, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func describeFiles(paths []string) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return fmt.Sprintf("%d file(s): %s", len(paths), strings.Join(names, ", "))
}
