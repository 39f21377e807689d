package testsupport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SignalRow is one EmotiBit sample written by WriteSignalCSV.
type SignalRow struct {
	Epoch float64
	Value float64
}

// signalHeader mirrors the EmotiBit DataParser column layout.
var signalHeader = []string{
	"LocalTimestamp", "EmotiBitTimestamp", "PacketNumber", "DataLength",
	"TypeTag", "ProtocolVersion", "DataReliability",
}

// WriteSignalCSV writes <dir>/<prefix>_<code>.csv in the EmotiBit export
// layout and returns its path.
func WriteSignalCSV(t testing.TB, dir, prefix, code string, rows ...SignalRow) string {
	t.Helper()

	header := append(append([]string{}, signalHeader...), code)
	records := make([][]string, 0, len(rows))
	for i, row := range rows {
		records = append(records, []string{
			strconv.FormatFloat(row.Epoch, 'f', -1, 64),
			strconv.Itoa(i * 40),
			strconv.Itoa(i + 1),
			"1",
			code,
			"1",
			"100",
			strconv.FormatFloat(row.Value, 'f', -1, 64),
		})
	}
	path := filepath.Join(dir, prefix+"_"+code+".csv")
	WriteCSV(t, path, header, records)
	return path
}

// WriteCSV writes a header and records to path, creating parent directories.
func WriteCSV(t testing.TB, path string, header []string, records [][]string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if header != nil {
		if err := w.Write(header); err != nil {
			t.Fatalf("write header %s: %v", path, err)
		}
	}
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteText writes raw content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteScheduleXLSX writes a single-sheet workbook with a header row and the
// given rows. Cell values keep their Go types, so time.Time and float64
// values land as Excel dates and numbers.
func WriteScheduleXLSX(t testing.TB, path, sheet string, header []string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		index, err := f.NewSheet(sheet)
		if err != nil {
			t.Fatalf("create sheet: %v", err)
		}
		f.SetActiveSheet(index)
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("delete default sheet: %v", err)
		}
	}

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		t.Fatalf("write header row: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("write row %d: %v", i+2, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook %s: %v", path, err)
	}
}
