package schedule

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"emotiplot/internal/model"
)

// table is a header row followed by data rows, as raw cell strings.
type table struct {
	header []string
	rows   [][]string
}

func readTable(path, sheet string) (table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(path, sheet)
	case ".csv":
		return readCSV(path)
	default:
		return table{}, model.Wrap(model.ErrDataFormat, "schedule", "open", "unsupported schedule format "+filepath.Ext(path), nil)
	}
}

func readWorkbook(path, sheet string) (table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return table{}, model.Wrap(model.ErrDataFormat, "schedule", "open workbook", path, err)
	}
	defer f.Close()

	if strings.TrimSpace(sheet) == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return table{}, model.Wrap(model.ErrDataFormat, "schedule", "open workbook", path+" has no sheets", nil)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return table{}, model.Wrap(model.ErrDataFormat, "schedule", "open workbook", "sheet "+sheet+" not found in "+path, err)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return table{}, model.Wrap(model.ErrDataFormat, "schedule", "read rows", sheet, err)
	}
	if len(rows) == 0 {
		return table{}, nil
	}
	return table{header: rows[0], rows: rows[1:]}, nil
}

func readCSV(path string) (table, error) {
	f, err := os.Open(path)
	if err != nil {
		return table{}, model.Wrap(model.ErrDataFormat, "schedule", "open csv", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var out table
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table{}, model.Wrap(model.ErrDataFormat, "schedule", "read csv", path, err)
		}
		if out.header == nil {
			if len(record) > 0 {
				record[0] = strings.TrimPrefix(record[0], "\ufeff")
			}
			out.header = record
			continue
		}
		out.rows = append(out.rows, record)
	}
	return out, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
