package emotibit

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"emotiplot/internal/logging"
	"emotiplot/internal/model"
)

// DefaultTimeColumn is the EmotiBit column holding host epoch seconds.
const DefaultTimeColumn = "LocalTimestamp"

// Options configures a Loader.
type Options struct {
	TimeColumn string
	Location   *time.Location
	Logger     *slog.Logger
}

// Loader reads channel exports for one session.
type Loader struct {
	timeColumn string
	loc        *time.Location
	logger     *slog.Logger
}

// NewLoader constructs a Loader. Blank options fall back to LocalTimestamp and UTC.
func NewLoader(opts Options) *Loader {
	column := strings.TrimSpace(opts.TimeColumn)
	if column == "" {
		column = DefaultTimeColumn
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Loader{
		timeColumn: column,
		loc:        loc,
		logger:     logging.NewComponentLogger(opts.Logger, "emotibit"),
	}
}

type sample struct {
	ts    time.Time
	value float64
}

// Load reads every export for code in folder and returns the merged series.
func (l *Loader) Load(ctx context.Context, folder, code string) (model.SignalSeries, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	logger := logging.WithContext(ctx, l.logger)

	files, err := Discover(folder, code)
	if err != nil {
		return model.SignalSeries{}, err
	}
	if len(files) == 0 {
		return model.SignalSeries{}, model.Wrap(model.ErrNoFiles, "emotibit", "load "+code, "no "+FilePattern(code)+" in "+folder, nil)
	}

	var samples []sample
	nonFinite := 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return model.SignalSeries{}, err
		}
		fileSamples, skipped, err := l.readFile(path)
		if err != nil {
			return model.SignalSeries{}, err
		}
		logger.Debug("signal file read",
			logging.String("file", filepath.Base(path)),
			logging.Int("rows", len(fileSamples)),
		)
		samples = append(samples, fileSamples...)
		nonFinite += skipped
	}
	if nonFinite > 0 {
		logging.WarnWithContext(logger, "non-finite values dropped", "non_finite_values",
			logging.Int("dropped", nonFinite),
			logging.String("files", describeFiles(files)),
			logging.String(logging.FieldImpact, "NaN and Inf samples left out of the plot"),
		)
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].ts.Before(samples[j].ts)
	})

	series := model.SignalSeries{
		ID:         code,
		Timestamps: make([]time.Time, 0, len(samples)),
		Values:     make([]float64, 0, len(samples)),
		Sources:    files,
	}
	dropped := 0
	for i, s := range samples {
		if i > 0 && s.ts.Equal(samples[i-1].ts) {
			dropped++
			continue
		}
		series.Timestamps = append(series.Timestamps, s.ts)
		series.Values = append(series.Values, s.value)
	}
	if dropped > 0 {
		logging.WarnWithContext(logger, "duplicate timestamps dropped", "duplicate_timestamps",
			logging.Int("dropped", dropped),
			logging.String("files", describeFiles(files)),
			logging.String(logging.FieldImpact, "first sample at each timestamp kept"),
		)
	}
	if series.Len() == 0 {
		return model.SignalSeries{}, model.Wrap(model.ErrEmptySeries, "emotibit", "load "+code, describeFiles(files)+" contain no usable samples", nil)
	}
	return series, nil
}

// readFile returns the finite samples of one export and how many NaN or Inf
// values it dropped.
func (l *Loader) readFile(path string) ([]sample, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, model.Wrap(model.ErrDataFormat, "emotibit", "open", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, model.Wrap(model.ErrDataFormat, "emotibit", "read header", name+": file is empty", nil)
		}
		return nil, 0, model.Wrap(model.ErrDataFormat, "emotibit", "read header", name, err)
	}
	if len(header) < 2 {
		return nil, 0, model.Wrap(model.ErrDataFormat, "emotibit", "read header", fmt.Sprintf("%s: expected at least 2 columns, found %d", name, len(header)), nil)
	}
	timeIdx := -1
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if strings.EqualFold(col, l.timeColumn) {
			timeIdx = i
			break
		}
	}
	if timeIdx < 0 {
		return nil, 0, model.Wrap(model.ErrDataFormat, "emotibit", "read header", fmt.Sprintf("%s: column %q not found", name, l.timeColumn), nil)
	}
	valueIdx := len(header) - 1

	var out []sample
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, model.Wrap(model.ErrDataFormat, "emotibit", "read row", name, err)
		}
		line, _ := reader.FieldPos(0)
		ts, err := parseEpochSeconds(record[timeIdx])
		if err != nil {
			return nil, 0, model.Wrap(model.ErrDataFormat, "emotibit", "parse time", fmt.Sprintf("%s line %d", name, line), err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[valueIdx]), 64)
		if err != nil {
			return nil, 0, model.Wrap(model.ErrDataFormat, "emotibit", "parse value", fmt.Sprintf("%s line %d", name, line), err)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			skipped++
			continue
		}
		out = append(out, sample{ts: ts.In(l.loc), value: value})
	}
	return out, skipped, nil
}

// parseEpochSeconds reads decimal epoch seconds without float rounding on the
// fractional part. Exponent forms fall back to float parsing.
func parseEpochSeconds(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if strings.ContainsAny(raw, "eE") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return time.Time{}, err
		}
		sec := int64(f)
		nsec := int64((f - float64(sec)) * 1e9)
		return time.Unix(sec, nsec), nil
	}
	whole, frac, _ := strings.Cut(raw, ".")
	negative := strings.HasPrefix(whole, "-")
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
	}
	var nsec int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		digits, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || digits < 0 {
			return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
		}
		for i := len(frac); i < 9; i++ {
			digits *= 10
		}
		nsec = digits
		if negative {
			nsec = -nsec
		}
	}
	return time.Unix(sec, nsec), nil
}
