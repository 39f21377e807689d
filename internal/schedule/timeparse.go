package schedule

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	errEmptyTime = errors.New("empty time value")
	errNoDate    = errors.New("time of day needs a session date")
)

// fullLayouts are timestamps that carry their own date. RFC 3339 values keep
// their offset; the rest are read in the session location.
var fullLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2})(?:\.\d+)?)?\s*([aApP])?\.?\s*(?:[mM]\.?)?$`)

type timeParser struct {
	loc  *time.Location
	date time.Time
	pm   bool
}

func (p timeParser) parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errEmptyTime
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.In(p.loc), nil
	}
	for _, layout := range fullLayouts {
		if ts, err := time.ParseInLocation(layout, raw, p.loc); err == nil {
			return ts, nil
		}
	}
	if m := clockPattern.FindStringSubmatch(raw); m != nil {
		return p.clock(m)
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return p.serial(serial)
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", raw)
}

func (p timeParser) clock(m []string) (time.Time, error) {
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("time %q out of range", m[0])
	}
	switch strings.ToLower(m[4]) {
	case "a":
		if hour == 12 {
			hour = 0
		}
	case "p":
		if hour < 12 {
			hour += 12
		}
	default:
		if p.pm && hour >= 1 && hour <= 11 {
			hour += 12
		}
	}
	return p.onSessionDate(hour, minute, second)
}

// serial reads an Excel date number. Values below one are a fraction of a day
// and need the session date.
func (p timeParser) serial(value float64) (time.Time, error) {
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return time.Time{}, fmt.Errorf("invalid excel serial %v", value)
	}
	if value < 1 {
		secs := int(math.Round(value * 86400))
		if secs >= 86400 {
			secs = 86399
		}
		return p.onSessionDate(secs/3600, secs%3600/60, secs%60)
	}
	wall, err := excelize.ExcelDateToTime(value, false)
	if err != nil {
		return time.Time{}, err
	}
	wall = wall.Round(time.Second)
	return time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, p.loc), nil
}

func (p timeParser) onSessionDate(hour, minute, second int) (time.Time, error) {
	if p.date.IsZero() {
		return time.Time{}, errNoDate
	}
	y, mo, d := p.date.Date()
	return time.Date(y, mo, d, hour, minute, second, 0, p.loc), nil
}
