package model_test

import (
	"errors"
	"strings"
	"testing"

	"emotiplot/internal/model"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := model.Wrap(model.ErrIO, "render", "write", "AX.png", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, model.ErrIO) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"render", "write", "AX.png"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestNoFilesMatchesDataFormat(t *testing.T) {
	err := model.Wrap(model.ErrNoFiles, "emotibit", "discover", "AX", nil)
	if !errors.Is(err, model.ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
	if !errors.Is(err, model.ErrDataFormat) {
		t.Fatalf("expected ErrDataFormat, got %v", err)
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{model.Wrap(model.ErrDataFormat, "schedule", "parse", "bad time", nil), 2},
		{model.Wrap(model.ErrEmptySeries, "emotibit", "load", "AX", nil), 3},
		{model.Wrap(model.ErrIO, "render", "write", "", errors.New("denied")), 4},
		{errors.New("other"), 1},
	}
	for _, tc := range cases {
		if got := model.ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestCaptionJoinsNonEmptyParts(t *testing.T) {
	entry := model.ScheduleEntry{Label: "Moon River", Score: "4", Observation: "smiling"}
	if got := entry.Caption(); got != "Moon River | (Score: 4) | smiling" {
		t.Fatalf("unexpected caption %q", got)
	}
	if got := (model.ScheduleEntry{Observation: "Music end"}).Caption(); got != "Music end" {
		t.Fatalf("unexpected caption %q", got)
	}
}
