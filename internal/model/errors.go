package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDataFormat  = errors.New("data format error")
	ErrEmptySeries = errors.New("empty series")
	ErrIO          = errors.New("io error")
)

// ErrNoFiles marks a channel without any matching source file. It also
// matches ErrDataFormat.
var ErrNoFiles = fmt.Errorf("%w: no matching files", ErrDataFormat)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker. The marker should be one of the exported
// sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrDataFormat
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a run error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrDataFormat):
		return 2
	case errors.Is(err, ErrEmptySeries):
		return 3
	case errors.Is(err, ErrIO):
		return 4
	default:
		return 1
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "failure"
	}
	return strings.Join(parts, ": ")
}
