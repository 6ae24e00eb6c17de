package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks input that fails a precondition check.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration discovered at run time.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks absent inputs: no images, no mapping, no deletion list.
	ErrNotFound = errors.New("not found")
	// ErrIO marks filesystem failures on individual items.
	ErrIO = errors.New("io error")
	// ErrTransient marks failures worth retrying on a later run.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error that includes stage context while tagging it with the
// provided marker for later classification. The marker should be one of the
// exported sentinel errors above; nil falls back to ErrTransient.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
