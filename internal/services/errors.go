package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFingerprint marks fingerprinting failures. These are fatal for a
	// single-file run: without a fingerprint there is no identification basis.
	ErrFingerprint = errors.New("fingerprint error")
	// ErrExternalService marks secondary lookup failures (MusicBrainz, vault).
	// The pipeline recovers from these by leaving the evidence section empty.
	ErrExternalService = errors.New("external service error")
	ErrConfiguration   = errors.New("configuration error")
	ErrNotFound        = errors.New("not found")
	ErrUnavailable     = errors.New("unavailable")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalService
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether err should abort the identification run rather than
// degrade it to an empty evidence section.
func Fatal(err error) bool {
	return errors.Is(err, ErrFingerprint)
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
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
