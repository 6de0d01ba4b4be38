package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrStagingFailed    = errors.New("image staging failed")
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// ValidationError lists every rule the input broke, keyed by field name.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return ErrValidationFailed.Error() + ": " + strings.Join(names, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}
