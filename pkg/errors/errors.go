package errors

import (
	"errors"
	"fmt"
)

var (
	ErrConfigNotFound = errors.New("config not found")
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrConfigSyntax   = errors.New("config syntax error")
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrNoLogTarget    = errors.New("no log target configured")
	ErrTransport      = errors.New("remote fetch failed")
	ErrWriteFailed    = errors.New("incident write failed")
)

func NewConfigNotFoundError(path string) error {
	return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
}

func NewConfigError(field string, value interface{}) error {
	return fmt.Errorf("%w: field=%s value=%v", ErrConfigInvalid, field, value)
}

func NewSyntaxError(path string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrConfigSyntax, path, reason)
}

func NewPatternError(index int, name string, reason error) error {
	return fmt.Errorf("%w: patterns[%d] (%s): %v", ErrInvalidPattern, index, name, reason)
}

func NewWriteError(path string, reason error) error {
	return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, reason)
}
