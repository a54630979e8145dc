package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn indicates an input table lacks a column the analysis needs.
	ErrMissingColumn = errors.New("missing required column")

	// ErrInvalidInput indicates invalid input parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotEnoughData indicates a series is too short for the requested computation.
	ErrNotEnoughData = errors.New("not enough data")

	// ErrEmptyDataset indicates an input produced no usable rows.
	ErrEmptyDataset = errors.New("empty dataset")
)

// Is checks if err is or wraps target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Wrap wraps an error with context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
