package main

import (
	"io/fs"

	"github.com/go-faster/errors"

	planerrors "resource-planner/errors"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitIO         = 4
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}

// loadError classifies a snapshot loading failure: unreadable files are IO
// problems, anything else is bad data.
func loadError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return withCode(exitIO, err)
	}
	var parseErr *planerrors.ParseError
	var validationErr *planerrors.ValidationError
	if errors.As(err, &parseErr) || errors.As(err, &validationErr) {
		return withCode(exitValidation, err)
	}
	return withCode(exitValidation, errors.Wrap(err, "load snapshot"))
}
