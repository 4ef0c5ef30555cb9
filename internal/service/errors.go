package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/repository"
)

// ErrEmptySession is returned when completing a day with no open entries.
// The session is left untouched.
var ErrEmptySession = errors.New("no entries in the session to complete")

// RecordExistsError is returned when completing a day that already has a
// history record without asking to merge. Nothing was changed.
type RecordExistsError struct {
	Date string
}

func (e *RecordExistsError) Error() string {
	return fmt.Sprintf("history for %s already exists", e.Date)
}

// NotFoundError reports a missing session entry, history record or history
// entry. Nothing was changed.
type NotFoundError struct {
	What string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.What, e.Key)
}

// Is lets callers match on repository.ErrNotFound as well.
func (e *NotFoundError) Is(target error) bool {
	return target == repository.ErrNotFound
}

// StorageError wraps a failed read or write. The operation was rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: storage failure: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ExportError reports a report that could not be rendered or saved, even at
// the fallback location.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("exporting report: %v", e.Err)
	}
	return fmt.Sprintf("exporting report to %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// classify passes the taxonomy errors through unchanged and wraps anything
// else from the store as a StorageError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *domain.ValidationError
	var nf *NotFoundError
	var se *StorageError
	var re *RecordExistsError
	switch {
	case errors.As(err, &ve), errors.As(err, &nf), errors.As(err, &se), errors.As(err, &re):
		return err
	case errors.Is(err, ErrEmptySession),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// notFound maps a repository miss to a NotFoundError; other errors pass through.
func notFound(err error, what, key string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{What: what, Key: key}
	}
	return err
}
