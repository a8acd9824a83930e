package download

import (
	"errors"
	"fmt"
)

// ErrorKind classifies fetch failures
type ErrorKind int

const (
	// KindExtraction means the engine could not retrieve metadata or media
	KindExtraction ErrorKind = iota + 1

	// KindNotes means metadata was retrieved but the notes could not be written
	KindNotes
)

// Sentinels matched by errors.Is against *Error
var (
	ErrExtraction = errors.New("extraction failed")
	ErrNotes      = errors.New("notes write failed")
)

func (k ErrorKind) String() string {
	switch k {
	case KindExtraction:
		return "extraction"
	case KindNotes:
		return "notes"
	default:
		return "unknown"
	}
}

// Error is returned by Fetch. Callers recover from it and continue.
type Error struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Kind, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error kind
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindExtraction:
		return target == ErrExtraction
	case KindNotes:
		return target == ErrNotes
	}
	return false
}
