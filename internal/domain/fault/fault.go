// Package fault classifies pipeline errors into a closed set of kinds so the
// job processor's retry decision is an explicit switch instead of broad
// exception matching.
package fault

import (
	"errors"
	"fmt"
)

// Kind identifies how an error must be handled by the pipeline.
type Kind int

const (
	// KindUnknown is the zero value for errors that carry no classification.
	// The processor treats it like a transient failure.
	KindUnknown Kind = iota
	// KindValidation marks undecodable or non-image input. Surfaced to the
	// caller, never retried, no job is created.
	KindValidation
	// KindNotFound marks a missing asset or source file during processing.
	// Retried, since it may reflect an as-yet-incomplete write.
	KindNotFound
	// KindTransient marks any other processing failure (encode, storage I/O).
	KindTransient
	// KindQueue marks a failure of the notification layer itself, not the job.
	KindQueue
	// KindDuplicate marks a uniqueness violation on insert. Internal only;
	// converted to an "already exists" response at the ingest boundary.
	KindDuplicate
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindTransient:
		return "transient"
	case KindQueue:
		return "queue"
	case KindDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Fault wraps an error with its handling kind.
type Fault struct {
	Knd Kind
	Err error
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return f.Knd.String()
	}
	return f.Err.Error()
}

func (f *Fault) Unwrap() error { return f.Err }

// New builds a classified error from a format string.
func New(kind Kind, format string, args ...any) error {
	return &Fault{Knd: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a kind to an existing error, preserving the chain.
// Wrapping nil returns nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Fault{Knd: kind, Err: err}
}

// KindOf reports the classification of err, walking the wrap chain.
// Unclassified errors report KindUnknown.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Knd
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
