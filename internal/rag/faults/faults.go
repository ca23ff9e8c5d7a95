package faults

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the presentation layer can decide how to
// render it instead of receiving pre-stringified errors.
type Kind string

const (
	Unknown            Kind = "UNKNOWN"
	EmptyDocument      Kind = "EMPTY_DOCUMENT"
	UnreadableDocument Kind = "UNREADABLE_DOCUMENT"
	IndexBuildFailure  Kind = "INDEX_BUILD_FAILURE"
	SearchFailure      Kind = "SEARCH_FAILURE"
	SynthesisFailure   Kind = "SYNTHESIS_FAILURE"
	MissingCredential  Kind = "MISSING_CREDENTIAL"
	NoIndex            Kind = "NO_INDEX"
)

type Fault struct {
	Kind Kind
	Op   string
	Err  error
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %s", f.Op, f.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", f.Op, f.Kind, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

func New(kind Kind, op string, err error) error {
	return &Fault{Kind: kind, Op: op, Err: err}
}

// KindOf reports the classification of err, Unknown if it carries none.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return Unknown
}
