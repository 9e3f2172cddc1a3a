package quizforge

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures so callers can react differently to
// a truncated response (ask for more output budget) than to text that was
// never JSON in the first place.
type ErrorKind string

const (
	ErrEmptyInput     ErrorKind = "empty_input"
	ErrParseMalformed ErrorKind = "parse_malformed"
	ErrParseTruncated ErrorKind = "parse_truncated"
	ErrPlanEmpty      ErrorKind = "plan_empty"
	ErrSchemaMismatch ErrorKind = "schema_mismatch"
	ErrNoNewQuestions ErrorKind = "no_new_questions"
)

// PipelineError is the single terminal error type the pipeline propagates to
// the invoking collaborator.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a PipelineError of the given kind anywhere in
// its chain.
func IsKind(err error, kind ErrorKind) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}
