package statemachine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoMatchingTransition = errors.New("no matching transition")
	ErrGuardFailed          = errors.New("transition rejected by guards")
	ErrActionFailed         = errors.New("transition action failed")
	ErrListenerPanic        = errors.New("listener panicked")
)

// RejectionError indicates that an event is not valid from the given state.
// It unwraps to ErrNoMatchingTransition or ErrGuardFailed depending on Reason.
type RejectionError struct {
	State  string
	Event  string
	Reason Reason
}

func (e *RejectionError) Error() string {
	if e.Reason == ReasonGuardFailed {
		return fmt.Sprintf("transition from state '%s' for event '%s' was rejected by guards", e.State, e.Event)
	}
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.State, e.Event)
}

func (e *RejectionError) Unwrap() error {
	if e.Reason == ReasonGuardFailed {
		return ErrGuardFailed
	}
	return ErrNoMatchingTransition
}

// IsRejected reports whether err carries a *RejectionError of either kind.
func IsRejected(err error) bool {
	var e *RejectionError
	return errors.As(err, &e)
}

func IsNoMatchingTransition(err error) bool {
	return errors.Is(err, ErrNoMatchingTransition)
}

func IsGuardFailed(err error) bool {
	return errors.Is(err, ErrGuardFailed)
}

// Definition issue codes.
const (
	CodeMissingInitial       = "MISSING_INITIAL"
	CodeDuplicateInitial     = "DUPLICATE_INITIAL"
	CodeUndeclaredSource     = "UNDECLARED_SOURCE"
	CodeUndeclaredTarget     = "UNDECLARED_TARGET"
	CodeUndeclaredEvent      = "UNDECLARED_EVENT"
	CodeAmbiguousTransition  = "AMBIGUOUS_TRANSITION"
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
)

// DefinitionIssue is a single problem found while building a Definition.
type DefinitionIssue struct {
	Code    string
	Message string
}

func (i DefinitionIssue) String() string {
	return fmt.Sprintf("[%s] %s", i.Code, i.Message)
}

// DefinitionError collects every issue found in a malformed definition.
type DefinitionError struct {
	Issues []DefinitionIssue
}

func (e *DefinitionError) Error() string {
	switch len(e.Issues) {
	case 0:
		return "invalid state machine definition"
	case 1:
		return "invalid state machine definition: " + e.Issues[0].String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "invalid state machine definition, %d issues:", len(e.Issues))
	for i, issue := range e.Issues {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, issue)
	}
	return b.String()
}

func (e *DefinitionError) add(code, format string, args ...any) {
	e.Issues = append(e.Issues, DefinitionIssue{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether an issue with the given code was recorded.
func (e *DefinitionError) Has(code string) bool {
	for _, issue := range e.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func IsDefinitionError(err error) bool {
	var e *DefinitionError
	return errors.As(err, &e)
}

func nameOf(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
