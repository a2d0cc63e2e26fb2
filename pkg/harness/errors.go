package harness

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying why a scenario step failed. Every one of them
// is terminal for the enclosing test case: the scenario latches into the
// Failed phase and all subsequent steps become no-ops. Nothing is retried.
var (
	// ErrFixtureCreation indicates the external fixture creation API
	// rejected the request or the creation flow errored.
	ErrFixtureCreation = errors.New("fixture creation failed")

	// ErrNavigationTimeout indicates the page did not reach its load
	// state within the navigation timeout.
	ErrNavigationTimeout = errors.New("navigation timeout")

	// ErrElementNotFound indicates no element matched the locator within
	// the resolution timeout.
	ErrElementNotFound = errors.New("element not found")

	// ErrElementNotInteractable indicates the element was found but is
	// not actionable (hidden, disabled, or covered by another element).
	ErrElementNotInteractable = errors.New("element not interactable")

	// ErrAssertionFailed indicates an observed value did not satisfy the
	// assertion predicate.
	ErrAssertionFailed = errors.New("assertion failed")
)

// StepError carries the context of a failed scenario step: which step
// failed, the locator involved (if any), and for assertions the expected
// and actual values. It wraps one of the sentinel errors above so callers
// can classify failures with errors.Is.
type StepError struct {
	Step     string // step description, e.g. `click "Pause"`
	Locator  string // locator string, empty for non-element steps
	Expected string // assertion expectation, empty otherwise
	Actual   string // observed value, empty otherwise
	Err      error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("harness: step %s: %v", e.Step, e.Err)
	if e.Locator != "" {
		msg += fmt.Sprintf(" (locator %s)", e.Locator)
	}
	if e.Expected != "" || e.Actual != "" {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Actual)
	}
	return msg
}

func (e *StepError) Unwrap() error { return e.Err }
