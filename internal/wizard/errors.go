package wizard

import "errors"

var (
	// ErrMissingRoot is returned when the wizard is opened without a category
	ErrMissingRoot = errors.New("wizard: root category required")

	// ErrClosed is returned for operations on a closed wizard
	ErrClosed = errors.New("wizard: closed")

	// ErrWrongStep is returned when an operation does not apply to the current step
	ErrWrongStep = errors.New("wizard: operation not allowed in current step")

	// ErrNoDate is returned when leaving the date step without a selected day
	ErrNoDate = errors.New("wizard: no date selected")

	// ErrSubmitInFlight is returned for a second submit, an edit or navigation
	// while a submission is pending
	ErrSubmitInFlight = errors.New("wizard: submission already in progress")

	// ErrSessionNotFound is returned for unknown or expired sessions
	ErrSessionNotFound = errors.New("wizard: session not found")
)

// ErrSubmitFailed wraps a sink failure; the session stays on the form step
var ErrSubmitFailed = errors.New("wizard: submission failed")
