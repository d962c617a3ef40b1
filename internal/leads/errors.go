package leads

import "errors"

var (
	// ErrInvalidSubject is returned when the subject is blank
	ErrInvalidSubject = errors.New("subject is required")

	// ErrInvalidStatus is returned for a status outside the ticket workflow
	ErrInvalidStatus = errors.New("unknown status")

	// ErrInvalidPriority is returned for an unknown priority
	ErrInvalidPriority = errors.New("unknown priority")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	// ErrSinkRejected is returned when the remote portal refuses a lead
	ErrSinkRejected = errors.New("lead rejected by portal")
)
