package types

import "errors"

// Request errors shared by the service and its transports. Callers match
// them with errors.Is.
var (
	ErrInvalidRequest      = errors.New("invalid balance request")
	ErrDuplicateName       = errors.New("duplicate participant name")
	ErrTooManyParticipants = errors.New("too many participants")
)
