package partition

import "errors"

// Sentinel kinds for partition errors.
var (
	ErrInsufficientPlayers = errors.New("insufficient players")
	ErrInvalidGroupSize    = errors.New("invalid group size")
)
