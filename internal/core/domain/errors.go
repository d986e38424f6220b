package domain

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrItemNotFound    = errors.New("item not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrOutOfStock      = errors.New("out of stock")

	// ErrItemUnavailable is the only purchase failure visible to callers.
	// It covers both a missing item and a sold-out one so probing clients
	// cannot tell catalog size from stock state.
	ErrItemUnavailable = errors.New("item unavailable")
)
