package assignment

import "errors"

// Sentinel kinds for assignment rule errors.
var (
	ErrUnknownKind = errors.New("unknown assignment rule kind")
)
