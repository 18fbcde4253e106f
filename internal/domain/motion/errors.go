package motion

import "errors"

// Sentinel kinds for motion profile errors.
var (
	ErrInvalidProfile = errors.New("invalid motion profile")
	ErrInvalidOption  = errors.New("invalid motion option")
)
