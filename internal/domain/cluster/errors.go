package cluster

import "errors"

// Sentinel error kinds for cluster construction.
var (
	ErrInvalidSample = errors.New("invalid gaussian sample")
)
