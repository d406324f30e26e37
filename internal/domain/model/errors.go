package model

import "errors"

// Sentinel error kinds for model operations.
var (
	ErrDivisionByZero = errors.New("division by zero")
)
