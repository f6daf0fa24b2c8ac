package bench

import "errors"

var (
	ErrUnknownImpl = errors.New("unknown implementation")
	ErrMismatch    = errors.New("set contents differ from workload")
)
