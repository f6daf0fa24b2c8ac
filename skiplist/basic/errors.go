package basic

import "errors"

var (
	ErrInvalidMaxLevel = errors.New("invalid max level")
	ErrNilGenerator    = errors.New("nil level generator")
)
