package datastream

import "errors"

var (
	ErrInvalidMagic       = errors.New("invalid bench file magic")
	ErrUnsupportedVersion = errors.New("unsupported bench file version")
	ErrUnknownOperation   = errors.New("unknown operation type")
	ErrInvalidParams      = errors.New("invalid generator parameters")
)
