package goqnet

import "errors"

// Errors
var (
	ErrInvalidConfiguration = errors.New("invalid enumeration configuration")
	ErrInvalidGate          = errors.New("gate must have exactly two bits set")
	ErrResumeMismatch       = errors.New("resume record does not match the requested run")
	ErrCorruptRecord        = errors.New("corrupt network record")
	ErrBadNetworkExpr       = errors.New("bad network expression")
	ErrBadCatalogParam      = errors.New("bad catalog param")
	ErrCatalogReadOnly      = errors.New("catalog is read-only")
	ErrCatalogClosed        = errors.New("catalog is closed")
	ErrDepthNotFound        = errors.New("no record stored for depth")
	ErrUnmarshal            = errors.New("unmarshal failed")
	ErrUnknownFormat        = errors.New("unknown record file format")
)
