package ir

import "errors"

var (
	// ErrUndefined is returned when a path does not resolve to a node.
	ErrUndefined = errors.New("undefined")
	// ErrTypeMismatch is returned when a node exists but has the wrong type.
	ErrTypeMismatch = errors.New("type mismatch")
	ErrBadPath      = errors.New("bad path")
)
