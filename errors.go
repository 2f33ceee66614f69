package ggfx

import "errors"

// Errors reported by Activate, Reconfigure and the backends.
//
// None of them are ever raised as panics: activation failures are logged once
// and returned, per-frame failures are logged and exposed through
// [Instance.Err].
var (
	// ErrZeroSize is returned when the container has no usable size.
	ErrZeroSize = errors.New("ggfx: container has zero size")

	// ErrNoContext is returned when no drawing surface could be created for
	// the container (no backend, backend failure, mount failure).
	ErrNoContext = errors.New("ggfx: drawing context unavailable")

	// ErrUnsupported is returned when the selected backend lacks a feature
	// the effect program requires.
	ErrUnsupported = errors.New("ggfx: feature not supported by backend")

	// ErrInvalidEffect is returned for a nil effect or one that fails to
	// compile into a program.
	ErrInvalidEffect = errors.New("ggfx: invalid effect")

	// ErrClosed is returned by operations on a deactivated instance.
	ErrClosed = errors.New("ggfx: instance is closed")
)
