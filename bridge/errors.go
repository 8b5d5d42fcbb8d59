package bridge

import "errors"

// Bridge errors, returned by the connection's public operations.
// None of these are logged internally; callers decide recoverability
// the way the spec's error-propagation table requires.
var (
	// ErrInvalidTransition is returned when an internal state
	// transition is attempted outside the declared DAG.
	ErrInvalidTransition = errors.New("bridge: invalid state transition")

	// ErrBackpressureExceeded is returned by Queue.Push when a
	// direction's bounded queue is full.
	ErrBackpressureExceeded = errors.New("bridge: backpressure queue exceeded")

	// ErrStalled is the disconnect reason recorded when a direction
	// makes no progress for longer than the configured stall
	// deadline.
	ErrStalled = errors.New("bridge: connection stalled past deadline")

	// ErrClosed is returned by Queue.Pop once the queue has been
	// closed and every frame queued before the close delivered.
	ErrClosed = errors.New("bridge: connection closed")
)
