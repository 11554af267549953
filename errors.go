// errors.go defines public error types for the delayest package.

package delayest

import "errors"

// Public error types for estimator construction.
var (
	// ErrInvalidMaxDelay indicates a negative maximum delay.
	ErrInvalidMaxDelay = errors.New("delayest: invalid max delay (must be >= 0)")

	// ErrInvalidLookahead indicates a negative lookahead.
	ErrInvalidLookahead = errors.New("delayest: invalid lookahead (must be >= 0)")

	// ErrHistoryTooShort indicates that maxDelay+lookahead leaves fewer than
	// two delay candidates, which the history shifting requires.
	ErrHistoryTooShort = errors.New("delayest: max delay + lookahead must be > 1")
)
