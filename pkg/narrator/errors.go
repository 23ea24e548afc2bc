package narrator

import "errors"

var (
	// ErrTimeout indicates the completion request exceeded the configured timeout.
	ErrTimeout = errors.New("completion request timed out")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("completion retry attempts exhausted")

	// ErrEmptyCompletion indicates the service answered without any text.
	ErrEmptyCompletion = errors.New("empty completion")
)
