package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrLookupMiss is returned when a program or module combination is absent from the rules.
var ErrLookupMiss = errors.New("lookup miss")

// ErrInvalidAnswerFormat is returned when an answer cannot be parsed into the expected type.
var ErrInvalidAnswerFormat = errors.New("invalid answer format")

// ErrNarrationFailed is returned when the remote text generation for a decision fails.
var ErrNarrationFailed = errors.New("narration failed")
