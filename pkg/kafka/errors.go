package kafka

import "errors"

var (
	// ErrProducerClosed indicates the producer has been closed
	ErrProducerClosed = errors.New("kafka producer is closed")

	ErrEmptyKey = errors.New("message key cannot be empty")

	// ErrEmptyValue is also what a builder yields when its value failed to encode
	ErrEmptyValue = errors.New("message value cannot be empty")
)
