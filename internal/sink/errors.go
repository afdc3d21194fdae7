package sink

import "errors"

var (
	// ErrOpenSink is returned when a destination cannot be prepared.
	ErrOpenSink = errors.New("open sink")
	// ErrWriteSink is returned when a report cannot be delivered.
	ErrWriteSink = errors.New("write sink")
)
