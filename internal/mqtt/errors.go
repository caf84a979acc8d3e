package mqtt

import "errors"

// Sentinel errors for transport operations. Use errors.Is to check.
var (
	// ErrNotConnected is returned when publishing without a connection.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrPublishTimeout is returned when the broker does not acknowledge in time.
	ErrPublishTimeout = errors.New("mqtt: publish timeout")

	// ErrInvalidTopic is returned for an empty topic.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")
)
