package mongo

import "errors"

// Sentinel errors for MongoDB connection management.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, mongo.ErrConnectionFailed) {
//	    // Handle unreachable store
//	}
var (
	// ErrConnectionFailed indicates the initial connection or liveness check failed.
	ErrConnectionFailed = errors.New("mongo: connection failed")

	// ErrPingFailed indicates a health check ping failed on an established client.
	ErrPingFailed = errors.New("mongo: ping failed")
)
