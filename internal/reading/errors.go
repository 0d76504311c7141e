package reading

import "errors"

// Domain errors for the reading package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, reading.ErrReadingNotFound) {
//	    // handle not found case
//	}
var (
	// ErrReadingNotFound is returned when a reading id does not exist.
	// Malformed ids fold into this error deliberately: a string that cannot
	// become a store identifier cannot name a stored reading.
	ErrReadingNotFound = errors.New("reading: not found")

	// ErrInvalidReading is returned when a document or request body fails
	// record validation.
	ErrInvalidReading = errors.New("reading: invalid")

	// ErrInvalidTimestamp is returned when a timestamp value has an
	// unrecognised shape or format.
	ErrInvalidTimestamp = errors.New("reading: invalid timestamp")

	// ErrNoInsertID is returned when the store reports a successful insert
	// but assigned no identifier.
	ErrNoInsertID = errors.New("reading: store assigned no id")
)
