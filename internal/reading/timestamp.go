package reading

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// wrappedDateKey is the reserved key under which document stores wrap a
// date as a container object: {"$date": "2025-04-01T17:14:10.897Z"}.
const wrappedDateKey = "$date"

// rfc3339Milli is the serialisation layout for timestamps:
// RFC3339 in UTC with millisecond precision, e.g. "2025-04-01T17:14:10.897Z".
const rfc3339Milli = "2006-01-02T15:04:05.000Z07:00"

// timestampLayouts are the accepted string layouts, tried in order.
// The fraction digits are optional in every layout; zone-less strings are
// taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is the instant a reading was taken.
//
// It accepts two input shapes, a plain ISO-8601-like string (trailing Z
// included) and the wrapped {"$date": ...} document-store form, and both
// normalise to the same UTC instant.
type Timestamp struct {
	time.Time
}

// NewTimestamp returns a Timestamp for the given instant, normalised to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC()}
}

// ParseTimestamp parses an ISO-8601-like date-time string.
//
// Accepted forms include "2025-04-01T17:14:10.897Z",
// "2025-04-01T17:14:10+02:00", and zone-less "2025-04-01T17:14:10"
// (taken as UTC). Fractional seconds are optional.
//
// Returns ErrInvalidTimestamp (wrapped) for anything else.
func ParseTimestamp(raw string) (Timestamp, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Timestamp{}, fmt.Errorf("%w: empty string", ErrInvalidTimestamp)
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return NewTimestamp(parsed), nil
		}
	}

	return Timestamp{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
}

// TimestampFromRaw coerces a raw stored or decoded timestamp value.
//
// Accepted shapes:
//   - time.Time / primitive.DateTime (native driver decodings)
//   - string (parsed with ParseTimestamp)
//   - a map holding the reserved "$date" key (unwrapped and re-coerced)
//
// Any other shape is a validation error.
func TimestampFromRaw(raw any) (Timestamp, error) {
	switch value := raw.(type) {
	case time.Time:
		return NewTimestamp(value), nil
	case primitive.DateTime:
		return NewTimestamp(value.Time()), nil
	case string:
		return ParseTimestamp(value)
	case bson.M:
		return unwrapDate(value)
	case map[string]any:
		return unwrapDate(value)
	case nil:
		return Timestamp{}, fmt.Errorf("%w: missing", ErrInvalidTimestamp)
	default:
		return Timestamp{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidTimestamp, raw)
	}
}

// unwrapDate extracts the inner value of a wrapped-date document.
func unwrapDate(doc map[string]any) (Timestamp, error) {
	inner, ok := doc[wrappedDateKey]
	if !ok {
		return Timestamp{}, fmt.Errorf("%w: object without %q key", ErrInvalidTimestamp, wrappedDateKey)
	}

	// The inner value is itself a string or native datetime, never another
	// wrapper.
	switch inner.(type) {
	case bson.M, map[string]any:
		return Timestamp{}, fmt.Errorf("%w: nested %q wrapper", ErrInvalidTimestamp, wrappedDateKey)
	}

	return TimestampFromRaw(inner)
}

// MarshalJSON emits the instant as an RFC3339 UTC string with millisecond
// precision.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(rfc3339Milli))
}

// UnmarshalJSON accepts a JSON string or a wrapped-date object.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTimestamp, err)
	}

	parsed, err := TimestampFromRaw(raw)
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}
