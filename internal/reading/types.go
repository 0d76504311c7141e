package reading

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reading is the canonical sensor reading record.
//
// Every record has exactly these four fields. The id is assigned by the
// store on creation and never mutated; records themselves are immutable.
// No update or delete operation exists in this contract.
type Reading struct {
	// ID is the store-assigned identifier (ObjectID hex). Never supplied by
	// clients on create; if present in a create request it is ignored.
	ID string `json:"id"`

	// Type is a free-form category label, e.g. "temp". No enumeration is
	// enforced.
	Type string `json:"type"`

	// Value is the measurement, numeric when representable and textual
	// otherwise.
	Value Value `json:"value"`

	// Timestamp is the instant the reading was taken.
	Timestamp Timestamp `json:"timestamp"`
}

// FromDocument maps a raw stored document to a Reading.
//
// Extra fields beyond the four required ones are tolerated and ignored,
// since readings ingested out of band may carry anything. A document missing its
// id, type, or timestamp fails with a wrapped ErrInvalidReading; a missing
// value coerces to the empty textual variant.
func FromDocument(doc bson.M) (Reading, error) {
	id, err := documentID(doc)
	if err != nil {
		return Reading{}, err
	}

	rawType, ok := doc["type"]
	if !ok || rawType == nil {
		return Reading{}, fmt.Errorf("%w: document %s has no type", ErrInvalidReading, id)
	}

	timestamp, err := TimestampFromRaw(doc["timestamp"])
	if err != nil {
		return Reading{}, fmt.Errorf("document %s: %w", id, err)
	}

	return Reading{
		ID:        id,
		Type:      fmt.Sprint(rawType),
		Value:     ValueFromRaw(doc["value"]),
		Timestamp: timestamp,
	}, nil
}

// documentID extracts the document identifier as a string.
func documentID(doc bson.M) (string, error) {
	raw, ok := doc["_id"]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: document has no _id", ErrInvalidReading)
	}

	switch id := raw.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case string:
		return id, nil
	default:
		// Tolerate out-of-band documents with exotic ids by taking their
		// printed form, the same way the id is only ever read as a string.
		return fmt.Sprint(id), nil
	}
}
