package reading

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultListLimit is the fixed result cap for list and filter queries.
// There is no pagination beyond this cap.
const DefaultListLimit = 1000

// Repository defines the interface for reading persistence operations.
// This abstraction allows for different implementations (MongoDB, fake, etc.)
// and enables handler testing without a live store.
type Repository interface {
	// List retrieves up to limit readings in store-default order.
	// A limit of zero or less applies DefaultListLimit.
	List(ctx context.Context, limit int64) ([]Reading, error)

	// Filter retrieves up to limit readings matching a single field/value
	// equality predicate. The raw value is coerced before matching: a float
	// if it contains a decimal point and parses as one, otherwise an integer
	// if it parses as one, otherwise the original string.
	Filter(ctx context.Context, field, rawValue string, limit int64) ([]Reading, error)

	// GetByID retrieves a reading by its identifier string.
	// Returns ErrReadingNotFound for unknown and malformed ids alike.
	GetByID(ctx context.Context, id string) (*Reading, error)

	// Create inserts a new reading, ignoring any client-supplied id, and
	// returns the stored record with its assigned id.
	// Returns ErrNoInsertID if the store assigned no identifier.
	Create(ctx context.Context, rec *Reading) (*Reading, error)
}

// MongoRepository implements Repository against a MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a MongoDB-backed repository.
// The coll parameter should come from a connected client.
func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// List retrieves up to limit readings in store-default order.
func (r *MongoRepository) List(ctx context.Context, limit int64) ([]Reading, error) {
	return r.find(ctx, bson.D{}, limit)
}

// Filter retrieves up to limit readings matching field == coerced value.
func (r *MongoRepository) Filter(ctx context.Context, field, rawValue string, limit int64) ([]Reading, error) {
	return r.find(ctx, bson.D{{Key: field, Value: coerceFilterValue(rawValue)}}, limit)
}

// GetByID retrieves a reading by its ObjectID hex string.
func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Reading, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A string that cannot become an ObjectID cannot name a stored
		// reading; fold the parse failure into not-found.
		return nil, ErrReadingNotFound
	}

	var doc bson.M
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReadingNotFound
		}
		return nil, fmt.Errorf("querying reading by id: %w", err)
	}

	rec, err := FromDocument(doc)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create inserts a new reading and returns it with the assigned id.
func (r *MongoRepository) Create(ctx context.Context, rec *Reading) (*Reading, error) {
	res, err := r.coll.InsertOne(ctx, buildInsertDocument(rec))
	if err != nil {
		return nil, fmt.Errorf("inserting reading: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, ErrNoInsertID
	}

	created := *rec
	created.ID = oid.Hex()
	created.Timestamp = storedTimestamp(rec.Timestamp)
	return &created, nil
}

// find runs a query and decodes every matching document.
// One malformed document fails the whole call; there is no partial-success
// mode in this contract.
func (r *MongoRepository) find(ctx context.Context, filter bson.D, limit int64) ([]Reading, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer cursor.Close(ctx)

	readings := make([]Reading, 0)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding reading document: %w", err)
		}

		rec, err := FromDocument(doc)
		if err != nil {
			return nil, err
		}
		readings = append(readings, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating readings: %w", err)
	}

	return readings, nil
}

// buildInsertDocument maps a record to its storage shape.
// The document never carries an id field (the store assigns one) and the
// timestamp is normalised to a native BSON datetime.
func buildInsertDocument(rec *Reading) bson.D {
	return bson.D{
		{Key: "type", Value: rec.Type},
		{Key: "value", Value: rec.Value.Native()},
		{Key: "timestamp", Value: primitive.NewDateTimeFromTime(rec.Timestamp.Time)},
	}
}

// storedTimestamp normalises a request timestamp to the millisecond
// precision the stored BSON datetime keeps, so a create response matches
// a subsequent read of the same record.
func storedTimestamp(ts Timestamp) Timestamp {
	return NewTimestamp(primitive.NewDateTimeFromTime(ts.Time).Time())
}

// coerceFilterValue converts a raw query string into the typed value used
// for the equality predicate: float if it contains a decimal point and
// parses as one, otherwise integer if it parses as one, otherwise the
// original string. An integer query value does not match a stored float
// unless the store itself treats them as equal.
func coerceFilterValue(raw string) any {
	if strings.Contains(raw, ".") {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return raw
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}
