// Package reading provides the sensor Reading Record model and its MongoDB
// store adapter for minetel.
//
// A Reading is the single entity this service serves: an immutable sensor
// sample with a store-assigned id, a free-form type label, a measurement
// value, and a timestamp. Readings are created either through the HTTP API
// or out of band directly into the collection, so the model must tolerate
// documents this service never wrote.
//
// # Key Types
//
//   - Reading: the canonical record (id, type, value, timestamp)
//   - Value: an explicit Numeric|Textual union. A measurement that cannot
//     be parsed as a number is still a valid reading, carried as text
//   - Timestamp: an instant accepted as a plain ISO-8601-like string, a
//     wrapped {"$date": "..."} document, or a native BSON datetime
//   - Repository: persistence interface with a MongoDB implementation
//
// # Usage
//
//	repo := reading.NewMongoRepository(coll)
//
//	readings, err := repo.List(ctx, reading.DefaultListLimit)
//	rec, err := repo.GetByID(ctx, "507f1f77bcf86cd799439011")
//
//	created, err := repo.Create(ctx, &reading.Reading{
//	    Type:      "temp",
//	    Value:     reading.NumericValue(28.5),
//	    Timestamp: reading.NewTimestamp(time.Now()),
//	})
//
// # Thread Safety
//
// Repository implementations are safe for concurrent use; the MongoDB
// driver's client maintains its own bounded connection pool.
package reading
