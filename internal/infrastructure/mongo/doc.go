// Package mongo manages the MongoDB connection for minetel.
//
// It wraps the official driver with the same lifecycle pattern as the other
// infrastructure components:
//
//	client, err := mongo.Connect(ctx, cfg.Mongo)
//	defer client.Close(ctx)
//
//	coll := client.Collection()
//
// Connectivity is verified with a ping at connect time so the process fails
// fast when the store is unreachable. After startup the driver's pooled
// connections handle reconnection internally; request-time store failures
// surface as errors from the repository, never as retries.
package mongo
