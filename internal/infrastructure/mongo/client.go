package mongo

import (
	"context"
	"fmt"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/oredata/minetel/internal/infrastructure/config"
)

// Client wraps the MongoDB driver client with minetel-specific functionality.
//
// It provides connection lifecycle management, a liveness check, and access
// to the configured readings collection. The underlying driver maintains a
// bounded connection pool reused across requests; no request-level locking
// is needed.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client *mongodriver.Client
	cfg    config.MongoConfig
}

// Connect establishes a connection to the MongoDB server.
//
// It performs the following setup:
//  1. Applies the connection URI, pool bound, and connect/socket timeouts
//  2. Connects the driver client
//  3. Verifies connectivity with a ping against the primary
//
// A failed ping closes the client and fails fast, so the service never
// starts against an unreachable store.
//
// Parameters:
//   - ctx: Context for connection establishment
//   - cfg: Mongo configuration from config.yaml
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: Wrapped ErrConnectionFailed if connection or ping fails
func Connect(ctx context.Context, cfg config.MongoConfig) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.GetConnectTimeout()).
		SetSocketTimeout(cfg.GetSocketTimeout()).
		SetMaxPoolSize(cfg.MaxPoolSize)

	client, err := mongodriver.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.GetConnectTimeout())
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		// Best-effort teardown; the ping failure is the error that matters.
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: ping: %w", ErrConnectionFailed, err)
	}

	return &Client{client: client, cfg: cfg}, nil
}

// Collection returns a handle to the configured readings collection.
func (c *Client) Collection() *mongodriver.Collection {
	return c.client.Database(c.cfg.Database).Collection(c.cfg.Collection)
}

// HealthCheck verifies the store is still reachable.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, wrapped ErrPingFailed otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %w", ErrPingFailed, err)
	}
	return nil
}

// Close disconnects the client and releases pooled connections.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting mongo client: %w", err)
	}
	return nil
}
